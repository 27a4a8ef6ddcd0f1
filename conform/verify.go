package conform

import (
	"testing"

	"github.com/lattice-substrate/charset-conform/charset"
)

// VerifyDecode runs the full decode grid for one case and reports each
// violation as a test error.
func VerifyDecode(t testing.TB, cs charset.Charset, tc Case) {
	t.Helper()
	for _, v := range CheckDecode(cs, tc) {
		t.Errorf("%s: %s", cs.Name(), v)
	}
}

// VerifyEncode runs the full encode grid for one case and reports each
// violation as a test error.
func VerifyEncode(t testing.TB, cs charset.Charset, tc Case) {
	t.Helper()
	for _, v := range CheckEncode(cs, tc) {
		t.Errorf("%s: %s", cs.Name(), v)
	}
}
