package charset_test

import (
	"testing"

	"github.com/lattice-substrate/charset-conform/charset"
)

func TestLookupCanonicalNames(t *testing.T) {
	for _, name := range charset.Names() {
		cs, err := charset.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if cs.Name() != name {
			t.Fatalf("Lookup(%q).Name() = %q", name, cs.Name())
		}
	}
}

func TestLookupAliases(t *testing.T) {
	cases := []struct {
		alias string
		want  string
	}{
		{"ASCII", "us-ascii"},
		{"ansi_x3.4-1968", "us-ascii"},
		{"ISO-IR-6", "us-ascii"},
		{"cp367", "us-ascii"},
		{"UTF8", "utf-8"},
		{"latin1", "iso-8859-1"},
		{"csisolatin1", "iso-8859-1"},
		{"CP1252", "windows-1252"},
		{"koi8r", "koi8-r"},
		{" utf-8 ", "utf-8"},
	}
	for _, tc := range cases {
		cs, err := charset.Lookup(tc.alias)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tc.alias, err)
		}
		if cs.Name() != tc.want {
			t.Errorf("Lookup(%q).Name() = %q, want %q", tc.alias, cs.Name(), tc.want)
		}
	}
}

func TestLookupIANAFallback(t *testing.T) {
	// Not in the builtin table; resolvable through the IANA index as a
	// single-byte charmap.
	cs, err := charset.Lookup("IBM866")
	if err != nil {
		t.Fatalf("Lookup(IBM866): %v", err)
	}
	r, size, err := cs.DecodeRune([]byte{0x80}) // CYRILLIC CAPITAL LETTER A
	if err != nil || r != 'А' || size != 1 {
		t.Fatalf("ibm866 DecodeRune(0x80) = (%U, %d, %v)", r, size, err)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := charset.Lookup("no-such-charset"); err == nil {
		t.Fatal("expected error for unknown charset")
	}
}

func TestAliasRoster(t *testing.T) {
	got := charset.Aliases("US-ASCII")
	if len(got) < 8 {
		t.Fatalf("us-ascii alias roster too small: %v", got)
	}
	seen := map[string]bool{}
	for _, a := range got {
		if seen[a] {
			t.Fatalf("duplicate alias %q", a)
		}
		seen[a] = true
	}
	for _, must := range []string{"ascii", "iso-ir-6", "ansi_x3.4-1968", "csascii"} {
		if !seen[must] {
			t.Fatalf("alias roster missing %q: %v", must, got)
		}
	}
}
