package conform

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/lattice-substrate/charset-conform/cserr"
)

// Outcome is the result of one codec run: either a produced sequence or a
// typed failure. A failed outcome may carry the partial output produced
// before the failure; it is kept for diagnostics only and never compared.
type Outcome struct {
	Output []byte
	Err    *cserr.Error
}

// Failed reports whether the run ended in a typed failure.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Equal implements outcome equivalence: two successes with identical
// sequences, or two failures with the same kind and input length. Any other
// shape pairing is unequal.
func (o Outcome) Equal(other Outcome) bool {
	if o.Failed() != other.Failed() {
		return false
	}
	if o.Failed() {
		return o.Err.Kind == other.Err.Kind && o.Err.InputLength == other.Err.InputLength
	}
	return bytes.Equal(o.Output, other.Output)
}

// String dumps the outcome for mismatch diagnostics, showing output bytes
// both as hex and, when it is valid UTF-8, as text.
func (o Outcome) String() string {
	var text string
	if utf8.Valid(o.Output) {
		text = fmt.Sprintf(" (%q)", o.Output)
	}
	if o.Failed() {
		return fmt.Sprintf("failure{%s, %d} after output [% x]%s",
			o.Err.Kind, o.Err.InputLength, o.Output, text)
	}
	return fmt.Sprintf("success [% x]%s", o.Output, text)
}
