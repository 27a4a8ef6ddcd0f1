// Package conform verifies that a charset codec behaves identically in
// single-shot and incremental operation, under every error-action pair and
// buffer handling mode, and that both agree with a declarative expectation.
//
// A Case pairs an input buffer with an ordered list of expected-output
// parts. Literal parts are verbatim output fragments; Malformed and
// Unmappable parts mark points where the input is defective for a declared
// number of source units. Folding the parts under an error-action pair
// yields the one outcome a conforming codec must produce: the failing parts
// contribute nothing under IGNORE, the codec's replacement sequence under
// REPLACE, and a typed failure under REPORT, in which case the first failing
// part wins and everything after it is never evaluated.
package conform

import (
	"fmt"

	"github.com/lattice-substrate/charset-conform/cserr"
)

type partKind int

const (
	partLiteral partKind = iota
	partMalformed
	partUnmappable
)

// Part is one element of a case's expected output.
type Part struct {
	kind partKind
	lit  []byte
	n    int
}

// Literal returns a verbatim expected fragment. The bytes are copied.
func Literal(b []byte) Part {
	return Part{kind: partLiteral, lit: append([]byte(nil), b...)}
}

// Text returns a verbatim expected fragment from a UTF-8 string.
func Text(s string) Part {
	return Part{kind: partLiteral, lit: []byte(s)}
}

// Hex returns a verbatim expected fragment from a hex literal. It panics on
// a malformed literal; fixtures are authored, not computed.
func Hex(s string) Part {
	return Literal(MustHex(s))
}

// Malformed marks a malformed input sequence spanning n source units.
func Malformed(n int) Part {
	return Part{kind: partMalformed, n: n}
}

// Unmappable marks an unmappable input sequence spanning n source units.
func Unmappable(n int) Part {
	return Part{kind: partUnmappable, n: n}
}

// String describes the part for diagnostics.
func (p Part) String() string {
	switch p.kind {
	case partLiteral:
		return fmt.Sprintf("literal(% x)", p.lit)
	case partMalformed:
		return fmt.Sprintf("malformed(%d)", p.n)
	case partUnmappable:
		return fmt.Sprintf("unmappable(%d)", p.n)
	default:
		panic(fmt.Sprintf("conform: unknown part kind %d", int(p.kind)))
	}
}

// failure returns the typed failure a part produces under REPORT, or nil
// for literals.
func (p Part) failure() *cserr.Error {
	switch p.kind {
	case partLiteral:
		return nil
	case partMalformed:
		return cserr.NewMalformed(p.n)
	case partUnmappable:
		return cserr.NewUnmappable(p.n)
	default:
		panic(fmt.Sprintf("conform: unknown part kind %d", int(p.kind)))
	}
}

// hasKind reports whether any part declares a defect of the given kind.
func hasKind(parts []Part, kind cserr.Kind) bool {
	for _, p := range parts {
		switch p.kind {
		case partLiteral:
		case partMalformed:
			if kind == cserr.Malformed {
				return true
			}
		case partUnmappable:
			if kind == cserr.Unmappable {
				return true
			}
		default:
			panic(fmt.Sprintf("conform: unknown part kind %d", int(p.kind)))
		}
	}
	return false
}

// Expected folds parts under an error-action pair into the outcome a
// conforming codec must produce. replacement is the codec's replacement
// sequence, substituted for each defective part under cserr.Replace.
func Expected(parts []Part, onMalformed, onUnmappable cserr.Action, replacement []byte) Outcome {
	var out []byte
	for _, p := range parts {
		var action cserr.Action
		switch p.kind {
		case partLiteral:
			out = append(out, p.lit...)
			continue
		case partMalformed:
			action = onMalformed
		case partUnmappable:
			action = onUnmappable
		default:
			panic(fmt.Sprintf("conform: unknown part kind %d", int(p.kind)))
		}

		switch action {
		case cserr.Report:
			return Outcome{Output: out, Err: p.failure()}
		case cserr.Ignore:
		case cserr.Replace:
			out = append(out, replacement...)
		default:
			panic(fmt.Sprintf("conform: unknown error action %d", int(action)))
		}
	}
	return Outcome{Output: out}
}
