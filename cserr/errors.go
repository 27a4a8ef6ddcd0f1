// Package cserr defines the failure taxonomy for charset-conform.
//
// A codec run ends in exactly one of two typed failures: the input contained
// a byte or character sequence that is not well formed under the source
// encoding (Malformed), or a well-formed sequence has no representation in
// the target encoding (Unmappable). Both carry the length of the offending
// sequence in source units, which conformance checks compare verbatim.
//
// The package also defines the two control-flow sentinels of incremental
// coding, ErrShortSrc and ErrShortDst, following the convention of
// golang.org/x/text/transform.
package cserr

import (
	"errors"
	"fmt"
)

// Kind identifies the failure category of a codec error.
type Kind int

const (
	// Malformed means the input sequence is not valid under the source
	// encoding's grammar.
	Malformed Kind = iota

	// Unmappable means the input sequence is well formed but has no
	// representation in the target encoding.
	Unmappable
)

// String returns the stable category name used in reports and messages.
func (k Kind) String() string {
	switch k {
	case Malformed:
		return "MALFORMED"
	case Unmappable:
		return "UNMAPPABLE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Action is the policy a codec applies when it hits a malformed or
// unmappable sequence.
type Action int

const (
	// Report stops the run and surfaces a typed *Error.
	Report Action = iota

	// Ignore drops the offending sequence and continues.
	Ignore

	// Replace substitutes the codec's replacement sequence and continues.
	Replace
)

// String returns the stable policy name used in reports and messages.
func (a Action) String() string {
	switch a {
	case Report:
		return "REPORT"
	case Ignore:
		return "IGNORE"
	case Replace:
		return "REPLACE"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Error is the typed, length-carrying codec failure.
//
// InputLength is the number of source units (bytes of the input buffer)
// spanned by the offending sequence itself, not the total consumed so far.
type Error struct {
	Kind        Kind
	InputLength int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("cserr: %s sequence of length %d", e.Kind, e.InputLength)
}

// Is reports kind equality, so errors.Is can match a failure category
// without pinning the length.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind && (other.InputLength == 0 || other.InputLength == e.InputLength)
}

// NewMalformed returns a Malformed failure spanning n source units.
func NewMalformed(n int) *Error {
	return &Error{Kind: Malformed, InputLength: n}
}

// NewUnmappable returns an Unmappable failure spanning n source units.
func NewUnmappable(n int) *Error {
	return &Error{Kind: Unmappable, InputLength: n}
}

// Incremental coding sentinels. They are statuses, not failures: a step that
// returns one of these has made all the progress the supplied buffers allow.
var (
	// ErrShortSrc means the tail of src is an incomplete sequence and more
	// input is required before it can be judged.
	ErrShortSrc = errors.New("cserr: short source buffer")

	// ErrShortDst means dst has no room for the next output unit.
	ErrShortDst = errors.New("cserr: short destination buffer")
)
