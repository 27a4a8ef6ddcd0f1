package conform

import (
	"fmt"
	"strings"
)

// Fixture mini-language. Inputs are written as hex literals (pairs of hex
// digits with optional space, dash, or colon separators, the format used by
// most published codec test suites) and expected outputs as literals with
// '%' placeholders that splice pre-built fragments in source order.

// ParseHex interprets a hex literal into bytes. Separators (spaces, tabs,
// '-', ':') may appear between pairs; digits inside a pair must be adjacent.
func ParseHex(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)/2)
	i := 0
	for i < len(s) {
		c := s[i]
		if c == ' ' || c == '\t' || c == '-' || c == ':' {
			i++
			continue
		}
		hi, ok := hexVal(c)
		if !ok {
			return nil, fmt.Errorf("conform: bad hex digit %q at index %d", c, i)
		}
		if i+1 >= len(s) {
			return nil, fmt.Errorf("conform: dangling hex digit at index %d", i)
		}
		lo, ok := hexVal(s[i+1])
		if !ok {
			return nil, fmt.Errorf("conform: bad hex digit %q at index %d", s[i+1], i+1)
		}
		out = append(out, hi<<4|lo)
		i += 2
	}
	return out, nil
}

// MustHex is ParseHex for fixture literals; it panics on a malformed
// literal.
func MustHex(s string) []byte {
	b, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return b
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// SpliceHex builds an input buffer from a hex literal with '%' placeholders
// replaced by the fragments in order. Fragments may be bytes, byte slices,
// or nested hex literals.
func SpliceHex(format string, frags ...any) ([]byte, error) {
	var out []byte
	next := 0
	for _, chunk := range strings.Split(format, "%") {
		if next > 0 {
			frag, err := fragBytes(frags, next-1)
			if err != nil {
				return nil, err
			}
			out = append(out, frag...)
		}
		b, err := ParseHex(chunk)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
		next++
	}
	if next-1 != len(frags) {
		return nil, fmt.Errorf("conform: %d placeholders, %d fragments", next-1, len(frags))
	}
	return out, nil
}

func fragBytes(frags []any, i int) ([]byte, error) {
	if i >= len(frags) {
		return nil, fmt.Errorf("conform: placeholder %d has no fragment", i+1)
	}
	switch f := frags[i].(type) {
	case byte:
		return []byte{f}, nil
	case []byte:
		return f, nil
	case string:
		return ParseHex(f)
	default:
		return nil, fmt.Errorf("conform: fragment %d has unsupported type %T", i+1, f)
	}
}

// TextParts builds an expected-output parts list from a text literal:
// literal runs become Text parts, '%' placeholders splice the given parts
// in order. A "%%" escapes a literal percent sign.
func TextParts(format string, frags ...Part) []Part {
	var parts []Part
	var lit strings.Builder
	next := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			lit.WriteByte(format[i])
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			lit.WriteByte('%')
			i++
			continue
		}
		if lit.Len() > 0 {
			parts = append(parts, Text(lit.String()))
			lit.Reset()
		}
		if next >= len(frags) {
			panic(fmt.Sprintf("conform: placeholder %d has no fragment in %q", next+1, format))
		}
		parts = append(parts, frags[next])
		next++
	}
	if lit.Len() > 0 {
		parts = append(parts, Text(lit.String()))
	}
	if next != len(frags) {
		panic(fmt.Sprintf("conform: %d placeholders, %d fragments in %q", next, len(frags), format))
	}
	return parts
}

// HexParts is TextParts for byte-sequence expectations: literal runs are
// hex literals, '%' placeholders splice the given parts in order.
func HexParts(format string, frags ...Part) []Part {
	var parts []Part
	next := 0
	for _, chunk := range strings.Split(format, "%") {
		if next > 0 {
			if next-1 >= len(frags) {
				panic(fmt.Sprintf("conform: placeholder %d has no fragment in %q", next, format))
			}
			parts = append(parts, frags[next-1])
		}
		if b := MustHex(chunk); len(b) > 0 {
			parts = append(parts, Literal(b))
		}
		next++
	}
	if next-1 != len(frags) {
		panic(fmt.Sprintf("conform: %d placeholders, %d fragments in %q", next-1, len(frags), format))
	}
	return parts
}
