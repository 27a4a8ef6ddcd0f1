// Package charset adapts character encodings behind a single rune-level
// capability interface so codecs built on top of them can be driven by the
// conformance harness without knowing the encoding.
//
// No encoding is implemented here. UTF-8 and UTF-16 delegate to the standard
// library's unicode/utf8 and unicode/utf16 packages; everything else comes
// from golang.org/x/text/encoding/charmap. This package only classifies the
// outcome of a unit decode into one of three shapes: a rune, "need more
// input" (cserr.ErrShortSrc), or a typed failure (*cserr.Error).
package charset

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lattice-substrate/charset-conform/cserr"
)

// Charset is one character encoding viewed one unit at a time.
type Charset interface {
	// Name returns the canonical (IANA-style, lowercase) name.
	Name() string

	// DecodeRune decodes the first complete sequence of p.
	//
	// On success it returns the rune and the number of source bytes it
	// spans. If p is a proper prefix of a valid sequence it returns
	// cserr.ErrShortSrc; the caller decides whether more input can arrive.
	// If the leading sequence is invalid or has no mapping it returns a
	// *cserr.Error whose InputLength is the span of the offending bytes.
	DecodeRune(p []byte) (r rune, size int, err error)

	// EncodeRune writes the encoding of r into dst, which must hold at
	// least MaxRuneLen bytes, and reports the width. ok is false when the
	// charset cannot represent r.
	EncodeRune(dst []byte, r rune) (n int, ok bool)

	// MaxRuneLen returns the widest encoding of a single rune, in bytes.
	MaxRuneLen() int
}

// Builtin charsets. Each value is stateless and safe for concurrent use.
var (
	UTF8    Charset = utf8Charset{}
	ASCII   Charset = asciiCharset{}
	UTF16BE Charset = utf16Charset{name: "utf-16be", big: true}
	UTF16LE Charset = utf16Charset{name: "utf-16le", big: false}
)

// utf8Charset delegates to unicode/utf8, adding the incomplete-versus-invalid
// distinction DecodeRune requires at buffer boundaries.
type utf8Charset struct{}

func (utf8Charset) Name() string { return "utf-8" }

func (utf8Charset) DecodeRune(p []byte) (rune, int, error) {
	if len(p) == 0 {
		return 0, 0, cserr.ErrShortSrc
	}
	r, size := utf8.DecodeRune(p)
	if r != utf8.RuneError || size > 1 {
		return r, size, nil
	}
	bad, incomplete := utf8Subpart(p)
	if incomplete {
		return 0, 0, cserr.ErrShortSrc
	}
	return 0, 0, cserr.NewMalformed(bad)
}

func (utf8Charset) EncodeRune(dst []byte, r rune) (int, bool) {
	if !utf8.ValidRune(r) {
		return 0, false
	}
	return utf8.EncodeRune(dst, r), true
}

func (utf8Charset) MaxRuneLen() int { return utf8.UTFMax }

// utf8Accept is the valid range for the first continuation byte, indexed by
// the table below. Continuation bytes after the first always accept 80..BF.
type utf8Accept struct {
	lo, hi byte
}

var utf8AcceptRanges = [...]utf8Accept{
	0: {0x80, 0xBF},
	1: {0xA0, 0xBF}, // E0: excludes overlong 3-byte forms
	2: {0x80, 0x9F}, // ED: excludes surrogates
	3: {0x90, 0xBF}, // F0: excludes overlong 4-byte forms
	4: {0x80, 0x8F}, // F4: excludes > U+10FFFF
}

// utf8Subpart classifies an ill-formed or truncated leading sequence.
// It returns the length of the maximal subpart of the ill-formed sequence
// (at least 1), or incomplete=true when p is a prefix of a valid sequence.
func utf8Subpart(p []byte) (bad int, incomplete bool) {
	lead := p[0]

	var size int
	var accept utf8Accept
	switch {
	case lead < 0x80 || lead < 0xC2: // stray continuation or overlong lead
		return 1, false
	case lead < 0xE0:
		size, accept = 2, utf8AcceptRanges[0]
	case lead == 0xE0:
		size, accept = 3, utf8AcceptRanges[1]
	case lead == 0xED:
		size, accept = 3, utf8AcceptRanges[2]
	case lead < 0xF0:
		size, accept = 3, utf8AcceptRanges[0]
	case lead == 0xF0:
		size, accept = 4, utf8AcceptRanges[3]
	case lead == 0xF4:
		size, accept = 4, utf8AcceptRanges[4]
	case lead < 0xF4:
		size, accept = 4, utf8AcceptRanges[0]
	default: // F5..FF: never a valid lead
		return 1, false
	}

	for i := 1; i < size; i++ {
		if i >= len(p) {
			return 0, true
		}
		lo, hi := byte(0x80), byte(0xBF)
		if i == 1 {
			lo, hi = accept.lo, accept.hi
		}
		if p[i] < lo || p[i] > hi {
			return i, false
		}
	}
	// utf8.DecodeRune rejected it, so it cannot reach here well formed.
	return size, false
}

// asciiCharset is the 7-bit US-ASCII repertoire. Bytes above 0x7F are not
// units of the encoding at all, so they classify as malformed rather than
// unmappable.
type asciiCharset struct{}

func (asciiCharset) Name() string { return "us-ascii" }

func (asciiCharset) DecodeRune(p []byte) (rune, int, error) {
	if len(p) == 0 {
		return 0, 0, cserr.ErrShortSrc
	}
	if p[0] >= 0x80 {
		return 0, 0, cserr.NewMalformed(1)
	}
	return rune(p[0]), 1, nil
}

func (asciiCharset) EncodeRune(dst []byte, r rune) (int, bool) {
	if r >= 0x80 {
		return 0, false
	}
	dst[0] = byte(r)
	return 1, true
}

func (asciiCharset) MaxRuneLen() int { return 1 }

// utf16Charset delegates surrogate pairing to unicode/utf16. Source units
// are bytes, so failure lengths count bytes: a lone surrogate spans 2, a
// truncated trailing code unit is resolved by the codec layer.
type utf16Charset struct {
	name string
	big  bool
}

func (c utf16Charset) Name() string { return c.name }

func (c utf16Charset) unit(p []byte) uint16 {
	if c.big {
		return uint16(p[0])<<8 | uint16(p[1])
	}
	return uint16(p[1])<<8 | uint16(p[0])
}

func (c utf16Charset) putUnit(dst []byte, u uint16) {
	if c.big {
		dst[0], dst[1] = byte(u>>8), byte(u)
	} else {
		dst[0], dst[1] = byte(u), byte(u>>8)
	}
}

func (c utf16Charset) DecodeRune(p []byte) (rune, int, error) {
	if len(p) < 2 {
		return 0, 0, cserr.ErrShortSrc
	}
	u1 := rune(c.unit(p))
	if !utf16.IsSurrogate(u1) {
		return u1, 2, nil
	}
	if u1 >= 0xDC00 { // low surrogate with no preceding high
		return 0, 0, cserr.NewMalformed(2)
	}
	if len(p) < 4 {
		return 0, 0, cserr.ErrShortSrc
	}
	u2 := rune(c.unit(p[2:]))
	r := utf16.DecodeRune(u1, u2)
	if r == utf8.RuneError { // high surrogate not followed by a low one
		return 0, 0, cserr.NewMalformed(2)
	}
	return r, 4, nil
}

func (c utf16Charset) EncodeRune(dst []byte, r rune) (int, bool) {
	switch {
	case r < 0 || utf16.IsSurrogate(r) || r > utf8.MaxRune:
		return 0, false
	case r < 0x10000:
		c.putUnit(dst, uint16(r))
		return 2, true
	default:
		hi, lo := utf16.EncodeRune(r)
		c.putUnit(dst, uint16(hi))
		c.putUnit(dst[2:], uint16(lo))
		return 4, true
	}
}

func (utf16Charset) MaxRuneLen() int { return 4 }
