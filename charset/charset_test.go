package charset_test

import (
	"errors"
	"testing"

	"github.com/lattice-substrate/charset-conform/charset"
	"github.com/lattice-substrate/charset-conform/cserr"
)

func decodeOK(t *testing.T, cs charset.Charset, in []byte, wantRune rune, wantSize int) {
	t.Helper()
	r, size, err := cs.DecodeRune(in)
	if err != nil {
		t.Fatalf("%s: DecodeRune(% x): unexpected error %v", cs.Name(), in, err)
	}
	if r != wantRune || size != wantSize {
		t.Fatalf("%s: DecodeRune(% x) = (%U, %d), want (%U, %d)", cs.Name(), in, r, size, wantRune, wantSize)
	}
}

func decodeShort(t *testing.T, cs charset.Charset, in []byte) {
	t.Helper()
	_, _, err := cs.DecodeRune(in)
	if !errors.Is(err, cserr.ErrShortSrc) {
		t.Fatalf("%s: DecodeRune(% x): got %v, want ErrShortSrc", cs.Name(), in, err)
	}
}

func decodeFail(t *testing.T, cs charset.Charset, in []byte, kind cserr.Kind, length int) {
	t.Helper()
	_, _, err := cs.DecodeRune(in)
	var ce *cserr.Error
	if !errors.As(err, &ce) {
		t.Fatalf("%s: DecodeRune(% x): got %v, want typed failure", cs.Name(), in, err)
	}
	if ce.Kind != kind || ce.InputLength != length {
		t.Fatalf("%s: DecodeRune(% x) failed with {%s, %d}, want {%s, %d}",
			cs.Name(), in, ce.Kind, ce.InputLength, kind, length)
	}
}

func TestUTF8DecodeRune(t *testing.T) {
	cs := charset.UTF8

	decodeOK(t, cs, []byte("A"), 'A', 1)
	decodeOK(t, cs, []byte("é"), 'é', 2)
	decodeOK(t, cs, []byte{0xE2, 0x82, 0xAC}, '€', 3)
	decodeOK(t, cs, []byte{0xF0, 0x9F, 0x98, 0x80}, 0x1F600, 4)
	// A literal U+FFFD in the input is an ordinary rune, not a failure.
	decodeOK(t, cs, []byte{0xEF, 0xBF, 0xBD}, 0xFFFD, 3)

	// Prefixes of valid sequences need more input.
	decodeShort(t, cs, nil)
	decodeShort(t, cs, []byte{0xE2})
	decodeShort(t, cs, []byte{0xE2, 0x82})
	decodeShort(t, cs, []byte{0xF0, 0x9F, 0x98})

	// Maximal-subpart failure lengths.
	decodeFail(t, cs, []byte{0xFF}, cserr.Malformed, 1)
	decodeFail(t, cs, []byte{0x80}, cserr.Malformed, 1)          // stray continuation
	decodeFail(t, cs, []byte{0xC0, 0xAF}, cserr.Malformed, 1)    // overlong lead
	decodeFail(t, cs, []byte{0xE2, 0x28}, cserr.Malformed, 1)    // bad first continuation
	decodeFail(t, cs, []byte{0xE2, 0x82, 0x41}, cserr.Malformed, 2)
	decodeFail(t, cs, []byte{0xED, 0xA0, 0x80}, cserr.Malformed, 1) // surrogate encoding
	decodeFail(t, cs, []byte{0xF4, 0x90, 0x80, 0x80}, cserr.Malformed, 1)
}

func TestUTF8EncodeRune(t *testing.T) {
	var buf [4]byte
	n, ok := charset.UTF8.EncodeRune(buf[:], '€')
	if !ok || n != 3 || string(buf[:n]) != "€" {
		t.Fatalf("EncodeRune('€') = (%d, %v), buf=% x", n, ok, buf[:n])
	}
	if _, ok := charset.UTF8.EncodeRune(buf[:], 0xD800); ok {
		t.Fatal("surrogate must not encode")
	}
}

func TestASCII(t *testing.T) {
	decodeOK(t, charset.ASCII, []byte("A"), 'A', 1)
	decodeFail(t, charset.ASCII, []byte{0x80}, cserr.Malformed, 1)
	decodeFail(t, charset.ASCII, []byte{0xFF}, cserr.Malformed, 1)

	var buf [1]byte
	if n, ok := charset.ASCII.EncodeRune(buf[:], 'z'); !ok || n != 1 || buf[0] != 'z' {
		t.Fatalf("EncodeRune('z') = (%d, %v)", n, ok)
	}
	if _, ok := charset.ASCII.EncodeRune(buf[:], 'é'); ok {
		t.Fatal("'é' must be unmappable in us-ascii")
	}
}

func TestUTF16Decode(t *testing.T) {
	cases := []struct {
		cs   charset.Charset
		in   []byte
		r    rune
		size int
	}{
		{charset.UTF16BE, []byte{0x00, 0x41}, 'A', 2},
		{charset.UTF16LE, []byte{0x41, 0x00}, 'A', 2},
		{charset.UTF16BE, []byte{0x20, 0xAC}, '€', 2},
		{charset.UTF16BE, []byte{0xD8, 0x3D, 0xDE, 0x00}, 0x1F600, 4},
		{charset.UTF16LE, []byte{0x3D, 0xD8, 0x00, 0xDE}, 0x1F600, 4},
	}
	for _, tc := range cases {
		decodeOK(t, tc.cs, tc.in, tc.r, tc.size)
	}

	decodeShort(t, charset.UTF16BE, []byte{0x00})
	decodeShort(t, charset.UTF16BE, []byte{0xD8, 0x3D})          // lone high, may pair later
	decodeShort(t, charset.UTF16BE, []byte{0xD8, 0x3D, 0xDE})    // partial low unit

	decodeFail(t, charset.UTF16BE, []byte{0xDC, 0x00, 0x00, 0x41}, cserr.Malformed, 2) // low first
	decodeFail(t, charset.UTF16BE, []byte{0xD8, 0x3D, 0x00, 0x41}, cserr.Malformed, 2) // high + BMP
}

func TestUTF16Encode(t *testing.T) {
	var buf [4]byte
	n, ok := charset.UTF16BE.EncodeRune(buf[:], 0x1F600)
	if !ok || n != 4 || buf != [4]byte{0xD8, 0x3D, 0xDE, 0x00} {
		t.Fatalf("UTF16BE EncodeRune = (%d, %v), buf=% x", n, ok, buf[:])
	}
	n, ok = charset.UTF16LE.EncodeRune(buf[:], '€')
	if !ok || n != 2 || buf[0] != 0xAC || buf[1] != 0x20 {
		t.Fatalf("UTF16LE EncodeRune = (%d, %v), buf=% x", n, ok, buf[:n])
	}
	if _, ok := charset.UTF16BE.EncodeRune(buf[:], 0xDC00); ok {
		t.Fatal("surrogate must not encode")
	}
}

func TestCharmapDecode(t *testing.T) {
	decodeOK(t, charset.ISO8859_1, []byte{0xE9}, 'é', 1)
	decodeOK(t, charset.Windows1252, []byte{0x80}, '€', 1)
	decodeOK(t, charset.KOI8R, []byte{0xC1}, 'а', 1)

	// 0x81 is a hole in windows-1252: a well-formed unit with no mapping.
	decodeFail(t, charset.Windows1252, []byte{0x81}, cserr.Unmappable, 1)
}

func TestCharmapEncode(t *testing.T) {
	var buf [1]byte
	if n, ok := charset.Windows1252.EncodeRune(buf[:], '€'); !ok || n != 1 || buf[0] != 0x80 {
		t.Fatalf("EncodeRune('€') = (%d, %v), buf=%#x", n, ok, buf[0])
	}
	if _, ok := charset.ISO8859_1.EncodeRune(buf[:], '€'); ok {
		t.Fatal("'€' must be unmappable in iso-8859-1")
	}
}
