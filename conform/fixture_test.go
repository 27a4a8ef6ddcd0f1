package conform_test

import (
	"bytes"
	"testing"

	"github.com/lattice-substrate/charset-conform/conform"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want []byte
	}{
		{"", nil},
		{"00", []byte{0x00}},
		{"deadBEEF", []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		{"E2 82 AC", []byte{0xE2, 0x82, 0xAC}},
		{"e2-82-ac", []byte{0xE2, 0x82, 0xAC}},
		{"41:ff:42", []byte{0x41, 0xFF, 0x42}},
		{"  41\t42 ", []byte{0x41, 0x42}},
	}
	for _, tc := range cases {
		got, err := conform.ParseHex(tc.in)
		if err != nil {
			t.Errorf("ParseHex(%q): %v", tc.in, err)
			continue
		}
		if !bytes.Equal(got, tc.want) {
			t.Errorf("ParseHex(%q) = % x, want % x", tc.in, got, tc.want)
		}
	}
}

func TestParseHexErrors(t *testing.T) {
	for _, in := range []string{"4", "41 4", "4g", "zz", "4 1"} {
		if got, err := conform.ParseHex(in); err == nil {
			t.Errorf("ParseHex(%q) = % x, want error", in, got)
		}
	}
}

func TestMustHexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustHex on a bad literal did not panic")
		}
	}()
	conform.MustHex("not hex")
}

func TestSpliceHex(t *testing.T) {
	got, err := conform.SpliceHex("41 % 42 %", byte(0xFF), []byte{0xE2, 0x82})
	if err != nil {
		t.Fatalf("SpliceHex: %v", err)
	}
	want := []byte{0x41, 0xFF, 0x42, 0xE2, 0x82}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestSpliceHexStringFragment(t *testing.T) {
	got, err := conform.SpliceHex("00 %", "de ad")
	if err != nil {
		t.Fatalf("SpliceHex: %v", err)
	}
	if !bytes.Equal(got, []byte{0x00, 0xDE, 0xAD}) {
		t.Fatalf("got % x", got)
	}
}

func TestSpliceHexArityMismatch(t *testing.T) {
	if _, err := conform.SpliceHex("41 %"); err == nil {
		t.Error("missing fragment accepted")
	}
	if _, err := conform.SpliceHex("41", byte(0)); err == nil {
		t.Error("extra fragment accepted")
	}
}

func TestTextParts(t *testing.T) {
	parts := conform.TextParts("A%B", conform.Malformed(1))
	want := []conform.Part{conform.Text("A"), conform.Malformed(1), conform.Text("B")}
	if len(parts) != len(want) {
		t.Fatalf("got %d parts %v, want %d", len(parts), parts, len(want))
	}
	for i := range parts {
		if parts[i].String() != want[i].String() {
			t.Errorf("part %d = %s, want %s", i, parts[i], want[i])
		}
	}
}

func TestTextPartsPercentEscape(t *testing.T) {
	parts := conform.TextParts("100%% sure")
	if len(parts) != 1 || parts[0].String() != conform.Text("100% sure").String() {
		t.Fatalf("got %v", parts)
	}
}

func TestHexParts(t *testing.T) {
	parts := conform.HexParts("00 41 % DE 00", conform.Unmappable(3))
	want := []conform.Part{
		conform.Hex("00 41"),
		conform.Unmappable(3),
		conform.Hex("DE 00"),
	}
	if len(parts) != len(want) {
		t.Fatalf("got %d parts %v", len(parts), parts)
	}
	for i := range parts {
		if parts[i].String() != want[i].String() {
			t.Errorf("part %d = %s, want %s", i, parts[i], want[i])
		}
	}
}

func TestTextPartsArityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("unmatched placeholder did not panic")
		}
	}()
	conform.TextParts("A%B%C", conform.Malformed(1))
}
