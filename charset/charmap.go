package charset

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/lattice-substrate/charset-conform/cserr"
)

// FromCharmap adapts an x/text single-byte charmap. Every byte is a complete
// unit of a charmap's grammar, so an undefined position classifies as
// unmappable rather than malformed.
func FromCharmap(name string, m *charmap.Charmap) Charset {
	return &charmapCharset{name: name, m: m}
}

type charmapCharset struct {
	name string
	m    *charmap.Charmap
}

func (c *charmapCharset) Name() string { return c.name }

func (c *charmapCharset) DecodeRune(p []byte) (rune, int, error) {
	if len(p) == 0 {
		return 0, 0, cserr.ErrShortSrc
	}
	r := c.m.DecodeByte(p[0])
	if r == utf8.RuneError {
		return 0, 0, cserr.NewUnmappable(1)
	}
	return r, 1, nil
}

func (c *charmapCharset) EncodeRune(dst []byte, r rune) (int, bool) {
	b, ok := c.m.EncodeRune(r)
	if !ok {
		return 0, false
	}
	dst[0] = b
	return 1, true
}

func (*charmapCharset) MaxRuneLen() int { return 1 }
