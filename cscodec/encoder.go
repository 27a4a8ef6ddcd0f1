package cscodec

import (
	"errors"
	"unicode/utf8"

	"github.com/lattice-substrate/charset-conform/charset"
	"github.com/lattice-substrate/charset-conform/cserr"
)

// Encoder transcodes UTF-8 text into bytes of one charset under an
// error-action policy.
//
// Source units are bytes of the UTF-8 input: a malformed failure spans the
// invalid bytes, an unmappable failure spans the offending rune's UTF-8
// width.
type Encoder struct {
	cs   charset.Charset
	conf Config
	rep  []byte
}

// NewEncoder returns an encoder for cs. The zero Config reports both
// failure kinds. The default replacement is the charset's encoding of '?',
// or "?" verbatim for charsets that cannot represent it.
func NewEncoder(cs charset.Charset, conf Config) *Encoder {
	rep := conf.Replacement
	if rep == nil {
		buf := make([]byte, cs.MaxRuneLen())
		if n, ok := cs.EncodeRune(buf, '?'); ok {
			rep = buf[:n]
		} else {
			rep = []byte{'?'}
		}
	}
	return &Encoder{cs: cs, conf: conf, rep: rep}
}

// Replacement returns the sequence substituted under cserr.Replace.
func (e *Encoder) Replacement() []byte {
	return append([]byte(nil), e.rep...)
}

// Reset restores the encoder to its initial state.
func (e *Encoder) Reset() {}

// Encode is the incremental step, with the same buffer protocol as
// Decoder.Decode: nil means src fully consumed, cserr.ErrShortSrc means the
// tail is an incomplete rune and atEOF was false, cserr.ErrShortDst means
// dst is full, and a *cserr.Error reports an offending sequence left
// unconsumed at src[nSrc:].
func (e *Encoder) Encode(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	var scratch [utf8.UTFMax]byte
	for nSrc < len(src) {
		r, size, derr := charset.UTF8.DecodeRune(src[nSrc:])
		switch {
		case derr == nil:
			n, ok := e.cs.EncodeRune(scratch[:], r)
			if !ok {
				nDst, nSrc, err = e.handle(dst, nDst, nSrc, cserr.NewUnmappable(size))
				if err != nil {
					return nDst, nSrc, err
				}
				continue
			}
			if nDst+n > len(dst) {
				return nDst, nSrc, cserr.ErrShortDst
			}
			nDst += copy(dst[nDst:], scratch[:n])
			nSrc += size

		case errors.Is(derr, cserr.ErrShortSrc):
			if !atEOF {
				return nDst, nSrc, cserr.ErrShortSrc
			}
			nDst, nSrc, err = e.handle(dst, nDst, nSrc, cserr.NewMalformed(len(src)-nSrc))
			if err != nil {
				return nDst, nSrc, err
			}

		default:
			var ce *cserr.Error
			if !errors.As(derr, &ce) {
				return nDst, nSrc, derr
			}
			nDst, nSrc, err = e.handle(dst, nDst, nSrc, ce)
			if err != nil {
				return nDst, nSrc, err
			}
		}
	}
	return nDst, nSrc, nil
}

func (e *Encoder) handle(dst []byte, nDst, nSrc int, ce *cserr.Error) (int, int, error) {
	switch e.conf.action(ce.Kind) {
	case cserr.Report:
		return nDst, nSrc, ce
	case cserr.Ignore:
		return nDst, nSrc + ce.InputLength, nil
	case cserr.Replace:
		if nDst+len(e.rep) > len(dst) {
			return nDst, nSrc, cserr.ErrShortDst
		}
		nDst += copy(dst[nDst:], e.rep)
		return nDst, nSrc + ce.InputLength, nil
	default:
		panic("cscodec: unknown error action")
	}
}

// Flush completes the step protocol; encoders buffer nothing.
func (e *Encoder) Flush(dst []byte) (int, error) {
	return 0, nil
}

// EncodeAll is the single-shot entry point: it encodes src to completion
// and returns the charset bytes, or the first reported failure.
func (e *Encoder) EncodeAll(src []byte) ([]byte, error) {
	e.Reset()
	out := make([]byte, 0, len(src)+utf8.UTFMax)
	scratch := make([]byte, scratchLen(len(e.rep)))

	consumed := 0
	for {
		nDst, nSrc, err := e.Encode(scratch, src[consumed:], true)
		out = append(out, scratch[:nDst]...)
		consumed += nSrc
		if errors.Is(err, cserr.ErrShortDst) {
			continue
		}
		if err != nil {
			return out, err
		}
		break
	}

	for {
		nDst, err := e.Flush(scratch)
		out = append(out, scratch[:nDst]...)
		if errors.Is(err, cserr.ErrShortDst) {
			continue
		}
		if err != nil {
			return out, err
		}
		return out, nil
	}
}
