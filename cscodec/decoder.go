package cscodec

import (
	"errors"
	"unicode/utf8"

	"github.com/lattice-substrate/charset-conform/charset"
	"github.com/lattice-substrate/charset-conform/cserr"
)

// Decoder transcodes bytes of one charset into UTF-8 text under an
// error-action policy.
type Decoder struct {
	cs   charset.Charset
	conf Config
	rep  []byte
}

// NewDecoder returns a decoder for cs. The zero Config reports both
// failure kinds.
func NewDecoder(cs charset.Charset, conf Config) *Decoder {
	rep := conf.Replacement
	if rep == nil {
		rep = []byte("�")
	}
	return &Decoder{cs: cs, conf: conf, rep: rep}
}

// Replacement returns the sequence substituted under cserr.Replace.
func (d *Decoder) Replacement() []byte {
	return append([]byte(nil), d.rep...)
}

// Reset restores the decoder to its initial state. Decoders carry no state
// between calls, so Reset exists for interface symmetry with stateful
// codecs and future-proofing of callers that pool them.
func (d *Decoder) Reset() {}

// Decode is the incremental step. It decodes as much of src into dst as the
// buffers allow and returns the bytes written and consumed.
//
// A nil error means src was fully consumed. cserr.ErrShortSrc means the
// unconsumed tail is an incomplete sequence and atEOF was false; the caller
// must retain src[nSrc:] and present it again with more input.
// cserr.ErrShortDst means dst is full. A *cserr.Error reports an offending
// sequence under cserr.Report; the sequence itself is not consumed, so nSrc
// points at its first byte.
func (d *Decoder) Decode(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size, derr := d.cs.DecodeRune(src[nSrc:])
		switch {
		case derr == nil:
			n := utf8.RuneLen(r)
			if nDst+n > len(dst) {
				return nDst, nSrc, cserr.ErrShortDst
			}
			nDst += utf8.EncodeRune(dst[nDst:], r)
			nSrc += size

		case errors.Is(derr, cserr.ErrShortSrc):
			if !atEOF {
				return nDst, nSrc, cserr.ErrShortSrc
			}
			// Truncated trailing sequence: malformed across the rest.
			nDst, nSrc, err = d.handle(dst, nDst, nSrc, cserr.NewMalformed(len(src)-nSrc))
			if err != nil {
				return nDst, nSrc, err
			}

		default:
			var ce *cserr.Error
			if !errors.As(derr, &ce) {
				return nDst, nSrc, derr
			}
			nDst, nSrc, err = d.handle(dst, nDst, nSrc, ce)
			if err != nil {
				return nDst, nSrc, err
			}
		}
	}
	return nDst, nSrc, nil
}

// handle applies the configured action for one offending sequence.
func (d *Decoder) handle(dst []byte, nDst, nSrc int, ce *cserr.Error) (int, int, error) {
	switch d.conf.action(ce.Kind) {
	case cserr.Report:
		return nDst, nSrc, ce
	case cserr.Ignore:
		return nDst, nSrc + ce.InputLength, nil
	case cserr.Replace:
		if nDst+len(d.rep) > len(dst) {
			return nDst, nSrc, cserr.ErrShortDst
		}
		nDst += copy(dst[nDst:], d.rep)
		return nDst, nSrc + ce.InputLength, nil
	default:
		panic("cscodec: unknown error action")
	}
}

// Flush drains state buffered across steps. The built-in decoders buffer
// nothing (incomplete tails stay in the caller's window), so Flush writes
// nothing; callers must still invoke it to complete the protocol.
func (d *Decoder) Flush(dst []byte) (int, error) {
	return 0, nil
}

// DecodeAll is the single-shot entry point: it decodes src to completion
// and returns the UTF-8 text, or the first reported failure.
func (d *Decoder) DecodeAll(src []byte) ([]byte, error) {
	d.Reset()
	out := make([]byte, 0, len(src)+utf8.UTFMax)
	scratch := make([]byte, scratchLen(len(d.rep)))

	consumed := 0
	for {
		nDst, nSrc, err := d.Decode(scratch, src[consumed:], true)
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
		nDst, err := d.Flush(scratch)
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
