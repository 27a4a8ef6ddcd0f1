// Package cscodec builds configurable decoders and encoders over a
// charset.Charset, applying an error-action policy to every malformed or
// unmappable sequence the charset reports.
//
// Decoders transcode charset bytes to UTF-8 text; encoders transcode UTF-8
// text to charset bytes. Both expose a single-shot entry point and an
// incremental step in the style of golang.org/x/text/transform: the step
// consumes what the supplied buffers allow and signals cserr.ErrShortSrc or
// cserr.ErrShortDst when it runs out of input or output room. A codec never
// mutates its source buffer and keeps no state between runs, so a freshly
// constructed (or Reset) codec always produces the same outcome for the
// same input.
package cscodec

import (
	"github.com/lattice-substrate/charset-conform/cserr"
)

// Config selects the error actions and, optionally, a replacement sequence
// override for a codec.
type Config struct {
	// OnMalformed is applied to sequences invalid under the source
	// encoding's grammar. Zero value is cserr.Report.
	OnMalformed cserr.Action

	// OnUnmappable is applied to well-formed sequences with no
	// representation in the target encoding. Zero value is cserr.Report.
	OnUnmappable cserr.Action

	// Replacement overrides the codec's replacement sequence under
	// cserr.Replace. Decoders default to "�", encoders to the
	// charset's encoding of '?'.
	Replacement []byte
}

// scratchLen sizes a working buffer so one replacement always fits;
// anything smaller could stall on ErrShortDst without progress.
func scratchLen(repLen int) int {
	if repLen > 64 {
		return repLen
	}
	return 64
}

func (c Config) action(kind cserr.Kind) cserr.Action {
	switch kind {
	case cserr.Malformed:
		return c.OnMalformed
	case cserr.Unmappable:
		return c.OnUnmappable
	default:
		panic("cscodec: unknown failure kind")
	}
}
