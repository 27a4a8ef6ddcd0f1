package conform

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/lattice-substrate/charset-conform/charset"
	"github.com/lattice-substrate/charset-conform/cscodec"
	"github.com/lattice-substrate/charset-conform/cserr"
)

// BufferMode selects how the harness hands the input buffer to the codec.
type BufferMode int

const (
	// BufferShared runs the codec directly over the case's own input slice.
	BufferShared BufferMode = iota
	// BufferScratch runs the codec over a private copy of the input, then
	// poisons the copy and re-reads the outcome. Output that changes under
	// the poison aliases the input buffer.
	BufferScratch
)

func (m BufferMode) String() string {
	switch m {
	case BufferShared:
		return "shared"
	case BufferScratch:
		return "scratch"
	default:
		panic(fmt.Sprintf("conform: unknown buffer mode %d", int(m)))
	}
}

// Combo is one point of a case's configuration grid.
type Combo struct {
	OnMalformed  cserr.Action
	OnUnmappable cserr.Action
	Buffer       BufferMode
}

func (c Combo) String() string {
	return fmt.Sprintf("malformed=%s unmappable=%s buffer=%s",
		c.OnMalformed, c.OnUnmappable, c.Buffer)
}

// Laws the harness checks. Each violation names the law it breaks.
const (
	// LawFixture: the single-shot outcome matches the outcome folded from
	// the case's expected parts.
	LawFixture = "fixture-consistency"
	// LawEquivalence: feeding the input one unit at a time yields the same
	// outcome as a single shot.
	LawEquivalence = "incremental-equivalence"
	// LawMutability: the outcome is identical whether the codec sees the
	// shared input buffer or a private copy, and never aliases the input.
	LawMutability = "buffer-mode-invariance"
	// LawInputIntact: a run never writes into the input buffer.
	LawInputIntact = "input-intact"
	// LawDeterminism: repeated runs of the same configuration agree.
	LawDeterminism = "determinism"
)

// Violation records one broken law for one case at one grid point.
type Violation struct {
	Case  string
	Law   string
	Combo Combo
	Got   Outcome
	Want  Outcome
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s [%s]\n  got:  %s\n  want: %s",
		v.Case, v.Law, v.Combo, v.Got, v.Want)
}

// Case is one conformance fixture: an input buffer and the parts the codec
// must produce from it.
type Case struct {
	Name  string
	Input []byte
	Parts []Part
}

// actionsFor returns the actions worth exercising for one failure kind. A
// case with no defect of that kind behaves identically under all three, so
// one representative suffices.
func actionsFor(parts []Part, kind cserr.Kind) []cserr.Action {
	if hasKind(parts, kind) {
		return []cserr.Action{cserr.Report, cserr.Ignore, cserr.Replace}
	}
	return []cserr.Action{cserr.Report}
}

// Combinations reports the size of the case's configuration grid, counting
// both buffer modes.
func Combinations(parts []Part) int {
	return len(actionsFor(parts, cserr.Malformed)) *
		len(actionsFor(parts, cserr.Unmappable)) * 2
}

// runner adapts a decoder or encoder to one step signature so the one-shot
// and stepwise drivers are written once.
type runner struct {
	step  func(dst, src []byte, atEOF bool) (int, int, error)
	flush func(dst []byte) (int, error)
	rep   []byte
	unit  int
}

func decodeRunner(cs charset.Charset, conf cscodec.Config) runner {
	d := cscodec.NewDecoder(cs, conf)
	return runner{step: d.Decode, flush: d.Flush, rep: d.Replacement(), unit: utf8.UTFMax}
}

func encodeRunner(cs charset.Charset, conf cscodec.Config) runner {
	e := cscodec.NewEncoder(cs, conf)
	return runner{step: e.Encode, flush: e.Flush, rep: e.Replacement(), unit: cs.MaxRuneLen()}
}

// scratch sizes the destination so a step can always place at least one
// rune or one replacement; a too-small dst would never make progress.
func (r runner) scratch() []byte {
	n := 16
	if len(r.rep) > n {
		n = len(r.rep)
	}
	if r.unit > n {
		n = r.unit
	}
	return make([]byte, n)
}

// oneShot drives the step with the whole input visible at once.
func (r runner) oneShot(src []byte) Outcome {
	var out []byte
	buf := r.scratch()

	consumed := 0
	for {
		nDst, nSrc, err := r.step(buf, src[consumed:], true)
		out = append(out, buf[:nDst]...)
		consumed += nSrc
		if errors.Is(err, cserr.ErrShortDst) {
			continue
		}
		if err != nil {
			return failedOutcome(out, err)
		}
		break
	}
	return r.drain(out, buf)
}

// stepwise drives the step with a window that grows one source unit per
// round, the way a streaming caller would feed a network read.
func (r runner) stepwise(src []byte) Outcome {
	var out []byte
	buf := r.scratch()

	consumed := 0
	for window := 1; window <= len(src); window++ {
		atEOF := window == len(src)
		for {
			nDst, nSrc, err := r.step(buf, src[consumed:window], atEOF)
			out = append(out, buf[:nDst]...)
			consumed += nSrc
			if errors.Is(err, cserr.ErrShortDst) {
				continue
			}
			if errors.Is(err, cserr.ErrShortSrc) {
				break
			}
			if err != nil {
				return failedOutcome(out, err)
			}
			break
		}
	}
	return r.drain(out, buf)
}

func (r runner) drain(out, buf []byte) Outcome {
	for {
		nDst, err := r.flush(buf)
		out = append(out, buf[:nDst]...)
		if errors.Is(err, cserr.ErrShortDst) {
			continue
		}
		if err != nil {
			return failedOutcome(out, err)
		}
		return Outcome{Output: out}
	}
}

func failedOutcome(out []byte, err error) Outcome {
	var ce *cserr.Error
	if !errors.As(err, &ce) {
		panic(fmt.Sprintf("conform: codec returned untyped error %v", err))
	}
	return Outcome{Output: out, Err: ce}
}

// OneShotDecode decodes src in a single call sequence.
func OneShotDecode(cs charset.Charset, conf cscodec.Config, src []byte) Outcome {
	return decodeRunner(cs, conf).oneShot(src)
}

// StepwiseDecode decodes src one byte at a time.
func StepwiseDecode(cs charset.Charset, conf cscodec.Config, src []byte) Outcome {
	return decodeRunner(cs, conf).stepwise(src)
}

// OneShotEncode encodes src in a single call sequence.
func OneShotEncode(cs charset.Charset, conf cscodec.Config, src []byte) Outcome {
	return encodeRunner(cs, conf).oneShot(src)
}

// StepwiseEncode encodes src one byte at a time.
func StepwiseEncode(cs charset.Charset, conf cscodec.Config, src []byte) Outcome {
	return encodeRunner(cs, conf).stepwise(src)
}

// CheckDecode runs the full grid for one decode case and returns every law
// violation found. An empty slice means the codec conforms.
func CheckDecode(cs charset.Charset, tc Case) []Violation {
	return check(tc, func(conf cscodec.Config) runner {
		return decodeRunner(cs, conf)
	})
}

// CheckEncode is CheckDecode for the encode direction: the input is UTF-8
// text, the parts describe the encoded byte sequence.
func CheckEncode(cs charset.Charset, tc Case) []Violation {
	return check(tc, func(conf cscodec.Config) runner {
		return encodeRunner(cs, conf)
	})
}

func check(tc Case, newRunner func(cscodec.Config) runner) []Violation {
	var vs []Violation

	for _, onMal := range actionsFor(tc.Parts, cserr.Malformed) {
		for _, onUnmap := range actionsFor(tc.Parts, cserr.Unmappable) {
			conf := cscodec.Config{OnMalformed: onMal, OnUnmappable: onUnmap}
			want := Expected(tc.Parts, onMal, onUnmap, newRunner(conf).rep)

			outcomes := make(map[BufferMode]Outcome, 2)
			for _, mode := range []BufferMode{BufferShared, BufferScratch} {
				combo := Combo{OnMalformed: onMal, OnUnmappable: onUnmap, Buffer: mode}
				got, modeVs := checkMode(tc, combo, conf, want, newRunner)
				vs = append(vs, modeVs...)
				outcomes[mode] = got
			}

			if !outcomes[BufferShared].Equal(outcomes[BufferScratch]) {
				vs = append(vs, Violation{
					Case:  tc.Name,
					Law:   LawMutability,
					Combo: Combo{OnMalformed: onMal, OnUnmappable: onUnmap, Buffer: BufferScratch},
					Got:   outcomes[BufferScratch],
					Want:  outcomes[BufferShared],
				})
			}
		}
	}
	return vs
}

// checkMode runs one grid point in one buffer mode and checks the laws that
// hold within it: fixture consistency, incremental equivalence, determinism,
// input integrity, and (in scratch mode) output independence.
func checkMode(tc Case, combo Combo, conf cscodec.Config, want Outcome, newRunner func(cscodec.Config) runner) (Outcome, []Violation) {
	var vs []Violation

	input := tc.Input
	if combo.Buffer == BufferScratch {
		input = append([]byte(nil), tc.Input...)
	}
	saved := append([]byte(nil), tc.Input...)

	one := newRunner(conf).oneShot(input)
	snapshot := append([]byte(nil), one.Output...)

	if combo.Buffer == BufferScratch {
		// Poison the private copy. A conforming codec's output is its own
		// allocation, so the outcome must survive the poison unchanged.
		for i := range input {
			input[i] = 0xA5
		}
		if !bytes.Equal(one.Output, snapshot) {
			vs = append(vs, Violation{
				Case: tc.Name, Law: LawMutability, Combo: combo,
				Got:  one,
				Want: Outcome{Output: snapshot, Err: one.Err},
			})
			one.Output = snapshot
		}
		input = append([]byte(nil), tc.Input...)
	}

	if !one.Equal(want) {
		vs = append(vs, Violation{Case: tc.Name, Law: LawFixture, Combo: combo, Got: one, Want: want})
	}

	stepped := newRunner(conf).stepwise(input)
	if !stepped.Equal(one) {
		vs = append(vs, Violation{Case: tc.Name, Law: LawEquivalence, Combo: combo, Got: stepped, Want: one})
	}

	again := newRunner(conf).oneShot(input)
	if !again.Equal(one) {
		vs = append(vs, Violation{Case: tc.Name, Law: LawDeterminism, Combo: combo, Got: again, Want: one})
	}

	if combo.Buffer == BufferShared && !bytes.Equal(tc.Input, saved) {
		vs = append(vs, Violation{
			Case: tc.Name, Law: LawInputIntact, Combo: combo,
			Got:  Outcome{Output: append([]byte(nil), tc.Input...)},
			Want: Outcome{Output: saved},
		})
		copy(tc.Input, saved)
	}

	return one, vs
}
