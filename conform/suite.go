package conform

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	cyberphone "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/lattice-substrate/charset-conform/charset"
)

// Suite is a JSON-authored collection of conformance cases, one file per
// suite. Inputs are hex literals (decode) or UTF-8 text (encode; hex also
// accepted); expected output is the part list.
type Suite struct {
	Name  string      `json:"name"`
	Cases []SuiteCase `json:"cases"`
}

// SuiteCase is the wire form of one case.
type SuiteCase struct {
	Name      string      `json:"name"`
	Charset   string      `json:"charset"`
	Direction string      `json:"direction"` // "decode" or "encode"
	InputHex  string      `json:"input_hex,omitempty"`
	InputText string      `json:"input_text,omitempty"`
	Expect    []SuitePart `json:"expect"`
}

// SuitePart is the wire form of one expected-output part. Exactly one field
// may be set: text and hex are literal fragments, malformed and unmappable
// declare a defect spanning that many source units.
type SuitePart struct {
	Text       string `json:"text,omitempty"`
	Hex        string `json:"hex,omitempty"`
	Malformed  int    `json:"malformed,omitempty"`
	Unmappable int    `json:"unmappable,omitempty"`
}

func (p SuitePart) part() (Part, error) {
	set := 0
	var out Part
	if p.Text != "" {
		set++
		out = Text(p.Text)
	}
	if p.Hex != "" {
		set++
		b, err := ParseHex(p.Hex)
		if err != nil {
			return Part{}, err
		}
		out = Literal(b)
	}
	if p.Malformed != 0 {
		set++
		if p.Malformed < 0 {
			return Part{}, fmt.Errorf("conform: negative malformed length %d", p.Malformed)
		}
		out = Malformed(p.Malformed)
	}
	if p.Unmappable != 0 {
		set++
		if p.Unmappable < 0 {
			return Part{}, fmt.Errorf("conform: negative unmappable length %d", p.Unmappable)
		}
		out = Unmappable(p.Unmappable)
	}
	if set != 1 {
		return Part{}, fmt.Errorf("conform: part must set exactly one of text, hex, malformed, unmappable")
	}
	return out, nil
}

func (c SuiteCase) input() ([]byte, error) {
	switch {
	case c.InputHex != "" && c.InputText != "":
		return nil, fmt.Errorf("conform: case %q sets both input_hex and input_text", c.Name)
	case c.InputHex != "":
		return ParseHex(c.InputHex)
	default:
		return []byte(c.InputText), nil
	}
}

// ReadSuite parses a suite from r and validates its shape.
func ReadSuite(r io.Reader) (*Suite, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var s Suite
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("conform: parsing suite: %w", err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("conform: suite has no name")
	}
	for i, c := range s.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("conform: case %d has no name", i)
		}
		if c.Direction != "decode" && c.Direction != "encode" {
			return nil, fmt.Errorf("conform: case %q: bad direction %q", c.Name, c.Direction)
		}
		if c.Charset == "" {
			return nil, fmt.Errorf("conform: case %q has no charset", c.Name)
		}
		if len(c.Expect) == 0 {
			return nil, fmt.Errorf("conform: case %q has no expected parts", c.Name)
		}
	}
	return &s, nil
}

// LoadSuite reads a suite file from disk.
func LoadSuite(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ReadSuite(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Report is the machine-readable result of running one suite.
type Report struct {
	Suite      string       `json:"suite"`
	Cases      []CaseReport `json:"cases"`
	Combos     int          `json:"combinations"`
	Violations int          `json:"violations"`
}

// CaseReport records one case's grid size and the laws it broke.
type CaseReport struct {
	Name       string   `json:"name"`
	Charset    string   `json:"charset"`
	Direction  string   `json:"direction"`
	Combos     int      `json:"combinations"`
	Violations []string `json:"violations,omitempty"`
}

// Run executes every case in the suite against its declared charset and
// collects the violations. Unknown charsets and malformed cases are
// reported as errors rather than violations.
func (s *Suite) Run() (*Report, error) {
	rep := &Report{Suite: s.Name}
	for _, sc := range s.Cases {
		cs, err := charset.Lookup(sc.Charset)
		if err != nil {
			return nil, fmt.Errorf("conform: case %q: %w", sc.Name, err)
		}
		input, err := sc.input()
		if err != nil {
			return nil, fmt.Errorf("conform: case %q: %w", sc.Name, err)
		}
		parts := make([]Part, len(sc.Expect))
		for i, sp := range sc.Expect {
			if parts[i], err = sp.part(); err != nil {
				return nil, fmt.Errorf("conform: case %q part %d: %w", sc.Name, i, err)
			}
		}

		tc := Case{Name: sc.Name, Input: input, Parts: parts}
		var vs []Violation
		if sc.Direction == "decode" {
			vs = CheckDecode(cs, tc)
		} else {
			vs = CheckEncode(cs, tc)
		}

		cr := CaseReport{
			Name:      sc.Name,
			Charset:   cs.Name(),
			Direction: sc.Direction,
			Combos:    Combinations(parts),
		}
		for _, v := range vs {
			cr.Violations = append(cr.Violations, v.String())
		}
		sort.Strings(cr.Violations)

		rep.Cases = append(rep.Cases, cr)
		rep.Combos += cr.Combos
		rep.Violations += len(cr.Violations)
	}
	return rep, nil
}

// Passed reports whether the run found no violations.
func (r *Report) Passed() bool {
	return r.Violations == 0
}

// Canonical serializes the report in RFC 8785 canonical form so that two
// runs over the same suite are byte-comparable.
func (r *Report) Canonical() ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	canon, err := cyberphone.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("conform: canonicalizing report: %w", err)
	}
	return canon, nil
}
