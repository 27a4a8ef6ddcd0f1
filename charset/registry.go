package charset

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Charmap-backed builtins.
var (
	ISO8859_1   = FromCharmap("iso-8859-1", charmap.ISO8859_1)
	Windows1252 = FromCharmap("windows-1252", charmap.Windows1252)
	KOI8R       = FromCharmap("koi8-r", charmap.KOI8R)
)

var builtins = map[string]Charset{
	"utf-8":        UTF8,
	"us-ascii":     ASCII,
	"utf-16be":     UTF16BE,
	"utf-16le":     UTF16LE,
	"iso-8859-1":   ISO8859_1,
	"windows-1252": Windows1252,
	"koi8-r":       KOI8R,
}

// aliases maps normalized alternative spellings to canonical names. The
// US-ASCII set carries the full IANA alias roster since ASCII is the name
// most often spelled differently in the wild.
var aliases = map[string]string{
	"ascii":            "us-ascii",
	"ansi_x3.4-1968":   "us-ascii",
	"ansi_x3.4-1986":   "us-ascii",
	"iso-ir-6":         "us-ascii",
	"iso646-us":        "us-ascii",
	"iso_646.irv:1991": "us-ascii",
	"us":               "us-ascii",
	"cp367":            "us-ascii",
	"ibm367":           "us-ascii",
	"csascii":          "us-ascii",
	"646":              "us-ascii",

	"utf8":              "utf-8",
	"unicode-1-1-utf-8": "utf-8",

	"utf16be": "utf-16be",
	"utf16le": "utf-16le",

	"latin1":      "iso-8859-1",
	"latin-1":     "iso-8859-1",
	"iso8859-1":   "iso-8859-1",
	"iso_8859-1":  "iso-8859-1",
	"iso-ir-100":  "iso-8859-1",
	"l1":          "iso-8859-1",
	"cp819":       "iso-8859-1",
	"ibm819":      "iso-8859-1",
	"csisolatin1": "iso-8859-1",

	"cp1252": "windows-1252",

	"koi8r":   "koi8-r",
	"cskoi8r": "koi8-r",
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup resolves a charset by canonical name or alias. Names outside the
// builtin table are resolved through the IANA index when they map to a
// single-byte charmap.
func Lookup(name string) (Charset, error) {
	n := normalize(name)
	if canonical, ok := aliases[n]; ok {
		n = canonical
	}
	if cs, ok := builtins[n]; ok {
		return cs, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err == nil && enc != nil {
		if m, ok := enc.(*charmap.Charmap); ok {
			return FromCharmap(n, m), nil
		}
	}
	return nil, fmt.Errorf("charset: unsupported charset %q", name)
}

// Names returns the canonical builtin names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Aliases returns the alternative spellings registered for a canonical
// name, sorted.
func Aliases(canonical string) []string {
	var out []string
	for alias, c := range aliases {
		if c == normalize(canonical) {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}
