// Command charset-conform runs codec conformance suites and reports the
// results as RFC 8785 canonical JSON.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lattice-substrate/charset-conform/charset"
	"github.com/lattice-substrate/charset-conform/conform"
)

const (
	exitSuccess  = 0
	exitInvalid  = 2
	exitInternal = 10
)

// Suites are authored by hand; anything larger than this is a mistake.
const maxSuiteSize = 16 << 20

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		if err := writeLine(stderr, "usage: charset-conform <run|list> [options] [file|-]"); err != nil {
			return exitInternal
		}
		return exitInvalid
	}

	switch args[0] {
	case "run":
		return cmdRun(args[1:], stdin, stdout, stderr)
	case "list":
		return cmdList(args[1:], stdout, stderr)
	default:
		if err := writef(stderr, "unknown command: %s\n", args[0]); err != nil {
			return exitInternal
		}
		if err := writeLine(stderr, "usage: charset-conform <run|list> [options] [file|-]"); err != nil {
			return exitInternal
		}
		return exitInvalid
	}
}

type flags struct {
	quiet bool
	help  bool
}

func parseFlags(args []string) (flags, []string, error) {
	var f flags
	var positional []string
	consumeAsPositional := false
	for _, arg := range args {
		if consumeAsPositional {
			positional = append(positional, arg)
			continue
		}

		switch arg {
		case "--quiet", "-q":
			f.quiet = true
		case "--help", "-h":
			f.help = true
		case "--":
			consumeAsPositional = true
		case "-":
			positional = append(positional, arg)
		default:
			if strings.HasPrefix(arg, "-") {
				return flags{}, nil, fmt.Errorf("unknown option: %s", arg)
			}
			positional = append(positional, arg)
		}
	}
	return f, positional, nil
}

func cmdRun(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, exitInvalid, "error: %v\n", err)
	}

	if fl.help {
		if err := writeRunHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}

	if exitCode, ok := ensureSingleInput(positional, stderr); ok {
		return exitCode
	}

	suite, err := readSuite(positional, stdin)
	if err != nil {
		return writeErrorAndReturn(stderr, exitInvalid, "error: %v\n", err)
	}

	report, err := suite.Run()
	if err != nil {
		return writeErrorAndReturn(stderr, exitInvalid, "error: %v\n", err)
	}

	canonical, err := report.Canonical()
	if err != nil {
		return writeErrorAndReturn(stderr, exitInternal, "error: %v\n", err)
	}

	if !fl.quiet {
		if _, err := stdout.Write(canonical); err != nil {
			return writeErrorAndReturn(stderr, exitInternal, "error: writing report: %v\n", err)
		}
		if err := writeLine(stdout, ""); err != nil {
			return exitInternal
		}
	}

	if !report.Passed() {
		for _, c := range report.Cases {
			for _, v := range c.Violations {
				if err := writeLine(stderr, v); err != nil {
					return exitInternal
				}
			}
		}
		return exitInvalid
	}
	return exitSuccess
}

func cmdList(args []string, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, exitInvalid, "error: %v\n", err)
	}

	if fl.help {
		if err := writeListHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}

	if len(positional) != 0 {
		return writeErrorAndReturn(stderr, exitInvalid, "error: list takes no arguments\n")
	}

	for _, name := range charset.Names() {
		line := name
		if aliases := charset.Aliases(name); len(aliases) > 0 {
			line += "\t" + strings.Join(aliases, " ")
		}
		if err := writeLine(stdout, line); err != nil {
			return exitInternal
		}
	}
	return exitSuccess
}

func readSuite(positional []string, stdin io.Reader) (*conform.Suite, error) {
	if len(positional) == 0 || positional[0] == "-" {
		lr := io.LimitReader(stdin, maxSuiteSize)
		return conform.ReadSuite(lr)
	}
	return conform.LoadSuite(positional[0])
}

func ensureSingleInput(positional []string, stderr io.Writer) (int, bool) {
	if len(positional) <= 1 {
		return 0, false
	}
	if err := writeLine(stderr, "error: multiple suite files specified"); err != nil {
		return exitInternal, true
	}
	return exitInvalid, true
}

func writeErrorAndReturn(stderr io.Writer, code int, format string, args ...any) int {
	if err := writef(stderr, format, args...); err != nil {
		return exitInternal
	}
	return code
}

func writeRunHelp(stderr io.Writer) error {
	if err := writeLine(stderr, "usage: charset-conform run [--quiet] [file|-]"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  Read a suite from file (or stdin), run every case, emit a canonical"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  JSON report to stdout and each violation to stderr."); err != nil {
		return err
	}
	return writeLine(stderr, "  --quiet   Suppress the report; the exit code still reflects the result")
}

func writeListHelp(stderr io.Writer) error {
	if err := writeLine(stderr, "usage: charset-conform list"); err != nil {
		return err
	}
	return writeLine(stderr, "  Print the builtin charsets, one per line, with their aliases")
}

func writeLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
