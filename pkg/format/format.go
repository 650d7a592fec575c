// Package format turns textual format specs into number formatters.
//
// Chart options arrive from JSON, TOML or command-line flags, where a Go
// function cannot be expressed. A spec names a formatter instead:
//
//	""            raw number, shortest representation ("12", "-4", "0.5")
//	"comma"       thousands separators ("1,234,567.5")
//	"si"          SI prefixes with one decimal ("1.2 k")
//	"si:3"        SI prefixes with the given decimals
//	"ftoa"        trimmed decimal ("3.5")
//	"ftoa:2"      trimmed decimal with at most two digits
//	"fmt:#,###.##" go-humanize FormatFloat pattern
//	"$%.2f"       any printf pattern with a single float verb
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/waterfall/pkg/errors"
)

// Func formats a single number.
type Func func(float64) string

// Number formats v the way a browser prints a number: shortest round-trip
// decimal, "NaN" and "Infinity" for the special values.
func Number(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Parse builds a formatter from spec. An empty spec yields nil, which
// callers treat as "print the raw number".
func Parse(spec string) (Func, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	name, arg, hasArg := strings.Cut(spec, ":")
	switch name {
	case "comma":
		return humanize.Commaf, nil
	case "si":
		digits, err := digitsArg(spec, arg, hasArg, 1)
		if err != nil {
			return nil, err
		}
		return func(v float64) string { return humanize.SIWithDigits(v, digits, "") }, nil
	case "ftoa":
		if !hasArg {
			return humanize.Ftoa, nil
		}
		digits, err := digitsArg(spec, arg, hasArg, 0)
		if err != nil {
			return nil, err
		}
		return func(v float64) string { return humanize.FtoaWithDigits(v, digits) }, nil
	case "fmt":
		if arg == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "format %q: missing pattern", spec)
		}
		return func(v float64) string { return humanize.FormatFloat(arg, v) }, nil
	}

	if strings.Contains(spec, "%") {
		return printf(spec)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", spec)
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(spec string) Func {
	f, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return f
}

func digitsArg(spec, arg string, hasArg bool, def int) (int, error) {
	if !hasArg {
		return def, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n > 12 {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "format %q: digits must be 0-12", spec)
	}
	return n, nil
}

func printf(pattern string) (Func, error) {
	probe := fmt.Sprintf(pattern, 1.5)
	if strings.Contains(probe, "%!") {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "format %q: not a single float verb", pattern)
	}
	return func(v float64) string { return fmt.Sprintf(pattern, v) }, nil
}
