package text

import (
	"regexp"
	"strings"
)

// OCR output tends to carry LaTeX residue around plain numbers and units,
// plus horizontal-rule placeholders at page edges. Normalize strips both.
// The transformation is idempotent.
var (
	ruleLine   = regexp.MustCompile(`^\s*[-*_]{3,}\s*$`)
	mathUnit   = regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)\s*\\mathrm\{([a-zA-Z]+)\}\s*\$`)
	trailUnit  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*\$\s*\\mathrm\{([a-zA-Z]+)\}\s*\$`)
	bareNumber = regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)\s*\$`)
)

func Normalize(s string) string {
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	for len(lines) > 0 && ruleLine.MatchString(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && ruleLine.MatchString(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	s = strings.TrimSpace(strings.Join(lines, "\n"))

	s = mathUnit.ReplaceAllString(s, "${1}${2}")
	s = trailUnit.ReplaceAllString(s, "${1}${2}")
	s = bareNumber.ReplaceAllString(s, "${1}")

	// Leftovers the patterns above miss, e.g. a unit split from its number.
	s = strings.ReplaceAll(s, `\mathrm{g}`, "g")

	return s
}
