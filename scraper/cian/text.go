package cian

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	floatTokenRe  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	intTokenRe    = regexp.MustCompile(`\d+`)
	commissionRe  = regexp.MustCompile(`(\d+)\s*%`)
	spaceStripper = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "")
)

// normalizeNumeric prepares free text for numeric token extraction:
// non-breaking spaces become plain spaces, decimal commas become dots.
func normalizeNumeric(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\u202f", " ")
	return strings.ReplaceAll(s, ",", ".")
}

// lastFloat returns the last float-like token in the text. The last token
// wins because listing titles often carry leading counters and other
// markup noise before the value of interest.
func lastFloat(s string) (float64, bool) {
	matches := floatTokenRe.FindAllString(normalizeNumeric(s), -1)
	if len(matches) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(matches[len(matches)-1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// firstFloat returns the first float-like token in the text.
func firstFloat(s string) (float64, bool) {
	m := floatTokenRe.FindString(normalizeNumeric(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// allInts returns every integer token in the text, in order.
func allInts(s string) []int {
	matches := intTokenRe.FindAllString(s, -1)
	ints := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		ints = append(ints, n)
	}
	return ints
}

// lastInt returns the last integer token in the text.
func lastInt(s string) (int, bool) {
	ints := allInts(s)
	if len(ints) == 0 {
		return 0, false
	}
	return ints[len(ints)-1], true
}

// parseAmount reads a ruble amount written with thousands separators
// ("12 500 000") from the tail of the text. Separators are stripped first
// so the grouped digits collapse into a single token.
func parseAmount(s string) (int, bool) {
	return lastInt(spaceStripper.Replace(s))
}
