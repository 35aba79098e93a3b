package utils

import (
	"strconv"
	"strings"
)

// NormalizeLines cleans and splits raw invoice text into lines.
// Line order is preserved; nearby lines belong to the same product record,
// so '\n' must never be collapsed before this point.
func NormalizeLines(text string) []string {
	text = strings.ReplaceAll(text, "\r", "")
	rawLines := strings.Split(text, "\n")

	lines := make([]string, 0, len(rawLines))
	for _, l := range rawLines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// parseAmount parses an Indian-format numeral like "24,13,858.92"
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
