package extract

import (
	"strconv"
	"strings"
)

// ocrRepairs is the bounded substitution set for common OCR digit
// confusions. Applied only when a straight parse fails and the token
// contains at least one real digit.
var ocrRepairs = map[rune]rune{
	'O': '0',
	'o': '0',
	'D': '0',
	'l': '1',
	'I': '1',
	'|': '1',
	'S': '5',
	's': '5',
	'B': '8',
	'Z': '2',
}

// parseNumeric parses a candidate numeric token, tolerating thousands
// separators and common OCR digit confusions. The straight parse is
// attempted first; only on failure is the repair pass applied. Returns
// false when no repair yields a valid number.
func parseNumeric(token string) (float64, bool) {
	clean := strings.ReplaceAll(token, ",", "")
	clean = strings.TrimRight(clean, ".")
	if clean == "" {
		return 0, false
	}

	if v, err := strconv.ParseFloat(clean, 64); err == nil {
		return v, true
	}

	// Repairs are only plausible when part of the token already reads as
	// digits; a token with none is a word, not a mangled number.
	if !strings.ContainsAny(clean, "0123456789") {
		return 0, false
	}

	repaired := []rune(clean)
	for i, r := range repaired {
		if sub, ok := ocrRepairs[r]; ok {
			repaired[i] = sub
		}
	}
	v, err := strconv.ParseFloat(string(repaired), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
