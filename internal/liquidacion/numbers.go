package liquidacion

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numberCharsRegex    = regexp.MustCompile(`[^0-9\-,.]`)
	commaFractionRegex  = regexp.MustCompile(`,\d{1,3}$`)
	emptyNumberSentinel = map[string]bool{"": true, ".": true, ",": true, "-": true, "-.": true, "-,": true}
)

// ParseNumber converts numeric text written in either the Argentine
// (1.234,56) or the US (1,234.56) convention into a float64. Currency symbols
// and any other non-numeric characters are dropped first.
//
// When both separators appear, the right-most one is the decimal separator.
// A lone comma is decimal only when followed by one to three trailing digits.
// A lone dot, or no separator, is taken as already normalized.
//
// The boolean is false when nothing parseable remains; callers treat that as
// "field not found".
func ParseNumber(raw string) (float64, bool) {
	s := numberCharsRegex.ReplaceAllString(strings.TrimSpace(raw), "")
	if emptyNumberSentinel[s] {
		return 0, false
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	case hasComma:
		if commaFractionRegex.MatchString(s) {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// numberOrZero coalesces a missing number to 0. Only the assembler and the
// final stage of an extractor should call it.
func numberOrZero(raw string) float64 {
	v, _ := ParseNumber(raw)
	return v
}
