package liquidacion

import (
	"math"
	"regexp"
	"strings"
)

var (
	signedNumberRegex   = regexp.MustCompile(`-?\d[\d.,]*`)
	perceptionFallRegex = regexp.MustCompile(`(?s)PERCEP\w*\.?\s*(?:DE\s+)?I\.?V\.?A.*?\$?\s*` + numToken)
)

// ExtractPerceptionIVA returns the VAT perception amount: the trailing number
// of every line naming both a perception and IVA, keeping the largest in
// absolute value.
func ExtractPerceptionIVA(text string) float64 {
	best := 0.0
	for _, line := range splitLines(text) {
		f := Normalize(line)
		if !strings.Contains(f, "PERCEP") || !vatRetention.token.MatchString(f) {
			continue
		}
		nums := signedNumberRegex.FindAllString(line, -1)
		if len(nums) == 0 {
			continue
		}
		if v, ok := ParseNumber(nums[len(nums)-1]); ok && math.Abs(v) > math.Abs(best) {
			best = v
		}
	}
	if best != 0 {
		return best
	}

	m := perceptionFallRegex.FindStringSubmatch(Fold(text))
	if m == nil {
		return 0
	}
	return numberOrZero(m[1])
}
