package liquidacion

import "regexp"

var (
	formattedCUITRegex = regexp.MustCompile(`\b(\d{2})\D?(\d{8})\D?(\d)\b`)
	bareCUITRegex      = regexp.MustCompile(`\b(\d{11})\b`)
	nonDigitRegex      = regexp.MustCompile(`\D`)
)

// NormalizeCUIT extracts an 11-digit tax id from noisy text. A formatted id
// (2-8-1 digits with optional separators) wins over a bare 11-digit run; as a
// last resort every digit is kept and the first 11 returned, or whatever
// partial digits exist. Returns "" when the text holds no digits at all.
func NormalizeCUIT(raw string) string {
	if m := formattedCUITRegex.FindStringSubmatch(raw); m != nil {
		return m[1] + m[2] + m[3]
	}
	if m := bareCUITRegex.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	d := nonDigitRegex.ReplaceAllString(raw, "")
	if len(d) >= 11 {
		return d[:11]
	}
	return d
}
