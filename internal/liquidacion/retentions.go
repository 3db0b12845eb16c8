package liquidacion

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// RetentionTolerance is the relative error accepted when checking that a
// bare amount equals base × rate.
const RetentionTolerance = 0.02

// Resolution rules.
const (
	RuleCurrency     = "currency"
	RuleBaseRatePair = "base_rate_pair"
	RuleFallback     = "section_fallback"
)

// RetentionCandidate is one possible withheld amount found near a rate.
type RetentionCandidate struct {
	Amount     float64 `json:"amount"`
	Base       float64 `json:"base,omitempty"`
	Rate       float64 `json:"rate"`
	Rule       string  `json:"rule"`
	Confidence float64 `json:"confidence"`
}

// Retentions holds the withheld amounts of both tax types together with the
// candidates that produced them.
type Retentions struct {
	IVA                 float64              `json:"ret_iva"`
	Ganancias           float64              `json:"ret_gan"`
	IVACandidates       []RetentionCandidate `json:"ret_iva_candidates,omitempty"`
	GananciasCandidates []RetentionCandidate `json:"ret_gan_candidates,omitempty"`
}

type retentionTax struct {
	token *regexp.Regexp
	label *regexp.Regexp
}

var (
	retentionSectionStart = []string{"RETENCIONES"}
	retentionSectionEnd   = []string{
		"GRADO", "CONDICIONES", "OTROS", "MERCADERIA ENTREGADA",
		"IMPORTES TOTALES", "IMPORTE NETO A PAGAR", "FIRMA",
	}

	// Regulation references mention the tax name next to a number that is
	// never the withheld amount.
	retentionDecoyRegex = regexp.MustCompile(`R\.?\s*G\.?\s*4310|\b4310\b`)

	rateRegex        = regexp.MustCompile(numToken + `\s*%`)
	windowTokenRegex    = regexp.MustCompile(`(\$\s*)?` + signedNumToken)
	currencyAmountRegex = regexp.MustCompile(`\$\s*` + signedNumToken)

	vatRetention = retentionTax{
		token: regexp.MustCompile(`\bI\.?V\.?A\b`),
		label: regexp.MustCompile(`RETENCION.*IVA|I\.V\.A\.`),
	}
	incomeTaxRetention = retentionTax{
		token: regexp.MustCompile(`\bGANANCIAS\b`),
		label: regexp.MustCompile(`GANANCIAS`),
	}
)

// ExtractRetentions resolves the VAT and income-tax withholding amounts from
// the "RETENCIONES" section. Each tax is resolved independently; an amount
// that cannot be recovered is 0.
func ExtractRetentions(text string) Retentions {
	sec, ok := section(text, retentionSectionStart, retentionSectionEnd)
	if !ok {
		return Retentions{}
	}
	var r Retentions
	r.IVA, r.IVACandidates = resolveTax(sec, vatRetention)
	r.Ganancias, r.GananciasCandidates = resolveTax(sec, incomeTaxRetention)
	return r
}

func resolveTax(sec string, tax retentionTax) (float64, []RetentionCandidate) {
	lines := splitLines(sec)
	for i, line := range lines {
		f := Fold(line)
		if !strings.Contains(f, "%") || !tax.token.MatchString(f) || retentionDecoyRegex.MatchString(f) {
			continue
		}
		loc := rateRegex.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		rate, _ := ParseNumber(line[loc[2]:loc[3]])

		window := line[loc[1]:]
		if i+1 < len(lines) {
			window += "\n" + lines[i+1]
		}
		if j := strings.Index(window, "%"); j >= 0 {
			window = window[:j]
		}

		if cands := ResolveRetention(rate, window); len(cands) > 0 {
			return cands[0].Amount, cands
		}
	}

	v, ok := fallbackAmount(lines, tax.label)
	if !ok {
		return 0, nil
	}
	return v, []RetentionCandidate{{Amount: v, Rule: RuleFallback, Confidence: 0.5}}
}

// fallbackAmount takes the last currency amount of the first line, from the
// tax label onward, that carries one. A line lists base before amount, so the
// last value is the withheld one.
func fallbackAmount(lines []string, label *regexp.Regexp) (float64, bool) {
	found := false
	for _, line := range lines {
		f := Fold(line)
		if !found {
			if !label.MatchString(f) {
				continue
			}
			found = true
		}
		ms := currencyAmountRegex.FindAllStringSubmatch(f, -1)
		if len(ms) == 0 {
			continue
		}
		return ParseNumber(ms[len(ms)-1][1])
	}
	return 0, false
}

// ResolveRetention ranks the withheld-amount candidates in the text that
// follows a withholding rate. A currency-marked value is taken as is.
// Otherwise the next two bare numbers are read as an unordered (base, amount)
// pair and kept only when amount ≈ base × rate / 100 within
// RetentionTolerance. Candidates are ordered by descending confidence; an
// empty result means the amount is unrecoverable.
func ResolveRetention(rate float64, window string) []RetentionCandidate {
	var bare []float64
	for _, m := range windowTokenRegex.FindAllStringSubmatch(window, -1) {
		v, ok := ParseNumber(m[2])
		if !ok {
			continue
		}
		if m[1] != "" {
			return []RetentionCandidate{{Amount: v, Rate: rate, Rule: RuleCurrency, Confidence: 1}}
		}
		if len(bare) < 2 {
			bare = append(bare, v)
		}
	}
	if len(bare) < 2 || rate <= 0 {
		return nil
	}

	var cands []RetentionCandidate
	for _, p := range [][2]float64{{bare[0], bare[1]}, {bare[1], bare[0]}} {
		base, amount := p[0], p[1]
		expected := base * rate / 100
		if expected == 0 {
			continue
		}
		relErr := math.Abs(amount-expected) / math.Abs(expected)
		if relErr > RetentionTolerance {
			continue
		}
		cands = append(cands, RetentionCandidate{
			Amount:     amount,
			Base:       base,
			Rate:       rate,
			Rule:       RuleBaseRatePair,
			Confidence: 1 - relErr/RetentionTolerance,
		})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Confidence > cands[j].Confidence })
	return cands
}
