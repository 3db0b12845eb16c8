package liquidacion

import (
	"regexp"
	"strings"
)

var (
	deductionSectionStart = []string{"DEDUCCIONES"}
	deductionSectionEnd   = []string{"RETENCIONES", "IMPORTES TOTALES", "IMPORTE NETO A PAGAR"}

	deductionHeaderPhrases = []string{"BASE CALCULO", "BASE IMPONIBLE"}

	// Header artifacts that look like a deduction when the table wraps.
	deductionBlacklist = map[string]bool{
		"COMISION O GASTOS": true,
		"ADMINISTRATIVOS":   true,
		"OTRAS DEDUCCIONES": true,
	}

	continuationRegex = regexp.MustCompile(`^\d+\s*[-.)]?\s*[^\d\s]`)
	moneyRegex        = regexp.MustCompile(`\$|\d[.,]\d{2}\b`)
)

// deductionShape is one line layout of the deductions table.
type deductionShape struct {
	re    *regexp.Regexp
	build func(m []string) DeductionLine
}

var deductionShapes = []deductionShape{
	{
		// <concept> <net> <rate>[%] <vat> <total>; a zero rate marks an exempt line
		re: regexp.MustCompile(`^(.*?)\s+\$?\s*` + numToken + `\s+` + numToken + `\s*%?\s+\$?\s*` + numToken + `\s+\$?\s*` + numToken + `\s*$`),
		build: func(m []string) DeductionLine {
			net := numberOrZero(m[2])
			total, ok := ParseNumber(m[5])
			if !ok {
				total = net
			}
			return DeductionLine{
				Concept:     strings.TrimSpace(m[1]),
				NetAmount:   net,
				RatePercent: numberOrZero(m[3]),
				VATAmount:   numberOrZero(m[4]),
				TotalAmount: total,
			}
		},
	},
}

// ExtractDeductions parses the deductions table between "DEDUCCIONES" and
// "RETENCIONES". Lines that match no known shape are skipped. A numeric-coded
// line without amounts is carried over as a prefix of the next matched
// concept.
func ExtractDeductions(text string) []DeductionLine {
	sec, ok := section(text, deductionSectionStart, deductionSectionEnd)
	if !ok {
		return nil
	}

	var out []DeductionLine
	pending := ""
	for _, line := range splitLines(sec) {
		if isDeductionHeader(line) {
			continue
		}
		line = collapseSpaces(line)

		d, matched := matchDeduction(line)
		if !matched {
			if continuationRegex.MatchString(line) && !moneyRegex.MatchString(line) {
				pending = strings.TrimSpace(pending + " " + line)
			}
			continue
		}
		if pending != "" {
			d.Concept = strings.TrimSpace(pending + " " + d.Concept)
			pending = ""
		}
		if deductionBlacklist[Normalize(d.Concept)] {
			continue
		}
		out = append(out, d)
	}
	return out
}

func matchDeduction(line string) (DeductionLine, bool) {
	for _, s := range deductionShapes {
		if m := s.re.FindStringSubmatch(line); m != nil {
			return s.build(m), true
		}
	}
	return DeductionLine{}, false
}

func isDeductionHeader(line string) bool {
	f := Normalize(line)
	if strings.HasPrefix(f, "CONCEPTO") {
		return true
	}
	for _, p := range deductionHeaderPhrases {
		if strings.Contains(f, p) {
			return true
		}
	}
	return false
}
