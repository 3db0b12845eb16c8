package liquidacion

import (
	"regexp"
	"strings"
)

// Fiscal condition tags.
const (
	CondRI = "RI"
	CondEX = "EX"
	CondCF = "CF"
)

// Party is one side of the settlement.
type Party struct {
	Name            string `json:"razon_social"`
	Address         string `json:"domicilio"`
	Locality        string `json:"localidad"`
	TaxID           string `json:"cuit"`
	VATConditionRaw string `json:"iva"`
}

// CondFisc derives the fiscal condition tag from the raw VAT condition:
// RI (responsable inscripto), EX (exento), CF (consumidor final), or the raw
// value when none applies.
func (p Party) CondFisc() string {
	v := Normalize(p.VATConditionRaw)
	switch {
	case condRIRegex.MatchString(v):
		return CondRI
	case condEXRegex.MatchString(v):
		return CondEX
	case condCFRegex.MatchString(v):
		return CondCF
	}
	return strings.TrimSpace(p.VATConditionRaw)
}

// IsZero reports whether no field of the party was found.
func (p Party) IsZero() bool {
	return p == Party{}
}

var (
	nameLabelRegex    = regexp.MustCompile(`(?i)Raz[oó]n\s+Social\s*:\s*(.*)$`)
	addressLabelRegex = regexp.MustCompile(`(?i)Domicilio\s*:\s*(.*)$`)

	nameStopRegex    = regexp.MustCompile(`(?i)^(Domicilio|Localidad|C\.U\.I\.T|I\.V\.A|IIBB|Ingresos\s+Brutos)\b`)
	addressStopRegex = regexp.MustCompile(`(?i)^(Localidad|C\.U\.I\.T|I\.V\.A|IIBB|Ingresos\s+Brutos)\b`)

	// Any of these inside a continuation line means the line starts another
	// field, usually bled in from the opposite column.
	fieldLabelRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bRaz[oó]n\s+Social\b\s*:`),
		regexp.MustCompile(`(?i)\bDomicilio\b\s*:`),
		regexp.MustCompile(`(?i)\bC\.U\.I\.T\b`),
		regexp.MustCompile(`(?i)\bI\.V\.A\b`),
	}

	localityRegex = regexp.MustCompile(`(?i)Localidad\s*:\s*([^\n]+)`)
	taxIDRegex    = regexp.MustCompile(`(?i)C\.U\.I\.T\.?\s*:?\s*([^\n]+)`)
	vatCondRegex  = regexp.MustCompile(`(?i)I\.V\.A\.?\s*:?\s*([^\n]+)`)

	condRIRegex = regexp.MustCompile(`\bR\.?I\b|RESP|INSCRIPTO`)
	condEXRegex = regexp.MustCompile(`\bEX\b|EXENTO`)
	condCFRegex = regexp.MustCompile(`\bC\.?F\b|CONSUMIDOR`)

	bleedLabels = []string{"RAZON SOCIAL", "DOMICILIO", "C.U.I.T", "I.V.A", "LOCALIDAD", "COMPRADOR", "VENDEDOR"}
)

// ParseParty extracts a party from one column of the party block. Name and
// address may wrap over several lines; locality, tax id and VAT condition are
// single-line values.
func ParseParty(block string) Party {
	if strings.TrimSpace(block) == "" {
		return Party{}
	}
	text := strings.ReplaceAll(block, "\r", "\n")
	lines := splitLines(text)

	return Party{
		Name:            cutAtLabels(multilineValue(lines, nameLabelRegex, nameStopRegex)),
		Address:         cutAtLabels(multilineValue(lines, addressLabelRegex, addressStopRegex)),
		Locality:        cutAtLabels(firstGroup(localityRegex, text)),
		TaxID:           NormalizeCUIT(firstGroup(taxIDRegex, text)),
		VATConditionRaw: firstGroup(vatCondRegex, text),
	}
}

// multilineValue returns the value of the first line matching label, joined
// with the continuation lines that follow it. A continuation has no colon and
// does not start another field.
func multilineValue(lines []string, label, stop *regexp.Regexp) string {
	for i, line := range lines {
		m := label.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		parts := []string{strings.TrimSpace(m[1])}
		for _, next := range lines[i+1:] {
			if stop.MatchString(next) || startsField(next) || strings.Contains(next, ":") {
				break
			}
			parts = append(parts, next)
		}
		return collapseSpaces(strings.Join(parts, " "))
	}
	return ""
}

func startsField(line string) bool {
	for _, re := range fieldLabelRegexes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// cutAtLabels truncates v at any other field label found after its first
// character.
func cutAtLabels(v string) string {
	v = collapseSpaces(v)
	for _, lab := range bleedLabels {
		if i := newFoldedText(v).index(lab, 0); i > 0 {
			v = strings.TrimSpace(v[:i])
		}
	}
	return v
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
