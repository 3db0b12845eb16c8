package liquidacion

import (
	"regexp"
	"strings"
)

// DefaultVATRate is assumed by the adjustment layout when the producer omits
// the rate column.
const DefaultVATRate = 10.5

// adjustmentScanLines bounds the search for the data row after the
// "OPERACIÓN" label of an adjustment table.
const adjustmentScanLines = 12

// Operation holds the numbers of the principal operation line.
type Operation struct {
	Kilos   float64 `json:"kilos"`
	Precio  float64 `json:"precio"`
	Neto    float64 `json:"neto"`
	AlicIVA float64 `json:"alic_iva"`
	IVA     float64 `json:"iva"`
	Total   float64 `json:"total"`
	Layout  string  `json:"layout,omitempty"`
}

// operationLayout is one strategy for locating the operation line. Layouts
// are evaluated in order and the first match wins.
type operationLayout struct {
	name    string
	applies func(ft *foldedText) bool
	extract func(text string, ft *foldedText) (Operation, bool)
}

const (
	numToken       = `([0-9][0-9.,]*)`
	signedNumToken = `(-?[0-9][0-9.,]*)`
	amountSep      = `\s+\$?\s*`
	unitSep        = `\s*\$?\s*`
)

var (
	standardOperationRegex = regexp.MustCompile(`(?im)^\s*` + numToken + `\s*Kg\.?` + unitSep + numToken + amountSep + numToken + amountSep + numToken + amountSep + numToken + amountSep + numToken)

	kilosRegex        = regexp.MustCompile(`(?i)` + numToken + `\s*Kg\b`)
	numberTokenRegex  = regexp.MustCompile(numToken)
	hasDigitRegex     = regexp.MustCompile(`[0-9]`)
	creditPhraseRegex = regexp.MustCompile(`AJUSTE\s+(?:DE\s+)?CREDITO`)

	operationLayouts = []operationLayout{
		{name: "adjustment", applies: isAdjustment, extract: adjustmentOperation},
		{name: "standard", applies: func(*foldedText) bool { return true }, extract: standardOperation},
	}
)

// ExtractOperation locates the principal quantity/price/amount/VAT line.
// Documents carrying the unified adjustment signature are read from their
// adjustment table first; every other document, and any adjustment document
// whose table cannot be read, uses the standard single-line layout. When no
// layout matches the zero Operation is returned.
func ExtractOperation(text string) Operation {
	ft := newFoldedText(text)
	for _, l := range operationLayouts {
		if !l.applies(ft) {
			continue
		}
		if op, ok := l.extract(text, ft); ok {
			op.Layout = l.name
			return op
		}
	}
	return Operation{}
}

func standardOperation(text string, _ *foldedText) (Operation, bool) {
	m := standardOperationRegex.FindStringSubmatch(text)
	if m == nil {
		return Operation{}, false
	}
	return Operation{
		Kilos:   numberOrZero(m[1]),
		Precio:  numberOrZero(m[2]),
		Neto:    numberOrZero(m[3]),
		AlicIVA: numberOrZero(m[4]),
		IVA:     numberOrZero(m[5]),
		Total:   numberOrZero(m[6]),
	}, true
}

// isAdjustment reports whether the text carries both the unified adjustment
// marker and the credit adjustment phrase.
func isAdjustment(ft *foldedText) bool {
	return ft.contains("AJUSTE UNIFICADO") && creditPhraseRegex.MatchString(ft.folded)
}

func adjustmentOperation(text string, ft *foldedText) (Operation, bool) {
	loc := creditPhraseRegex.FindStringIndex(ft.folded)
	if loc == nil {
		return Operation{}, false
	}
	lines := splitLines(text[ft.offs[loc[0]]:])

	start := -1
	for i, l := range lines {
		if strings.Contains(Fold(l), "OPERACION") {
			start = i
			break
		}
	}
	if start < 0 {
		return Operation{}, false
	}

	end := min(len(lines), start+1+adjustmentScanLines)
	for _, l := range lines[start+1 : end] {
		if !strings.Contains(Fold(l), "KG") || !hasDigitRegex.MatchString(l) {
			continue
		}
		return adjustmentRow(l)
	}
	return Operation{}, false
}

// adjustmentRow reads the data row positionally from the kilos token on:
// kilos, price and subtotal are always present, followed by either
// rate, VAT and total or just VAT and total.
func adjustmentRow(line string) (Operation, bool) {
	loc := kilosRegex.FindStringSubmatchIndex(line)
	if loc == nil {
		return Operation{}, false
	}
	tokens := []string{line[loc[2]:loc[3]]}
	tokens = append(tokens, numberTokenRegex.FindAllString(line[loc[1]:], -1)...)

	var nums []float64
	for _, t := range tokens {
		if v, ok := ParseNumber(t); ok {
			nums = append(nums, v)
		}
	}

	op := Operation{}
	switch {
	case len(nums) >= 6:
		op.Kilos, op.Precio, op.Neto = nums[0], nums[1], nums[2]
		op.AlicIVA, op.IVA, op.Total = nums[3], nums[4], nums[5]
	case len(nums) == 5:
		op.Kilos, op.Precio, op.Neto = nums[0], nums[1], nums[2]
		op.AlicIVA, op.IVA, op.Total = DefaultVATRate, nums[3], nums[4]
	default:
		return Operation{}, false
	}
	return op, true
}
