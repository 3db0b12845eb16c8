package liquidacion

import (
	"regexp"
	"strings"
)

// grains maps the folded grain name to its display name and commodity code.
var grains = map[string]struct{ display, code string }{
	"SOJA":            {"Soja", "123"},
	"MAIZ":            {"Maíz", "124"},
	"TRIGO":           {"Trigo", "161"},
	"GIRASOL":         {"Girasol", "157"},
	"ARVEJA":          {"Arveja", "120"},
	"SORGO":           {"Sorgo", "151"},
	"CAMELINA SATIVA": {"Camelina Sativa", "162"},
}

var (
	grainRegex    = regexp.MustCompile(`\b(SOJA|MAIZ|TRIGO|GIRASOL|ARVEJA|SORGO|CAMELINA\s*SATIVA)\b`)
	campaignRegex = regexp.MustCompile(`(?i)Campa[ñn]a\s*[:\-]\s*([^\n]+)`)
	coeRegex      = regexp.MustCompile(`(?i)C\.O\.E\.\s*:\s*([0-9]{8,})`)

	headerDateRegex = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s*[,–\-]\s*([^\n]+)`)
	anyDateRegex    = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

	deliveredRowRegex    = regexp.MustCompile(`(?i)\b(\d{10,14})\b\s+([A-Z0-9]{1,4})\s+` + numToken + `\s+` + numToken + `\s+` + numToken)
	deliveredOriginRegex = regexp.MustCompile(`(?i)Localidad\s*:\s*([^\n]+)`)
)

// ExtractGrain returns the display name and commodity code of the first grain
// named in the text, or two empty strings.
func ExtractGrain(text string) (name, code string) {
	m := grainRegex.FindStringSubmatch(Fold(text))
	if m == nil {
		return "", ""
	}
	g, ok := grains[collapseSpaces(m[1])]
	if !ok {
		// "CAMELINASATIVA" written without a space
		g = grains["CAMELINA SATIVA"]
	}
	return g.display, g.code
}

// ExtractCampaign returns the label following "Campaña".
func ExtractCampaign(text string) string {
	return firstGroup(campaignRegex, text)
}

// COE is the settlement receipt code and its positional decomposition.
type COE struct {
	Code       string `json:"coe"`
	PuntoVenta string `json:"pv"`
	Numero     string `json:"numero"`
}

// ExtractCOE finds the receipt code after "C.O.E.:". The first four digits
// are the point of sale and the next eight the sequence number.
func ExtractCOE(text string) COE {
	code := firstGroup(coeRegex, text)
	c := COE{Code: code}
	if len(code) >= 4 {
		c.PuntoVenta = code[:4]
	}
	switch {
	case len(code) >= 12:
		c.Numero = code[4:12]
	case len(code) > 4:
		c.Numero = code[4:]
	}
	return c
}

// ExtractHeader returns the issue date and locality of the "dd/mm/yyyy,
// LOCALIDAD" header line. When the locality is missing only the first date of
// the page is returned.
func ExtractHeader(pageText string) (fecha, localidad string) {
	if m := headerDateRegex.FindStringSubmatch(pageText); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return anyDateRegex.FindString(pageText), ""
}

// DetectTipo returns F2 for secondary settlements and F1 otherwise.
func DetectTipo(text string) string {
	if strings.Contains(Normalize(text), "LIQUIDACION SECUNDARIA") {
		return TipoF2
	}
	return TipoF1
}

// ExtractDelivered parses the goods-delivered sub-table between "MERCADERIA
// ENTREGADA" and "OPERACIÓN". The origin comes from a "Localidad:" line in the
// same section and is shared by every row.
func ExtractDelivered(text string) []DeliveredItem {
	ft := newFoldedText(text)
	start := ft.index("MERCADERIA ENTREGADA", 0)
	if start < 0 {
		return nil
	}
	end := ft.index("OPERACION", start+1)
	if end < 0 {
		return nil
	}
	sec := text[start:end]

	origin := collapseSpaces(firstGroup(deliveredOriginRegex, sec))
	var items []DeliveredItem
	for _, m := range deliveredRowRegex.FindAllStringSubmatch(sec, -1) {
		items = append(items, DeliveredItem{
			ReceiptNumber:  m[1],
			Grade:          m[2],
			Factor:         numberOrZero(m[3]),
			ProteinContent: numberOrZero(m[4]),
			WeightKg:       numberOrZero(m[5]),
			Origin:         origin,
		})
	}
	return items
}

// ExtractAcopio parses the acquiring entity from an "ACOPIADOR" or
// "CONSIGNATARIO" block printed above the buyer/seller columns. ok is false
// when the document has no such block or it carries neither name nor tax id.
func ExtractAcopio(pageText string) (Party, bool) {
	ft := newFoldedText(pageText)
	limit := ft.firstIndex(0, "COMPRADOR", "VENDEDOR")
	if limit < 0 {
		limit = len(pageText)
	}
	start := ft.firstIndex(0, "ACOPIADOR", "CONSIGNATARIO")
	if start < 0 || start >= limit {
		return Party{}, false
	}
	p := ParseParty(pageText[start:limit])
	if p.Name == "" && p.TaxID == "" {
		return Party{}, false
	}
	return p, true
}
