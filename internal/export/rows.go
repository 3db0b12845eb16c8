package export

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/a3tai/mcp-liquidaciones/internal/liquidacion"
)

// Accounting codes used in the workbooks.
const (
	CodeRetIVA      = "RA07"
	CodeRetGan      = "RA05"
	CodePercIVA     = "P007"
	CpbteRetention  = "RV"
	CpbteDebitNote  = "ND"
	DocTypeCUIT     = 80
	MovementRate21  = 202
	MovementOther   = 203
	MovementExempt  = 203
	rate21Tolerance = 0.001
)

// Number formats.
const (
	FormatAmount = "#,##0.00"
	FormatRate   = "0.000"
	FormatMoney  = `"$"#,##0.00`
)

// Sheet is a header row plus data rows with per-column widths and formats.
type Sheet struct {
	Name    string
	Headers []string
	Widths  []float64
	Formats map[string]string
	Rows    [][]any
}

var ventasHeaders = []string{
	"Fecha dd/mm/aaaa", "Cpbte", "Tipo", "Suc.", "Número",
	"Razón Social o Denominación Cliente ",
	"Tipo Doc.", "CUIT", "Domicilio", "C.P.", "Pcia", "Cond Fisc",
	"Cód. Neto", "Neto Gravado", "Alíc.", "IVA Liquidado", "IVA Débito",
	"Cód. NG/EX", "Conceptos NG/EX", "Cód. P/R", "Perc./Ret.", "Pcia P/R", "Total",
}

var gastosHeaders = []string{
	"Fecha Emisión ", "Fecha Recepción", "Cpbte", "Suc.", "Número",
	"Razón Social/Denominación Proveedor",
	"Tipo Doc.", "CUIT", "Domicilio", "C.P.", "Pcia", "Cond Fisc",
	"Cód. Neto", "Neto Gravado", "Alíc.", "IVA Liquidado", "IVA Crédito",
	"Cód. NG/EX", "Conceptos NG/EX", "Cód. P/R", "Perc./Ret.", "Pcia P/R", "Total",
}

var amountFormats = map[string]string{
	"Neto Gravado":    FormatAmount,
	"IVA Liquidado":   FormatAmount,
	"IVA Débito":      FormatAmount,
	"IVA Crédito":     FormatAmount,
	"Conceptos NG/EX": FormatAmount,
	"Perc./Ret.":      FormatAmount,
	"Total":           FormatAmount,
	"Alíc.":           FormatRate,
}

// VentasSheet builds one sale row per settlement, with the buyer as client,
// followed by one row per non-zero withholding.
func VentasSheet(liqs []liquidacion.Liquidacion) Sheet {
	s := Sheet{
		Name:    "Ventas",
		Headers: ventasHeaders,
		Widths:  []float64{14, 8, 6, 7, 12, 40, 10, 14, 22, 8, 8, 10, 10, 14, 8, 14, 14, 10, 14, 10, 14, 10, 14},
		Formats: amountFormats,
	}

	for _, l := range liqs {
		buyer := l.Comprador
		party := []any{
			strings.TrimSpace(buyer.Name), DocTypeCUIT, buyer.TaxID,
			strings.TrimSpace(buyer.Address), "", "", buyer.CondFisc(),
		}

		row := []any{l.Fecha, l.TipoComprobante, l.Letra, l.PuntoVenta, l.Numero}
		row = append(row, party...)
		row = append(row, l.CodNetoVenta, l.Neto, l.AlicIVA, l.IVA, l.IVA, "", "", "", "", "", l.Total)
		s.Rows = append(s.Rows, row)

		for _, ret := range []struct {
			code   string
			amount float64
		}{
			{CodeRetIVA, l.RetIVA},
			{CodeRetGan, l.RetGan},
		} {
			if ret.amount == 0 {
				continue
			}
			row := []any{l.Fecha, CpbteRetention, l.Letra, l.PuntoVenta, l.Numero}
			row = append(row, party...)
			row = append(row, "", "", "", "", "", "", "", ret.code, ret.amount, "", ret.amount)
			s.Rows = append(s.Rows, row)
		}
	}
	return s
}

// RateGroup is the sum of the taxed deductions sharing one VAT rate.
type RateGroup struct {
	Rate decimal.Decimal
	Net  decimal.Decimal
	VAT  decimal.Decimal
}

// GroupDeductions sums taxed deductions by rate, ascending, and returns the
// exempt total separately. An exempt line contributes its total, or its net
// amount when the total is missing.
func GroupDeductions(lines []liquidacion.DeductionLine) ([]RateGroup, decimal.Decimal) {
	exempt := decimal.Zero
	byRate := map[string]*RateGroup{}
	for _, d := range lines {
		if d.Exempt() {
			v := d.TotalAmount
			if v == 0 {
				v = d.NetAmount
			}
			exempt = exempt.Add(decimal.NewFromFloat(v))
			continue
		}
		rate := decimal.NewFromFloat(d.RatePercent).Round(3)
		key := rate.String()
		g, ok := byRate[key]
		if !ok {
			g = &RateGroup{Rate: rate, Net: decimal.Zero, VAT: decimal.Zero}
			byRate[key] = g
		}
		g.Net = g.Net.Add(decimal.NewFromFloat(d.NetAmount))
		g.VAT = g.VAT.Add(decimal.NewFromFloat(d.VATAmount))
	}

	groups := make([]RateGroup, 0, len(byRate))
	for _, g := range byRate {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Rate.LessThan(groups[j].Rate) })
	return groups, exempt
}

// MovementCode returns the purchase movement code of a VAT rate
func MovementCode(rate decimal.Decimal) int {
	if rate.Sub(decimal.NewFromInt(21)).Abs().LessThan(decimal.NewFromFloat(rate21Tolerance)) {
		return MovementRate21
	}
	return MovementOther
}

// GastosSheet builds the purchase rows: the deductions of each settlement
// billed by the buyer as a debit note, one row per VAT rate. The exempt total
// rides on the first row. A non-zero IVA perception adds a P007 row.
func GastosSheet(liqs []liquidacion.Liquidacion) Sheet {
	s := Sheet{
		Name:    "Gastos",
		Headers: gastosHeaders,
		Widths:  []float64{14, 14, 8, 7, 12, 40, 10, 14, 22, 8, 8, 10, 10, 14, 8, 14, 14, 10, 14, 10, 14, 10, 14},
		Formats: amountFormats,
	}

	for _, l := range liqs {
		buyer := l.Comprador
		head := []any{
			l.Fecha, l.Fecha, CpbteDebitNote, l.PuntoVenta, l.Numero,
			strings.TrimSpace(buyer.Name), DocTypeCUIT, buyer.TaxID,
			strings.TrimSpace(buyer.Address), "", "", buyer.CondFisc(),
		}

		groups, exempt := GroupDeductions(l.Deducciones)
		addLine := func(mov any, net, rate, vat any, netF, vatF, exemptHere decimal.Decimal) {
			total := netF.Add(vatF).Add(exemptHere)
			row := append([]any{}, head...)
			var exCode, exAmount any = "", ""
			if !exemptHere.IsZero() {
				exCode, exAmount = MovementExempt, exemptHere.Round(2).InexactFloat64()
			}
			row = append(row, mov, net, rate, vat, vat, exCode, exAmount, "", "", "", total.Round(2).InexactFloat64())
			s.Rows = append(s.Rows, row)
		}

		switch {
		case len(groups) > 0:
			for i, g := range groups {
				exemptHere := decimal.Zero
				if i == 0 {
					exemptHere = exempt
				}
				net := g.Net.Round(2).InexactFloat64()
				vat := g.VAT.Round(2).InexactFloat64()
				addLine(MovementCode(g.Rate), net, g.Rate.InexactFloat64(), vat, g.Net, g.VAT, exemptHere)
			}
		case len(l.Deducciones) > 0:
			addLine(MovementCode(decimal.Zero), 0.0, "", 0.0, decimal.Zero, decimal.Zero, exempt)
		}

		if l.PercIVA != 0 {
			row := append([]any{}, head...)
			row = append(row, "", "", "", "", "", "", "", CodePercIVA, l.PercIVA, "", l.PercIVA)
			s.Rows = append(s.Rows, row)
		}
	}
	return s
}

// CPNsSheet lists one row per settlement with the acopio, grain and
// quantities.
func CPNsSheet(liqs []liquidacion.Liquidacion) Sheet {
	s := Sheet{
		Name: "CPNs",
		Headers: []string{
			"FECHA", "COE", "COMPROBANTE", "ACOPIO", "TIPO DE GRANO",
			"CAMPAÑA", "CANTIDAD DE KILOS", "PRECIO", "LOCALIDAD",
		},
		Widths: []float64{12, 14, 16, 40, 18, 14, 18, 12, 18},
		Formats: map[string]string{
			"CANTIDAD DE KILOS": FormatAmount,
			"PRECIO":            FormatMoney,
		},
	}
	for _, l := range liqs {
		s.Rows = append(s.Rows, []any{
			l.Fecha, l.COE, l.Comprobante(), strings.TrimSpace(l.Acopio.Name),
			l.Grano, l.Campania, l.Kilos, l.Precio, l.Localidad,
		})
	}
	return s
}

// DeliveredSheet lists one row per goods-delivered item.
func DeliveredSheet(liqs []liquidacion.Liquidacion) Sheet {
	s := Sheet{
		Name: "Mercadería Entregada",
		Headers: []string{
			"FECHA", "COMPROBANTE", "ME - Nro comprobante", "ME - Grado", "ME - Factor",
			"ME - Contenido proteico", "ME - Procedencia", "ME - Peso (kg)",
		},
		Widths: []float64{12, 16, 18, 12, 12, 20, 20, 14},
		Formats: map[string]string{
			"ME - Factor":             FormatAmount,
			"ME - Contenido proteico": FormatAmount,
			"ME - Peso (kg)":          FormatAmount,
		},
	}
	for _, l := range liqs {
		for _, it := range l.Mercaderia {
			s.Rows = append(s.Rows, []any{
				l.Fecha, l.Comprobante(), it.ReceiptNumber, it.Grade, it.Factor,
				it.ProteinContent, it.Origin, it.WeightKg,
			})
		}
	}
	return s
}
