package liquidacion

import "math"

// IsCreditNote reports whether the text carries the unified adjustment
// signature: "AJUSTE UNIFICADO" together with a credit adjustment phrase.
func IsCreditNote(text string) bool {
	return isAdjustment(newFoldedText(text))
}

// NormalizeSigns returns a copy of l as a credit note: type F2 and every
// monetary field negative. Quantities, prices and rates keep their sign.
// Applying it twice gives the same record.
func NormalizeSigns(l Liquidacion) Liquidacion {
	l.CreditNote = true
	l.TipoComprobante = TipoF2

	l.Neto = negative(l.Neto)
	l.IVA = negative(l.IVA)
	l.Total = negative(l.Total)
	l.PercIVA = negative(l.PercIVA)
	l.RetIVA = negative(l.RetIVA)
	l.RetGan = negative(l.RetGan)

	if l.Deducciones != nil {
		ds := make([]DeductionLine, len(l.Deducciones))
		for i, d := range l.Deducciones {
			d.NetAmount = negative(d.NetAmount)
			d.VATAmount = negative(d.VATAmount)
			d.TotalAmount = negative(d.TotalAmount)
			ds[i] = d
		}
		l.Deducciones = ds
	}
	return l
}

func negative(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -math.Abs(v)
}
