package liquidacion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDeductions(t *testing.T) {
	text := "OPERACIÓN\n" +
		"DEDUCCIONES\n" +
		"Concepto Base Cálculo Alícuota IVA Total\n" +
		"Gastos Comerciales $ 1000,00 10,5% $ 105,00 $ 1105,00\n" +
		"Secada $ 500,00 0% $ 0,00 $ 500,00\n" +
		"Paritarias $ 200,00 0 $ 0,00 $ 200,00\n" +
		"0123 - Servicio de\n" +
		"Acondicionamiento $ 300,00 21% $ 63,00 $ 363,00\n" +
		"Comisión o Gastos $ 1,00 21% $ 0,21 $ 1,21\n" +
		"texto suelto sin montos\n" +
		"RETENCIONES\n" +
		"Retención IVA 5% $ 10,00 $ 0,50 $ 0,50\n"

	got := ExtractDeductions(text)
	require.Len(t, got, 4)

	assert.Equal(t, DeductionLine{Concept: "Gastos Comerciales", NetAmount: 1000, RatePercent: 10.5, VATAmount: 105, TotalAmount: 1105}, got[0])

	assert.Equal(t, "Secada", got[1].Concept)
	assert.True(t, got[1].Exempt())
	assert.Equal(t, 500.0, got[1].NetAmount)
	assert.Equal(t, 500.0, got[1].TotalAmount)

	assert.Equal(t, "Paritarias", got[2].Concept)
	assert.Equal(t, 0.0, got[2].RatePercent)
	assert.Equal(t, 200.0, got[2].TotalAmount)

	assert.Equal(t, "0123 - Servicio de Acondicionamiento", got[3].Concept)
	assert.Equal(t, 21.0, got[3].RatePercent)
	assert.Equal(t, 63.0, got[3].VATAmount)
}

func TestExtractDeductions_RateWithoutPercent(t *testing.T) {
	got := ExtractDeductions("DEDUCCIONES\nGastos Comerciales $ 1000,00 10,5 $ 105,00 $ 1105,00\nRETENCIONES\n")
	require.Len(t, got, 1)
	assert.Equal(t, DeductionLine{Concept: "Gastos Comerciales", NetAmount: 1000, RatePercent: 10.5, VATAmount: 105, TotalAmount: 1105}, got[0])
	assert.False(t, got[0].Exempt())
}

func TestExtractDeductions_NoSection(t *testing.T) {
	assert.Empty(t, ExtractDeductions("Gastos Comerciales $ 1000,00 10,5% $ 105,00 $ 1105,00"))
}

func TestMatchDeduction(t *testing.T) {
	d, ok := matchDeduction("Gastos Comerciales $ 1000,00 10,5% $ 105,00 $ 1105,00")
	require.True(t, ok)
	assert.Equal(t, DeductionLine{Concept: "Gastos Comerciales", NetAmount: 1000, RatePercent: 10.5, VATAmount: 105, TotalAmount: 1105}, d)

	_, ok = matchDeduction("Gastos Comerciales $ 1000,00")
	assert.False(t, ok)
}
