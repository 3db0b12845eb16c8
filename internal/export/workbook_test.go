package export

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/mcp-liquidaciones/internal/liquidacion"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestRender(t *testing.T) {
	_, err := Render()
	assert.Error(t, err)

	data, err := Render(Sheet{
		Name:    "Datos",
		Headers: []string{"Nombre", "Total"},
		Widths:  []float64{20, 12},
		Formats: map[string]string{"Total": FormatAmount},
		Rows:    [][]any{{"ACME", 1105.5}, {"Otro", 10.0}},
	}, Sheet{Name: "Vacía", Headers: []string{"A"}})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"Datos", "Vacía"}, f.GetSheetList())

	rows, err := f.GetRows("Datos", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Nombre", "Total"}, {"ACME", "1105.5"}, {"Otro", "10"}}, rows)

	width, err := f.GetColWidth("Datos", "A")
	require.NoError(t, err)
	assert.Equal(t, 20.0, width)
}

func TestService_Workbooks(t *testing.T) {
	s := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	liqs := []liquidacion.Liquidacion{sampleLiquidacion()}

	ventas, err := s.Ventas(liqs)
	require.NoError(t, err)
	f := openWorkbook(t, ventas)
	v, err := f.GetCellValue("Ventas", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Fecha dd/mm/aaaa", v)
	v, err = f.GetCellValue("Ventas", "T3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, CodeRetIVA, v)

	gastos, err := s.Gastos(liqs)
	require.NoError(t, err)
	f = openWorkbook(t, gastos)
	v, err = f.GetCellValue("Gastos", "C2")
	require.NoError(t, err)
	assert.Equal(t, CpbteDebitNote, v)

	cpns, err := s.CPNs(liqs)
	require.NoError(t, err)
	f = openWorkbook(t, cpns)
	assert.Equal(t, []string{"CPNs", "Mercadería Entregada"}, f.GetSheetList())
	rows, err := f.GetRows("Mercadería Entregada")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	v, err = f.GetCellValue("CPNs", "C2")
	require.NoError(t, err)
	assert.Equal(t, "3303-12345678", v)
}

func TestService_WriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "salida")
	s := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))

	written, err := s.WriteFiles(dir, "2025-11_", []liquidacion.Liquidacion{sampleLiquidacion()})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "2025-11_Ventas.xlsx"), written.Ventas)
	assert.Equal(t, filepath.Join(dir, "2025-11_Gastos.xlsx"), written.Gastos)
	assert.Equal(t, filepath.Join(dir, "2025-11_CPNs.xlsx"), written.CPNs)
	assert.Equal(t, 1, written.Count)
	for _, p := range []string{written.Ventas, written.Gastos, written.CPNs} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
