// Package pdftest builds small text-only PDFs for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Line is a run of text drawn at (X, Y) in PDF user space
type Line struct {
	X, Y int
	Text string
}

// SettlementLines lays out a standard settlement on a 600x800 page with
// the buyer and seller columns side by side.
func SettlementLines() []Line {
	return []Line{
		{50, 760, "LIQUIDACION PRIMARIA DE GRANOS"},
		{50, 745, "20/11/2025, VIDELA"},
		{50, 730, "C.O.E.: 330312345678"},
		{50, 700, "COMPRADOR"},
		{320, 700, "VENDEDOR"},
		{50, 685, "Razon Social: ACME SA"},
		{320, 685, "Razon Social: Juan Perez"},
		{50, 670, "C.U.I.T.: 30-12345678-9"},
		{320, 670, "C.U.I.T.: 20-11111111-2"},
		{50, 640, "ACTUO CORREDOR"},
		{50, 620, "Grano: Soja Campana: 2024/2025"},
		{50, 605, "OPERACION"},
		{50, 590, "10000 Kg $258.50 $2585000.00 10.5 $271425.00 $2856425.00"},
	}
}

// Build renders lines with a fixed-width Type1 font into a one page PDF
// with a correct cross-reference table.
func Build(lines []Line) []byte {
	var content bytes.Buffer
	for _, l := range lines {
		fmt.Fprintf(&content, "BT /F1 10 Tf %d %d Td (%s) Tj ET\n", l.X, l.Y, l.Text)
	}
	widths := strings.TrimSpace(strings.Repeat("600 ", 95))

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 600 800] " +
			"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding " +
			"/FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

// Settlement returns the standard settlement PDF
func Settlement() []byte {
	return Build(SettlementLines())
}

// WriteFile writes data to dir/name and returns the path
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
