package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/a3tai/mcp-liquidaciones/internal/liquidacion"
)

// Workbook file names, before the optional prefix.
const (
	VentasFile = "Ventas.xlsx"
	GastosFile = "Gastos.xlsx"
	CPNsFile   = "CPNs.xlsx"
)

// Service produces the accounting workbooks for a set of settlements
type Service struct {
	logger *slog.Logger
}

// NewService creates an export service
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Ventas returns the sales workbook
func (s *Service) Ventas(liqs []liquidacion.Liquidacion) ([]byte, error) {
	return Render(VentasSheet(liqs))
}

// Gastos returns the purchases workbook
func (s *Service) Gastos(liqs []liquidacion.Liquidacion) ([]byte, error) {
	return Render(GastosSheet(liqs))
}

// CPNs returns the grain workbook with its goods-delivered sheet
func (s *Service) CPNs(liqs []liquidacion.Liquidacion) ([]byte, error) {
	return Render(CPNsSheet(liqs), DeliveredSheet(liqs))
}

// Written lists the workbooks written by WriteFiles
type Written struct {
	Ventas string `json:"ventas"`
	Gastos string `json:"gastos"`
	CPNs   string `json:"cpns"`
	Count  int    `json:"liquidaciones"`
}

// WriteFiles renders the three workbooks into dir, creating it if needed.
// prefix, when set, is prepended to each file name.
func (s *Service) WriteFiles(dir, prefix string, liqs []liquidacion.Liquidacion) (*Written, error) {
	start := time.Now()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	out := &Written{
		Ventas: filepath.Join(dir, prefix+VentasFile),
		Gastos: filepath.Join(dir, prefix+GastosFile),
		CPNs:   filepath.Join(dir, prefix+CPNsFile),
		Count:  len(liqs),
	}
	for _, w := range []struct {
		path   string
		render func([]liquidacion.Liquidacion) ([]byte, error)
	}{
		{out.Ventas, s.Ventas},
		{out.Gastos, s.Gastos},
		{out.CPNs, s.CPNs},
	} {
		data, err := w.render(liqs)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", filepath.Base(w.path), err)
		}
		if err := os.WriteFile(w.path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", w.path, err)
		}
	}

	s.logger.Info("export.xlsx.ok",
		"dir", dir,
		"liquidaciones", len(liqs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
