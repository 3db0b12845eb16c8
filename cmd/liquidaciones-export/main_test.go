package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-liquidaciones/internal/config"
	"github.com/a3tai/mcp-liquidaciones/internal/export"
	"github.com/a3tai/mcp-liquidaciones/internal/pdf"
	"github.com/a3tai/mcp-liquidaciones/internal/pdf/pdftest"
)

func testConfig(t *testing.T) *config.ExportConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.ExportConfig{Config: *config.DefaultConfig()}
	cfg.PDFDirectory = dir
	cfg.OutputDirectory = filepath.Join(dir, "salida")
	cfg.Workers = 2
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.Prefix = "2025-11_"
	cfg.JSONPath = filepath.Join(cfg.OutputDirectory, "batch.json")
	pdftest.WriteFile(t, cfg.PDFDirectory, "a.pdf", pdftest.Settlement())
	pdftest.WriteFile(t, cfg.PDFDirectory, "b.pdf", []byte("broken"))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out, discard()))

	assert.Contains(t, out.String(), "1 ok, 1 failed")
	assert.Contains(t, out.String(), "b.pdf [unreadable]")
	for _, name := range []string{export.VentasFile, export.GastosFile, export.CPNsFile} {
		path := filepath.Join(cfg.OutputDirectory, "2025-11_"+name)
		assert.FileExists(t, path)
		assert.Contains(t, out.String(), path)
	}

	data, err := os.ReadFile(cfg.JSONPath)
	require.NoError(t, err)
	var batch pdf.BatchResult
	require.NoError(t, json.Unmarshal(data, &batch))
	assert.Equal(t, 1, batch.Succeeded)
	require.Len(t, batch.Results, 2)
	require.NotNil(t, batch.Results[0].Liquidacion)
	assert.Equal(t, "330312345678", batch.Results[0].Liquidacion.COE)
}

func TestRun_NothingExtracted(t *testing.T) {
	cfg := testConfig(t)
	pdftest.WriteFile(t, cfg.PDFDirectory, "b.pdf", []byte("broken"))

	var out bytes.Buffer
	err := run(context.Background(), cfg, &out, discard())
	assert.ErrorIs(t, err, errNothingExtracted)
	assert.NoDirExists(t, cfg.OutputDirectory)
}

func TestRun_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	pdftest.WriteFile(t, cfg.PDFDirectory, "a.pdf", pdftest.Settlement())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, cfg, io.Discard, discard())
	assert.ErrorIs(t, err, context.Canceled)
}
