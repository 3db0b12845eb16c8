package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/a3tai/mcp-liquidaciones/internal/config"
	"github.com/a3tai/mcp-liquidaciones/internal/export"
	"github.com/a3tai/mcp-liquidaciones/internal/logging"
	"github.com/a3tai/mcp-liquidaciones/internal/pdf"
)

var version = "dev" // This will be set by build flags

// errNothingExtracted is returned when no document of the batch produced a record
var errNothingExtracted = errors.New("no settlements extracted")

// run parses every settlement of cfg.PDFDirectory and writes the workbooks.
// A summary goes to out.
func run(ctx context.Context, cfg *config.ExportConfig, out io.Writer, logger *slog.Logger) error {
	pdfService, err := pdf.NewService(pdf.ServiceConfig{
		MaxFileSize:          cfg.MaxFileSize,
		Directory:            cfg.PDFDirectory,
		OutputDirectory:      cfg.OutputDirectory,
		Workers:              cfg.Workers,
		IncomeTaxWithholding: cfg.IncomeTaxWithholding,
		Logger:               logger,
	})
	if err != nil {
		return fmt.Errorf("create PDF service: %w", err)
	}

	batch, err := pdfService.ParseDirectory(ctx, pdf.ParseDirectoryRequest{})
	if err != nil {
		return err
	}

	if cfg.JSONPath != "" {
		if err := writeJSON(cfg.JSONPath, batch); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "%s: %d ok, %d failed\n", batch.Directory, batch.Succeeded, batch.Failed)
	for _, r := range batch.Results {
		if r.Error != nil {
			fmt.Fprintf(out, "  %s [%s]: %s\n", filepath.Base(r.Path), r.Error.Kind, r.Error.Message)
		}
	}

	liqs := batch.Liquidaciones()
	if len(liqs) == 0 {
		return errNothingExtracted
	}

	written, err := export.NewService(logger).WriteFiles(cfg.OutputDirectory, cfg.Prefix, liqs)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n%s\n%s\n", written.Ventas, written.Gastos, written.CPNs)
	return nil
}

func writeJSON(path string, batch *pdf.BatchResult) error {
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func main() {
	cfg, err := config.LoadExportFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		fmt.Printf("Liquidaciones Export %s\n", version)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
