package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/mcp-liquidaciones/internal/config"
	"github.com/a3tai/mcp-liquidaciones/internal/export"
	"github.com/a3tai/mcp-liquidaciones/internal/logging"
	"github.com/a3tai/mcp-liquidaciones/internal/mcp"
	"github.com/a3tai/mcp-liquidaciones/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// run wires the services together and serves until ctx ends
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
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

	server, err := mcp.NewServer(cfg, pdfService, export.NewService(logger), logger)
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}

	return server.Run(ctx)
}

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger := logging.Setup(cfg)
	logger.Debug("config.loaded", "config", cfg.String())

	// SIGINT/SIGTERM cancel the context; the server drains and returns
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server.failed", "err", err)
		stop()
		os.Exit(1)
	}
	logger.Info("server.stopped")
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "MCP Liquidaciones\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
