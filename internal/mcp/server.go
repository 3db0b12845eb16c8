package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-liquidaciones/internal/config"
	"github.com/a3tai/mcp-liquidaciones/internal/descriptions"
	"github.com/a3tai/mcp-liquidaciones/internal/export"
	"github.com/a3tai/mcp-liquidaciones/internal/liquidacion"
	"github.com/a3tai/mcp-liquidaciones/internal/pdf"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	exporter   *export.Service
	mcpServer  *server.MCPServer
	logger     *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, exporter *export.Service, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if pdfService == nil {
		return nil, errors.New("pdfService cannot be nil")
	}
	if exporter == nil {
		return nil, errors.New("exporter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		exporter:   exporter,
		mcpServer:  mcpServer,
		logger:     logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolParseFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolParseFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the settlement PDF (absolute or relative to the default directory)"),
		),
	), s.handleParseFile)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolParseDirectory,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolParseDirectory)),
		mcp.WithString("directory",
			mcp.Description("Directory to scan (uses default if empty)"),
		),
	), s.handleParseDirectory)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolExport,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolExport)),
		mcp.WithString("directory",
			mcp.Description("Directory to scan (uses default if empty)"),
		),
		mcp.WithString("prefix",
			mcp.Description("Prefix for the workbook file names, e.g. 2025-11_"),
		),
	), s.handleExport)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolValidateFile,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolValidateFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	), s.handleValidateFile)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolServerInfo,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolServerInfo)),
	), s.handleServerInfo)
}

// Handler functions
func (s *Server) handleParseFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	l, err := s.pdfService.ParseFile(pdf.ParseFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(formatSummary(*l) + "\n" + string(body)), nil
}

func (s *Server) handleParseDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	batch, err := s.pdfService.ParseDirectory(ctx, pdf.ParseDirectoryRequest{
		Directory: stringArg(request, "directory"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(batch.Results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No settlement PDFs found in directory: %s", batch.Directory)), nil
	}

	body, err := json.MarshalIndent(batch.Results, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(formatBatch(batch) + "\n" + string(body)), nil
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefix := stringArg(request, "prefix")
	if strings.ContainsAny(prefix, `/\`) || strings.Contains(prefix, "..") {
		return mcp.NewToolResultError("prefix must be a plain file name prefix"), nil
	}

	outDir, err := s.pdfService.ResolveOutputPath(s.config.OutputDirectory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	batch, err := s.pdfService.ParseDirectory(ctx, pdf.ParseDirectoryRequest{
		Directory: stringArg(request, "directory"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	liqs := batch.Liquidaciones()
	if len(liqs) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf(
			"no settlements extracted from %s (%d file(s) failed)", batch.Directory, batch.Failed)), nil
	}

	written, err := s.exporter.WriteFiles(outDir, prefix, liqs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Exported %d settlement(s) from %s\n", written.Count, batch.Directory)
	text += fmt.Sprintf("Ventas: %s\n", written.Ventas)
	text += fmt.Sprintf("Gastos: %s\n", written.Gastos)
	text += fmt.Sprintf("CPNs: %s\n", written.CPNs)
	text += formatFailures(batch)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable\n", result.Path)
		responseText += fmt.Sprintf("Pages: %d\n", result.PageCount)
		responseText += fmt.Sprintf("Size: %d bytes\n", result.Size)
		if result.Version != "" {
			responseText += fmt.Sprintf("PDF version: %s\n", result.Version)
		}
		if result.Encrypted {
			responseText += "Encrypted: yes\n"
		}
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s [%s]: %s", result.Path, result.Kind, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.pdfService.ServerInfo(ctx, s.config.ServerName, s.config.Version, s.config.OutputDirectory)
	return mcp.NewToolResultText(formatServerInfo(result)), nil
}

func stringArg(request mcp.CallToolRequest, name string) string {
	if v, ok := request.GetArguments()[name].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// Formatting helpers
func formatSummary(l liquidacion.Liquidacion) string {
	kind := "Liquidación"
	if l.CreditNote {
		kind = "Ajuste unificado (nota de crédito)"
	}
	text := fmt.Sprintf("%s %s %s", kind, l.TipoComprobante, l.Comprobante())
	if l.COE != "" {
		text += fmt.Sprintf(" COE %s", l.COE)
	}
	text += fmt.Sprintf(" (%s)\n", l.Filename)
	text += fmt.Sprintf("Fecha: %s  Comprador: %s  Vendedor: %s\n",
		l.Fecha, strings.TrimSpace(l.Comprador.Name), strings.TrimSpace(l.Vendedor.Name))
	text += fmt.Sprintf("Grano: %s %s  Kilos: %.0f  Neto: %.2f  IVA: %.2f  Total: %.2f\n",
		l.Grano, l.Campania, l.Kilos, l.Neto, l.IVA, l.Total)
	if item, ok := l.FirstDelivered(); ok {
		text += fmt.Sprintf("Mercadería: %d item(s), primer comprobante %s (%.0f kg)\n",
			len(l.Mercaderia), item.ReceiptNumber, item.WeightKg)
	}
	return text
}

func formatBatch(batch *pdf.BatchResult) string {
	text := fmt.Sprintf("Parsed %d file(s) in %s: %d ok, %d failed (run %s, %s)\n",
		len(batch.Results), batch.Directory, batch.Succeeded, batch.Failed,
		batch.RunID, batch.Duration.Round(time.Millisecond))
	for i, r := range batch.Results {
		if r.OK() {
			l := r.Liquidacion
			text += fmt.Sprintf("%d. %s: %s %s total %.2f\n", i+1, r.Path, l.TipoComprobante, l.Comprobante(), l.Total)
		}
	}
	return text + formatFailures(batch)
}

func formatFailures(batch *pdf.BatchResult) string {
	if batch.Failed == 0 {
		return ""
	}
	text := "\nFailed:\n"
	for _, r := range batch.Results {
		if r.Error != nil {
			text += fmt.Sprintf("- %s [%s]: %s\n", r.Path, r.Error.Kind, r.Error.Message)
		}
	}
	return text
}

func formatServerInfo(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", result.DefaultDirectory)
	if result.OutputDirectory != "" {
		text += fmt.Sprintf("📤 Output Directory: %s\n", result.OutputDirectory)
	}
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("⚙️  Workers: %d\n\n", result.Workers)

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("📂 Directory Contents (%d PDF files found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Directory Contents: No PDF files found in default directory\n\n"
	}

	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode serves the protocol over stdin/stdout until ctx ends or stdin closes
func (s *Server) runStdioMode(ctx context.Context) error {
	s.logger.Debug("mcp.stdio.start", "dir", s.config.PDFDirectory)

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves the protocol over HTTP with server-sent events
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()
	s.logger.Info("mcp.sse.start", "addr", addr, "dir", s.config.PDFDirectory)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve sse: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("sse shutdown: %w", err)
	}
	s.logger.Info("mcp.sse.stopped", "addr", addr)
	return nil
}
