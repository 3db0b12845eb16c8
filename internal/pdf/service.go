package pdf

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/a3tai/mcp-liquidaciones/internal/liquidacion"
	pdferrors "github.com/a3tai/mcp-liquidaciones/internal/pdf/errors"
	"github.com/a3tai/mcp-liquidaciones/internal/pdf/security"
	"github.com/a3tai/mcp-liquidaciones/internal/pdf/wrapper"
)

// ServiceConfig holds the settings the Service needs
type ServiceConfig struct {
	MaxFileSize          int64
	Directory            string
	OutputDirectory      string
	Workers              int
	IncomeTaxWithholding bool
	Logger               *slog.Logger
}

// Service turns settlement PDFs into records by orchestrating the path
// validator, the PDF loader and the extraction engine
type Service struct {
	maxFileSize   int64
	workers       int
	loader        *wrapper.Loader
	validator     *Validator
	extractor     *liquidacion.Extractor
	pathValidator *security.PathValidator
	serverInfo    *ServerInfo
	logger        *slog.Logger
}

// NewService creates a new PDF service with all components
func NewService(cfg ServiceConfig) (*Service, error) {
	pathValidator, err := security.NewPathValidator(cfg.Directory, cfg.OutputDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loader := wrapper.NewLoader()
	s := &Service{
		maxFileSize: cfg.MaxFileSize,
		workers:     workers,
		loader:      loader,
		validator:   NewValidator(cfg.MaxFileSize, loader),
		extractor: liquidacion.NewExtractor(liquidacion.Options{
			IncomeTaxWithholding: cfg.IncomeTaxWithholding,
		}),
		pathValidator: pathValidator,
		logger:        logger,
	}
	s.serverInfo = NewServerInfo(s, DefaultCacheTTL)
	return s, nil
}

// ParseFile extracts the settlement of the PDF at path
func (s *Service) ParseFile(req ParseFileRequest) (*liquidacion.Liquidacion, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	data, err := s.validator.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.ParseBytes(filepath.Base(path), data)
}

// ParseBytes extracts the settlement of an in-memory PDF labeled name
func (s *Service) ParseBytes(name string, data []byte) (*liquidacion.Liquidacion, error) {
	if int64(len(data)) > s.maxFileSize {
		return nil, pdferrors.New(pdferrors.KindTooLarge, name,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", len(data), s.maxFileSize))
	}

	doc, err := s.loader.Load(name, data)
	if err != nil {
		return nil, err
	}

	x := s.extractor.Extract(doc)
	s.logger.Debug("settlement extracted",
		"file", name,
		"pages", len(doc.Pages),
		"coe", x.Liquidacion.COE,
		"operation_layout", x.Operation.Layout,
		"credit_note", x.Liquidacion.CreditNote,
		"swapped_columns", x.Columns.Swapped,
		"deductions", len(x.Liquidacion.Deducciones),
		"delivered_items", len(x.Liquidacion.Mercaderia),
	)
	return &x.Liquidacion, nil
}

// ParseDirectory extracts every settlement PDF directly inside the directory
func (s *Service) ParseDirectory(ctx context.Context, req ParseDirectoryRequest) (*BatchResult, error) {
	dir := req.Directory
	if dir == "" {
		dir = s.pathValidator.Root()
	}
	dir, err := s.pathValidator.ValidateDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	files, err := s.validator.Discover(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	batch, err := s.ParseBatch(ctx, paths)
	if err != nil {
		return nil, err
	}
	batch.Directory = dir
	return batch, nil
}

// ParseBatch extracts the given files in parallel. Results keep the input
// order and a failing file never aborts the batch; only cancellation of ctx
// does.
func (s *Service) ParseBatch(ctx context.Context, paths []string) (*BatchResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID)
	logger.Info("batch started", "files", len(paths), "workers", s.workers)

	results := make([]Result, len(paths))
	p := pool.New().WithMaxGoroutines(s.workers).WithContext(ctx)
	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.parseOne(path)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	batch := &BatchResult{RunID: runID, Results: results}
	for _, r := range results {
		if r.OK() {
			batch.Succeeded++
			continue
		}
		batch.Failed++
		logger.Warn("document failed", "path", r.Path, "error", r.Err)
	}
	batch.Duration = time.Since(start)

	logger.Info("batch finished",
		"succeeded", batch.Succeeded,
		"failed", batch.Failed,
		"duration", batch.Duration,
	)
	return batch, nil
}

func (s *Service) parseOne(path string) Result {
	l, err := s.ParseFile(ParseFileRequest{Path: path})
	if err != nil {
		r := Result{Path: path, Err: err}
		var de *pdferrors.DocumentError
		if stderrors.As(err, &de) {
			r.Error = de
		} else {
			r.Error = pdferrors.Wrap(pdferrors.KindInvalidFile, path, err)
		}
		return r
	}
	return Result{Path: path, Liquidacion: l}
}

// ValidateFile performs validation on a PDF file
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	result := s.validator.ValidateFile(ValidateFileRequest{Path: path})
	result.Path = req.Path
	return result, nil
}

// ListFiles returns the settlement PDFs of dir, or of the configured
// directory when dir is empty
func (s *Service) ListFiles(dir string) ([]FileInfo, error) {
	if dir == "" {
		dir = s.pathValidator.Root()
	}
	dir, err := s.pathValidator.ValidateDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.Discover(dir)
}

// ResolveOutputPath validates a path the caller wants to write to
func (s *Service) ResolveOutputPath(path string) (string, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// ServerInfo returns server information and the settlements available
func (s *Service) ServerInfo(ctx context.Context, serverName, version, outputDirectory string) *ServerInfoResult {
	return s.serverInfo.Get(ctx, serverName, version, outputDirectory)
}

// Directory returns the configured settlements directory
func (s *Service) Directory() string {
	return s.pathValidator.Root()
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// Workers returns the batch parallelism
func (s *Service) Workers() int {
	return s.workers
}
