package pdf

import (
	"time"

	"github.com/a3tai/mcp-liquidaciones/internal/liquidacion"
	pdferrors "github.com/a3tai/mcp-liquidaciones/internal/pdf/errors"
)

// FileInfo represents information about a settlement PDF on disk
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// ParseFileRequest represents a request to extract one settlement
type ParseFileRequest struct {
	Path string `json:"path"`
}

// ParseDirectoryRequest represents a request to extract every settlement of
// a directory. An empty Directory means the configured one.
type ParseDirectoryRequest struct {
	Directory string `json:"directory,omitempty"`
}

// ValidateFileRequest represents a request to validate a PDF file
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// Result is the outcome for one document of a batch. Exactly one of
// Liquidacion and Err is set.
type Result struct {
	Path        string                   `json:"path"`
	Liquidacion *liquidacion.Liquidacion `json:"liquidacion,omitempty"`
	Error       *pdferrors.DocumentError `json:"error,omitempty"`
	Err         error                    `json:"-"`
}

// OK reports whether the document produced a record
func (r Result) OK() bool {
	return r.Err == nil && r.Liquidacion != nil
}

// BatchResult holds the results of a batch in input order
type BatchResult struct {
	RunID     string        `json:"run_id"`
	Directory string        `json:"directory,omitempty"`
	Results   []Result      `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// Liquidaciones returns the records of the successful documents in order
func (b *BatchResult) Liquidaciones() []liquidacion.Liquidacion {
	out := make([]liquidacion.Liquidacion, 0, b.Succeeded)
	for _, r := range b.Results {
		if r.OK() {
			out = append(out, *r.Liquidacion)
		}
	}
	return out
}

// ValidateFileResult represents the result of validating a PDF file
type ValidateFileResult struct {
	Path      string         `json:"path"`
	Valid     bool           `json:"valid"`
	Kind      pdferrors.Kind `json:"kind,omitempty"`
	Message   string         `json:"message,omitempty"`
	PageCount int            `json:"page_count,omitempty"`
	Version   string         `json:"version,omitempty"`
	Encrypted bool           `json:"encrypted,omitempty"`
	Size      int64          `json:"size,omitempty"`
}

// ServerInfoResult represents server information and available tools
type ServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	OutputDirectory   string     `json:"output_directory,omitempty"`
	MaxFileSize       int64      `json:"max_file_size"`
	Workers           int        `json:"workers"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	FromCache         bool       `json:"from_cache"`
	UsageGuidance     string     `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  string `json:"parameters"`
}
