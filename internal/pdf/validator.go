package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pdferrors "github.com/a3tai/mcp-liquidaciones/internal/pdf/errors"
	"github.com/a3tai/mcp-liquidaciones/internal/pdf/wrapper"
)

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
	loader      *wrapper.Loader
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64, loader *wrapper.Loader) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
		loader:      loader,
	}
}

// ValidateFile checks the file on disk and runs pdfcpu's relaxed validation
// over its content. Validation failures are reported in the result, not as
// an error.
func (v *Validator) ValidateFile(req ValidateFileRequest) *ValidateFileResult {
	result := &ValidateFileResult{Path: req.Path}

	data, err := v.ReadFile(req.Path)
	if err != nil {
		result.Kind = pdferrors.KindOf(err)
		result.Message = err.Error()
		return result
	}
	result.Size = int64(len(data))

	if err := v.loader.Validate(data); err != nil {
		result.Kind = pdferrors.KindInvalidFile
		result.Message = fmt.Sprintf("invalid PDF file: %v", err)
		return result
	}

	if info, err := v.loader.Inspect(data); err == nil {
		result.PageCount = info.PageCount
		result.Version = info.Version
		result.Encrypted = info.Encrypted
	}

	result.Valid = true
	return result
}

// ReadFile checks path and returns its content
func (v *Validator) ReadFile(path string) ([]byte, error) {
	if _, err := v.CheckFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.KindUnreadable, path, err)
	}
	return data, nil
}

// CheckFile performs the checks that need no PDF decoding
func (v *Validator) CheckFile(path string) (os.FileInfo, error) {
	if path == "" {
		return nil, pdferrors.New(pdferrors.KindInvalidFile, path, "path cannot be empty")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, pdferrors.New(pdferrors.KindNotFound, path, "file does not exist")
	}
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.KindUnreadable, path, fmt.Errorf("cannot access file: %w", err))
	}
	if err := v.ValidateFileInfo(path, info); err != nil {
		return nil, err
	}
	return info, nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(path string, info os.FileInfo) error {
	if info.IsDir() {
		return pdferrors.New(pdferrors.KindInvalidFile, path, "path is a directory, not a file")
	}
	if !IsPDFName(path) {
		return pdferrors.New(pdferrors.KindInvalidFile, path, "file is not a PDF")
	}
	if info.Size() == 0 {
		return pdferrors.New(pdferrors.KindInvalidFile, path, "file is empty")
	}
	if info.Size() > v.maxFileSize {
		return pdferrors.New(pdferrors.KindTooLarge, path,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", info.Size(), v.maxFileSize))
	}
	return nil
}

// IsPDFName reports whether name carries a .pdf extension, in any case
func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
