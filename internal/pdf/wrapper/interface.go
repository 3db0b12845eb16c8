package wrapper

import (
	"fmt"

	"github.com/a3tai/mcp-liquidaciones/internal/liquidacion"
)

// Inspector reads structural information about a PDF without decoding text
type Inspector interface {
	Inspect(data []byte) (*Inspection, error)
	Validate(data []byte) error
}

// TextExtractor decodes every page of a PDF into text and positioned words.
// sizes may be shorter than the page count; missing entries are looked up
// by the extractor itself.
type TextExtractor interface {
	ExtractPages(data []byte, sizes []PageSize) ([]liquidacion.Page, error)
}

// LibraryType represents the underlying PDF library being used
type LibraryType string

const (
	LibraryPDFCPU     LibraryType = "pdfcpu"
	LibraryLedongthuc LibraryType = "ledongthuc"
)

// PageSize is the media box size of a page in points
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Default page size used when a page carries no usable media box (A4).
var DefaultPageSize = PageSize{Width: 595.28, Height: 841.89}

// Inspection is the structural summary of a document
type Inspection struct {
	PageCount int        `json:"page_count"`
	Version   string     `json:"version,omitempty"`
	Encrypted bool       `json:"encrypted"`
	Sizes     []PageSize `json:"sizes,omitempty"`
}

// WrapperError reports a failure inside one of the PDF libraries
type WrapperError struct {
	Library LibraryType `json:"library"`
	Op      string      `json:"operation"`
	Page    int         `json:"page,omitempty"`
	Err     error       `json:"error"`
}

func (e *WrapperError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("PDF %s library error in %s (page %d): %v", e.Library, e.Op, e.Page, e.Err)
	}
	return fmt.Sprintf("PDF %s library error in %s: %v", e.Library, e.Op, e.Err)
}

func (e *WrapperError) Unwrap() error {
	return e.Err
}

// PanicError carries a value recovered from a library panic
type PanicError struct {
	Page  int
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic on page %d: %v", e.Page, e.Value)
}
