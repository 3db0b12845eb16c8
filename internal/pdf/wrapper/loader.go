package wrapper

import (
	stderrors "errors"
	"strings"

	"github.com/a3tai/mcp-liquidaciones/internal/liquidacion"
	pdferrors "github.com/a3tai/mcp-liquidaciones/internal/pdf/errors"
)

// Loader turns raw PDF bytes into an extraction Document. pdfcpu measures the
// document and ledongthuc decodes the text.
type Loader struct {
	inspector Inspector
	extractor TextExtractor
}

// NewLoader creates a loader backed by pdfcpu and ledongthuc
func NewLoader() *Loader {
	return NewLoaderWith(NewPDFCPULibrary(), NewLedongthucLibrary())
}

// NewLoaderWith creates a loader from explicit library implementations
func NewLoaderWith(inspector Inspector, extractor TextExtractor) *Loader {
	return &Loader{inspector: inspector, extractor: extractor}
}

// Load decodes data into a Document labeled with name. The only errors it
// returns are *errors.DocumentError values.
func (l *Loader) Load(name string, data []byte) (liquidacion.Document, error) {
	doc := liquidacion.Document{Filename: name}
	if len(data) == 0 {
		return doc, pdferrors.New(pdferrors.KindInvalidFile, name, "file is empty")
	}

	// pdfcpu is stricter than ledongthuc; a document it rejects may still
	// carry readable text, so inspection failures only cost the page sizes.
	var sizes []PageSize
	if info, err := l.inspector.Inspect(data); err == nil {
		if info.PageCount == 0 {
			return doc, pdferrors.New(pdferrors.KindUnreadable, name, "document has no pages")
		}
		sizes = info.Sizes
	}

	pages, err := l.extractor.ExtractPages(data, sizes)
	if err != nil {
		var pe *PanicError
		if stderrors.As(err, &pe) {
			return doc, pdferrors.FromPanic(name, pe.Page, pe.Value)
		}
		return doc, pdferrors.Wrap(pdferrors.KindUnreadable, name, err)
	}
	if len(pages) == 0 {
		return doc, pdferrors.New(pdferrors.KindUnreadable, name, "document has no pages")
	}

	doc.Pages = pages
	if strings.TrimSpace(doc.FullText()) == "" {
		return doc, pdferrors.New(pdferrors.KindNoText, name, "document has no extractable text")
	}
	return doc, nil
}

// Inspect exposes the structural summary of data
func (l *Loader) Inspect(data []byte) (*Inspection, error) {
	return l.inspector.Inspect(data)
}

// Validate runs structural validation of data
func (l *Loader) Validate(data []byte) error {
	return l.inspector.Validate(data)
}
