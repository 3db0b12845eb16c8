package wrapper

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPULibrary implements Inspector using pdfcpu
type PDFCPULibrary struct{}

// NewPDFCPULibrary creates a new pdfcpu library wrapper
func NewPDFCPULibrary() *PDFCPULibrary {
	return &PDFCPULibrary{}
}

func relaxedConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func (p *PDFCPULibrary) readContext(op string, data []byte) (ctx *model.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &WrapperError{Library: LibraryPDFCPU, Op: op, Err: &PanicError{Value: r}}
		}
	}()

	ctx, err = api.ReadContext(bytes.NewReader(data), relaxedConfiguration())
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      op,
			Err:     fmt.Errorf("failed to read PDF context: %w", err),
		}
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      op,
			Err:     fmt.Errorf("failed to ensure page count: %w", err),
		}
	}
	return ctx, nil
}

// Inspect returns the page count, version and page sizes of a document.
// Page sizes are best effort: a document whose page tree pdfcpu cannot
// measure still inspects successfully with no sizes.
func (p *PDFCPULibrary) Inspect(data []byte) (*Inspection, error) {
	ctx, err := p.readContext("inspect", data)
	if err != nil {
		return nil, err
	}

	info := &Inspection{
		PageCount: ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
	}
	if ctx.HeaderVersion != nil {
		info.Version = ctx.HeaderVersion.String()
	}

	if dims, err := ctx.PageDims(); err == nil {
		for _, d := range dims {
			info.Sizes = append(info.Sizes, PageSize{Width: d.Width, Height: d.Height})
		}
	}
	return info, nil
}

// Validate runs pdfcpu's relaxed validation over the whole document
func (p *PDFCPULibrary) Validate(data []byte) (err error) {
	ctx, err := p.readContext("validate", data)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = &WrapperError{Library: LibraryPDFCPU, Op: "validate", Err: &PanicError{Value: r}}
		}
	}()

	if err := api.ValidateContext(ctx); err != nil {
		return &WrapperError{Library: LibraryPDFCPU, Op: "validate", Err: err}
	}
	return nil
}
