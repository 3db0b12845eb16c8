package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdferrors "github.com/a3tai/mcp-liquidaciones/internal/pdf/errors"
	"github.com/a3tai/mcp-liquidaciones/internal/pdf/pdftest"
	"github.com/a3tai/mcp-liquidaciones/internal/pdf/wrapper"
)

func TestValidator_CheckFile(t *testing.T) {
	dir := t.TempDir()
	pdftest.WriteFile(t, dir, "ok.pdf", []byte("%PDF-1.4"))
	pdftest.WriteFile(t, dir, "upper.PDF", []byte("%PDF-1.4"))
	pdftest.WriteFile(t, dir, "empty.pdf", nil)
	pdftest.WriteFile(t, dir, "big.pdf", make([]byte, 64))
	pdftest.WriteFile(t, dir, "doc.txt", []byte("x"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0o755))

	v := NewValidator(32, wrapper.NewLoader())

	tests := []struct {
		name     string
		file     string
		wantKind pdferrors.Kind
	}{
		{name: "valid", file: "ok.pdf"},
		{name: "upper case extension", file: "upper.PDF"},
		{name: "empty", file: "empty.pdf", wantKind: pdferrors.KindInvalidFile},
		{name: "too large", file: "big.pdf", wantKind: pdferrors.KindTooLarge},
		{name: "wrong extension", file: "doc.txt", wantKind: pdferrors.KindInvalidFile},
		{name: "directory", file: "folder.pdf", wantKind: pdferrors.KindInvalidFile},
		{name: "missing", file: "missing.pdf", wantKind: pdferrors.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.CheckFile(filepath.Join(dir, tt.file))
			if tt.wantKind == pdferrors.KindUnknown {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, pdferrors.KindOf(err))
		})
	}

	_, err := v.CheckFile("")
	assert.Equal(t, pdferrors.KindInvalidFile, pdferrors.KindOf(err))
}

func TestIsPDFName(t *testing.T) {
	assert.True(t, IsPDFName("a.pdf"))
	assert.True(t, IsPDFName("/tmp/A.Pdf"))
	assert.False(t, IsPDFName("a.pdf.txt"))
	assert.False(t, IsPDFName("pdf"))
}

func TestValidator_Discover(t *testing.T) {
	dir := t.TempDir()
	pdftest.WriteFile(t, dir, "z.pdf", []byte("%PDF"))
	pdftest.WriteFile(t, dir, "a.PDF", []byte("%PDF"))
	pdftest.WriteFile(t, dir, "m.pdf", []byte("%PDF"))
	pdftest.WriteFile(t, dir, "empty.pdf", nil)
	pdftest.WriteFile(t, dir, "notes.txt", []byte("x"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	pdftest.WriteFile(t, filepath.Join(dir, "sub"), "b.pdf", []byte("%PDF"))

	v := NewValidator(1024, wrapper.NewLoader())
	files, err := v.Discover(dir)
	require.NoError(t, err)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"a.PDF", "m.pdf", "z.pdf"}, names)
	assert.Equal(t, filepath.Join(dir, "m.pdf"), files[1].Path)
	assert.Equal(t, int64(4), files[1].Size)

	_, err = v.Discover(filepath.Join(dir, "missing"))
	assert.Error(t, err)
	_, err = v.Discover(" ")
	assert.Error(t, err)
}
