package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	_, err := NewPathValidator()
	assert.Error(t, err)

	_, err = NewPathValidator("", "")
	assert.Error(t, err)

	v, err := NewPathValidator("", "/non/existent/path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/non/existent/path"), v.Root())
}

func TestPathValidator_Resolve(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	outside := t.TempDir()

	subDir := filepath.Join(root, "2025")
	require.NoError(t, os.Mkdir(subDir, 0o755))

	v, err := NewPathValidator(root, out)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "file in root", path: filepath.Join(root, "liq.pdf"), want: filepath.Join(root, "liq.pdf")},
		{name: "relative to root", path: "2025/liq.pdf", want: filepath.Join(subDir, "liq.pdf")},
		{name: "second root", path: filepath.Join(out, "Ventas.xlsx"), want: filepath.Join(out, "Ventas.xlsx")},
		{name: "root itself", path: root, want: root},
		{name: "traversal", path: filepath.Join(root, "..", filepath.Base(outside), "x.pdf"), wantErr: true},
		{name: "outside", path: filepath.Join(outside, "x.pdf"), wantErr: true},
		{name: "empty", path: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Resolve(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathValidator_Symlink(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.pdf")
	require.NoError(t, os.WriteFile(target, []byte("%PDF-1.4"), 0o644))

	link := filepath.Join(root, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	v, err := NewPathValidator(root)
	require.NoError(t, err)
	assert.Error(t, v.ValidatePath(link))
}

func TestPathValidator_MissingRootAllowsAnyPath(t *testing.T) {
	v, err := NewPathValidator(filepath.Join(t.TempDir(), "not-created"))
	require.NoError(t, err)
	assert.NoError(t, v.ValidatePath("/etc/hosts"))
}

func TestPathValidator_ValidateDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	v, err := NewPathValidator(root)
	require.NoError(t, err)

	got, err := v.ValidateDirectory(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = v.ValidateDirectory(file)
	assert.Error(t, err)

	got, err = v.ValidateDirectory("pending")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "pending"), got)
}

func TestPathValidator_PendingOutputRoot(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "salida")

	v, err := NewPathValidator(root, out)
	require.NoError(t, err)

	got, err := v.Resolve(out)
	require.NoError(t, err)
	assert.Equal(t, out, got)
	assert.NoError(t, v.ValidatePath(filepath.Join(out, "Ventas.xlsx")))
	assert.Error(t, v.ValidatePath(filepath.Join(filepath.Dir(out), "other")))
}
