package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator confines every path a caller hands in to a set of allowed
// root directories: the settlements directory and the export directory.
type PathValidator struct {
	roots []string
}

// NewPathValidator creates a validator for the given roots. The first root is
// the base for relative paths. Roots need not exist yet.
func NewPathValidator(roots ...string) (*PathValidator, error) {
	v := &PathValidator{}
	for _, r := range roots {
		if r == "" {
			continue
		}
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root %s: %w", r, err)
		}
		v.roots = append(v.roots, filepath.Clean(abs))
	}
	if len(v.roots) == 0 {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	return v, nil
}

// Root returns the base directory for relative paths
func (v *PathValidator) Root() string {
	return v.roots[0]
}

// Resolve returns the absolute, cleaned form of path after checking it lies
// within one of the roots. Relative paths are taken from Root. Symlinks are
// followed before the containment check.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.Root(), path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	abs = filepath.Clean(abs)

	target := abs
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		target = resolved
	}

	existing := 0
	for _, root := range v.roots {
		if _, err := os.Stat(root); err != nil {
			if within(abs, root) {
				return abs, nil
			}
			continue
		}
		existing++
		realRoot := root
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			realRoot = resolved
		}
		inRoot := func(p string) bool { return within(p, root) || within(p, realRoot) }
		if inRoot(abs) && inRoot(target) {
			return abs, nil
		}
	}
	// Nothing to confine to until a root is created.
	if existing == 0 {
		return abs, nil
	}
	return "", fmt.Errorf("path is outside configured directory: %s", path)
}

// ValidatePath checks that path lies within the roots
func (v *PathValidator) ValidatePath(path string) error {
	_, err := v.Resolve(path)
	return err
}

// ValidateDirectory checks that dir lies within the roots and, when it
// exists, that it is a directory.
func (v *PathValidator) ValidateDirectory(dir string) (string, error) {
	abs, err := v.Resolve(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", dir)
	}
	return abs, nil
}

func within(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
