package datafile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Filesystem probes the local filesystem with os.Stat. Declared filenames
// are resolved relative to the document's directory and must stay inside it.
type Filesystem struct{}

// NewFilesystem returns a filesystem-backed prober.
func NewFilesystem() *Filesystem { return &Filesystem{} }

// Driver identifies the backend.
func (f *Filesystem) Driver() Driver { return DriverFilesystem }

// sanitizeName forbids path traversal and absolute declared filenames.
func sanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty filename")
	}
	if strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("invalid absolute filename")
	}
	clean := filepath.ToSlash(filepath.Clean(name))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid filename traversal")
	}
	return clean, nil
}

// Exists reports whether dir/name exists on the local filesystem.
func (f *Filesystem) Exists(_ context.Context, dir, name string) (bool, error) {
	clean, err := sanitizeName(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(clean)))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
