// Package fs provides file system adapters for scene documents and library files.
package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing/fstest"

	"go.trai.ch/linkman/internal/core/ports"
)

var (
	_ ports.FileSystem = (*OSFS)(nil)
	_ ports.FileSystem = (*MapFSAdapter)(nil)
)

// OSFS implements ports.FileSystem using the standard library.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file info for the given path.
func (o *OSFS) Stat(path string) (iofs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the entire file at path.
func (o *OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- library paths come from the scene document.
	return os.ReadFile(path)
}

// WriteFile replaces the file at path, creating parent directories.
func (o *OSFS) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

// Exists reports whether a regular file exists at path.
func (o *OSFS) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// MapFSAdapter adapts fstest.MapFS to ports.FileSystem for testing.
type MapFSAdapter struct {
	FS   fstest.MapFS
	Root string // simulated root path
}

// NewMapFSAdapter creates a new MapFSAdapter with the given root path and filesystem.
func NewMapFSAdapter(root string, fsys fstest.MapFS) *MapFSAdapter {
	if fsys == nil {
		fsys = fstest.MapFS{}
	}
	return &MapFSAdapter{
		FS:   fsys,
		Root: root,
	}
}

// Stat returns file info for the given path.
func (m *MapFSAdapter) Stat(path string) (iofs.FileInfo, error) {
	return iofs.Stat(m.FS, m.toRelPath(path))
}

// ReadFile reads the entire file at path.
func (m *MapFSAdapter) ReadFile(path string) ([]byte, error) {
	return iofs.ReadFile(m.FS, m.toRelPath(path))
}

// WriteFile stores data at path.
func (m *MapFSAdapter) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	rel := m.toRelPath(path)
	if !iofs.ValidPath(rel) {
		return &iofs.PathError{Op: "write", Path: path, Err: iofs.ErrInvalid}
	}
	m.FS[rel] = &fstest.MapFile{Data: append([]byte(nil), data...), Mode: perm}
	return nil
}

// Exists reports whether a regular file exists at path.
func (m *MapFSAdapter) Exists(path string) bool {
	info, err := m.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Remove deletes the file at path.
func (m *MapFSAdapter) Remove(path string) error {
	rel := m.toRelPath(path)
	if _, ok := m.FS[rel]; !ok {
		return &iofs.PathError{Op: "remove", Path: path, Err: iofs.ErrNotExist}
	}
	delete(m.FS, rel)
	return nil
}

// toRelPath converts an absolute path to a path within the filesystem.
// Paths outside the root are returned unchanged, which makes fs operations fail
// with "file not found" errors.
func (m *MapFSAdapter) toRelPath(absPath string) string {
	p := filepath.ToSlash(absPath)
	root := filepath.ToSlash(m.Root)
	if !strings.HasPrefix(p, "/") {
		return p
	}
	if root != "/" && p != root && !strings.HasPrefix(p, root+"/") {
		return p
	}
	rel := strings.TrimPrefix(p, root)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return "."
	}
	return rel
}
