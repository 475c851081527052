package ports

import "io/fs"

// FileSystem abstracts filesystem operations for testability.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Stat returns file info for the given path.
	Stat(path string) (fs.FileInfo, error)
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the file at path.
	WriteFile(path string, data []byte, perm fs.FileMode) error
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
}
