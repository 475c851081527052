package ports

import (
	"context"
	"iter"
)

// WatchEvent reports a change to a watched library file.
type WatchEvent struct {
	// Path is the absolute path of the file that changed.
	Path string
}

// Watcher defines the interface for watching library files.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching the given files.
	Start(ctx context.Context, paths []string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of file change events.
	Events() iter.Seq[WatchEvent]
}
