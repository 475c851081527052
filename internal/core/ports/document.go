package ports

import "context"

// Document is an open scene document: the host plus its own persistence and render trigger.
type Document interface {
	Host

	// Path returns the document file path.
	Path() string
	// Save persists host-owned state (library paths and linked datablocks).
	Save() error
	// Render runs a render cycle, firing render hooks. cancel simulates a user abort.
	Render(ctx context.Context, cancel bool) error
}

// OpenOptions overrides document settings at open time.
type OpenOptions struct {
	// UseRelativePaths replaces the stored path preference when set.
	UseRelativePaths *bool
}

// DocumentLoader opens scene documents.
type DocumentLoader interface {
	// Open loads the document at path and fires HookLoadPost subscribers registered via onLoad.
	// A missing file yields a new empty document.
	Open(ctx context.Context, path string, opts OpenOptions, onLoad HookFunc) (Document, error)
}
