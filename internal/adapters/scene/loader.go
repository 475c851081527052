package scene

import (
	"context"

	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DocumentLoader = (*Loader)(nil)

// Loader opens scene documents from a file system.
type Loader struct {
	fs ports.FileSystem
}

// NewLoader creates a Loader reading through fsys.
func NewLoader(fsys ports.FileSystem) *Loader {
	return &Loader{fs: fsys}
}

// Open reads the document at path, subscribes onLoad to the after-load hook and fires it.
func (l *Loader) Open(ctx context.Context, path string, opts ports.OpenOptions, onLoad ports.HookFunc) (ports.Document, error) {
	var doc *Document
	if l.fs.Exists(path) {
		data, err := l.fs.ReadFile(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrDocumentReadFailed.Error()), "path", path)
		}
		doc, err = Decode(l.fs, path, data)
		if err != nil {
			return nil, err
		}
	} else {
		doc = New(l.fs, path, Options{UseRelativePaths: true})
	}

	if opts.UseRelativePaths != nil {
		doc.SetUseRelativePaths(*opts.UseRelativePaths)
	}
	if onLoad != nil {
		doc.Subscribe(ports.HookLoadPost, onLoad)
	}
	doc.Fire(ctx, ports.HookLoadPost)
	return doc, nil
}
