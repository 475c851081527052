// Package scene implements an in-process scene graph host backed by YAML
// scene documents and YAML library files.
package scene

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Document = (*Document)(nil)

// SceneCollectionName is the name of every document's root collection.
const SceneCollectionName = "Scene Collection"

// Options configures host behaviour that differs between host versions.
type Options struct {
	// UseRelativePaths is the global relative path preference.
	UseRelativePaths bool
	// LegacyReload makes the zero-argument reload fail with domain.ErrReloadSignature.
	LegacyReload bool
}

type library struct {
	id        domain.ID
	path      string
	protected bool
}

type entity struct {
	id   domain.ID
	cat  domain.Category
	name string
	lib  domain.ID

	data      domain.DataRef
	instance  domain.ID
	parent    domain.ID
	transform domain.Transform
	rotMode   domain.RotationMode

	objects  []domain.ID
	children []domain.ID
}

type hook struct {
	id int
	fn ports.HookFunc
}

// Document is an open scene document. It is not safe for concurrent mutation;
// the mutex only guards hook registration, which may happen from other goroutines.
type Document struct {
	fs   ports.FileSystem
	path string
	dir  string
	opts Options

	nextID domain.ID
	libs   map[domain.ID]*library
	blocks map[domain.ID]*entity
	scene  domain.ID
	active domain.ID

	mu       sync.Mutex
	hooks    map[ports.HookEvent][]hook
	nextHook int
	redraws  int
}

// New creates an empty document stored at path. path is made absolute.
func New(fsys ports.FileSystem, path string, opts Options) *Document {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	d := &Document{
		fs:     fsys,
		path:   abs,
		dir:    filepath.Dir(abs),
		opts:   opts,
		libs:   make(map[domain.ID]*library),
		blocks: make(map[domain.ID]*entity),
		hooks:  make(map[ports.HookEvent][]hook),
	}
	d.scene = d.newEntity(domain.CategoryCollection, SceneCollectionName, domain.NoID).id
	d.active = d.scene
	return d
}

// Path returns the document file path.
func (d *Document) Path() string {
	return d.path
}

// Options returns the host options the document was created with.
func (d *Document) Options() Options {
	return d.opts
}

// SetUseRelativePaths changes the global relative path preference.
func (d *Document) SetUseRelativePaths(v bool) {
	d.opts.UseRelativePaths = v
}

// UseRelativePaths reports the relative path preference.
func (d *Document) UseRelativePaths() bool {
	return d.opts.UseRelativePaths
}

// ToAbsolute resolves "//"-relative and plain relative paths against the document directory.
func (d *Document) ToAbsolute(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	if rest, ok := strings.CutPrefix(p, domain.RelativePrefix); ok {
		return filepath.Join(d.dir, filepath.FromSlash(rest))
	}
	native := filepath.FromSlash(p)
	if filepath.IsAbs(native) {
		return filepath.Clean(native)
	}
	return filepath.Join(d.dir, native)
}

// ToRelative expresses path relative to the document directory with the "//" prefix.
func (d *Document) ToRelative(path string) (string, error) {
	rel, err := filepath.Rel(d.dir, d.ToAbsolute(path))
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrRelativePathUnavailable.Error()), "path", path)
	}
	return domain.RelativePrefix + filepath.ToSlash(rel), nil
}

// RedrawAll counts a viewport redraw request.
func (d *Document) RedrawAll() {
	d.redraws++
}

// Redraws returns how many redraws were requested.
func (d *Document) Redraws() int {
	return d.redraws
}

// Subscribe registers fn for event.
func (d *Document) Subscribe(event ports.HookEvent, fn ports.HookFunc) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextHook++
	id := d.nextHook
	d.hooks[event] = append(d.hooks[event], hook{id: id, fn: fn})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.hooks[event] = slices.DeleteFunc(d.hooks[event], func(h hook) bool { return h.id == id })
	}
}

// Fire runs every handler registered for event in registration order.
func (d *Document) Fire(ctx context.Context, event ports.HookEvent) {
	d.mu.Lock()
	handlers := slices.Clone(d.hooks[event])
	d.mu.Unlock()

	for _, h := range handlers {
		h.fn(ctx)
	}
}

// Render runs one render cycle. The after-render or cancel hook always fires.
func (d *Document) Render(ctx context.Context, cancel bool) error {
	d.Fire(ctx, ports.HookRenderPre)
	if cancel || ctx.Err() != nil {
		d.Fire(ctx, ports.HookRenderCancel)
		return nil
	}
	d.Fire(ctx, ports.HookRenderPost)
	return nil
}

// Protect marks a library as having external users so the host refuses to remove it.
func (d *Document) Protect(id domain.ID, protected bool) {
	if lib, ok := d.libs[id]; ok {
		lib.protected = protected
	}
}

// Find returns the handle of the datablock named name in category c owned by lib.
func (d *Document) Find(c domain.Category, name string, lib domain.ID) (domain.ID, bool) {
	for _, id := range d.sortedIDs() {
		e := d.blocks[id]
		if e.cat == c && e.name == name && e.lib == lib {
			return id, true
		}
	}
	return domain.NoID, false
}

// LibraryAt returns the live library whose absolute path equals that of path.
func (d *Document) LibraryAt(path string) (domain.Library, bool) {
	abs := d.ToAbsolute(path)
	for _, id := range slices.Sorted(maps.Keys(d.libs)) {
		lib := d.libs[id]
		if d.ToAbsolute(lib.path) == abs {
			return domain.Library{ID: lib.id, Path: lib.path}, true
		}
	}
	return domain.Library{}, false
}

// SceneCollection returns the handle of the root collection.
func (d *Document) SceneCollection() domain.ID {
	return d.scene
}

// SetActiveCollection makes a collection the target for new links.
func (d *Document) SetActiveCollection(id domain.ID) error {
	e, ok := d.blocks[id]
	if !ok || e.cat != domain.CategoryCollection {
		return zerr.With(zerr.Wrap(domain.ErrDatablockNotFound, "unknown handle"), "id", uint64(id))
	}
	d.active = id
	return nil
}

func (d *Document) newEntity(c domain.Category, name string, lib domain.ID) *entity {
	d.nextID++
	e := &entity{
		id:        d.nextID,
		cat:       c,
		name:      name,
		lib:       lib,
		transform: domain.IdentityTransform(),
		rotMode:   domain.RotationEulerXYZ,
	}
	d.blocks[e.id] = e
	return e
}

func (d *Document) sortedIDs() []domain.ID {
	return slices.Sorted(maps.Keys(d.blocks))
}

func (d *Document) uniqueLocalName(c domain.Category, name string) string {
	taken := func(n string) bool {
		_, ok := d.Find(c, n, domain.NoID)
		return ok
	}
	if !taken(name) {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%03d", name, i)
		if !taken(candidate) {
			return candidate
		}
	}
}
