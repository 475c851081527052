// Package scenetest builds in-memory scene documents for tests.
package scenetest

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"go.trai.ch/linkman/internal/adapters/fs"
	"go.trai.ch/linkman/internal/adapters/scene"
	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
)

// Root is the directory fixture documents live in.
const Root = "/proj"

// Fixture is a document over an in-memory file system.
type Fixture struct {
	FS  *fs.MapFSAdapter
	Doc *scene.Document
}

// New creates an empty document at Root/scene.yaml. files maps paths relative to
// Root to library file contents.
func New(t testing.TB, files map[string]string, opts scene.Options) *Fixture {
	t.Helper()
	mapfs := fstest.MapFS{}
	for name, content := range files {
		mapfs[name] = &fstest.MapFile{Data: []byte(content), Mode: domain.FilePerm}
	}
	fsys := fs.NewMapFSAdapter(Root, mapfs)
	return &Fixture{
		FS:  fsys,
		Doc: scene.New(fsys, filepath.Join(Root, domain.DefaultSceneFile), opts),
	}
}

// WriteLibrary replaces a library file.
func (f *Fixture) WriteLibrary(t testing.TB, name, content string) {
	t.Helper()
	require.NoError(t, f.FS.WriteFile(filepath.Join(Root, name), []byte(content), domain.FilePerm))
}

// Link loads names from path and links the loaded collections and objects into
// the active collection.
func (f *Fixture) Link(t testing.TB, path string, restrict map[domain.Category][]string) ports.LoadResult {
	t.Helper()
	res, err := f.Doc.LoadLibrary(path, restrict)
	require.NoError(t, err)
	for _, c := range []domain.Category{domain.CategoryCollection, domain.CategoryObject} {
		for _, id := range res.Loaded[c] {
			require.NoError(t, f.Doc.Link(id))
		}
	}
	return res
}

// Load loads names from path without linking them anywhere.
func (f *Fixture) Load(t testing.TB, path string, restrict map[domain.Category][]string) ports.LoadResult {
	t.Helper()
	res, err := f.Doc.LoadLibrary(path, restrict)
	require.NoError(t, err)
	return res
}

// Proxy creates an empty instancing collection at tr and links it into the active collection.
func (f *Fixture) Proxy(t testing.TB, name string, collection domain.ID, tr domain.Transform) domain.ID {
	t.Helper()
	id, err := f.Doc.NewObject(name)
	require.NoError(t, err)
	require.NoError(t, f.Doc.SetInstanceCollection(id, collection))
	require.NoError(t, f.Doc.SetTransform(id, tr, domain.RotationQuaternion))
	require.NoError(t, f.Doc.Link(id))
	return id
}

// Collection returns the handle of a collection by name and owning library path.
// An empty path selects local data.
func (f *Fixture) Collection(t testing.TB, name, libPath string) domain.ID {
	t.Helper()
	return f.find(t, domain.CategoryCollection, name, libPath)
}

// ObjectNamed returns the first live object called name.
func (f *Fixture) ObjectNamed(name string) (domain.Object, bool) {
	for db := range f.Doc.Datablocks(domain.CategoryObject) {
		if db.Name == name {
			return f.Doc.Object(db.ID)
		}
	}
	return domain.Object{}, false
}

// Owned returns the names of the datablocks of c owned by the library at path.
func (f *Fixture) Owned(c domain.Category, path string) []string {
	lib, ok := f.Doc.LibraryAt(path)
	if !ok {
		return nil
	}
	var out []string
	for db := range f.Doc.Datablocks(c) {
		if db.Library == lib.ID {
			out = append(out, db.Name)
		}
	}
	return out
}

// Visible returns the names of the active collection's direct members.
func (f *Fixture) Visible() (objects, collections []string) {
	objs, children := f.Doc.Members()
	for _, id := range objs {
		if o, ok := f.Doc.Object(id); ok {
			objects = append(objects, o.Name)
		}
	}
	for _, id := range children {
		if c, ok := f.Doc.Collection(id); ok {
			collections = append(collections, c.Name)
		}
	}
	return objects, collections
}

// Proxies returns every live instancing empty.
func (f *Fixture) Proxies() []domain.Object {
	var out []domain.Object
	for db := range f.Doc.Datablocks(domain.CategoryObject) {
		if o, ok := f.Doc.Object(db.ID); ok && o.IsInstancer() {
			out = append(out, o)
		}
	}
	return out
}

// LibraryPaths returns the stored path of every live library.
func (f *Fixture) LibraryPaths() []string {
	var out []string
	for _, lib := range f.Doc.Libraries() {
		out = append(out, lib.Path)
	}
	return out
}

func (f *Fixture) find(t testing.TB, c domain.Category, name, libPath string) domain.ID {
	t.Helper()
	lib := domain.NoID
	if libPath != "" {
		l, ok := f.Doc.LibraryAt(libPath)
		require.True(t, ok, "library %s not linked", libPath)
		lib = l.ID
	}
	id, ok := f.Doc.Find(c, name, lib)
	require.True(t, ok, "%s %q not found", c, name)
	return id
}
