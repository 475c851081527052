// Package ports defines the core interfaces for the application.
package ports

import (
	"iter"

	"go.trai.ch/linkman/internal/core/domain"
)

// LoadResult describes the datablocks a restricted library load produced.
type LoadResult struct {
	// Library is the handle of the library the datablocks belong to.
	Library domain.ID
	// Loaded lists, per category, the handles of the requested names that now exist.
	// Names absent from the file are silently skipped.
	Loaded map[domain.Category][]domain.ID
}

// SceneStore is the host's storage of libraries and datablocks.
//
// Handles returned by one call may be invalidated by any later mutation; callers
// re-resolve them through Object, Collection or Library and treat a miss as "gone".
type SceneStore interface {
	// Libraries lists every live library.
	Libraries() []domain.Library
	// Library resolves a library handle. It reports false for invalidated handles.
	Library(id domain.ID) (domain.Library, bool)
	// LoadLibrary links from the file at path only the given names per category.
	LoadLibrary(path string, restrictTo map[domain.Category][]string) (LoadResult, error)
	// RemoveLibrary removes a library and every datablock it owns.
	RemoveLibrary(id domain.ID) error
	// RelocateLibrary changes the stored path of a library without reloading it.
	RelocateLibrary(id domain.ID, newPath string) error
	// ReloadLibrary re-reads a library from its stored path.
	// Hosts that need the remapping form return domain.ErrReloadSignature.
	ReloadLibrary(id domain.ID) error
	// ReloadLibraryRemap is the single-argument reload form.
	ReloadLibraryRemap(id domain.ID, remap bool) error

	// Datablocks enumerates every live datablock of a category.
	Datablocks(c domain.Category) iter.Seq[domain.Datablock]
	// Object resolves an object handle.
	Object(id domain.ID) (domain.Object, bool)
	// Collection resolves a collection handle.
	Collection(id domain.ID) (domain.Collection, bool)

	// NewObject creates a local empty object. The host may adjust the name to keep it unique.
	NewObject(name string) (domain.ID, error)
	// RemoveObject deletes an object and unlinks it everywhere.
	RemoveObject(id domain.ID) error
	// SetInstanceCollection sets the collection an empty instances.
	SetInstanceCollection(object, collection domain.ID) error
	// SetTransform places an object and sets its rotation mode.
	SetTransform(object domain.ID, t domain.Transform, mode domain.RotationMode) error
	// SetParent reparents an object. NoID clears the parent.
	SetParent(object, parent domain.ID) error
}

// ActiveCollection is the collection new content is linked into.
type ActiveCollection interface {
	// ActiveCollection returns the handle of the active collection.
	ActiveCollection() domain.ID
	// Link adds an object or collection as a direct member of the active collection.
	Link(id domain.ID) error
	// Unlink removes a direct member from the active collection.
	Unlink(id domain.ID) error
	// Contains reports whether id is a direct member of the active collection.
	Contains(id domain.ID) bool
	// Members returns the direct child objects and collections of the active collection.
	Members() (objects, children []domain.ID)
}

// PathPreferences exposes the host's path conventions.
type PathPreferences interface {
	// UseRelativePaths reports the global preference for document-relative paths.
	UseRelativePaths() bool
	// ToAbsolute resolves a possibly document-relative path.
	ToAbsolute(path string) string
	// ToRelative expresses a path relative to the document, failing when that is impossible.
	ToRelative(path string) (string, error)
}

// Viewport redraws the 3-D views.
type Viewport interface {
	// RedrawAll requests a redraw of every open 3-D view.
	RedrawAll()
}

// Host bundles every capability the core consumes from the scene application.
type Host interface {
	SceneStore
	ActiveCollection
	PathPreferences
	Viewport
	Hooks
}
