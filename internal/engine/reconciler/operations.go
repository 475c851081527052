package reconciler

import (
	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/zerr"
)

// LinkRequest names the datablocks to link from a file.
type LinkRequest struct {
	// Names lists datablock names per category.
	Names map[domain.Category][]string
	// Instance places top-level collections under generated instancing empties
	// instead of linking them into the active collection.
	Instance bool
}

// Link links the requested datablocks from path into the active collection.
func (r *Reconciler) Link(path string, req LinkRequest) (domain.LinkSnapshot, error) {
	snap := domain.NewSnapshot(r.policy.Normalizer().Normalize(path))
	for c, names := range req.Names {
		for _, name := range names {
			snap.Names[c] = domain.AppendUnique(snap.Names[c], name)
		}
	}
	if snap.IsEmpty() {
		return domain.LinkSnapshot{}, zerr.With(zerr.Wrap(domain.ErrNothingToRestore, "nothing requested to link"), "path", snap.LibraryPath)
	}

	switch {
	case len(snap.Names[domain.CategoryCollection]) > 0:
		snap.Kind = domain.KindCollections
	case len(snap.Names[domain.CategoryObject]) > 0:
		snap.Kind = domain.KindObjects
	default:
		snap.Kind = domain.KindOther
	}
	snap.Options.AutoInstanceCollections = req.Instance
	snap.Options.UseRelativePath = r.host.UseRelativePaths()

	return r.restore(snap, true)
}

// Delete removes the live library of either resolution of path, with its proxies,
// and forgets cached state of both resolutions.
func (r *Reconciler) Delete(path string) (domain.Library, error) {
	low, high := r.policy.Counterparts(path)
	lib, ok := r.FindAny(low, high)
	if !ok {
		return domain.Library{}, zerr.With(zerr.Wrap(domain.ErrLibraryNotFound, "no live library to delete"), "path", path)
	}

	if err := r.removeProxiesOf(lib.ID); err != nil {
		return lib, err
	}
	if err := r.host.RemoveLibrary(lib.ID); err != nil {
		return lib, zerr.With(zerr.Wrap(err, "could not delete library"), "path", lib.Path)
	}

	for _, key := range []string{low, high} {
		r.session.Forget(key)
	}
	r.host.RedrawAll()
	return lib, nil
}

// Relocate repoints the live library at path to newPath and reloads it. Cached
// session state follows the library to its new key.
func (r *Reconciler) Relocate(path, newPath string) (domain.LinkSnapshot, error) {
	norm := r.policy.Normalizer()
	oldKey, newKey := norm.Normalize(path), norm.Normalize(newPath)

	lib, ok := r.Find(path)
	if !ok {
		return domain.LinkSnapshot{}, zerr.With(zerr.Wrap(domain.ErrLibraryNotFound, "no live library to relocate"), "path", oldKey)
	}
	if err := r.host.RelocateLibrary(lib.ID, newKey); err != nil {
		return domain.LinkSnapshot{}, zerr.With(zerr.Wrap(err, "failed to relocate library"), "path", newKey)
	}
	if err := ReloadLibrary(r.host, lib.ID); err != nil {
		return domain.LinkSnapshot{}, zerr.With(zerr.Wrap(err, "failed to reload relocated library"), "path", newKey)
	}

	r.session.Rekey(oldKey, newKey)
	r.session.SetActive(newKey, true)
	r.host.RedrawAll()

	lib.Path = newKey
	fresh := r.capture.Capture(lib)
	r.session.PutSnapshot(fresh)
	return fresh, nil
}

// Relink links into the active collection every object and collection of lib
// that is not reachable from it. Collections shown by a proxy are left alone.
func (r *Reconciler) Relink(lib domain.ID) error {
	shown := make(map[domain.ID]bool)
	for _, obj := range r.localInstancers() {
		shown[obj.InstanceCollection] = true
	}

	var colls []domain.ID
	for db := range r.host.Datablocks(domain.CategoryCollection) {
		if db.Library == lib {
			colls = append(colls, db.ID)
		}
	}
	nested := r.nested(colls)
	inColl := make(map[domain.ID]bool)
	for _, id := range colls {
		if c, ok := r.host.Collection(id); ok {
			for _, o := range c.Objects {
				inColl[o] = true
			}
		}
	}

	for _, id := range colls {
		if nested[id] || shown[id] {
			continue
		}
		if err := r.linkOnce(id); err != nil {
			return err
		}
	}
	for db := range r.host.Datablocks(domain.CategoryObject) {
		if db.Library != lib || inColl[db.ID] {
			continue
		}
		if err := r.linkOnce(db.ID); err != nil {
			return err
		}
	}
	return nil
}
