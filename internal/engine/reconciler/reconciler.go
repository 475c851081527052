// Package reconciler unlinks libraries and re-links exactly the datablocks a snapshot names.
package reconciler

import (
	"errors"

	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/linkman/internal/engine/naming"
	"go.trai.ch/linkman/internal/engine/snapshot"
	"go.trai.ch/zerr"
)

// Reconciler mutates the host's libraries while keeping the session's caches in step.
type Reconciler struct {
	host    ports.Host
	session *domain.Session
	policy  *naming.Policy
	capture *snapshot.Capturer
}

// New creates a Reconciler.
func New(host ports.Host, session *domain.Session, policy *naming.Policy) *Reconciler {
	return &Reconciler{
		host:    host,
		session: session,
		policy:  policy,
		capture: snapshot.NewCapturer(host, policy.Normalizer()),
	}
}

// Capturer returns the snapshot capturer the reconciler records state with.
func (r *Reconciler) Capturer() *snapshot.Capturer {
	return r.capture
}

// Find returns the live library whose normalized path equals that of path.
func (r *Reconciler) Find(path string) (domain.Library, bool) {
	return r.FindAny(path)
}

// FindAny returns the first live library matching any of paths.
func (r *Reconciler) FindAny(paths ...string) (domain.Library, bool) {
	norm := r.policy.Normalizer()
	keys := make(map[string]bool, len(paths))
	for _, p := range paths {
		keys[norm.Normalize(p)] = true
	}
	for _, lib := range r.host.Libraries() {
		if keys[norm.Normalize(lib.Path)] {
			return lib, true
		}
	}
	return domain.Library{}, false
}

// Unload captures the library at path into the session, removes the proxies it
// spawned and asks the host to remove it.
func (r *Reconciler) Unload(path string) (domain.LinkSnapshot, error) {
	key := r.policy.Normalizer().Normalize(path)
	lib, ok := r.Find(path)
	if !ok {
		return domain.LinkSnapshot{}, zerr.With(zerr.Wrap(domain.ErrLibraryNotFound, "no live library to unload"), "path", key)
	}

	snap := r.capture.Capture(lib)
	r.session.PutSnapshot(snap)

	if snap.Kind == domain.KindCollections {
		if err := r.removeProxiesOf(lib.ID); err != nil {
			return snap, err
		}
	}
	if err := r.host.RemoveLibrary(lib.ID); err != nil {
		return snap, zerr.With(zerr.Wrap(err, "failed to remove library"), "path", key)
	}
	r.session.SetActive(key, false)
	return snap, nil
}

// Reload unloads the library at path if it is live, then re-links the cached snapshot.
func (r *Reconciler) Reload(path string) (domain.LinkSnapshot, error) {
	key := r.policy.Normalizer().Normalize(path)
	if _, ok := r.Find(path); ok {
		if _, err := r.Unload(path); err != nil {
			return domain.LinkSnapshot{}, errors.Join(domain.ErrUnloadBeforeReload, err)
		}
	}

	snap, ok := r.session.Snapshot(key)
	if !ok || snap.IsEmpty() {
		return domain.LinkSnapshot{}, zerr.With(zerr.Wrap(domain.ErrNothingToRestore, "nothing cached to re-link"), "path", key)
	}
	return r.Restore(snap)
}

// Toggle unloads a live library or restores an unloaded one from the cache.
// It reports whether the library is loaded afterwards.
func (r *Reconciler) Toggle(path string) (bool, error) {
	key := r.policy.Normalizer().Normalize(path)
	if _, ok := r.Find(path); ok {
		_, err := r.Unload(path)
		return false, err
	}
	snap, ok := r.session.Snapshot(key)
	if !ok {
		return false, zerr.With(zerr.Wrap(domain.ErrLibraryNotFound, "no library to unload or reload"), "path", key)
	}
	if _, err := r.Restore(snap); err != nil {
		return false, err
	}
	return true, nil
}

// Restore links from disk only what snap names and places it like it was captured.
// Collections the capture saw neither instanced nor linked stay hidden.
// The returned snapshot is a fresh capture of the restored state, also cached in the session.
func (r *Reconciler) Restore(snap domain.LinkSnapshot) (domain.LinkSnapshot, error) {
	return r.restore(snap, false)
}

// restore links snap. requested marks a snapshot built from a link request, whose
// collections all have to become visible.
func (r *Reconciler) restore(snap domain.LinkSnapshot, requested bool) (domain.LinkSnapshot, error) {
	res, err := r.host.LoadLibrary(snap.LibraryPath, snap.Restriction())
	if err != nil {
		return domain.LinkSnapshot{}, zerr.With(zerr.Wrap(err, "failed to link library"), "path", snap.LibraryPath)
	}
	// A hidden high-res copy of the same file is reused and now holds user data.
	if r.session.IsEphemeral(res.Library) {
		r.session.DropEphemeral(res.Library)
	}

	if err := r.purgeProxies(snap, res.Library); err != nil {
		return domain.LinkSnapshot{}, err
	}
	if err := r.place(snap, res, requested); err != nil {
		return domain.LinkSnapshot{}, err
	}

	lib, ok := r.host.Library(res.Library)
	if !ok {
		return domain.LinkSnapshot{}, zerr.With(zerr.Wrap(domain.ErrLibraryNotFound, "library vanished while linking"), "path", snap.LibraryPath)
	}
	if snap.Options.UseRelativePath {
		if rel, relErr := r.host.ToRelative(lib.Path); relErr == nil && rel != lib.Path {
			if err := r.host.RelocateLibrary(lib.ID, rel); err != nil {
				return domain.LinkSnapshot{}, zerr.With(zerr.Wrap(err, "failed to store relative path"), "path", rel)
			}
			lib.Path = rel
		}
	}

	r.session.SetActive(snap.LibraryPath, true)
	r.host.RedrawAll()

	fresh := r.capture.Capture(lib)
	r.session.PutSnapshot(fresh)
	return fresh, nil
}

// place puts restored datablocks where the snapshot says they were.
func (r *Reconciler) place(snap domain.LinkSnapshot, res ports.LoadResult, requested bool) error {
	switch snap.Kind {
	case domain.KindCollections:
		loaded := res.Loaded[domain.CategoryCollection]
		nested := r.nested(loaded)
		for _, id := range loaded {
			coll, ok := r.host.Collection(id)
			if !ok {
				continue
			}
			if err := r.placeCollection(snap, coll, nested[id], requested); err != nil {
				return err
			}
		}
	case domain.KindObjects:
		for _, id := range res.Loaded[domain.CategoryObject] {
			if err := r.host.SetParent(id, domain.NoID); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to clear parent"), "object", uint64(id))
			}
			if err := r.linkOnce(id); err != nil {
				return err
			}
		}
	default:
	}
	return nil
}

func (r *Reconciler) placeCollection(snap domain.LinkSnapshot, coll domain.Collection, nested, requested bool) error {
	name := coll.Name
	if proxy, ok := snap.InstanceNames[name]; ok {
		return r.ensureProxy(proxy, coll.ID, snap.TransformFor(name))
	}
	switch {
	case snap.IsLinkedDirectly(name):
		return r.linkOnce(coll.ID)
	case nested, !requested:
		return nil
	case snap.Options.AutoInstanceCollections:
		return r.ensureProxy(name+domain.InstanceNameSuffix, coll.ID, snap.TransformFor(name))
	default:
		return r.linkOnce(coll.ID)
	}
}

// nested returns the loaded collections that are children of another loaded collection.
func (r *Reconciler) nested(loaded []domain.ID) map[domain.ID]bool {
	out := make(map[domain.ID]bool)
	for _, id := range loaded {
		coll, ok := r.host.Collection(id)
		if !ok {
			continue
		}
		for _, child := range coll.Children {
			out[child] = true
		}
	}
	return out
}

// ensureProxy creates or reuses the one instancing empty called name for coll.
func (r *Reconciler) ensureProxy(name string, coll domain.ID, t domain.Transform) error {
	id, found := r.localInstancer(name, coll)
	if !found {
		var err error
		id, err = r.host.NewObject(name)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create proxy"), "name", name)
		}
		if err := r.host.SetInstanceCollection(id, coll); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to instance collection"), "name", name)
		}
	}
	if err := r.host.SetTransform(id, t, domain.RotationQuaternion); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to place proxy"), "name", name)
	}
	return r.linkOnce(id)
}

func (r *Reconciler) localInstancer(name string, coll domain.ID) (domain.ID, bool) {
	for db := range r.host.Datablocks(domain.CategoryObject) {
		if db.IsLinked() || db.Name != name {
			continue
		}
		if obj, ok := r.host.Object(db.ID); ok && obj.IsInstancer() && obj.InstanceCollection == coll {
			return db.ID, true
		}
	}
	return domain.NoID, false
}

func (r *Reconciler) linkOnce(id domain.ID) error {
	if r.host.Contains(id) {
		return nil
	}
	if err := r.host.Link(id); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to link into active collection"), "id", uint64(id))
	}
	return nil
}

// removeProxiesOf deletes every local instancing empty that shows a collection of lib.
func (r *Reconciler) removeProxiesOf(lib domain.ID) error {
	for _, obj := range r.localInstancers() {
		coll, ok := r.host.Collection(obj.InstanceCollection)
		if !ok || coll.Library != lib {
			continue
		}
		if err := r.host.RemoveObject(obj.ID); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove proxy"), "name", obj.Name)
		}
	}
	return nil
}

// purgeProxies deletes instancing empties whose collection is gone, and the captured
// proxies of snap that now show a collection from another library.
func (r *Reconciler) purgeProxies(snap domain.LinkSnapshot, lib domain.ID) error {
	captured := make(map[string]bool, len(snap.InstanceNames))
	for _, name := range snap.InstanceNames {
		captured[name] = true
	}
	for _, obj := range r.localInstancers() {
		coll, ok := r.host.Collection(obj.InstanceCollection)
		if ok && (!captured[obj.Name] || coll.Library == lib) {
			continue
		}
		if err := r.host.RemoveObject(obj.ID); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to purge proxy"), "name", obj.Name)
		}
	}
	return nil
}

func (r *Reconciler) localInstancers() []domain.Object {
	var out []domain.Object
	for db := range r.host.Datablocks(domain.CategoryObject) {
		if db.IsLinked() {
			continue
		}
		if obj, ok := r.host.Object(db.ID); ok && obj.IsInstancer() {
			out = append(out, obj)
		}
	}
	return out
}

// ReloadLibrary reloads with the zero-argument form and falls back to the remap
// form on hosts that reject it.
func ReloadLibrary(store ports.SceneStore, id domain.ID) error {
	err := store.ReloadLibrary(id)
	if errors.Is(err, domain.ErrReloadSignature) {
		err = store.ReloadLibraryRemap(id, true)
	}
	return err
}
