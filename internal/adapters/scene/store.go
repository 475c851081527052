package scene

import (
	"iter"
	"maps"
	"slices"

	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/zerr"
)

// Libraries lists every live library in creation order.
func (d *Document) Libraries() []domain.Library {
	ids := slices.Sorted(maps.Keys(d.libs))
	out := make([]domain.Library, 0, len(ids))
	for _, id := range ids {
		lib := d.libs[id]
		out = append(out, domain.Library{ID: lib.id, Path: lib.path})
	}
	return out
}

// Library resolves a library handle.
func (d *Document) Library(id domain.ID) (domain.Library, bool) {
	lib, ok := d.libs[id]
	if !ok {
		return domain.Library{}, false
	}
	return domain.Library{ID: lib.id, Path: lib.path}, true
}

// LoadLibrary links the requested names from the file at path. A library that is
// already linked from the same file is reused.
func (d *Document) LoadLibrary(path string, restrictTo map[domain.Category][]string) (ports.LoadResult, error) {
	idx, err := d.readLibrary(path)
	if err != nil {
		return ports.LoadResult{}, err
	}

	lib := d.ensureLibrary(path)
	l := &linker{doc: d, lib: lib, idx: idx}
	res := ports.LoadResult{
		Library: lib.id,
		Loaded:  make(map[domain.Category][]domain.ID),
	}
	for _, c := range domain.Categories() {
		for _, name := range restrictTo[c] {
			if id, ok := l.ensure(c, name); ok && !slices.Contains(res.Loaded[c], id) {
				res.Loaded[c] = append(res.Loaded[c], id)
			}
		}
	}
	return res, nil
}

// RemoveLibrary removes a library and everything it owns. Local pointers into the
// removed data are left dangling, as the host would.
func (d *Document) RemoveLibrary(id domain.ID) error {
	lib, ok := d.libs[id]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrLibraryNotFound, "unknown handle"), "library", uint64(id))
	}
	if lib.protected {
		return zerr.With(zerr.Wrap(domain.ErrHostRejected, "library has external users"), "path", lib.path)
	}

	owned := make(map[domain.ID]bool)
	for bid, e := range d.blocks {
		if e.lib == id {
			owned[bid] = true
		}
	}
	d.deleteBlocks(owned)
	delete(d.libs, id)
	return nil
}

// RelocateLibrary changes the stored path of a library.
func (d *Document) RelocateLibrary(id domain.ID, newPath string) error {
	lib, ok := d.libs[id]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrLibraryNotFound, "unknown handle"), "library", uint64(id))
	}
	lib.path = newPath
	return nil
}

// ReloadLibrary re-reads the library from its stored path.
func (d *Document) ReloadLibrary(id domain.ID) error {
	if d.opts.LegacyReload {
		return zerr.Wrap(domain.ErrReloadSignature, "reload() missing required argument 'do_remap'")
	}
	return d.reload(id)
}

// ReloadLibraryRemap is the legacy single-argument reload.
func (d *Document) ReloadLibraryRemap(id domain.ID, _ bool) error {
	return d.reload(id)
}

func (d *Document) reload(id domain.ID) error {
	lib, ok := d.libs[id]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrLibraryNotFound, "unknown handle"), "library", uint64(id))
	}
	idx, err := d.readLibrary(lib.path)
	if err != nil {
		return err
	}

	vanished := make(map[domain.ID]bool)
	var survivors []*entity
	for _, bid := range d.sortedIDs() {
		e := d.blocks[bid]
		if e.lib != id {
			continue
		}
		if idx.has(e.cat, e.name) {
			survivors = append(survivors, e)
		} else {
			vanished[bid] = true
		}
	}
	d.deleteBlocks(vanished)

	l := &linker{doc: d, lib: lib, idx: idx}
	for _, e := range survivors {
		l.fill(e)
	}
	return nil
}

// Datablocks enumerates the datablocks of category c in creation order.
func (d *Document) Datablocks(c domain.Category) iter.Seq[domain.Datablock] {
	ids := d.sortedIDs()
	return func(yield func(domain.Datablock) bool) {
		for _, id := range ids {
			e, ok := d.blocks[id]
			if !ok || e.cat != c {
				continue
			}
			if !yield(e.datablock()) {
				return
			}
		}
	}
}

// Object resolves an object handle.
func (d *Document) Object(id domain.ID) (domain.Object, bool) {
	e, ok := d.blocks[id]
	if !ok || e.cat != domain.CategoryObject {
		return domain.Object{}, false
	}
	return domain.Object{
		Datablock:          e.datablock(),
		Data:               e.data,
		InstanceCollection: e.instance,
		Parent:             e.parent,
		Transform:          e.transform,
		RotationMode:       e.rotMode,
	}, true
}

// Collection resolves a collection handle.
func (d *Document) Collection(id domain.ID) (domain.Collection, bool) {
	e, ok := d.blocks[id]
	if !ok || e.cat != domain.CategoryCollection {
		return domain.Collection{}, false
	}
	return domain.Collection{
		Datablock: e.datablock(),
		Objects:   slices.Clone(e.objects),
		Children:  slices.Clone(e.children),
	}, true
}

// NewObject creates a local empty. Taken names get a ".001"-style suffix.
func (d *Document) NewObject(name string) (domain.ID, error) {
	e := d.newEntity(domain.CategoryObject, d.uniqueLocalName(domain.CategoryObject, name), domain.NoID)
	return e.id, nil
}

// RemoveObject deletes an object and unlinks it from every collection.
func (d *Document) RemoveObject(id domain.ID) error {
	if _, err := d.object(id); err != nil {
		return err
	}
	d.deleteBlocks(map[domain.ID]bool{id: true})
	return nil
}

// SetInstanceCollection makes an object instance a collection. NoID clears it.
func (d *Document) SetInstanceCollection(object, collection domain.ID) error {
	e, err := d.object(object)
	if err != nil {
		return err
	}
	if collection.Valid() {
		if _, ok := d.Collection(collection); !ok {
			return zerr.With(zerr.Wrap(domain.ErrDatablockNotFound, "unknown handle"), "collection", uint64(collection))
		}
	}
	e.instance = collection
	return nil
}

// SetTransform places an object.
func (d *Document) SetTransform(object domain.ID, t domain.Transform, mode domain.RotationMode) error {
	e, err := d.object(object)
	if err != nil {
		return err
	}
	e.transform = t
	e.rotMode = mode
	return nil
}

// SetParent reparents an object. NoID clears the parent.
func (d *Document) SetParent(object, parent domain.ID) error {
	e, err := d.object(object)
	if err != nil {
		return err
	}
	if parent.Valid() {
		if _, err := d.object(parent); err != nil {
			return err
		}
	}
	e.parent = parent
	return nil
}

func (d *Document) object(id domain.ID) (*entity, error) {
	e, ok := d.blocks[id]
	if !ok || e.cat != domain.CategoryObject {
		return nil, zerr.With(zerr.Wrap(domain.ErrDatablockNotFound, "unknown handle"), "object", uint64(id))
	}
	return e, nil
}

func (d *Document) ensureLibrary(path string) *library {
	if existing, ok := d.LibraryAt(path); ok {
		return d.libs[existing.ID]
	}
	d.nextID++
	lib := &library{id: d.nextID, path: path}
	d.libs[lib.id] = lib
	return lib
}

func (d *Document) readLibrary(path string) (*libraryIndex, error) {
	abs := d.ToAbsolute(path)
	data, err := d.fs.ReadFile(abs)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLibraryReadFailed.Error()), "path", path)
	}
	idx, err := parseLibraryFile(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return idx, nil
}

// deleteBlocks removes entities and scrubs membership lists and parent links.
// Instance and data pointers are kept so they dangle.
func (d *Document) deleteBlocks(ids map[domain.ID]bool) {
	if len(ids) == 0 {
		return
	}
	for id := range ids {
		delete(d.blocks, id)
	}
	gone := func(id domain.ID) bool { return ids[id] }
	for _, e := range d.blocks {
		e.objects = slices.DeleteFunc(e.objects, gone)
		e.children = slices.DeleteFunc(e.children, gone)
		if ids[e.parent] {
			e.parent = domain.NoID
		}
	}
	if ids[d.active] {
		d.active = d.scene
	}
}

func (e *entity) datablock() domain.Datablock {
	return domain.Datablock{ID: e.id, Category: e.cat, Name: e.name, Library: e.lib}
}

// linker materialises datablocks of one library from its parsed file.
type linker struct {
	doc *Document
	lib *library
	idx *libraryIndex
}

// ensure returns the datablock named name, creating it (and its dependencies) when
// the file declares it.
func (l *linker) ensure(c domain.Category, name string) (domain.ID, bool) {
	if id, ok := l.doc.Find(c, name, l.lib.id); ok {
		return id, true
	}
	if !l.idx.has(c, name) {
		return domain.NoID, false
	}
	e := l.doc.newEntity(c, name, l.lib.id)
	l.fill(e)
	return e.id, true
}

// fill sets an entity's contents from the file, linking dependencies.
func (l *linker) fill(e *entity) {
	switch e.cat {
	case domain.CategoryCollection:
		dto := l.idx.collections[e.name]
		e.objects = e.objects[:0]
		for _, ref := range dto.Objects {
			if id, ok := l.ensure(domain.CategoryObject, ref.Name); ok {
				e.objects = append(e.objects, id)
			}
		}
		e.children = e.children[:0]
		for _, ref := range dto.Children {
			if id, ok := l.ensure(domain.CategoryCollection, ref.Name); ok && id != e.id {
				e.children = append(e.children, id)
			}
		}
	case domain.CategoryObject:
		dto := l.idx.objects[e.name]
		e.data = domain.DataRef{}
		if dto.Data != nil {
			if c, err := domain.ParseCategory(dto.Data.Category); err == nil {
				if id, ok := l.ensure(c, dto.Data.Name); ok {
					e.data = domain.DataRef{Category: c, ID: id}
				}
			}
		}
		e.instance = domain.NoID
		if dto.InstanceCollection != nil {
			if id, ok := l.ensure(domain.CategoryCollection, dto.InstanceCollection.Name); ok {
				e.instance = id
			}
		}
		e.parent = domain.NoID
		if dto.Parent != nil {
			if id, ok := l.ensure(domain.CategoryObject, dto.Parent.Name); ok && id != e.id {
				e.parent = id
			}
		}
		e.transform = domain.IdentityTransform()
		if dto.Transform != nil {
			e.transform = dto.Transform.Normalized()
		}
		e.rotMode = domain.RotationEulerXYZ
		if dto.RotationMode != "" {
			e.rotMode = domain.RotationMode(dto.RotationMode)
		}
	default:
	}
}
