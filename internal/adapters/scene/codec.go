package scene

import (
	"slices"

	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DocumentFile is the on-disk layout of a scene document.
type DocumentFile struct {
	Preferences      PreferencesDTO  `yaml:"preferences"`
	Host             HostDTO         `yaml:"host,omitempty"`
	ActiveCollection string          `yaml:"active_collection,omitempty"`
	Collections      []CollectionDTO `yaml:"collections,omitempty"`
	Objects          []ObjectDTO     `yaml:"objects,omitempty"`
	Libraries        []LibraryDTO    `yaml:"libraries,omitempty"`
}

// PreferencesDTO holds user preferences stored with the document.
type PreferencesDTO struct {
	UseRelativePaths *bool `yaml:"use_relative_paths,omitempty"`
}

// HostDTO holds host version quirks.
type HostDTO struct {
	LegacyReload bool `yaml:"legacy_reload,omitempty"`
}

// LibraryDTO records one linked library and the names linked from it.
type LibraryDTO struct {
	Path      string              `yaml:"path"`
	Protected bool                `yaml:"protected,omitempty"`
	Linked    map[string][]string `yaml:"linked,omitempty"`
}

// Decode builds a document from its YAML form. Libraries whose files cannot be
// read stay linked but empty, like missing libraries in the host.
func Decode(fsys ports.FileSystem, path string, data []byte) (*Document, error) {
	var df DocumentFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDocumentParseFailed.Error()), "path", path)
	}

	opts := Options{UseRelativePaths: true, LegacyReload: df.Host.LegacyReload}
	if df.Preferences.UseRelativePaths != nil {
		opts.UseRelativePaths = *df.Preferences.UseRelativePaths
	}
	d := New(fsys, path, opts)

	for _, ld := range df.Libraries {
		restrict := make(map[domain.Category][]string, len(ld.Linked))
		for key, names := range ld.Linked {
			c, err := domain.ParseCategory(key)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrDocumentParseFailed.Error()), "key", key)
			}
			restrict[c] = names
		}
		res, err := d.LoadLibrary(ld.Path, restrict)
		if err != nil {
			d.ensureLibrary(ld.Path).protected = ld.Protected
			continue
		}
		d.libs[res.Library].protected = ld.Protected
	}

	dec := &decoder{doc: d}
	for _, cd := range df.Collections {
		if cd.Name == SceneCollectionName {
			continue
		}
		if _, ok := d.Find(domain.CategoryCollection, cd.Name, domain.NoID); !ok {
			d.newEntity(domain.CategoryCollection, cd.Name, domain.NoID)
		}
	}
	for _, od := range df.Objects {
		if _, ok := d.Find(domain.CategoryObject, od.Name, domain.NoID); !ok {
			d.newEntity(domain.CategoryObject, od.Name, domain.NoID)
		}
	}
	for _, cd := range df.Collections {
		dec.collection(cd)
	}
	for _, od := range df.Objects {
		dec.object(od)
	}

	if df.ActiveCollection != "" {
		if id, ok := d.Find(domain.CategoryCollection, df.ActiveCollection, domain.NoID); ok {
			d.active = id
		}
	}
	return d, nil
}

// Encode renders the document to its YAML form.
func (d *Document) Encode() ([]byte, error) {
	use := d.opts.UseRelativePaths
	df := DocumentFile{
		Preferences: PreferencesDTO{UseRelativePaths: &use},
		Host:        HostDTO{LegacyReload: d.opts.LegacyReload},
	}
	if d.active != d.scene {
		df.ActiveCollection = d.blocks[d.active].name
	}

	linked := make(map[domain.ID]map[string][]string)
	for _, id := range d.sortedIDs() {
		e := d.blocks[id]
		if e.lib.Valid() {
			if linked[e.lib] == nil {
				linked[e.lib] = make(map[string][]string)
			}
			linked[e.lib][e.cat.String()] = append(linked[e.lib][e.cat.String()], e.name)
			continue
		}
		switch e.cat {
		case domain.CategoryCollection:
			df.Collections = append(df.Collections, CollectionDTO{
				Name:     e.name,
				Objects:  d.refs(e.objects),
				Children: d.refs(e.children),
			})
		case domain.CategoryObject:
			df.Objects = append(df.Objects, d.objectDTO(e))
		default:
		}
	}

	for _, lib := range d.Libraries() {
		df.Libraries = append(df.Libraries, LibraryDTO{
			Path:      lib.Path,
			Protected: d.libs[lib.ID].protected,
			Linked:    linked[lib.ID],
		})
	}

	out, err := yaml.Marshal(&df)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDocumentWriteFailed.Error()), "path", d.path)
	}
	return out, nil
}

// Save writes the document back to its path.
func (d *Document) Save() error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := d.fs.WriteFile(d.path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDocumentWriteFailed.Error()), "path", d.path)
	}
	return nil
}

func (d *Document) objectDTO(e *entity) ObjectDTO {
	od := ObjectDTO{Name: e.name}
	if e.data.ID.Valid() {
		if target, ok := d.blocks[e.data.ID]; ok {
			od.Data = &DataDTO{
				Category: target.cat.String(),
				Name:     target.name,
				Library:  d.libraryPath(target.lib),
			}
		}
	}
	if ref, ok := d.ref(e.instance); ok {
		od.InstanceCollection = &ref
	}
	if ref, ok := d.ref(e.parent); ok {
		od.Parent = &ref
	}
	if e.transform != domain.IdentityTransform() {
		t := e.transform
		od.Transform = &t
	}
	if e.rotMode != domain.RotationEulerXYZ {
		od.RotationMode = string(e.rotMode)
	}
	return od
}

func (d *Document) refs(ids []domain.ID) []Ref {
	var out []Ref
	for _, id := range ids {
		if ref, ok := d.ref(id); ok {
			out = append(out, ref)
		}
	}
	return out
}

func (d *Document) ref(id domain.ID) (Ref, bool) {
	e, ok := d.blocks[id]
	if !ok {
		return Ref{}, false
	}
	return Ref{Name: e.name, Library: d.libraryPath(e.lib)}, true
}

func (d *Document) libraryPath(id domain.ID) string {
	if lib, ok := d.libs[id]; ok {
		return lib.path
	}
	return ""
}

// decoder resolves references of a document being decoded.
type decoder struct {
	doc *Document
}

func (dc *decoder) resolve(c domain.Category, ref Ref) (domain.ID, bool) {
	lib := domain.NoID
	if ref.Library != "" {
		l, ok := dc.doc.LibraryAt(ref.Library)
		if !ok {
			return domain.NoID, false
		}
		lib = l.ID
	}
	return dc.doc.Find(c, ref.Name, lib)
}

func (dc *decoder) collection(cd CollectionDTO) {
	id, ok := dc.doc.Find(domain.CategoryCollection, cd.Name, domain.NoID)
	if !ok {
		return
	}
	e := dc.doc.blocks[id]
	for _, ref := range cd.Objects {
		if oid, ok := dc.resolve(domain.CategoryObject, ref); ok && !slices.Contains(e.objects, oid) {
			e.objects = append(e.objects, oid)
		}
	}
	for _, ref := range cd.Children {
		if cid, ok := dc.resolve(domain.CategoryCollection, ref); ok && cid != id && !slices.Contains(e.children, cid) {
			e.children = append(e.children, cid)
		}
	}
}

func (dc *decoder) object(od ObjectDTO) {
	id, ok := dc.doc.Find(domain.CategoryObject, od.Name, domain.NoID)
	if !ok {
		return
	}
	e := dc.doc.blocks[id]
	if od.Data != nil {
		if c, err := domain.ParseCategory(od.Data.Category); err == nil {
			ref := Ref{Name: od.Data.Name, Library: od.Data.Library}
			did, found := dc.resolve(c, ref)
			if !found && ref.Library == "" {
				did = dc.doc.newEntity(c, ref.Name, domain.NoID).id
				found = true
			}
			if found {
				e.data = domain.DataRef{Category: c, ID: did}
			}
		}
	}
	if od.InstanceCollection != nil {
		if cid, ok := dc.resolve(domain.CategoryCollection, *od.InstanceCollection); ok {
			e.instance = cid
		}
	}
	if od.Parent != nil {
		if pid, ok := dc.resolve(domain.CategoryObject, *od.Parent); ok && pid != id {
			e.parent = pid
		}
	}
	if od.Transform != nil {
		e.transform = od.Transform.Normalized()
	}
	if od.RotationMode != "" {
		e.rotMode = domain.RotationMode(od.RotationMode)
	}
}
