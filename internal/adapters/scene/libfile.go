package scene

import (
	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// LibraryFile is the on-disk layout of a library file.
type LibraryFile struct {
	Collections []CollectionDTO `yaml:"collections,omitempty"`
	Objects     []ObjectDTO     `yaml:"objects,omitempty"`
	// Data lists plain datablock names keyed by category ("meshes", "materials", ...).
	Data map[string][]string `yaml:",inline"`
}

// CollectionDTO describes a collection and its direct members.
type CollectionDTO struct {
	Name     string `yaml:"name"`
	Objects  []Ref  `yaml:"objects,omitempty"`
	Children []Ref  `yaml:"children,omitempty"`
}

// ObjectDTO describes an object.
type ObjectDTO struct {
	Name               string            `yaml:"name"`
	Data               *DataDTO          `yaml:"data,omitempty"`
	InstanceCollection *Ref              `yaml:"instance_collection,omitempty"`
	Parent             *Ref              `yaml:"parent,omitempty"`
	Transform          *domain.Transform `yaml:"transform,omitempty"`
	RotationMode       string            `yaml:"rotation_mode,omitempty"`
}

// DataDTO points an object at its data block.
type DataDTO struct {
	Category string `yaml:"category"`
	Name     string `yaml:"name"`
	Library  string `yaml:"library,omitempty"`
}

// Ref names a datablock, optionally inside a library. Inside library files the
// library is implicit and Library stays empty.
type Ref struct {
	Name    string `yaml:"name"`
	Library string `yaml:"library,omitempty"`
}

// UnmarshalYAML accepts either a bare name or a mapping.
func (r *Ref) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Name = node.Value
		r.Library = ""
		return nil
	}
	type plain Ref
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

// MarshalYAML writes local references as bare names.
func (r Ref) MarshalYAML() (any, error) {
	if r.Library == "" {
		return r.Name, nil
	}
	type plain Ref
	return plain(r), nil
}

// parseLibraryFile decodes and indexes a library file.
func parseLibraryFile(data []byte) (*libraryIndex, error) {
	var lf LibraryFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, zerr.Wrap(err, domain.ErrLibraryParseFailed.Error())
	}

	idx := &libraryIndex{
		collections: make(map[string]CollectionDTO, len(lf.Collections)),
		objects:     make(map[string]ObjectDTO, len(lf.Objects)),
		data:        make(map[domain.Category]map[string]bool),
	}
	for _, c := range lf.Collections {
		idx.collections[c.Name] = c
	}
	for _, o := range lf.Objects {
		idx.objects[o.Name] = o
	}
	for _, o := range lf.Objects {
		if o.Data == nil {
			continue
		}
		c, err := domain.ParseCategory(o.Data.Category)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrLibraryParseFailed.Error()), "object", o.Name)
		}
		idx.add(c, o.Data.Name)
	}
	for key, names := range lf.Data {
		c, err := domain.ParseCategory(key)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrLibraryParseFailed.Error()), "key", key)
		}
		for _, n := range names {
			idx.add(c, n)
		}
	}
	return idx, nil
}

// libraryIndex is a parsed library file.
type libraryIndex struct {
	collections map[string]CollectionDTO
	objects     map[string]ObjectDTO
	data        map[domain.Category]map[string]bool
}

func (l *libraryIndex) add(c domain.Category, name string) {
	set := l.data[c]
	if set == nil {
		set = make(map[string]bool)
		l.data[c] = set
	}
	set[name] = true
}

func (l *libraryIndex) has(c domain.Category, name string) bool {
	switch c {
	case domain.CategoryCollection:
		_, ok := l.collections[name]
		return ok
	case domain.CategoryObject:
		_, ok := l.objects[name]
		return ok
	default:
		return l.data[c][name]
	}
}
