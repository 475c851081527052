package domain

import (
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// LinkKind classifies what a library contributed to the scene.
type LinkKind uint8

const (
	// KindOther means only miscellaneous datablocks (materials, images, ...) were linked.
	KindOther LinkKind = iota
	// KindObjects means objects were linked directly into the scene.
	KindObjects
	// KindCollections means collections were linked, directly or through instancing proxies.
	KindCollections
)

// String returns the lower-case kind name.
func (k LinkKind) String() string {
	switch k {
	case KindObjects:
		return "objects"
	case KindCollections:
		return "collections"
	default:
		return "other"
	}
}

// LinkOptions is the linking policy replayed when a library is linked again.
type LinkOptions struct {
	UseRelativePath         bool `yaml:"use_relative_path"`
	AutoInstanceCollections bool `yaml:"auto_instance_collections"`
	InstanceObjectData      bool `yaml:"instance_object_data"`
}

// LinkSnapshot records what was instantiated from one library and how.
// It is a value: it holds names, never live handles.
type LinkSnapshot struct {
	LibraryPath string
	Kind        LinkKind
	// Names lists datablock names per category in capture order.
	Names map[Category][]string
	// InstanceNames maps a collection name to the proxy object that instanced it.
	InstanceNames map[string]string
	// LinkedCollections lists collections that were direct children of the active collection.
	LinkedCollections []string
	// Transforms maps a collection name to the transform of its instancing proxy.
	Transforms map[string]Transform
	Options    LinkOptions
}

// NewSnapshot returns an empty snapshot of kind other for path.
func NewSnapshot(path string) LinkSnapshot {
	return LinkSnapshot{
		LibraryPath:   path,
		Kind:          KindOther,
		Names:         make(map[Category][]string),
		InstanceNames: make(map[string]string),
		Transforms:    make(map[string]Transform),
	}
}

// IsEmpty reports whether the snapshot names nothing to restore.
func (s LinkSnapshot) IsEmpty() bool {
	for _, names := range s.Names {
		if len(names) > 0 {
			return false
		}
	}
	return true
}

// NamesOf returns the names recorded for c.
func (s LinkSnapshot) NamesOf(c Category) []string {
	return s.Names[c]
}

// Has reports whether name is recorded under c.
func (s LinkSnapshot) Has(c Category, name string) bool {
	return slices.Contains(s.Names[c], name)
}

// IsLinkedDirectly reports whether the collection was a direct child of the active collection.
func (s LinkSnapshot) IsLinkedDirectly(collection string) bool {
	return slices.Contains(s.LinkedCollections, collection)
}

// InstancedCollections returns the collections that had an instancing proxy, in capture order.
func (s LinkSnapshot) InstancedCollections() []string {
	var out []string
	for _, name := range s.Names[CategoryCollection] {
		if _, ok := s.InstanceNames[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Restriction returns the per-category names to link. The result is a fresh copy.
func (s LinkSnapshot) Restriction() map[Category][]string {
	out := make(map[Category][]string, len(s.Names))
	for c, names := range s.Names {
		if len(names) > 0 {
			out[c] = slices.Clone(names)
		}
	}
	return out
}

// TransformFor returns the captured proxy transform for a collection, or identity.
func (s LinkSnapshot) TransformFor(collection string) Transform {
	if t, ok := s.Transforms[collection]; ok {
		return t.Normalized()
	}
	return IdentityTransform()
}

// Clone returns a deep copy.
func (s LinkSnapshot) Clone() LinkSnapshot {
	out := s
	out.Names = make(map[Category][]string, len(s.Names))
	for c, names := range s.Names {
		out.Names[c] = slices.Clone(names)
	}
	out.InstanceNames = maps.Clone(s.InstanceNames)
	if out.InstanceNames == nil {
		out.InstanceNames = make(map[string]string)
	}
	out.Transforms = maps.Clone(s.Transforms)
	if out.Transforms == nil {
		out.Transforms = make(map[string]Transform)
	}
	out.LinkedCollections = slices.Clone(s.LinkedCollections)
	return out
}

// WithPath returns a copy keyed by a different library path.
func (s LinkSnapshot) WithPath(path string) LinkSnapshot {
	out := s.Clone()
	out.LibraryPath = path
	return out
}

// Fingerprint returns a structural digest of the snapshot. Two snapshots with the
// same fingerprint describe the same scene state for their library.
func (s LinkSnapshot) Fingerprint() uint64 {
	d := xxhash.New()
	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = d.WriteString(p)
			_, _ = d.Write([]byte{0})
		}
	}

	write(s.LibraryPath, s.Kind.String())
	for _, c := range Categories() {
		names := s.Names[c]
		if len(names) == 0 {
			continue
		}
		write(c.String())
		write(names...)
	}
	for _, coll := range slices.Sorted(maps.Keys(s.InstanceNames)) {
		write("instance", coll, s.InstanceNames[coll])
	}
	write(s.LinkedCollections...)
	for _, coll := range slices.Sorted(maps.Keys(s.Transforms)) {
		t := s.Transforms[coll]
		write("transform", coll)
		for _, f := range t.Location {
			write(formatFloat(f))
		}
		for _, f := range t.Rotation {
			write(formatFloat(f))
		}
		for _, f := range t.Scale {
			write(formatFloat(f))
		}
	}
	write(
		strconv.FormatBool(s.Options.UseRelativePath),
		strconv.FormatBool(s.Options.AutoInstanceCollections),
		strconv.FormatBool(s.Options.InstanceObjectData),
	)
	return d.Sum64()
}

func formatFloat(f float64) string {
	return strconv.FormatUint(math.Float64bits(f), 16)
}

// AppendUnique appends name to names unless it is already present.
func AppendUnique(names []string, name string) []string {
	if slices.Contains(names, name) {
		return names
	}
	return append(names, name)
}
