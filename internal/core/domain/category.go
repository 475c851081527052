package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Category identifies one datablock namespace of a scene document.
type Category uint8

const (
	// CategoryObject holds scene objects, including instancing proxies.
	CategoryObject Category = iota
	// CategoryCollection holds collections.
	CategoryCollection
	// CategoryMesh holds mesh data.
	CategoryMesh
	// CategoryMaterial holds materials.
	CategoryMaterial
	// CategoryLight holds light data.
	CategoryLight
	// CategoryCamera holds camera data.
	CategoryCamera
	// CategoryArmature holds armature data.
	CategoryArmature
	// CategoryCurve holds curve data.
	CategoryCurve
	// CategoryLattice holds lattice data.
	CategoryLattice
	// CategoryMetaball holds metaball data.
	CategoryMetaball
	// CategoryText holds text data.
	CategoryText
	// CategoryGreasePencil holds grease pencil data.
	CategoryGreasePencil
	// CategoryImage holds images.
	CategoryImage

	categoryCount
)

var categoryNames = [categoryCount]string{
	CategoryObject:       "objects",
	CategoryCollection:   "collections",
	CategoryMesh:         "meshes",
	CategoryMaterial:     "materials",
	CategoryLight:        "lights",
	CategoryCamera:       "cameras",
	CategoryArmature:     "armatures",
	CategoryCurve:        "curves",
	CategoryLattice:      "lattices",
	CategoryMetaball:     "metaballs",
	CategoryText:         "texts",
	CategoryGreasePencil: "grease_pencils",
	CategoryImage:        "images",
}

// otherCategories is the scan order used when a library exposes neither
// collections nor objects.
var otherCategories = []Category{
	CategoryMaterial,
	CategoryLight,
	CategoryCamera,
	CategoryMesh,
	CategoryArmature,
	CategoryCurve,
	CategoryLattice,
	CategoryMetaball,
	CategoryText,
	CategoryGreasePencil,
	CategoryImage,
}

// String returns the plural namespace name, e.g. "meshes".
func (c Category) String() string {
	if c >= categoryCount {
		return "unknown"
	}
	return categoryNames[c]
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c < categoryCount
}

// IsObjectData reports whether datablocks of this category can be the data of an object.
func (c Category) IsObjectData() bool {
	switch c {
	case CategoryMesh, CategoryLight, CategoryCamera, CategoryArmature, CategoryCurve,
		CategoryLattice, CategoryMetaball, CategoryText, CategoryGreasePencil:
		return true
	default:
		return false
	}
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, 0, categoryCount)
	for c := range categoryCount {
		out = append(out, c)
	}
	return out
}

// OtherCategories returns the categories scanned for "other" snapshots.
func OtherCategories() []Category {
	return append([]Category(nil), otherCategories...)
}

// ParseCategory resolves a namespace name. Singular forms are accepted.
func ParseCategory(name string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for c := range categoryCount {
		plural := categoryNames[c]
		if n == plural || n == singular(plural) {
			return c, nil
		}
	}
	return 0, zerr.With(ErrUnknownCategory, "category", name)
}

func singular(plural string) string {
	switch {
	case strings.HasSuffix(plural, "ies"):
		return strings.TrimSuffix(plural, "ies") + "y"
	case strings.HasSuffix(plural, "shes"):
		return strings.TrimSuffix(plural, "es")
	default:
		return strings.TrimSuffix(plural, "s")
	}
}
