package domain

// ID is an opaque handle to a live datablock or library within one open document.
// The zero ID never refers to anything.
type ID uint64

// NoID is the zero handle.
const NoID ID = 0

// Valid reports whether id could refer to a live entity.
func (id ID) Valid() bool {
	return id != NoID
}

// Library describes one linked external file as the host stores it.
type Library struct {
	ID ID
	// Path is the path exactly as the host stores it (possibly "//"-relative).
	Path string
}

// Datablock is the part of every named datablock the core reads.
type Datablock struct {
	ID       ID
	Category Category
	Name     string
	// Library owns the datablock. NoID means local data.
	Library ID
}

// IsLinked reports whether the datablock originates from a library.
func (d Datablock) IsLinked() bool {
	return d.Library.Valid()
}

// DataRef points from an object to its data block.
type DataRef struct {
	Category Category
	ID       ID
}

// Empty reports whether the object carries no data (an empty).
func (r DataRef) Empty() bool {
	return !r.ID.Valid()
}

// Object is a scene object as seen by the core.
type Object struct {
	Datablock
	Data DataRef
	// InstanceCollection is the collection an instancing proxy displays.
	// It may dangle after the collection's library was removed.
	InstanceCollection ID
	Parent             ID
	Transform          Transform
	RotationMode       RotationMode
}

// IsInstancer reports whether the object is an empty that instances a collection.
func (o Object) IsInstancer() bool {
	return o.Data.Empty() && o.InstanceCollection.Valid()
}

// Collection is a collection datablock with its direct members.
type Collection struct {
	Datablock
	Objects  []ID
	Children []ID
}
