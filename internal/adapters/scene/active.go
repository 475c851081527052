package scene

import (
	"slices"

	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/zerr"
)

// ActiveCollection returns the collection new content is linked into.
func (d *Document) ActiveCollection() domain.ID {
	return d.active
}

// Link adds an object or collection as a direct member of the active collection.
// Linking a member twice is a no-op.
func (d *Document) Link(id domain.ID) error {
	target := d.blocks[d.active]
	e, ok := d.blocks[id]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrDatablockNotFound, "unknown handle"), "id", uint64(id))
	}
	switch e.cat {
	case domain.CategoryObject:
		if !slices.Contains(target.objects, id) {
			target.objects = append(target.objects, id)
		}
	case domain.CategoryCollection:
		if id == d.active || d.reaches(id, d.active) {
			return zerr.With(zerr.Wrap(domain.ErrHostRejected, "collection cycle"), "collection", e.name)
		}
		if !slices.Contains(target.children, id) {
			target.children = append(target.children, id)
		}
	default:
		return zerr.With(zerr.Wrap(domain.ErrHostRejected, "only objects and collections can be linked"), "name", e.name)
	}
	return nil
}

// Unlink removes a direct member from the active collection.
func (d *Document) Unlink(id domain.ID) error {
	target := d.blocks[d.active]
	if !slices.Contains(target.objects, id) && !slices.Contains(target.children, id) {
		return zerr.With(zerr.Wrap(domain.ErrDatablockNotFound, "unknown handle"), "id", uint64(id))
	}
	match := func(m domain.ID) bool { return m == id }
	target.objects = slices.DeleteFunc(target.objects, match)
	target.children = slices.DeleteFunc(target.children, match)
	return nil
}

// Contains reports whether id is a direct member of the active collection.
func (d *Document) Contains(id domain.ID) bool {
	target := d.blocks[d.active]
	return slices.Contains(target.objects, id) || slices.Contains(target.children, id)
}

// Members returns the direct members of the active collection.
func (d *Document) Members() (objects, children []domain.ID) {
	target := d.blocks[d.active]
	return slices.Clone(target.objects), slices.Clone(target.children)
}

// reaches reports whether to is from or a descendant of it.
func (d *Document) reaches(from, to domain.ID) bool {
	seen := make(map[domain.ID]bool)
	stack := []domain.ID{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if e, ok := d.blocks[cur]; ok {
			stack = append(stack, e.children...)
		}
	}
	return false
}
