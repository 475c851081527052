// Package snapshot records what a library contributed to the scene and how it was instantiated.
package snapshot

import (
	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/linkman/internal/engine/naming"
)

// Capturer inspects the scene graph. It never mutates the host.
type Capturer struct {
	host ports.Host
	norm *naming.Normalizer
}

// NewCapturer creates a Capturer reading from host.
func NewCapturer(host ports.Host, norm *naming.Normalizer) *Capturer {
	return &Capturer{host: host, norm: norm}
}

// Capture returns the snapshot of lib keyed by its normalized path. A library
// handle that no longer resolves yields an empty snapshot of kind other.
func (c *Capturer) Capture(lib domain.Library) domain.LinkSnapshot {
	snap := domain.NewSnapshot(c.norm.Normalize(lib.Path))
	live, ok := c.host.Library(lib.ID)
	if !ok {
		return snap
	}
	snap.LibraryPath = c.norm.Normalize(live.Path)

	proxies := c.activeProxies()

	for db := range c.host.Datablocks(domain.CategoryCollection) {
		if db.Library != live.ID {
			continue
		}
		snap.Names[domain.CategoryCollection] = domain.AppendUnique(snap.Names[domain.CategoryCollection], db.Name)
		if proxy, found := proxies[db.ID]; found {
			snap.InstanceNames[db.Name] = proxy.Name
			snap.Transforms[db.Name] = proxy.Transform.Normalized()
			snap.Options.AutoInstanceCollections = true
		}
		if c.host.Contains(db.ID) {
			snap.LinkedCollections = domain.AppendUnique(snap.LinkedCollections, db.Name)
		}
	}

	owned := c.ownedObjectData(live.ID)
	for db := range c.host.Datablocks(domain.CategoryObject) {
		if db.Library == live.ID {
			snap.Names[domain.CategoryObject] = domain.AppendUnique(snap.Names[domain.CategoryObject], db.Name)
			continue
		}
		obj, found := c.host.Object(db.ID)
		if found && !obj.Data.Empty() && owned[obj.Data.ID] {
			snap.Options.InstanceObjectData = true
		}
	}

	switch {
	case len(snap.Names[domain.CategoryCollection]) > 0:
		snap.Kind = domain.KindCollections
	case len(snap.Names[domain.CategoryObject]) > 0:
		snap.Kind = domain.KindObjects
	default:
		c.captureOther(&snap, live.ID)
	}

	snap.Options.UseRelativePath = c.storedRelative(live.Path)
	return snap
}

// activeProxies maps a collection handle to the first instancing empty among the
// active collection's direct objects that shows it. Nested collections are not searched.
func (c *Capturer) activeProxies() map[domain.ID]domain.Object {
	objects, _ := c.host.Members()
	out := make(map[domain.ID]domain.Object, len(objects))
	for _, id := range objects {
		obj, ok := c.host.Object(id)
		if !ok || !obj.IsInstancer() {
			continue
		}
		if _, seen := out[obj.InstanceCollection]; !seen {
			out[obj.InstanceCollection] = obj
		}
	}
	return out
}

func (c *Capturer) ownedObjectData(lib domain.ID) map[domain.ID]bool {
	out := make(map[domain.ID]bool)
	for _, cat := range domain.Categories() {
		if !cat.IsObjectData() {
			continue
		}
		for db := range c.host.Datablocks(cat) {
			if db.Library == lib {
				out[db.ID] = true
			}
		}
	}
	return out
}

func (c *Capturer) captureOther(snap *domain.LinkSnapshot, lib domain.ID) {
	snap.Kind = domain.KindOther
	for _, cat := range domain.OtherCategories() {
		for db := range c.host.Datablocks(cat) {
			if db.Library == lib {
				snap.Names[cat] = domain.AppendUnique(snap.Names[cat], db.Name)
			}
		}
	}
}

// storedRelative replays the host's own relative/absolute choice for path.
func (c *Capturer) storedRelative(path string) bool {
	rel, err := c.host.ToRelative(path)
	if err != nil {
		return false
	}
	return rel == path && rel != c.host.ToAbsolute(path)
}
