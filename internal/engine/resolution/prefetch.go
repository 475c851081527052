package resolution

import (
	"errors"

	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/zerr"
)

// Prefetch links, hidden from the panel, the high-res meshes and collections whose
// base names the live low-res library at path uses. It returns the hidden library.
func (c *Controller) Prefetch(path string) (domain.Library, error) {
	norm := c.policy.Normalizer()
	low := norm.Normalize(path)
	if !c.policy.IsLowRes(low) {
		return domain.Library{}, zerr.With(zerr.Wrap(domain.ErrNotLowRes, "prefetch needs a low-res library"), "path", low)
	}
	lib, ok := c.rec.Find(low)
	if !ok {
		return domain.Library{}, zerr.With(zerr.Wrap(domain.ErrLibraryNotFound, "no live low-res library"), "path", low)
	}

	high := c.policy.ToHighRes(low)
	if rs, found := c.session.Resolution(low); found && rs.HighPath != "" {
		high = rs.HighPath
	}
	if !c.fs.Exists(c.host.ToAbsolute(high)) {
		return domain.Library{}, zerr.With(zerr.Wrap(domain.ErrCounterpartMissing, "high-res file not found"), "path", high)
	}
	if other, live := c.rec.Find(high); live && !c.session.IsEphemeral(other.ID) {
		return domain.Library{}, zerr.With(zerr.Wrap(domain.ErrNoHighResData, "high-res library is already linked"), "path", high)
	}

	meshes, colls := c.neededBases(lib.ID)
	if len(meshes) == 0 && len(colls) == 0 {
		return domain.Library{}, zerr.With(zerr.Wrap(domain.ErrNoHighResData, "library uses no meshes or instanced collections"), "path", low)
	}

	restrict := map[domain.Category][]string{}
	for _, base := range meshes {
		for _, name := range c.candidatesFor(base) {
			restrict[domain.CategoryMesh] = domain.AppendUnique(restrict[domain.CategoryMesh], name)
		}
	}
	for _, base := range colls {
		for _, name := range c.candidatesFor(base) {
			restrict[domain.CategoryCollection] = domain.AppendUnique(restrict[domain.CategoryCollection], name)
		}
	}

	res, err := c.host.LoadLibrary(high, restrict)
	if err != nil {
		return domain.Library{}, zerr.With(zerr.Wrap(err, "failed to load high-res data"), "path", high)
	}
	hidden, ok := c.host.Library(res.Library)
	if !ok {
		return domain.Library{}, zerr.With(zerr.Wrap(domain.ErrLibraryNotFound, "high-res library vanished"), "path", high)
	}
	if len(res.Loaded[domain.CategoryMesh]) == 0 && len(res.Loaded[domain.CategoryCollection]) == 0 {
		err := zerr.With(zerr.Wrap(domain.ErrNoHighResData, "high-res file has no matching data"), "path", high)
		if !c.session.IsEphemeral(hidden.ID) {
			if rmErr := c.host.RemoveLibrary(hidden.ID); rmErr != nil {
				err = errors.Join(err, zerr.Wrap(rmErr, "failed to remove empty high-res library"))
			}
		}
		return domain.Library{}, err
	}

	c.session.AddEphemeral(hidden.ID, high)
	if _, found := c.session.Resolution(low); !found {
		c.session.PutResolution(domain.ResolutionStatus{
			Status:   domain.ResolutionLow,
			LowPath:  low,
			HighPath: high,
		})
	}
	return hidden, nil
}

// neededBases returns the base names of the meshes and instanced collections used
// by objects of lib.
func (c *Controller) neededBases(lib domain.ID) (meshes, colls []string) {
	meshNames := make(map[domain.ID]string)
	for db := range c.host.Datablocks(domain.CategoryMesh) {
		meshNames[db.ID] = db.Name
	}
	for db := range c.host.Datablocks(domain.CategoryObject) {
		if db.Library != lib {
			continue
		}
		obj, ok := c.host.Object(db.ID)
		if !ok {
			continue
		}
		switch {
		case obj.Data.Category == domain.CategoryMesh && !obj.Data.Empty():
			if name, found := meshNames[obj.Data.ID]; found {
				meshes = domain.AppendUnique(meshes, c.policy.BaseName(name))
			}
		case obj.IsInstancer():
			if coll, found := c.host.Collection(obj.InstanceCollection); found {
				colls = domain.AppendUnique(colls, c.policy.BaseName(coll.Name))
			}
		default:
		}
	}
	return meshes, colls
}
