// Package resolution swaps linked libraries between their low-res and high-res files.
package resolution

import (
	"slices"

	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/linkman/internal/engine/naming"
	"go.trai.ch/linkman/internal/engine/reconciler"
	"go.trai.ch/zerr"
)

// Plan describes a pending switch of one library.
type Plan struct {
	// Library is the live library being switched.
	Library domain.Library
	// Low and High are the normalized paths of the resolution pair.
	Low, High string
	// Target is the counterpart the library switches to.
	Target string
	// Exists reports whether Target is present on disk.
	Exists bool
}

// Controller switches resolutions and fetches hidden high-res data.
type Controller struct {
	host    ports.Host
	fs      ports.FileSystem
	session *domain.Session
	policy  *naming.Policy
	rec     *reconciler.Reconciler
}

// NewController creates a Controller.
func NewController(
	host ports.Host,
	fsys ports.FileSystem,
	session *domain.Session,
	policy *naming.Policy,
	rec *reconciler.Reconciler,
) *Controller {
	return &Controller{host: host, fs: fsys, session: session, policy: policy, rec: rec}
}

// Plan computes the counterpart of the library at path.
func (c *Controller) Plan(path string) (Plan, error) {
	low, high := c.policy.Counterparts(path)
	lib, ok := c.rec.FindAny(low, high)
	if !ok {
		return Plan{}, zerr.With(zerr.Wrap(domain.ErrLibraryNotFound, "linked library not found"), "path", path)
	}

	target := high
	if c.policy.Normalizer().Normalize(lib.Path) == high {
		target = low
	}
	return Plan{
		Library: lib,
		Low:     low,
		High:    high,
		Target:  target,
		Exists:  c.fs.Exists(c.host.ToAbsolute(target)),
	}, nil
}

// Switch repoints the planned library to target, reloads it and carries its
// placement over from the outgoing file. target is plan.Target or a replacement
// the user picked for it; the recorded status follows the plan's direction.
func (c *Controller) Switch(plan Plan, target string) (domain.ResolutionStatus, error) {
	lib, ok := c.host.Library(plan.Library.ID)
	if !ok {
		return domain.ResolutionStatus{}, zerr.With(zerr.Wrap(domain.ErrLibraryNotFound, "linked library not found"), "path", plan.Library.Path)
	}
	norm := c.policy.Normalizer()
	from := norm.Normalize(lib.Path)
	dest := norm.Normalize(target)
	goingHigh := plan.Target == plan.High

	outgoing := c.rec.Capturer().Capture(lib)
	c.session.PutSnapshot(outgoing)

	if goingHigh {
		if err := c.dropEphemeral(dest, lib.ID); err != nil {
			return domain.ResolutionStatus{}, err
		}
	}

	if err := c.host.RelocateLibrary(lib.ID, dest); err != nil {
		return domain.ResolutionStatus{}, zerr.With(zerr.Wrap(err, "failed to repoint library"), "path", dest)
	}
	if err := reconciler.ReloadLibrary(c.host, lib.ID); err != nil {
		return domain.ResolutionStatus{}, zerr.With(zerr.Wrap(err, "failed to reload library"), "path", dest)
	}

	if err := c.carryOver(lib.ID, dest, outgoing); err != nil {
		return domain.ResolutionStatus{}, err
	}
	if err := c.rec.Relink(lib.ID); err != nil {
		return domain.ResolutionStatus{}, err
	}

	rs, found := c.session.Resolution(plan.Low)
	if !found {
		rs = domain.ResolutionStatus{LowPath: plan.Low, HighPath: plan.High}
	}
	rs.Status = domain.ResolutionLow
	if goingHigh {
		rs.Status = domain.ResolutionHigh
	}
	c.session.PutResolution(rs)

	c.session.SetActive(from, false)
	c.session.SetActive(dest, true)
	c.session.PutSnapshot(c.rec.Capturer().Capture(domain.Library{ID: lib.ID, Path: dest}))

	c.pruneEphemeral(dest, lib.ID)
	c.host.RedrawAll()
	return rs, nil
}

// carryOver restores visible content and proxies whose datablocks are named
// differently in the new file, matching by base name, and reapplies captured
// proxy transforms.
func (c *Controller) carryOver(lib domain.ID, dest string, outgoing domain.LinkSnapshot) error {
	present := func(cat domain.Category, name string) bool {
		for db := range c.host.Datablocks(cat) {
			if db.Library == lib && db.Name == name {
				return true
			}
		}
		return false
	}

	for _, name := range outgoing.LinkedCollections {
		if present(domain.CategoryCollection, name) {
			continue
		}
		if _, err := c.loadCounterpart(dest, domain.CategoryCollection, name); err != nil {
			return err
		}
	}
	if outgoing.Kind == domain.KindObjects {
		for _, name := range outgoing.NamesOf(domain.CategoryObject) {
			if present(domain.CategoryObject, name) {
				continue
			}
			if _, err := c.loadCounterpart(dest, domain.CategoryObject, name); err != nil {
				return err
			}
		}
	}

	proxyOf := make(map[string]string, len(outgoing.InstanceNames))
	for coll, proxy := range outgoing.InstanceNames {
		proxyOf[proxy] = coll
	}

	objects, _ := c.host.Members()
	for _, id := range objects {
		obj, ok := c.host.Object(id)
		if !ok || !obj.IsInstancer() || obj.IsLinked() {
			continue
		}
		coll, live := c.host.Collection(obj.InstanceCollection)
		switch {
		case live && coll.Library == lib:
			if t, found := c.capturedTransform(outgoing, coll.Name); found {
				if err := c.host.SetTransform(obj.ID, t, domain.RotationQuaternion); err != nil {
					return zerr.With(zerr.Wrap(err, "failed to reapply transform"), "name", obj.Name)
				}
			}
		case !live:
			name, captured := proxyOf[obj.Name]
			if !captured {
				continue
			}
			cid, err := c.loadCounterpart(dest, domain.CategoryCollection, name)
			if err != nil {
				return err
			}
			if !cid.Valid() {
				continue
			}
			if err := c.host.SetInstanceCollection(obj.ID, cid); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to repoint proxy"), "name", obj.Name)
			}
			if err := c.host.SetTransform(obj.ID, outgoing.TransformFor(name), domain.RotationQuaternion); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to reapply transform"), "name", obj.Name)
			}
		default:
		}
	}
	return nil
}

// capturedTransform looks up a proxy transform by exact collection name, then by base name.
func (c *Controller) capturedTransform(snap domain.LinkSnapshot, collection string) (domain.Transform, bool) {
	if t, ok := snap.Transforms[collection]; ok {
		return t.Normalized(), true
	}
	base := c.policy.BaseName(collection)
	for _, name := range snap.NamesOf(domain.CategoryCollection) {
		if t, ok := snap.Transforms[name]; ok && c.policy.BaseName(name) == base {
			return t.Normalized(), true
		}
	}
	return domain.Transform{}, false
}

// loadCounterpart links the first datablock of dest whose name shares name's base name.
func (c *Controller) loadCounterpart(dest string, cat domain.Category, name string) (domain.ID, error) {
	for _, candidate := range c.candidates(name) {
		res, err := c.host.LoadLibrary(dest, map[domain.Category][]string{cat: {candidate}})
		if err != nil {
			return domain.NoID, zerr.With(zerr.Wrap(err, "failed to link counterpart"), "name", candidate)
		}
		if ids := res.Loaded[cat]; len(ids) > 0 {
			return ids[0], nil
		}
	}
	return domain.NoID, nil
}

// candidates lists the names a counterpart of name may have, name itself excluded.
func (c *Controller) candidates(name string) []string {
	out := c.candidatesFor(c.policy.BaseName(name))
	return slices.DeleteFunc(out, func(n string) bool { return n == name })
}

func (c *Controller) candidatesFor(base string) []string {
	out := []string{base}
	for _, token := range append([]string{c.policy.Token()}, naming.LegacyTokens()...) {
		out = domain.AppendUnique(out, base+token)
	}
	return out
}

// dropEphemeral removes hidden copies loaded from path, except keep.
func (c *Controller) dropEphemeral(path string, keep domain.ID) error {
	for _, id := range c.session.EphemeralAt(path) {
		if id == keep {
			continue
		}
		if _, ok := c.host.Library(id); ok {
			if err := c.host.RemoveLibrary(id); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to drop hidden copy"), "path", path)
			}
		}
		c.session.DropEphemeral(id)
	}
	return nil
}

// pruneEphemeral is dropEphemeral for cleanup after a switch; host refusals are ignored.
func (c *Controller) pruneEphemeral(path string, keep domain.ID) {
	for _, id := range c.session.EphemeralAt(path) {
		if id == keep {
			c.session.DropEphemeral(id)
			continue
		}
		if _, ok := c.host.Library(id); ok {
			if err := c.host.RemoveLibrary(id); err != nil {
				continue
			}
		}
		c.session.DropEphemeral(id)
	}
}
