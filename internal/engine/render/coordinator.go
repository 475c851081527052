// Package render swaps flagged libraries to their high-res files for the duration of a render.
package render

import (
	"errors"

	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/linkman/internal/engine/naming"
	"go.trai.ch/linkman/internal/engine/reconciler"
	"go.trai.ch/zerr"
)

// Coordinator applies and reverts render-time swaps through the session's swap ledger.
type Coordinator struct {
	host    ports.Host
	session *domain.Session
	policy  *naming.Policy
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(host ports.Host, session *domain.Session, policy *naming.Policy) *Coordinator {
	return &Coordinator{host: host, session: session, policy: policy}
}

// BeforeRender repoints every library flagged for high-res rendering to its
// high-res file. Calling it again before AfterRender changes nothing.
func (c *Coordinator) BeforeRender() error {
	norm := c.policy.Normalizer()
	var errs []error
	for _, rs := range c.session.Resolutions() {
		if !rs.HighResForRender {
			continue
		}
		base := c.policy.BaseKey(rs.LowPath)
		lib, ok := c.live(func(l domain.Library) bool { return c.policy.BaseKey(l.Path) == base })
		if !ok || norm.Normalize(lib.Path) == rs.HighPath {
			continue
		}

		c.session.RecordSwap(base, lib.Path)
		if err := c.repoint(lib.ID, rs.HighPath); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AfterRender restores every swapped library to the exact path recorded before the
// render, then empties the ledger. It runs on completion and on cancellation alike.
func (c *Coordinator) AfterRender() error {
	var errs []error
	for _, base := range c.session.PendingSwaps() {
		orig, _ := c.session.TakeSwap(base)
		high := c.policy.ToHighRes(orig)
		lib, ok := c.live(func(l domain.Library) bool {
			return c.policy.BaseKey(l.Path) == base || c.policy.Normalizer().Normalize(l.Path) == high
		})
		if !ok || lib.Path == orig {
			continue
		}
		if err := c.repoint(lib.ID, orig); err != nil {
			errs = append(errs, err)
		}
	}
	c.session.ClearSwaps()
	c.host.RedrawAll()
	return errors.Join(errs...)
}

// live returns the first user-visible library matching match.
func (c *Coordinator) live(match func(domain.Library) bool) (domain.Library, bool) {
	for _, lib := range c.host.Libraries() {
		if c.session.IsEphemeral(lib.ID) {
			continue
		}
		if match(lib) {
			return lib, true
		}
	}
	return domain.Library{}, false
}

func (c *Coordinator) repoint(id domain.ID, path string) error {
	if err := c.host.RelocateLibrary(id, path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to repoint library for render"), "path", path)
	}
	if err := reconciler.ReloadLibrary(c.host, id); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to reload library for render"), "path", path)
	}
	return nil
}
