package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/engine/reconciler"
	"go.trai.ch/linkman/internal/engine/resolution"
)

// LinkRequest names the datablocks AddLink links from a file.
type LinkRequest = reconciler.LinkRequest

// ToggleExpand flips whether the panel shows the full path of a library.
func (a *App) ToggleExpand(ctx context.Context, path string) domain.Report {
	return a.do(ctx, "toggle_expand", path, func(context.Context) domain.Report {
		if a.session.ToggleExpanded(a.policy.BaseKey(path)) {
			return domain.Finished("Expanded " + a.name(path))
		}
		return domain.Finished("Collapsed " + a.name(path))
	})
}

// ToggleLoad unloads a live library or re-links an unloaded one from its snapshot.
func (a *App) ToggleLoad(ctx context.Context, path string) domain.Report {
	return a.do(ctx, "toggle_load", path, func(context.Context) domain.Report {
		loaded, err := a.rec.Toggle(path)
		if err != nil {
			return failure("No library to unload or reload", err)
		}
		a.doc.RedrawAll()
		if loaded {
			return domain.Finished("Loaded: " + a.name(path))
		}
		return domain.Finished("Unloaded: " + a.name(path))
	})
}

// Unload removes a live library, caching what it contributed.
func (a *App) Unload(ctx context.Context, path string) domain.Report {
	return a.do(ctx, "unload", path, func(context.Context) domain.Report {
		if _, err := a.rec.Unload(path); err != nil {
			return failure("Failed to unload library", err)
		}
		a.doc.RedrawAll()
		return domain.Finished("Unloaded: " + a.name(path))
	})
}

// Reload unloads a live library and links back only what was visible from it.
func (a *App) Reload(ctx context.Context, path string) domain.Report {
	return a.do(ctx, "reload", path, func(context.Context) domain.Report {
		if _, err := a.rec.Reload(path); err != nil {
			if errors.Is(err, domain.ErrUnloadBeforeReload) {
				return domain.Failure("Failed to unload before reload", err)
			}
			return failure("Failed to reload library", err)
		}
		a.doc.RedrawAll()
		return domain.Finished("Reloaded: " + a.name(path))
	})
}

// Relocate repoints a live library to newPath and reloads it. An empty newPath
// asks the prompter; an empty answer cancels without changes.
func (a *App) Relocate(ctx context.Context, path, newPath string) domain.Report {
	return a.do(ctx, "relocate", path, func(ctx context.Context) domain.Report {
		if _, live := a.rec.Find(path); !live {
			return domain.Warning("Library not found", nil)
		}
		if newPath == "" {
			picked, err := a.prompter.PromptPath(ctx, "Relocate "+a.name(path)+" to:", "")
			if err != nil {
				return domain.Failure("Could not read the new location", err)
			}
			newPath = picked
		}
		if newPath == "" {
			return domain.Warning("Relocate cancelled: no file chosen", nil)
		}
		if _, err := a.rec.Relocate(path, newPath); err != nil {
			return failure("Failed to relocate library", err)
		}
		return domain.Finished(fmt.Sprintf("Relocated: %s -> %s", a.name(path), a.name(newPath)))
	})
}

// Delete removes the live library of either resolution and forgets both.
func (a *App) Delete(ctx context.Context, path string) domain.Report {
	return a.do(ctx, "delete", path, func(context.Context) domain.Report {
		lib, err := a.rec.Delete(path)
		if err != nil {
			if lib.ID.Valid() {
				return domain.Failure("Could not delete library", err)
			}
			return domain.Warning("Library not found", err)
		}
		return domain.Finished("Deleted: " + a.name(lib.Path))
	})
}

// SwitchResolution swaps a library between its low-res and high-res files.
// When the counterpart is missing and no replacement is given, the prompter
// is asked for one; an empty answer cancels without changes.
func (a *App) SwitchResolution(ctx context.Context, path, replacement string) domain.Report {
	return a.do(ctx, "switch_resolution", path, func(ctx context.Context) domain.Report {
		plan, err := a.res.Plan(path)
		if err != nil {
			return domain.Failure("Linked library not found", err)
		}

		target, r, ok := a.switchTarget(ctx, plan, replacement)
		if !ok {
			return r
		}

		rs, err := a.res.Switch(plan, target)
		if err != nil {
			return domain.Failure("Failed to switch resolution", err)
		}
		return domain.Finished(fmt.Sprintf("Switched %s to %s resolution", a.name(target), rs.Status))
	})
}

func (a *App) switchTarget(ctx context.Context, plan resolution.Plan, replacement string) (string, domain.Report, bool) {
	target := plan.Target
	switch {
	case replacement != "":
		target = replacement
	case !plan.Exists:
		picked, err := a.prompter.PromptPath(ctx, a.name(plan.Target)+" is missing. Pick a replacement:", "")
		if err != nil {
			return "", domain.Failure("Could not read the replacement file", err), false
		}
		if picked == "" {
			return "", domain.Warning("Switch cancelled: no file chosen", nil), false
		}
		target = picked
	}
	if !a.fs.Exists(a.doc.ToAbsolute(target)) {
		return "", domain.Warning("File not found: "+a.name(target), domain.ErrCounterpartMissing), false
	}
	return target, domain.Report{}, true
}

// ToggleRenderResolution flips whether a low-res library renders from its high-res file.
func (a *App) ToggleRenderResolution(ctx context.Context, path string) domain.Report {
	return a.do(ctx, "render_resolution", path, func(context.Context) domain.Report {
		low := a.policy.Normalizer().Normalize(path)
		if !a.policy.IsLowRes(low) {
			return domain.Warning(fmt.Sprintf("Works only on *%s files.", a.policy.Suffix()), domain.ErrNotLowRes)
		}

		rs, ok := a.session.Resolution(low)
		if !ok {
			rs = domain.ResolutionStatus{
				Status:   domain.ResolutionLow,
				LowPath:  low,
				HighPath: a.policy.ToHighRes(low),
			}
		}
		rs.HighResForRender = !rs.HighResForRender
		a.session.PutResolution(rs)
		a.doc.RedrawAll()

		state := "OFF"
		if rs.HighResForRender {
			state = "ON"
		}
		return domain.Finished(fmt.Sprintf("Hi-res render %s.", state))
	})
}

// Prefetch links, hidden, the high-res data a live low-res library uses.
func (a *App) Prefetch(ctx context.Context, path string) domain.Report {
	return a.do(ctx, "prefetch", path, func(context.Context) domain.Report {
		lib, err := a.res.Prefetch(path)
		if err != nil {
			return failure("Could not load high-res data", err)
		}
		return domain.Finished("Loaded hidden high-res data from " + a.name(lib.Path))
	})
}

// AddLink links the requested datablocks from path into the active collection.
func (a *App) AddLink(ctx context.Context, path string, req LinkRequest) domain.Report {
	return a.do(ctx, "link", path, func(context.Context) domain.Report {
		snap, err := a.rec.Link(path, req)
		if err != nil {
			return failure("Could not link from "+a.name(path), err)
		}
		a.session.NoteLibrary(a.policy.BaseKey(snap.LibraryPath), snap.LibraryPath)
		a.doc.RedrawAll()
		return domain.Finished(fmt.Sprintf("Linked %s from %s", snap.Kind, a.name(path)))
	})
}

// Render runs one render cycle. Flagged libraries render from their high-res
// files and are restored afterwards, also when the render is cancelled.
func (a *App) Render(ctx context.Context, cancel bool) domain.Report {
	return a.do(ctx, "render", "", func(ctx context.Context) domain.Report {
		a.takeHookErrors()
		renderErr := a.doc.Render(ctx, cancel)
		if err := errors.Join(renderErr, a.takeHookErrors()); err != nil {
			return domain.Failure("Render resolution swap failed", err)
		}
		if cancel {
			return domain.Finished("Render cancelled; libraries restored")
		}
		return domain.Finished("Render finished")
	})
}

// Snapshot returns the snapshot of a library: a fresh capture when it is live,
// the cached one otherwise.
func (a *App) Snapshot(ctx context.Context, path string) (domain.LinkSnapshot, domain.Report) {
	var snap domain.LinkSnapshot
	r := a.inspect(ctx, "snapshot", path, func(context.Context) domain.Report {
		if lib, live := a.rec.Find(path); live {
			snap = a.rec.Capturer().Capture(lib)
		} else if cached, ok := a.session.Snapshot(a.policy.Normalizer().Normalize(path)); ok {
			snap = cached
		} else {
			return domain.Warning("Library not found", domain.ErrLibraryNotFound)
		}
		return domain.Finished(fmt.Sprintf("Snapshot of %s: %016x", a.name(path), snap.Fingerprint()))
	})
	return snap, r
}

func (a *App) name(path string) string {
	return filepath.Base(a.doc.ToAbsolute(path))
}
