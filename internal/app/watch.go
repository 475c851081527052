package app

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.trai.ch/linkman/internal/adapters/watcher" //nolint:depguard // Debouncer is shared with the adapter
	"go.trai.ch/linkman/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// Watch reloads live libraries whose files change on disk until ctx is done.
// Changes are debounced and handled one batch at a time on a single goroutine.
func (a *App) Watch(ctx context.Context) domain.Report {
	if a.doc == nil {
		r := domain.Failure("No scene document open", domain.ErrNoDocument)
		a.log(r)
		return r
	}

	watched := a.watchedFiles()
	if len(watched) == 0 {
		r := domain.Warning("No linked libraries to watch", nil)
		a.log(r)
		return r
	}

	if err := a.watcher.Start(ctx, watched.paths()); err != nil {
		r := domain.Failure("Could not watch library files", err)
		a.log(r)
		return r
	}
	a.logger.Info(fmt.Sprintf("Watching %d libraries", len(watched)))

	g, ctx := errgroup.WithContext(ctx)
	batches := make(chan []string)
	debouncer := watcher.NewDebouncer(a.cfg.WatchDebounce, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		return a.watcher.Stop()
	})
	g.Go(func() error {
		for ev := range a.watcher.Events() {
			debouncer.Add(ev.Path)
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-batches:
				a.reloadChanged(ctx, paths)
			}
		}
	})

	if err := g.Wait(); err != nil {
		r := domain.Failure("Watcher stopped", err)
		a.log(r)
		return r
	}
	return domain.Finished("Stopped watching")
}

// watchSet maps an absolute library file to the path the library is linked with.
type watchSet map[string]string

func (w watchSet) paths() []string {
	return slices.Sorted(maps.Keys(w))
}

func (a *App) watchedFiles() watchSet {
	set := make(watchSet)
	for _, lib := range a.doc.Libraries() {
		if a.session.IsEphemeral(lib.ID) {
			continue
		}
		set[a.doc.ToAbsolute(lib.Path)] = lib.Path
	}
	return set
}

// reloadChanged reloads every live library linked from one of the changed files.
func (a *App) reloadChanged(ctx context.Context, changed []string) {
	current := a.watchedFiles()
	for _, abs := range changed {
		if path, ok := current[abs]; ok {
			a.Reload(ctx, path)
		}
	}
}
