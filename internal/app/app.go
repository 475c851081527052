// Package app implements the application layer for linkman.
package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/linkman/internal/engine/naming"
	"go.trai.ch/linkman/internal/engine/reconciler"
	"go.trai.ch/linkman/internal/engine/render"
	"go.trai.ch/linkman/internal/engine/resolution"
	"go.trai.ch/zerr"
)

// App runs user actions against one open scene document. Actions are not safe
// for concurrent use; callers run them from a single goroutine.
type App struct {
	loader   ports.DocumentLoader
	fs       ports.FileSystem
	prompter ports.PathPrompter
	logger   ports.Logger
	tracer   ports.Tracer
	watcher  ports.Watcher

	cfg     domain.Config
	session *domain.Session
	doc     ports.Document
	policy  *naming.Policy
	rec     *reconciler.Reconciler
	res     *resolution.Controller
	coord   *render.Coordinator

	unsubscribe []func()

	hookMu   sync.Mutex
	hookErrs []error
}

// New creates a new App instance. No document is open until Open is called.
func New(
	loader ports.DocumentLoader,
	fsys ports.FileSystem,
	prompter ports.PathPrompter,
	log ports.Logger,
	tracer ports.Tracer,
	watcher ports.Watcher,
) *App {
	return &App{
		loader:   loader,
		fs:       fsys,
		prompter: prompter,
		logger:   log,
		tracer:   tracer,
		watcher:  watcher,
		cfg:      domain.DefaultConfig(),
		session:  domain.NewSession(),
	}
}

// SetPrompter replaces the prompter used to ask for replacement files.
func (a *App) SetPrompter(p ports.PathPrompter) {
	a.prompter = p
}

// Session exposes the session caches of the open document.
func (a *App) Session() *domain.Session {
	return a.session
}

// Document returns the open document, or nil.
func (a *App) Document() ports.Document {
	return a.doc
}

// Open opens the scene document named by cfg and binds the engines and render
// hooks to it. Session caches are reset by the document's after-load hook.
func (a *App) Open(ctx context.Context, cfg domain.Config) domain.Report {
	ctx, span := a.tracer.Start(ctx, "linkman.open")
	defer span.End()
	span.SetAttribute("scene.path", cfg.ScenePath)

	opts := ports.OpenOptions{UseRelativePaths: cfg.UseRelativePaths}
	doc, err := a.loader.Open(ctx, cfg.ScenePath, opts, func(context.Context) {
		a.session.Reset()
	})
	if err != nil {
		r := domain.Failure("Could not open scene", err)
		a.finish(span, r, false)
		return r
	}

	a.close()
	a.cfg = cfg
	a.doc = doc
	a.policy = naming.NewPolicy(naming.NewNormalizer(doc), cfg.LowResSuffix)
	a.rec = reconciler.New(doc, a.session, a.policy)
	a.res = resolution.NewController(doc, a.fs, a.session, a.policy, a.rec)
	a.coord = render.NewCoordinator(doc, a.session, a.policy)
	a.registerHooks(doc)

	for _, lib := range doc.Libraries() {
		a.session.NoteLibrary(a.policy.BaseKey(lib.Path), a.policy.Normalizer().Normalize(lib.Path))
	}

	r := domain.Finished("Opened " + filepath.Base(doc.Path()))
	a.finish(span, r, false)
	return r
}

// Save writes the open document back to disk.
func (a *App) Save(ctx context.Context) domain.Report {
	return a.do(ctx, "save", "", func(context.Context) domain.Report {
		if err := a.doc.Save(); err != nil {
			return domain.Failure("Could not save scene", err)
		}
		return domain.Finished("Saved " + filepath.Base(a.doc.Path()))
	})
}

func (a *App) registerHooks(doc ports.Document) {
	a.unsubscribe = append(a.unsubscribe,
		doc.Subscribe(ports.HookRenderPre, func(context.Context) {
			a.hookFailed(a.coord.BeforeRender())
		}),
		doc.Subscribe(ports.HookRenderPost, func(context.Context) {
			a.hookFailed(a.coord.AfterRender())
		}),
		doc.Subscribe(ports.HookRenderCancel, func(context.Context) {
			a.hookFailed(a.coord.AfterRender())
		}),
	)
}

func (a *App) close() {
	for _, fn := range a.unsubscribe {
		fn()
	}
	a.unsubscribe = nil
}

func (a *App) hookFailed(err error) {
	if err == nil {
		return
	}
	a.hookMu.Lock()
	defer a.hookMu.Unlock()
	a.hookErrs = append(a.hookErrs, err)
}

func (a *App) takeHookErrors() error {
	a.hookMu.Lock()
	defer a.hookMu.Unlock()
	err := errors.Join(a.hookErrs...)
	a.hookErrs = nil
	return err
}

// do runs one user action inside a span and logs its report.
func (a *App) do(ctx context.Context, action, path string, fn func(context.Context) domain.Report) domain.Report {
	return a.trace(ctx, action, path, true, fn)
}

// inspect runs a read-only action; only failures are logged.
func (a *App) inspect(ctx context.Context, action, path string, fn func(context.Context) domain.Report) domain.Report {
	return a.trace(ctx, action, path, false, fn)
}

func (a *App) trace(
	ctx context.Context,
	action, path string,
	logFinished bool,
	fn func(context.Context) domain.Report,
) domain.Report {
	ctx, span := a.tracer.Start(ctx, "linkman."+action)
	defer span.End()
	if path != "" {
		span.SetAttribute("library.path", path)
	}

	var r domain.Report
	if a.doc == nil {
		r = domain.Failure("No scene document open", domain.ErrNoDocument)
	} else {
		r = fn(ctx)
	}
	a.finish(span, r, logFinished)
	return r
}

func (a *App) finish(span ports.Span, r domain.Report, logFinished bool) {
	span.SetAttribute("outcome", r.Outcome.String())
	if r.Level == domain.LevelError {
		span.RecordError(r.Err)
	}
	if r.OK() && !logFinished {
		return
	}
	a.log(r)
}

func (a *App) log(r domain.Report) {
	switch r.Level {
	case domain.LevelError:
		if r.Err == nil {
			a.logger.Error(zerr.New(r.Message))
			return
		}
		a.logger.Error(zerr.Wrap(r.Err, r.Message))
	case domain.LevelWarning:
		a.logger.Warn(r.Message)
	default:
		a.logger.Info(r.Message)
	}
}

// failure classifies err: scene-state conditions become warnings, anything the
// host or the file system refused becomes an error.
func failure(msg string, err error) domain.Report {
	for _, cond := range []error{
		domain.ErrLibraryNotFound,
		domain.ErrNothingToRestore,
		domain.ErrNotLowRes,
		domain.ErrNoHighResData,
		domain.ErrCounterpartMissing,
	} {
		if errors.Is(err, cond) {
			return domain.Warning(msg, err)
		}
	}
	return domain.Failure(msg, err)
}
