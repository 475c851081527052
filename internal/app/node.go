package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/linkman/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/linkman/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/linkman/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/linkman/internal/adapters/prompt"    //nolint:depguard // Wired in app layer
	"go.trai.ch/linkman/internal/adapters/scene"     //nolint:depguard // Wired in app layer
	"go.trai.ch/linkman/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/linkman/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/linkman/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App          *App
	Logger       ports.Logger
	ConfigLoader ports.ConfigLoader
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			scene.NodeID,
			fs.NodeID,
			prompt.NodeID,
			logger.NodeID,
			telemetry.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.DocumentLoader](ctx)
	if err != nil {
		return nil, err
	}

	fsys, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	prompter, err := graft.Dep[ports.PathPrompter](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, fsys, prompter, log, tracer, w), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:          a,
		Logger:       log,
		ConfigLoader: loader,
	}, nil
}
