// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/linkman/internal/adapters/config"
	_ "go.trai.ch/linkman/internal/adapters/fs"
	_ "go.trai.ch/linkman/internal/adapters/logger"
	_ "go.trai.ch/linkman/internal/adapters/prompt"
	_ "go.trai.ch/linkman/internal/adapters/scene"
	_ "go.trai.ch/linkman/internal/adapters/telemetry"
	_ "go.trai.ch/linkman/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/linkman/internal/app"
)
