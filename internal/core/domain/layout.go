package domain

import "time"

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "linkman.yaml"

	// DefaultSceneFile is the scene document opened when none is configured.
	DefaultSceneFile = "scene.yaml"

	// LibraryExt is the canonical extension of library files.
	LibraryExt = ".blend"

	// DefaultLowResSuffix is the low-res token used when none is configured.
	DefaultLowResSuffix = "_Lo"

	// RelativePrefix marks a path relative to the open document.
	RelativePrefix = "//"

	// InstanceNameSuffix is appended to a collection name to name a generated proxy.
	InstanceNameSuffix = "_instance"

	// DefaultWatchDebounce is the default quiet period for the library watcher.
	DefaultWatchDebounce = 200 * time.Millisecond

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
