package domain

import "time"

// Config is the resolved runtime configuration.
type Config struct {
	// ScenePath is the scene document to open.
	ScenePath string
	// LowResSuffix is the raw low-res suffix token, e.g. "_Lo".
	LowResSuffix string
	// UseRelativePaths overrides the document's path preference when set.
	UseRelativePaths *bool
	// JSONLogs switches the logger to JSON output.
	JSONLogs bool
	// WatchDebounce is the quiet period before a changed library is reloaded.
	WatchDebounce time.Duration
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		ScenePath:     DefaultSceneFile,
		LowResSuffix:  DefaultLowResSuffix,
		WatchDebounce: DefaultWatchDebounce,
	}
}
