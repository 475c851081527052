package config

// Linkfile is the structure of linkman.yaml.
type Linkfile struct {
	Version          string   `yaml:"version"`
	Scene            string   `yaml:"scene"`
	LowResSuffix     string   `yaml:"low_res_suffix"`
	UseRelativePaths *bool    `yaml:"use_relative_paths"`
	Log              LogDTO   `yaml:"log"`
	Watch            WatchDTO `yaml:"watch"`
}

// LogDTO configures logging.
type LogDTO struct {
	JSON bool `yaml:"json"`
}

// WatchDTO configures the library watcher.
type WatchDTO struct {
	Debounce string `yaml:"debounce"`
}
