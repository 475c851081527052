// Package config loads linkman.yaml.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the config schema version this build understands.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	FS     ports.FileSystem
	Logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(fsys ports.FileSystem, logger ports.Logger) *Loader {
	return &Loader{FS: fsys, Logger: logger}
}

// Load finds linkman.yaml in cwd or the nearest parent directory. Without one,
// defaults are returned with the scene resolved against cwd.
func (l *Loader) Load(cwd string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	configPath, found := l.findConfiguration(cwd)
	if !found {
		cfg.ScenePath = filepath.Join(cwd, cfg.ScenePath)
		return cfg, nil
	}

	var lf Linkfile
	if err := l.readAndUnmarshalYAML(configPath, &lf); err != nil {
		return domain.Config{}, err
	}
	if lf.Version != "" && lf.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q, reading it as version %s", domain.ConfigFileName, lf.Version, SupportedVersion))
	}

	root := filepath.Dir(configPath)
	cfg.ScenePath = filepath.Join(root, cfg.ScenePath)
	if lf.Scene != "" {
		cfg.ScenePath = resolvePath(root, lf.Scene)
	}
	if strings.TrimSpace(lf.LowResSuffix) != "" {
		cfg.LowResSuffix = strings.TrimSpace(lf.LowResSuffix)
	}
	cfg.UseRelativePaths = lf.UseRelativePaths
	cfg.JSONLogs = lf.Log.JSON

	if lf.Watch.Debounce != "" {
		d, err := time.ParseDuration(lf.Watch.Debounce)
		if err != nil {
			return domain.Config{}, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "watch.debounce", lf.Watch.Debounce)
		}
		if d < 0 {
			return domain.Config{}, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "debounce must not be negative"), "watch.debounce", lf.Watch.Debounce)
		}
		cfg.WatchDebounce = d
	}
	return cfg, nil
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	current := cwd
	for {
		candidate := filepath.Join(current, domain.ConfigFileName)
		if l.FS.Exists(candidate) {
			return candidate, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

func (l *Loader) readAndUnmarshalYAML(configPath string, target *Linkfile) error {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}
	return nil
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
