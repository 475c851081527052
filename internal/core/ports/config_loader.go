package ports

import "go.trai.ch/linkman/internal/core/domain"

// ConfigLoader defines the interface for loading the configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the configuration file from cwd upwards and returns the resolved config.
	// Defaults are returned when no file exists.
	Load(cwd string) (domain.Config, error)
}
