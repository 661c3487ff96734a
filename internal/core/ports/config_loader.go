package ports

import "go.trai.ch/rebundle/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks

// ConfigLoader defines the interface for loading the rebundler configuration.
type ConfigLoader interface {
	// Load reads the configuration file at path.
	// A missing file yields the default configuration rooted at the file's directory.
	Load(path string) (domain.Config, error)
}
