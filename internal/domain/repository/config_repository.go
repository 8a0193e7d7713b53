package repository

import (
	"github.com/diillson/sales-dashboard-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	LoadEnvironment(envFile string) (types.Environment, error)
}
