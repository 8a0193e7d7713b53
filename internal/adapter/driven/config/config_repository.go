package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/repository"
	"github.com/diillson/sales-dashboard-go/internal/shared/types"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Environment variable names read at startup.
const (
	EnvSupabaseURL       = "SUPABASE_URL"
	EnvSupabaseKey       = "SUPABASE_KEY"
	EnvTable             = "SALES_TABLE"
	EnvSpreadsheetID     = "GOOGLE_SPREADSHEET_ID"
	EnvSheetsRange       = "GOOGLE_SHEETS_RANGE"
	EnvGoogleCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvSQLitePath        = "SALESDASH_SQLITE_PATH"
)

// DefaultEnvFile is read when present and no env file is given.
const DefaultEnvFile = ".env"

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}
	return &config, nil
}

// validateConfig rejeita valores que só falhariam mais tarde no pipeline.
func validateConfig(c *types.Config) error {
	if c.CacheTTL != "" {
		if d, err := time.ParseDuration(c.CacheTTL); err != nil || d < 0 {
			return fmt.Errorf("cache_ttl %q is not a valid duration", c.CacheTTL)
		}
	}
	for name, v := range map[string]string{"start_date": c.StartDate, "end_date": c.EndDate} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(entity.DateLayout, v); err != nil {
			return fmt.Errorf("%s %q: %w", name, v, types.ErrInvalidDate)
		}
	}
	if c.MinRevenue < 0 {
		return fmt.Errorf("min_revenue must not be negative")
	}
	return nil
}

// LoadEnvironment lê o arquivo .env e as variáveis do processo.
// Variáveis já definidas no processo têm precedência sobre o arquivo.
// O ambiente é sempre retornado; o erro indica que o arquivo informado
// explicitamente (ou um .env existente) não pôde ser lido.
func (r *ConfigRepositoryImpl) LoadEnvironment(envFile string) (types.Environment, error) {
	var loadErr error
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			loadErr = fmt.Errorf("could not read env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		loadErr = fmt.Errorf("could not read env file %s: %w", DefaultEnvFile, err)
	}

	return types.Environment{
		SupabaseURL:       strings.TrimSpace(os.Getenv(EnvSupabaseURL)),
		SupabaseKey:       strings.TrimSpace(os.Getenv(EnvSupabaseKey)),
		Table:             strings.TrimSpace(os.Getenv(EnvTable)),
		SpreadsheetID:     strings.TrimSpace(os.Getenv(EnvSpreadsheetID)),
		SheetsRange:       strings.TrimSpace(os.Getenv(EnvSheetsRange)),
		GoogleCredentials: strings.TrimSpace(os.Getenv(EnvGoogleCredentials)),
		SQLitePath:        strings.TrimSpace(os.Getenv(EnvSQLitePath)),
	}, loadErr
}
