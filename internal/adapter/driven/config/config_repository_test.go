package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/diillson/sales-dashboard-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadConfigFile_Formats(t *testing.T) {
	repo := NewConfigRepository()

	tomlPath := writeFile(t, "cfg.toml", `
source = "sqlite"
regions = ["Europe", "Asia Pacific"]
min_revenue = 500.0
cache_ttl = "2m"
report_type = ["pdf", "csv"]
`)
	cfg, err := repo.LoadConfigFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Source)
	assert.Equal(t, []string{"Europe", "Asia Pacific"}, cfg.Regions)
	assert.Equal(t, 500.0, cfg.MinRevenue)
	assert.Equal(t, []string{"pdf", "csv"}, cfg.ReportType)

	yamlPath := writeFile(t, "cfg.yml", "products:\n  - Product A\nstart_date: \"2024-01-01\"\nmax_table_rows: 20\n")
	cfg, err = repo.LoadConfigFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Product A"}, cfg.Products)
	assert.Equal(t, "2024-01-01", cfg.StartDate)
	assert.Equal(t, 20, cfg.MaxTableRows)

	jsonPath := writeFile(t, "cfg.json", `{"s3_bucket": "reports", "pages": ["overview"]}`)
	cfg, err = repo.LoadConfigFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "reports", cfg.S3Bucket)
	assert.Equal(t, []string{"overview"}, cfg.Pages)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	repo := NewConfigRepository()

	_, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = repo.LoadConfigFile(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")

	_, err = repo.LoadConfigFile(writeFile(t, "cfg.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported config file format")

	_, err = repo.LoadConfigFile(writeFile(t, "cfg.json", `{"end_date": "31/01/2024"}`))
	assert.ErrorIs(t, err, types.ErrInvalidDate)

	_, err = repo.LoadConfigFile(writeFile(t, "cfg.yaml", "cache_ttl: soon\n"))
	assert.ErrorContains(t, err, "cache_ttl")
}

func TestLoadEnvironment(t *testing.T) {
	envPath := writeFile(t, "test.env", "SUPABASE_URL=https://abc.supabase.co\nSUPABASE_KEY=from-file\nSALES_TABLE=sales\n")
	t.Setenv(EnvSupabaseKey, "from-process")
	t.Setenv(EnvSupabaseURL, "")
	os.Unsetenv(EnvSupabaseURL)
	t.Setenv(EnvTable, "")
	os.Unsetenv(EnvTable)

	env, err := NewConfigRepository().LoadEnvironment(envPath)
	require.NoError(t, err)

	assert.Equal(t, "https://abc.supabase.co", env.SupabaseURL)
	assert.Equal(t, "from-process", env.SupabaseKey)
	assert.Equal(t, "sales", env.Table)
	assert.True(t, env.HasSupabase())
}

func TestLoadEnvironment_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	repo := NewConfigRepository()

	_, err := repo.LoadEnvironment("")
	assert.NoError(t, err)

	_, err = repo.LoadEnvironment("prod.env")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, "prod.env")
}
