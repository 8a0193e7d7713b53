package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs_ReadsPersistentFlags(t *testing.T) {
	app := NewCLIApp("1.0.0")
	require.NoError(t, app.rootCmd.ParseFlags([]string{
		"-C", "dash.yaml",
		"--source", "sqlite",
		"--cache-ttl", "90s",
		"--start-date", "2024-01-01",
		"-r", "East,West",
		"--min-revenue", "250.5",
		"-y", "csv,pdf",
		"--pages", "overview,regions",
		"-d", "out",
		"--trend",
	}))

	args, err := app.parseArgs(app.rootCmd)
	require.NoError(t, err)

	assert.Equal(t, "dash.yaml", args.ConfigFile)
	assert.Equal(t, "sqlite", args.Source)
	assert.Equal(t, 90*time.Second, args.CacheTTL)
	assert.Equal(t, "2024-01-01", args.StartDate)
	assert.Equal(t, []string{"East", "West"}, args.Regions)
	assert.Equal(t, 250.5, args.MinRevenue)
	assert.Equal(t, []string{"csv", "pdf"}, args.ReportType)
	assert.Equal(t, []string{"overview", "regions"}, args.Pages)
	assert.True(t, filepath.IsAbs(args.Dir))
	assert.True(t, args.Trend)
	assert.False(t, args.AllColumns)
}

func TestParseArgs_EmptyDirStaysEmpty(t *testing.T) {
	app := NewCLIApp("1.0.0")
	require.NoError(t, app.rootCmd.ParseFlags(nil))

	args, err := app.parseArgs(app.rootCmd)
	require.NoError(t, err)
	assert.Empty(t, args.Dir)
	assert.Empty(t, args.ReportType)
}

func TestNewCLIApp_RegistersSubcommands(t *testing.T) {
	app := NewCLIApp("1.0.0")

	for _, name := range []string{"seed", "verify", "serve"} {
		cmd, _, err := app.rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	seed, _, _ := app.rootCmd.Find([]string{"seed"})
	days, err := seed.Flags().GetInt("days")
	require.NoError(t, err)
	assert.Equal(t, 90, days)
}
