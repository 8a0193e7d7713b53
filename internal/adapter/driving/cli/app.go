package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diillson/sales-dashboard-go/internal/adapter/driving/api"
	"github.com/diillson/sales-dashboard-go/internal/application/usecase"
	"github.com/diillson/sales-dashboard-go/internal/shared/types"
	"github.com/diillson/sales-dashboard-go/pkg/version"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd          *cobra.Command
	dashboardUseCase *usecase.DashboardUseCase
	version          string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:          "sales-dash",
		Short:        "Sales Analytics Dashboard CLI",
		Version:      formattedVersion,
		SilenceUsage: true,
		RunE:         app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "Sales Analytics Dashboard version: %s\n" .Version}}`)

	// Fonte de dados e configuração
	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.String("env-file", "", "Path to a .env file (default: .env when present)")
	flags.StringP("source", "s", "", "Record source: auto, supabase, sqlite, sheets, sample (default: auto)")
	flags.String("table", "", "Source table name (default: SALES_TABLE or sales_data)")
	flags.String("order-by", "", "Column used to order the source query (default: date)")
	flags.String("sqlite-path", "", "SQLite database file for the sqlite source")
	flags.String("sheets-range", "", "A1 range read by the sheets source")
	flags.Duration("cache-ttl", 0, "How long fetched records are reused (default: 5m)")

	// Filtros
	flags.String("start-date", "", "First day to include (YYYY-MM-DD)")
	flags.String("end-date", "", "Last day to include (YYYY-MM-DD)")
	flags.StringSliceP("regions", "r", nil, "Regions to include (comma-separated)")
	flags.StringSliceP("products", "p", nil, "Products to include (comma-separated)")
	flags.StringSlice("categories", nil, "Categories to include (comma-separated)")
	flags.Float64("min-revenue", 0, "Minimum revenue per transaction")

	// Relatórios
	flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	flags.StringSliceP("report-type", "y", nil, "Specify report types: csv, json, xlsx, pdf")
	flags.StringSlice("pages", nil, "PDF report pages: overview, products, regions, categories (default: overview)")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.String("s3-bucket", "", "Upload reports to this S3 bucket instead of a local directory")
	flags.String("s3-prefix", "", "Key prefix for uploaded reports")
	flags.String("profile", "", "AWS profile used for S3 uploads")
	flags.Int("max-table-rows", 0, "Maximum table rows drawn in PDF reports (default: 40)")
	flags.Int("max-columns", 0, "Maximum table columns drawn in PDF reports (default: 6)")
	flags.Bool("all-columns", false, "Show every column in the transactions table")
	flags.Bool("trend", false, "Display monthly revenue as trend bars")

	rootCmd.AddCommand(app.newSeedCommand(), app.newVerifyCommand(), app.newServeCommand())

	app.rootCmd = rootCmd
	return app
}

func (app *CLIApp) newSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate sample sales data into the configured SQLite or Supabase table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliArgs, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			days, _ := cmd.Flags().GetInt("days")
			clearFirst, _ := cmd.Flags().GetBool("clear")
			batchSize, _ := cmd.Flags().GetInt("batch-size")
			seed, _ := cmd.Flags().GetInt64("seed")

			ctx := context.Background()
			seedArgs := types.SeedArgs{Days: days, Clear: clearFirst, BatchSize: batchSize, Seed: seed}
			if err := app.dashboardUseCase.RunSeed(ctx, cliArgs, seedArgs); err != nil {
				return err
			}
			return app.dashboardUseCase.RunVerify(ctx, cliArgs)
		},
	}
	cmd.Flags().Int("days", usecase.DefaultSeedDays, "Number of days of data to generate, ending today")
	cmd.Flags().Bool("clear", false, "Delete existing records before inserting")
	cmd.Flags().Int("batch-size", usecase.DefaultSeedBatchSize, "Records per insert request")
	cmd.Flags().Int64("seed", 42, "Random seed for the generator")
	return cmd
}

func (app *CLIApp) newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check environment, source connectivity, sample data and S3 access",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliArgs, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			return app.dashboardUseCase.RunVerify(context.Background(), cliArgs)
		},
	}
}

func (app *CLIApp) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve KPIs, summaries, exports and PDF reports over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliArgs, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			cliArgs.Addr, _ = cmd.Flags().GetString("addr")
			return app.serve(cliArgs)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default: :8080)")
	return cmd
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()

	configFile, _ := flags.GetString("config-file")
	envFile, _ := flags.GetString("env-file")
	source, _ := flags.GetString("source")
	table, _ := flags.GetString("table")
	orderBy, _ := flags.GetString("order-by")
	sqlitePath, _ := flags.GetString("sqlite-path")
	sheetsRange, _ := flags.GetString("sheets-range")
	cacheTTL, _ := flags.GetDuration("cache-ttl")
	startDate, _ := flags.GetString("start-date")
	endDate, _ := flags.GetString("end-date")
	regions, _ := flags.GetStringSlice("regions")
	products, _ := flags.GetStringSlice("products")
	categories, _ := flags.GetStringSlice("categories")
	minRevenue, _ := flags.GetFloat64("min-revenue")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	pages, _ := flags.GetStringSlice("pages")
	dir, _ := flags.GetString("dir")
	s3Bucket, _ := flags.GetString("s3-bucket")
	s3Prefix, _ := flags.GetString("s3-prefix")
	profile, _ := flags.GetString("profile")
	maxTableRows, _ := flags.GetInt("max-table-rows")
	maxColumns, _ := flags.GetInt("max-columns")
	allColumns, _ := flags.GetBool("all-columns")
	trend, _ := flags.GetBool("trend")

	// Caminho vazio fica para o arquivo de configuração ou o diretório atual
	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile:   configFile,
		EnvFile:      envFile,
		Source:       source,
		Table:        table,
		OrderBy:      orderBy,
		SQLitePath:   sqlitePath,
		SheetsRange:  sheetsRange,
		CacheTTL:     cacheTTL,
		StartDate:    startDate,
		EndDate:      endDate,
		Regions:      regions,
		Products:     products,
		Categories:   categories,
		MinRevenue:   minRevenue,
		ReportName:   reportName,
		ReportType:   reportType,
		Pages:        pages,
		Dir:          dir,
		S3Bucket:     s3Bucket,
		S3Prefix:     s3Prefix,
		AWSProfile:   profile,
		MaxTableRows: maxTableRows,
		MaxColumns:   maxColumns,
		AllColumns:   allColumns,
		Trend:        trend,
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	// Exibe o banner de boas-vindas
	displayWelcomeBanner(app.version)

	// Verifica a versão mais recente disponível
	go version.CheckLatestVersion(app.version)

	// Analisa os argumentos da linha de comando
	cliArgs, err := app.parseArgs(cmd)
	if err != nil {
		return err
	}

	// Executa o dashboard
	ctx := context.Background()
	defer app.dashboardUseCase.Close()
	return app.dashboardUseCase.RunDashboard(ctx, cliArgs)
}

// serve abre a fonte uma vez e atende requisições até receber SIGINT/SIGTERM.
func (app *CLIApp) serve(cliArgs *types.CLIArgs) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "sales-dash").Logger()

	filter, err := app.dashboardUseCase.Prepare(ctx, cliArgs)
	if err != nil {
		return err
	}
	defer app.dashboardUseCase.Close()

	logger.Info().Str("source", app.dashboardUseCase.SourceName()).Msg("record source ready")

	server := api.NewWebAPI(logger, app.dashboardUseCase, api.Config{
		Addr:     app.dashboardUseCase.Args().Addr,
		Defaults: filter,
	})
	return server.Start(ctx)
}

// SetDashboardUseCase sets the dashboard use case for the CLI app.
func (app *CLIApp) SetDashboardUseCase(useCase *usecase.DashboardUseCase) {
	app.dashboardUseCase = useCase
}
