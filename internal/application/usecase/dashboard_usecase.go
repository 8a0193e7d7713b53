package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/repository"
	"github.com/diillson/sales-dashboard-go/internal/domain/service"
	"github.com/diillson/sales-dashboard-go/internal/shared/types"
)

const (
	DefaultReportName = "sales_report"
	DefaultOrderBy    = "date"

	// EmptyStateMessage is shown instead of charts and tables when no record
	// matches the filters.
	EmptyStateMessage = "No records match the selected filters"

	detailRows = 100
)

var detailColumns = []string{"date", "region", "product", "category", "revenue", "units_sold"}

// DashboardUseCase handles the main dashboard functionality.
type DashboardUseCase struct {
	sources    repository.SourceFactory
	exportRepo repository.ExportRepository
	chartRepo  repository.ChartRepository
	configRepo repository.ConfigRepository
	awsRepo    repository.AWSRepository
	sinks      repository.SinkFactory
	console    types.ConsoleInterface

	now   func() time.Time
	newID func() string

	args   types.CLIArgs
	env    types.Environment
	source repository.RecordSource
}

// NewDashboardUseCase creates a new dashboard use case.
func NewDashboardUseCase(
	sources repository.SourceFactory,
	exportRepo repository.ExportRepository,
	chartRepo repository.ChartRepository,
	configRepo repository.ConfigRepository,
	awsRepo repository.AWSRepository,
	sinks repository.SinkFactory,
	console types.ConsoleInterface,
) *DashboardUseCase {
	return &DashboardUseCase{
		sources:    sources,
		exportRepo: exportRepo,
		chartRepo:  chartRepo,
		configRepo: configRepo,
		awsRepo:    awsRepo,
		sinks:      sinks,
		console:    console,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// ResolveArgs merges the config file into the flags and applies defaults.
// Flags win over the config file, which wins over defaults.
func (uc *DashboardUseCase) ResolveArgs(args *types.CLIArgs) (types.CLIArgs, types.Environment, error) {
	merged := *args

	if args.ConfigFile != "" {
		cfg, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return merged, types.Environment{}, fmt.Errorf("error loading config file: %w", err)
		}
		mergeConfig(&merged, cfg)
	}

	env, err := uc.configRepo.LoadEnvironment(merged.EnvFile)
	if err != nil {
		uc.console.LogWarning("%v", err)
	}

	if merged.Table == "" {
		merged.Table = env.Table
	}
	if merged.Table == "" {
		merged.Table = entity.DefaultTable
	}
	if merged.OrderBy == "" {
		merged.OrderBy = DefaultOrderBy
	}
	if merged.ReportName == "" {
		merged.ReportName = DefaultReportName
	}
	if len(merged.Pages) == 0 {
		merged.Pages = []string{string(entity.PageOverview)}
	}

	return merged, env, nil
}

func mergeConfig(args *types.CLIArgs, cfg *types.Config) {
	setString := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	setList := func(dst *[]string, v []string) {
		if len(*dst) == 0 {
			*dst = v
		}
	}

	setString(&args.Source, cfg.Source)
	setString(&args.Table, cfg.Table)
	setString(&args.OrderBy, cfg.OrderBy)
	setString(&args.SQLitePath, cfg.SQLitePath)
	setString(&args.SheetsRange, cfg.SheetsRange)
	setString(&args.StartDate, cfg.StartDate)
	setString(&args.EndDate, cfg.EndDate)
	setString(&args.ReportName, cfg.ReportName)
	setString(&args.Dir, cfg.Dir)
	setString(&args.S3Bucket, cfg.S3Bucket)
	setString(&args.S3Prefix, cfg.S3Prefix)
	setString(&args.AWSProfile, cfg.AWSProfile)
	setString(&args.Addr, cfg.Addr)
	setList(&args.Regions, cfg.Regions)
	setList(&args.Products, cfg.Products)
	setList(&args.Categories, cfg.Categories)
	setList(&args.ReportType, cfg.ReportType)
	setList(&args.Pages, cfg.Pages)

	if args.MinRevenue == 0 {
		args.MinRevenue = cfg.MinRevenue
	}
	if args.MaxTableRows == 0 {
		args.MaxTableRows = cfg.MaxTableRows
	}
	if args.MaxColumns == 0 {
		args.MaxColumns = cfg.MaxColumns
	}
	// A duração já foi validada pelo repositório de configuração.
	if args.CacheTTL == 0 && cfg.CacheTTL != "" {
		if ttl, err := time.ParseDuration(cfg.CacheTTL); err == nil {
			args.CacheTTL = ttl
		}
	}
}

// BuildFilter converts the resolved arguments into a filter spec.
func BuildFilter(args types.CLIArgs) (entity.FilterSpec, error) {
	spec := entity.FilterSpec{
		Regions:    args.Regions,
		Products:   args.Products,
		Categories: args.Categories,
		MinRevenue: args.MinRevenue,
	}
	if args.MinRevenue < 0 {
		return spec, fmt.Errorf("min revenue must not be negative: %v", args.MinRevenue)
	}

	var err error
	if spec.Start, err = parseDate(args.StartDate); err != nil {
		return spec, err
	}
	if spec.End, err = parseDate(args.EndDate); err != nil {
		return spec, err
	}
	if !spec.Start.IsZero() && !spec.End.IsZero() && spec.End.Before(spec.Start) {
		return spec, fmt.Errorf("end date %s is before start date %s", args.EndDate, args.StartDate)
	}
	return spec, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", types.ErrInvalidDate, s)
	}
	return t, nil
}

func (uc *DashboardUseCase) sourceOptions(args types.CLIArgs, env types.Environment) types.SourceOptions {
	return types.SourceOptions{
		Kind:        args.Source,
		Env:         env,
		SQLitePath:  args.SQLitePath,
		SheetsRange: args.SheetsRange,
		CacheTTL:    args.CacheTTL,
		Warn:        uc.console.LogWarning,
	}
}

// Args returns the arguments resolved by the last Prepare.
func (uc *DashboardUseCase) Args() types.CLIArgs {
	return uc.args
}

// Prepare resolves the arguments, opens the record source and returns the
// filter built from the flags. It must run before LoadRecords.
func (uc *DashboardUseCase) Prepare(ctx context.Context, args *types.CLIArgs) (entity.FilterSpec, error) {
	resolved, env, err := uc.ResolveArgs(args)
	if err != nil {
		return entity.FilterSpec{}, err
	}

	filter, err := BuildFilter(resolved)
	if err != nil {
		return entity.FilterSpec{}, err
	}

	src, err := uc.sources.OpenSource(ctx, uc.sourceOptions(resolved, env))
	if err != nil {
		return entity.FilterSpec{}, fmt.Errorf("error opening record source: %w", err)
	}

	uc.args, uc.env, uc.source = resolved, env, src
	return filter, nil
}

// Close releases the record source opened by Prepare.
func (uc *DashboardUseCase) Close() error {
	if closer, ok := uc.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// SourceName identifies the active record source.
func (uc *DashboardUseCase) SourceName() string {
	if uc.source == nil {
		return ""
	}
	return uc.source.Name()
}

// LoadRecords reads every record of the configured table.
func (uc *DashboardUseCase) LoadRecords(ctx context.Context) ([]entity.Record, error) {
	if uc.source == nil {
		return nil, types.ErrSourceNotConfigured
	}
	return uc.source.FetchRecords(ctx, entity.SelectAll(uc.args.Table, uc.args.OrderBy))
}

// Snapshot loads the records and applies the filter.
func (uc *DashboardUseCase) Snapshot(ctx context.Context, filter entity.FilterSpec) (all, filtered []entity.Record, err error) {
	all, err = uc.LoadRecords(ctx)
	if err != nil {
		return nil, nil, err
	}
	return all, service.Filter(all, filter), nil
}

// KPIs computes the headline figures for the filter.
func (uc *DashboardUseCase) KPIs(ctx context.Context, filter entity.FilterSpec) (entity.KPIs, error) {
	all, filtered, err := uc.Snapshot(ctx, filter)
	if err != nil {
		return entity.KPIs{}, err
	}
	return service.ComputeKPIs(all, filtered), nil
}

// Summary aggregates the filtered records by the given keys.
func (uc *DashboardUseCase) Summary(ctx context.Context, filter entity.FilterSpec, keys []entity.GroupKey, metric entity.Metric) (entity.SummaryTable, error) {
	all, err := uc.LoadRecords(ctx)
	if err != nil {
		return entity.SummaryTable{}, err
	}
	return service.Aggregate(all, filter, keys, metric), nil
}

// RunDashboard executes the dashboard: load, filter, print, export.
func (uc *DashboardUseCase) RunDashboard(ctx context.Context, args *types.CLIArgs) error {
	filter, err := uc.Prepare(ctx, args)
	if err != nil {
		return err
	}

	status := uc.console.Status(fmt.Sprintf("Loading sales data from %s...", uc.SourceName()))
	all, filtered, err := uc.Snapshot(ctx, filter)
	status.Stop()
	if err != nil {
		return fmt.Errorf("error loading sales data: %w", err)
	}

	uc.console.LogInfo("Loaded %d records from %s, %d match the selected filters", len(all), uc.SourceName(), len(filtered))
	if first, last, ok := service.DateBounds(all); ok {
		uc.console.LogInfo("Data covers %s to %s", first.Format(entity.DateLayout), last.Format(entity.DateLayout))
	}

	if len(filtered) == 0 {
		uc.console.LogWarning(EmptyStateMessage)
	} else {
		uc.displayKPIs(service.ComputeKPIs(all, filtered))
		for _, key := range []entity.GroupKey{entity.GroupByRegion, entity.GroupByProduct, entity.GroupByCategory} {
			uc.displayBlock(service.SummaryTableBlock(
				fmt.Sprintf("Sales by %s", headerTitle(string(key))),
				service.Summarize(filtered, []entity.GroupKey{key}, entity.MetricRevenue),
				entity.MetricRevenue, entity.MetricUnits, entity.MetricProfit, entity.MetricProfitMargin, entity.MetricCount,
			))
		}
		if uc.args.Trend {
			uc.displayTrend(filtered)
		}
		uc.displayDetails(filtered)
	}

	uc.exportReports(ctx, all, filtered, filter)
	return nil
}

func (uc *DashboardUseCase) displayKPIs(k entity.KPIs) {
	table := uc.console.CreateTable()
	table.AddColumn("Metric")
	table.AddColumn("Value")
	for _, e := range service.KPIEntries(k) {
		table.AddRow(e.Key, e.Value)
	}
	uc.console.Printf("\n%s\n", pterm.FgYellow.Sprint("Key Performance Indicators"))
	uc.console.Println(table.Render())
}

func (uc *DashboardUseCase) displayBlock(block *entity.TableBlock) {
	if block.Empty() {
		return
	}
	table := uc.console.CreateTable()
	for _, c := range block.Columns {
		table.AddColumn(c)
	}
	for _, row := range block.Rows {
		cells := make([]interface{}, len(row))
		for i, c := range row {
			cells[i] = c
		}
		table.AddRow(cells...)
	}
	uc.console.Printf("\n%s\n", pterm.FgYellow.Sprint(block.Title))
	uc.console.Println(table.Render())
}

func (uc *DashboardUseCase) displayTrend(filtered []entity.Record) {
	monthly := service.SortByKey(service.Summarize(filtered, []entity.GroupKey{entity.GroupByMonth}, entity.MetricRevenue))

	data := make([]types.MonthlyRevenue, 0, len(monthly.Rows))
	for _, row := range monthly.Rows {
		data = append(data, types.MonthlyRevenue{Month: row.Key[0], Revenue: row.Revenue})
	}

	uc.console.Printf("\n%s\n", pterm.FgYellow.Sprint("Monthly Revenue Trend"))
	uc.console.DisplayTrendBars(data)
}

func (uc *DashboardUseCase) displayDetails(filtered []entity.Record) {
	recent := service.NewestFirst(filtered)
	if len(recent) > detailRows {
		recent = recent[:detailRows]
	}

	block := service.RecordsTable(fmt.Sprintf("Latest Transactions (%d of %d)", len(recent), len(filtered)), recent)
	if !uc.args.AllColumns {
		block = projectColumns(block, detailColumns)
	}
	uc.displayBlock(block)
}

// projectColumns keeps only the named columns, in the given order.
func projectColumns(block *entity.TableBlock, names []string) *entity.TableBlock {
	index := make(map[string]int, len(block.Columns))
	for i, c := range block.Columns {
		index[c] = i
	}

	var keep []int
	out := &entity.TableBlock{Title: block.Title}
	for _, n := range names {
		if i, ok := index[n]; ok {
			keep = append(keep, i)
			out.Columns = append(out.Columns, n)
		}
	}
	for _, row := range block.Rows {
		cells := make([]string, len(keep))
		for j, i := range keep {
			cells[j] = row[i]
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

func headerTitle(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// exportReports writes every requested format. A failing format is logged
// and does not stop the others.
func (uc *DashboardUseCase) exportReports(ctx context.Context, all, filtered []entity.Record, filter entity.FilterSpec) {
	if len(uc.args.ReportType) == 0 {
		return
	}

	sink := uc.sinks.NewSink(types.OutputTarget{
		Dir:        uc.args.Dir,
		S3Bucket:   uc.args.S3Bucket,
		S3Prefix:   uc.args.S3Prefix,
		AWSProfile: uc.args.AWSProfile,
	})

	for _, reportType := range uc.args.ReportType {
		format, err := ParseFormat(reportType)
		if err != nil {
			uc.console.LogError("%v", err)
			continue
		}

		pages := []entity.ReportPage{""}
		if format == FormatPDF {
			pages = pages[:0]
			for _, p := range uc.args.Pages {
				page, err := ParsePage(p)
				if err != nil {
					uc.console.LogError("%v", err)
					continue
				}
				pages = append(pages, page)
			}
		}

		for _, page := range pages {
			artifact, err := uc.buildArtifact(format, page, all, filtered, filter)
			if err != nil {
				uc.console.LogError("Failed to export to %s: %s", strings.ToUpper(format), err)
				continue
			}
			location, err := sink.Save(ctx, artifact)
			if err != nil {
				uc.console.LogError("Failed to export to %s: %s", strings.ToUpper(format), err)
				continue
			}
			uc.console.LogSuccess("Successfully exported to %s: %s", strings.ToUpper(format), location)
		}
	}
}
