package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/service"
	"github.com/diillson/sales-dashboard-go/internal/shared/types"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv",
	FormatJSON: "application/json",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
}

var pageTitles = map[entity.ReportPage]string{
	entity.PageOverview:   "Sales Overview Report",
	entity.PageProducts:   "Product Insights Report",
	entity.PageRegions:    "Region Trends Report",
	entity.PageCategories: "Category Analysis Report",
}

const regionTableRows = 100

// ParseFormat normalizes an export format name.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case FormatCSV, FormatJSON, FormatXLSX, FormatPDF:
		return f, nil
	case "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, s)
	}
}

// ParsePage validates a report page name.
func ParsePage(s string) (entity.ReportPage, error) {
	p := entity.ReportPage(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(entity.ReportPages, p) {
		names := make([]string, len(entity.ReportPages))
		for i, page := range entity.ReportPages {
			names[i] = string(page)
		}
		return "", fmt.Errorf("%w: %q (expected one of %s)", types.ErrUnknownPage, s, strings.Join(names, ", "))
	}
	return p, nil
}

// BuildArtifact loads the records and encodes them in the given format.
// page is only used by PDF exports.
func (uc *DashboardUseCase) BuildArtifact(ctx context.Context, format string, page entity.ReportPage, filter entity.FilterSpec) (entity.Artifact, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return entity.Artifact{}, err
	}
	if format == FormatPDF {
		if page, err = ParsePage(string(page)); err != nil {
			return entity.Artifact{}, err
		}
	}

	all, filtered, err := uc.Snapshot(ctx, filter)
	if err != nil {
		return entity.Artifact{}, err
	}
	return uc.buildArtifact(format, page, all, filtered, filter)
}

func (uc *DashboardUseCase) buildArtifact(format string, page entity.ReportPage, all, filtered []entity.Record, filter entity.FilterSpec) (entity.Artifact, error) {
	kpis := service.ComputeKPIs(all, filtered)
	base := uc.args.ReportName

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = uc.exportRepo.EncodeCSV(filtered)
	case FormatJSON:
		data, err = uc.exportRepo.EncodeJSON(filtered, kpis)
	case FormatXLSX:
		data, err = uc.exportRepo.EncodeWorkbook(filtered, kpis)
	case FormatPDF:
		data, err = uc.exportRepo.EncodePDF(uc.BuildReport(page, all, filtered, filter))
		if page != entity.PageOverview {
			base = fmt.Sprintf("%s_%s", base, page)
		}
	default:
		return entity.Artifact{}, fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return entity.Artifact{}, err
	}

	return entity.Artifact{
		Filename:    entity.ArtifactFilename(base, format, uc.now()),
		ContentType: contentTypes[format],
		Data:        data,
	}, nil
}

// BuildReport assembles the document of a report page. Charts that cannot be
// rendered are logged and left out; an empty selection yields a document with
// a status line and no images or table.
func (uc *DashboardUseCase) BuildReport(page entity.ReportPage, all, filtered []entity.Record, filter entity.FilterSpec) entity.ReportDocument {
	now := uc.now()
	doc := entity.ReportDocument{
		ID:           uc.newID(),
		Title:        pageTitles[page],
		GeneratedAt:  now,
		MaxTableRows: uc.args.MaxTableRows,
		MaxColumns:   uc.args.MaxColumns,
	}
	if doc.Title == "" {
		doc.Title = pageTitles[entity.PageOverview]
		page = entity.PageOverview
	}

	doc.Metadata = []entity.MetadataEntry{
		{Key: "Generated", Value: now.Format("2006-01-02 15:04:05")},
		{Key: "Report ID", Value: doc.ID},
		{Key: "Date Range", Value: filter.DateRangeLabel()},
		{Key: "Regions", Value: entity.SelectionLabel(filter.Regions)},
		{Key: "Products", Value: entity.SelectionLabel(filter.Products)},
		{Key: "Categories", Value: entity.SelectionLabel(filter.Categories)},
	}
	if filter.MinRevenue > 0 {
		doc.Metadata = append(doc.Metadata, entity.MetadataEntry{Key: "Min Revenue", Value: service.FormatMoney(filter.MinRevenue)})
	}
	doc.Metadata = append(doc.Metadata, entity.MetadataEntry{Key: "Records", Value: service.FormatThousands(int64(len(filtered)))})

	if len(filtered) == 0 {
		doc.Metadata = append(doc.Metadata, entity.MetadataEntry{Key: "Status", Value: EmptyStateMessage})
		return doc
	}

	var charts []entity.ChartSpec
	switch page {
	case entity.PageOverview:
		doc.Metadata = append(doc.Metadata, service.KPIEntries(service.ComputeKPIs(all, filtered))...)
		charts = []entity.ChartSpec{
			dailyRevenueChart(filtered),
			barChart("Revenue by Region", service.Summarize(filtered, []entity.GroupKey{entity.GroupByRegion}, entity.MetricRevenue)),
		}
		doc.Table = service.RecordsTable("Filtered Records", service.NewestFirst(filtered))

	case entity.PageProducts:
		products := service.Summarize(filtered, []entity.GroupKey{entity.GroupByProduct}, entity.MetricRevenue)
		charts = []entity.ChartSpec{barChart("Revenue by Product", products)}
		doc.Table = service.SummaryTableBlock("Product Summary", products,
			entity.MetricRevenue, entity.MetricUnits, entity.MetricProfit, entity.MetricProfitMargin, entity.MetricCount)

	case entity.PageRegions:
		daily := service.SortByKey(service.Summarize(filtered, []entity.GroupKey{entity.GroupByDate, entity.GroupByRegion}, entity.MetricRevenue))
		charts = []entity.ChartSpec{regionTrendChart(daily, service.DistinctValues(filtered, entity.GroupByRegion))}
		doc.Table = service.SummaryTableBlock("Daily Sales by Region", daily.Head(regionTableRows),
			entity.MetricRevenue, entity.MetricUnits)

	case entity.PageCategories:
		categories := service.Summarize(filtered, []entity.GroupKey{entity.GroupByCategory}, entity.MetricRevenue)
		charts = []entity.ChartSpec{
			donutChart("Revenue Share by Category", categories),
			monthlyRevenueProfitChart(filtered),
		}
		doc.Table = service.SummaryTableBlock("Category Summary", categories,
			entity.MetricRevenue, entity.MetricUnits, entity.MetricProfit, entity.MetricProfitMargin, entity.MetricCount)
	}

	doc.Images = uc.renderCharts(charts)
	return doc
}

func (uc *DashboardUseCase) renderCharts(specs []entity.ChartSpec) [][]byte {
	images := make([][]byte, 0, len(specs))
	for _, spec := range specs {
		png, err := uc.chartRepo.RenderPNG(spec)
		if err != nil {
			uc.console.LogWarning("Could not render chart '%s': %v", spec.Title, err)
			continue
		}
		images = append(images, png)
	}
	return images
}

func dailyRevenueChart(records []entity.Record) entity.ChartSpec {
	daily := service.SortByKey(service.Summarize(records, []entity.GroupKey{entity.GroupByDate}, entity.MetricRevenue))

	series := entity.ChartSeries{Name: "Revenue"}
	for _, row := range daily.Rows {
		t, err := time.Parse(entity.DateLayout, row.Key[0])
		if err != nil {
			continue
		}
		series.Times = append(series.Times, t)
		series.Values = append(series.Values, row.Revenue)
	}
	return entity.ChartSpec{Kind: entity.ChartLine, Title: "Daily Revenue", Series: []entity.ChartSeries{series}}
}

func barChart(title string, table entity.SummaryTable) entity.ChartSpec {
	spec := entity.ChartSpec{Kind: entity.ChartBar, Title: title}
	series := entity.ChartSeries{Name: "Revenue"}
	for _, row := range table.Rows {
		spec.Labels = append(spec.Labels, row.Key[0])
		series.Values = append(series.Values, row.Revenue)
	}
	spec.Series = []entity.ChartSeries{series}
	return spec
}

func donutChart(title string, table entity.SummaryTable) entity.ChartSpec {
	spec := barChart(title, table)
	spec.Kind = entity.ChartDonut
	return spec
}

// regionTrendChart expects rows keyed by (date, region) in key order.
func regionTrendChart(daily entity.SummaryTable, regions []string) entity.ChartSpec {
	byRegion := make(map[string]*entity.ChartSeries, len(regions))
	for _, r := range regions {
		byRegion[r] = &entity.ChartSeries{Name: r}
	}
	for _, row := range daily.Rows {
		s, ok := byRegion[row.Key[1]]
		if !ok {
			continue
		}
		t, err := time.Parse(entity.DateLayout, row.Key[0])
		if err != nil {
			continue
		}
		s.Times = append(s.Times, t)
		s.Values = append(s.Values, row.Revenue)
	}

	spec := entity.ChartSpec{Kind: entity.ChartLine, Title: "Revenue Trend by Region"}
	for _, r := range regions {
		spec.Series = append(spec.Series, *byRegion[r])
	}
	return spec
}

func monthlyRevenueProfitChart(records []entity.Record) entity.ChartSpec {
	monthly := service.SortByKey(service.Summarize(records, []entity.GroupKey{entity.GroupByMonth}, entity.MetricRevenue))

	revenue := entity.ChartSeries{Name: "Revenue"}
	profit := entity.ChartSeries{Name: "Profit"}
	for _, row := range monthly.Rows {
		t, err := time.Parse("2006-01", row.Key[0])
		if err != nil {
			continue
		}
		revenue.Times = append(revenue.Times, t)
		revenue.Values = append(revenue.Values, row.Revenue)
		profit.Times = append(profit.Times, t)
		profit.Values = append(profit.Values, row.Profit)
	}
	return entity.ChartSpec{Kind: entity.ChartLine, Title: "Monthly Revenue vs Profit", Series: []entity.ChartSeries{revenue, profit}}
}
