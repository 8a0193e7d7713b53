package entity

import (
	"fmt"
	"time"
)

// MetadataEntry is one key/value line of a report's metadata block.
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TableBlock is the tabular section of a report. Rows keep input order.
type TableBlock struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the block has nothing to draw.
func (t *TableBlock) Empty() bool {
	return t == nil || len(t.Columns) == 0 || len(t.Rows) == 0
}

// ReportDocument is the input of the PDF renderer, built once per export.
type ReportDocument struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Metadata     []MetadataEntry `json:"metadata"`
	Images       [][]byte        `json:"-"`
	Table        *TableBlock     `json:"table,omitempty"`
	MaxTableRows int             `json:"max_table_rows"`
	MaxColumns   int             `json:"max_columns"`
}

// ReportPage identifies one of the dashboard report pages.
type ReportPage string

const (
	PageOverview   ReportPage = "overview"
	PageProducts   ReportPage = "products"
	PageRegions    ReportPage = "regions"
	PageCategories ReportPage = "categories"
)

// ReportPages lists every page in display order.
var ReportPages = []ReportPage{PageOverview, PageProducts, PageRegions, PageCategories}

// ChartKind selects how a chart is drawn.
type ChartKind string

const (
	ChartLine  ChartKind = "line"
	ChartBar   ChartKind = "bar"
	ChartDonut ChartKind = "donut"
)

// ChartSeries is one named series. Time series fill Times; categorical
// charts leave Times empty and align Values with ChartSpec.Labels.
type ChartSeries struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// ChartSpec describes a chart to be rasterized for a report.
type ChartSpec struct {
	Kind   ChartKind
	Title  string
	Labels []string
	Series []ChartSeries
	Width  int
	Height int
}

// Artifact is an encoded export ready to be saved or served.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ArtifactFilename builds "<base>_YYYYMMDD.<ext>" for the given day.
func ArtifactFilename(base, ext string, day time.Time) string {
	if base == "" {
		base = "sales_report"
	}
	return fmt.Sprintf("%s_%s.%s", base, day.Format("20060102"), ext)
}
