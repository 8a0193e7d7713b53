package service

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
)

// RecordsTable converts raw records into a table block using RecordColumns.
func RecordsTable(title string, records []entity.Record) *entity.TableBlock {
	block := &entity.TableBlock{
		Title:   title,
		Columns: append([]string(nil), entity.RecordColumns...),
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		block.Rows = append(block.Rows, r.Values())
	}
	return block
}

// SummaryTableBlock converts a summary table into a table block; metrics
// lists the value columns to include after the group key columns.
func SummaryTableBlock(title string, table entity.SummaryTable, metrics ...entity.Metric) *entity.TableBlock {
	block := &entity.TableBlock{Title: title}
	for _, k := range table.GroupKeys {
		block.Columns = append(block.Columns, headerName(string(k)))
	}
	for _, m := range metrics {
		block.Columns = append(block.Columns, headerName(string(m)))
	}
	for _, row := range table.Rows {
		cells := append([]string(nil), row.Key...)
		for _, m := range metrics {
			cells = append(cells, FormatMetric(m, row.Value(m)))
		}
		block.Rows = append(block.Rows, cells)
	}
	return block
}

// FormatMetric renders a metric value the way dashboards display it.
func FormatMetric(m entity.Metric, v float64) string {
	switch m {
	case entity.MetricRevenue, entity.MetricProfit:
		return FormatMoney(v)
	case entity.MetricProfitMargin:
		return fmt.Sprintf("%.1f%%", v*100)
	default:
		return FormatThousands(int64(v))
	}
}

// FormatMoney formats v as $1,234.56.
func FormatMoney(v float64) string {
	s := humanize.FormatFloat("#,###.##", v)
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

// FormatThousands formats n with comma thousand separators.
func FormatThousands(n int64) string {
	return humanize.Comma(n)
}

func headerName(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// KPIEntries lists the headline figures as label/value pairs, in display order.
func KPIEntries(k entity.KPIs) []entity.MetadataEntry {
	return []entity.MetadataEntry{
		{Key: "Total Revenue", Value: FormatMoney(k.TotalRevenue)},
		{Key: "Total Profit", Value: FormatMoney(k.TotalProfit)},
		{Key: "Total Units Sold", Value: FormatThousands(k.TotalUnits)},
		{Key: "Avg Order Value", Value: FormatMoney(k.AvgOrderValue)},
		{Key: "Transactions", Value: FormatThousands(int64(k.Transactions))},
		{Key: "Avg Profit Margin", Value: fmt.Sprintf("%.1f%%", k.AvgProfitMargin*100)},
		{Key: "Avg Units per Order", Value: fmt.Sprintf("%.1f", k.AvgUnitsPerOrder)},
		{Key: "Share of Total Revenue", Value: fmt.Sprintf("%.1f%%", k.ShareOfTotal)},
	}
}
