package entity

import "fmt"

// GroupKey names a record attribute used to partition records.
type GroupKey string

const (
	GroupByRegion   GroupKey = "region"
	GroupByProduct  GroupKey = "product"
	GroupByCategory GroupKey = "category"
	GroupByDate     GroupKey = "date"
	GroupByMonth    GroupKey = "month"
)

// KeyOf extracts the group key value of a record.
func (k GroupKey) KeyOf(r Record) string {
	switch k {
	case GroupByRegion:
		return r.Region
	case GroupByProduct:
		return r.Product
	case GroupByCategory:
		return r.Category
	case GroupByDate:
		return r.Date.Format(DateLayout)
	case GroupByMonth:
		return r.Date.Format("2006-01")
	default:
		return ""
	}
}

// ParseGroupKey validates a group key name.
func ParseGroupKey(s string) (GroupKey, error) {
	switch k := GroupKey(s); k {
	case GroupByRegion, GroupByProduct, GroupByCategory, GroupByDate, GroupByMonth:
		return k, nil
	}
	return "", fmt.Errorf("unsupported group key: %q", s)
}

// Metric names an aggregated measure of a summary row.
type Metric string

const (
	MetricRevenue      Metric = "revenue"
	MetricUnits        Metric = "units"
	MetricProfit       Metric = "profit"
	MetricProfitMargin Metric = "profit_margin"
	MetricCount        Metric = "count"
)

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricRevenue, MetricUnits, MetricProfit, MetricProfitMargin, MetricCount:
		return m, nil
	}
	return "", fmt.Errorf("unsupported metric: %q", s)
}

// SummaryRow holds the aggregated metrics of one partition.
type SummaryRow struct {
	Key          []string `json:"key"`
	Revenue      float64  `json:"revenue"`
	Units        int64    `json:"units"`
	Profit       float64  `json:"profit"`
	ProfitMargin float64  `json:"profit_margin"`
	Count        int      `json:"count"`
}

// Value returns the row's value for the given metric.
func (r SummaryRow) Value(m Metric) float64 {
	switch m {
	case MetricRevenue:
		return r.Revenue
	case MetricUnits:
		return float64(r.Units)
	case MetricProfit:
		return r.Profit
	case MetricProfitMargin:
		return r.ProfitMargin
	case MetricCount:
		return float64(r.Count)
	default:
		return 0
	}
}

// SummaryTable is an ordered list of grouped rows sorted by Metric descending.
type SummaryTable struct {
	GroupKeys []GroupKey   `json:"group_keys"`
	Metric    Metric       `json:"metric"`
	Rows      []SummaryRow `json:"rows"`
}

// Empty reports whether the table has no rows.
func (t SummaryTable) Empty() bool {
	return len(t.Rows) == 0
}

// Head returns a copy of the table limited to the first n rows.
func (t SummaryTable) Head(n int) SummaryTable {
	if n < 0 || n >= len(t.Rows) {
		return t
	}
	out := t
	out.Rows = append([]SummaryRow(nil), t.Rows[:n]...)
	return out
}

// KPIs are the headline figures shown on the dashboard and in reports.
type KPIs struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TotalProfit      float64 `json:"total_profit"`
	TotalUnits       int64   `json:"total_units"`
	AvgOrderValue    float64 `json:"avg_order_value"`
	Transactions     int     `json:"transactions"`
	AvgProfitMargin  float64 `json:"avg_profit_margin"`
	AvgUnitsPerOrder float64 `json:"avg_units_per_order"`
	ShareOfTotal     float64 `json:"share_of_total"`
}
