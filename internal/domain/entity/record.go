package entity

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used across sources and exports.
const DateLayout = "2006-01-02"

// Record represents one sales transaction from the source table.
type Record struct {
	Date         time.Time `json:"date"`
	Region       string    `json:"region"`
	Product      string    `json:"product"`
	Category     string    `json:"category,omitempty"`
	Revenue      float64   `json:"revenue"`
	Units        int64     `json:"units_sold"`
	CustomerID   string    `json:"customer_id,omitempty"`
	ProfitMargin *float64  `json:"profit_margin,omitempty"`
	Profit       *float64  `json:"profit,omitempty"`
}

// ProfitValue returns the stored profit, or revenue × margin when only the margin is known.
func (r Record) ProfitValue() float64 {
	if r.Profit != nil {
		return *r.Profit
	}
	if r.ProfitMargin != nil {
		return r.Revenue * *r.ProfitMargin
	}
	return 0
}

// RecordColumns is the column order used for tabular exports of raw records.
var RecordColumns = []string{
	"date", "region", "product", "category", "revenue", "units_sold", "customer_id", "profit_margin", "profit",
}

// Values formats the record following RecordColumns.
func (r Record) Values() []string {
	margin, profit := "", ""
	if r.ProfitMargin != nil {
		margin = strconv.FormatFloat(*r.ProfitMargin, 'f', 4, 64)
	}
	if r.Profit != nil {
		profit = strconv.FormatFloat(*r.Profit, 'f', 2, 64)
	}
	return []string{
		r.Date.Format(DateLayout),
		r.Region,
		r.Product,
		r.Category,
		strconv.FormatFloat(r.Revenue, 'f', 2, 64),
		strconv.FormatInt(r.Units, 10),
		r.CustomerID,
		margin,
		profit,
	}
}

// Aliases aceitos na ingestão: as duas versões do dashboard usavam nomes diferentes.
var (
	dateFields  = []string{"date", "sale_date"}
	unitsFields = []string{"units_sold", "units", "quantity"}
)

// RecordFromRow converts a loosely typed source row into a Record.
// Missing or unparseable numbers coerce to zero and negatives clamp to zero.
// The second return value is false when the row has no usable date.
func RecordFromRow(row map[string]any) (Record, bool) {
	var rec Record

	date, ok := parseDate(firstOf(row, dateFields))
	if !ok {
		return Record{}, false
	}
	rec.Date = date
	rec.Region = strings.TrimSpace(toString(row["region"]))
	rec.Product = strings.TrimSpace(toString(row["product"]))
	rec.Category = strings.TrimSpace(toString(row["category"]))
	rec.CustomerID = strings.TrimSpace(toString(row["customer_id"]))

	revenue, _ := toFloat(row["revenue"])
	rec.Revenue = math.Max(revenue, 0)

	units, _ := toFloat(firstOf(row, unitsFields))
	if units < 0 {
		units = 0
	}
	rec.Units = int64(units)

	if v, ok := toFloat(row["profit_margin"]); ok {
		rec.ProfitMargin = &v
	}
	if v, ok := toFloat(row["profit"]); ok {
		rec.Profit = &v
	}

	return rec, true
}

func firstOf(row map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// Year-first layouts only; day/month order of slash dates depends on locale,
// so those rows are dropped.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

func parseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return TruncateDay(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return TruncateDay(parsed), true
			}
		}
	case []byte:
		return parseDate(string(t))
	}
	return time.Time{}, false
}

// TruncateDay drops the clock part and keeps the calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		s = strings.TrimPrefix(s, "$")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case []byte:
		return toFloat(string(t))
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
