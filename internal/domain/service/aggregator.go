// Package service holds the pure filter/group/summarize logic of the dashboard.
package service

import (
	"sort"
	"strings"
	"time"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
)

// Filter returns the records matching spec, preserving input order.
func Filter(records []entity.Record, spec entity.FilterSpec) []entity.Record {
	out := make([]entity.Record, 0, len(records))
	for _, r := range records {
		if spec.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate filters records, partitions them by groupKeys and orders the
// partitions by metric descending. Ties are broken by key, lexically.
func Aggregate(records []entity.Record, spec entity.FilterSpec, groupKeys []entity.GroupKey, metric entity.Metric) entity.SummaryTable {
	return Summarize(Filter(records, spec), groupKeys, metric)
}

type partition struct {
	row        entity.SummaryRow
	marginSum  float64
	marginSeen int
}

// Summarize groups already filtered records.
func Summarize(records []entity.Record, groupKeys []entity.GroupKey, metric entity.Metric) entity.SummaryTable {
	table := entity.SummaryTable{GroupKeys: groupKeys, Metric: metric, Rows: []entity.SummaryRow{}}
	if len(records) == 0 {
		return table
	}

	parts := make(map[string]*partition)
	order := make([]string, 0)
	for _, r := range records {
		key := make([]string, len(groupKeys))
		for i, k := range groupKeys {
			key[i] = k.KeyOf(r)
		}
		id := strings.Join(key, "\x00")

		p, ok := parts[id]
		if !ok {
			p = &partition{row: entity.SummaryRow{Key: key}}
			parts[id] = p
			order = append(order, id)
		}
		p.row.Revenue += r.Revenue
		p.row.Units += r.Units
		p.row.Profit += r.ProfitValue()
		p.row.Count++
		if r.ProfitMargin != nil {
			p.marginSum += *r.ProfitMargin
			p.marginSeen++
		}
	}

	for _, id := range order {
		p := parts[id]
		if p.marginSeen > 0 {
			p.row.ProfitMargin = p.marginSum / float64(p.marginSeen)
		}
		table.Rows = append(table.Rows, p.row)
	}

	sort.SliceStable(table.Rows, func(i, j int) bool {
		vi, vj := table.Rows[i].Value(metric), table.Rows[j].Value(metric)
		if vi != vj {
			return vi > vj
		}
		return compareKeys(table.Rows[i].Key, table.Rows[j].Key) < 0
	})
	return table
}

// SortByKey reorders the rows by group key ascending. Time-bucketed tables
// use it to become chronological before charting.
func SortByKey(table entity.SummaryTable) entity.SummaryTable {
	out := table
	out.Rows = append([]entity.SummaryRow(nil), table.Rows...)
	sort.SliceStable(out.Rows, func(i, j int) bool {
		return compareKeys(out.Rows[i].Key, out.Rows[j].Key) < 0
	})
	return out
}

func compareKeys(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// ComputeKPIs calculates headline figures for filtered against the full set.
func ComputeKPIs(all, filtered []entity.Record) entity.KPIs {
	var k entity.KPIs
	k.Transactions = len(filtered)
	if k.Transactions == 0 {
		return k
	}

	var marginSum float64
	var marginSeen int
	for _, r := range filtered {
		k.TotalRevenue += r.Revenue
		k.TotalProfit += r.ProfitValue()
		k.TotalUnits += r.Units
		if r.ProfitMargin != nil {
			marginSum += *r.ProfitMargin
			marginSeen++
		}
	}
	n := float64(k.Transactions)
	k.AvgOrderValue = k.TotalRevenue / n
	k.AvgUnitsPerOrder = float64(k.TotalUnits) / n
	if marginSeen > 0 {
		k.AvgProfitMargin = marginSum / float64(marginSeen)
	}

	var total float64
	for _, r := range all {
		total += r.Revenue
	}
	if total > 0 {
		k.ShareOfTotal = k.TotalRevenue / total * 100
	}
	return k
}

// DistinctValues lists the sorted, non-empty values of key across records.
func DistinctValues(records []entity.Record, key entity.GroupKey) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		if v := key.KeyOf(r); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// DateBounds returns the earliest and latest record dates.
func DateBounds(records []entity.Record) (first, last time.Time, ok bool) {
	if len(records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = records[0].Date, records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last, true
}

// NewestFirst returns a copy of records sorted by date descending.
func NewestFirst(records []entity.Record) []entity.Record {
	out := append([]entity.Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
