package entity

import (
	"fmt"
	"strings"
	"time"
)

// FilterSpec is the conjunctive predicate set applied before aggregation.
// Empty Regions/Products/Categories mean "no restriction". A zero Start or End
// leaves that side of the date range open.
type FilterSpec struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Regions    []string  `json:"regions,omitempty"`
	Products   []string  `json:"products,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	MinRevenue float64   `json:"min_revenue"`
}

// Matches reports whether the record satisfies every predicate of the filter.
func (f FilterSpec) Matches(r Record) bool {
	day := TruncateDay(r.Date)
	if !f.Start.IsZero() && day.Before(TruncateDay(f.Start)) {
		return false
	}
	if !f.End.IsZero() && day.After(TruncateDay(f.End)) {
		return false
	}
	if !allowed(f.Regions, r.Region) || !allowed(f.Products, r.Product) || !allowed(f.Categories, r.Category) {
		return false
	}
	return r.Revenue >= f.MinRevenue
}

func allowed(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// DateRangeLabel formats the range for report metadata.
func (f FilterSpec) DateRangeLabel() string {
	return fmt.Sprintf("%s to %s", formatBound(f.Start, "beginning"), formatBound(f.End, "today"))
}

func formatBound(t time.Time, open string) string {
	if t.IsZero() {
		return open
	}
	return t.Format(DateLayout)
}

// SelectionLabel renders a filter set, "All" when unrestricted.
func SelectionLabel(values []string) string {
	if len(values) == 0 {
		return "All"
	}
	return strings.Join(values, ", ")
}
