package entity

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultTable is the source table holding sales transactions.
const DefaultTable = "sales_data"

// Query describes a read against the source table service.
type Query struct {
	Table      string
	Columns    []string
	OrderBy    string
	Descending bool
	Limit      int
}

// SelectAll returns a query reading every column of table ordered by orderBy.
func SelectAll(table, orderBy string) Query {
	return Query{Table: table, OrderBy: orderBy}
}

// Signature is the cache key of the query.
func (q Query) Signature() string {
	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ",")
	}
	dir := "asc"
	if q.Descending {
		dir = "desc"
	}
	return fmt.Sprintf("%s|%s|%s.%s|%d", q.Table, cols, q.OrderBy, dir, q.Limit)
}

// Apply orders and limits records in memory, for backends that cannot do it
// server side. The input slice is not modified.
func (q Query) Apply(records []Record) []Record {
	out := append([]Record(nil), records...)
	if q.OrderBy != "" {
		key := GroupKey(q.OrderBy)
		if q.OrderBy == "sale_date" {
			key = GroupByDate
		}
		sort.SliceStable(out, func(i, j int) bool {
			a, b := key.KeyOf(out[i]), key.KeyOf(out[j])
			if q.Descending {
				return a > b
			}
			return a < b
		})
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}
