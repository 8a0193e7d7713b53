package service

import (
	"testing"
	"time"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func margin(v float64) *float64 { return &v }

func scenarioRecords() []entity.Record {
	return []entity.Record{
		{Date: day("2024-01-01"), Region: "East", Revenue: 100, Units: 2},
		{Date: day("2024-01-02"), Region: "West", Revenue: 50, Units: 1},
	}
}

func mixedRecords() []entity.Record {
	return []entity.Record{
		{Date: day("2024-01-01"), Region: "East", Product: "A", Category: "Software", Revenue: 100, Units: 2, ProfitMargin: margin(0.2)},
		{Date: day("2024-01-05"), Region: "West", Product: "B", Category: "Hardware", Revenue: 300, Units: 4, ProfitMargin: margin(0.4)},
		{Date: day("2024-02-10"), Region: "East", Product: "B", Category: "Software", Revenue: 40, Units: 7},
		{Date: day("2024-02-11"), Region: "North", Product: "C", Category: "Services", Revenue: 300, Units: 1},
		{Date: day("2024-03-01"), Region: "West", Product: "A", Category: "Hardware", Revenue: 5, Units: 9, ProfitMargin: margin(0.1)},
	}
}

func TestAggregate_ByRegionOrdersByRevenue(t *testing.T) {
	spec := entity.FilterSpec{Start: day("2024-01-01"), End: day("2024-01-02")}

	table := Aggregate(scenarioRecords(), spec, []entity.GroupKey{entity.GroupByRegion}, entity.MetricRevenue)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"East"}, table.Rows[0].Key)
	assert.Equal(t, 100.0, table.Rows[0].Revenue)
	assert.Equal(t, []string{"West"}, table.Rows[1].Key)
	assert.Equal(t, 50.0, table.Rows[1].Revenue)
}

func TestAggregate_MinRevenueExcludesSmallRecords(t *testing.T) {
	spec := entity.FilterSpec{Start: day("2024-01-01"), End: day("2024-01-02"), MinRevenue: 75}

	filtered := Filter(scenarioRecords(), spec)
	require.Len(t, filtered, 1)
	assert.Equal(t, "East", filtered[0].Region)

	table := Aggregate(scenarioRecords(), spec, []entity.GroupKey{entity.GroupByRegion}, entity.MetricRevenue)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"East"}, table.Rows[0].Key)
	assert.Equal(t, 100.0, table.Rows[0].Revenue)
}

func TestAggregate_EmptySetsMeanNoRestriction(t *testing.T) {
	keys := []entity.GroupKey{entity.GroupByProduct}
	omitted := entity.FilterSpec{MinRevenue: 10}
	empty := entity.FilterSpec{MinRevenue: 10, Regions: []string{}, Products: []string{}, Categories: []string{}}

	assert.Equal(t,
		Aggregate(mixedRecords(), omitted, keys, entity.MetricUnits),
		Aggregate(mixedRecords(), empty, keys, entity.MetricUnits))
}

func TestAggregate_MetricColumnIsNonIncreasing(t *testing.T) {
	metrics := []entity.Metric{
		entity.MetricRevenue, entity.MetricUnits, entity.MetricProfit, entity.MetricProfitMargin, entity.MetricCount,
	}
	keySets := [][]entity.GroupKey{
		{entity.GroupByRegion},
		{entity.GroupByProduct},
		{entity.GroupByMonth, entity.GroupByRegion},
	}
	for _, m := range metrics {
		for _, keys := range keySets {
			table := Aggregate(mixedRecords(), entity.FilterSpec{}, keys, m)
			require.NotEmpty(t, table.Rows)
			for i := 1; i < len(table.Rows); i++ {
				assert.GreaterOrEqual(t, table.Rows[i-1].Value(m), table.Rows[i].Value(m), "metric %s keys %v", m, keys)
			}
		}
	}
}

func TestAggregate_TiesBrokenByKey(t *testing.T) {
	table := Aggregate(mixedRecords(), entity.FilterSpec{}, []entity.GroupKey{entity.GroupByRegion}, entity.MetricRevenue)

	// West = 305, East = 140, North = 300
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "West", table.Rows[0].Key[0])
	assert.Equal(t, "North", table.Rows[1].Key[0])

	tied := Aggregate(mixedRecords(), entity.FilterSpec{}, []entity.GroupKey{entity.GroupByRegion}, entity.MetricCount)
	// East and West both have two records.
	assert.Equal(t, []string{"East"}, tied.Rows[0].Key)
	assert.Equal(t, []string{"West"}, tied.Rows[1].Key)
	assert.Equal(t, []string{"North"}, tied.Rows[2].Key)
}

func TestAggregate_MeanMarginIgnoresMissing(t *testing.T) {
	table := Aggregate(mixedRecords(), entity.FilterSpec{}, []entity.GroupKey{entity.GroupByRegion}, entity.MetricRevenue)

	byRegion := map[string]entity.SummaryRow{}
	for _, r := range table.Rows {
		byRegion[r.Key[0]] = r
	}
	assert.InDelta(t, 0.2, byRegion["East"].ProfitMargin, 1e-9)
	assert.InDelta(t, 0.25, byRegion["West"].ProfitMargin, 1e-9)
	assert.Zero(t, byRegion["North"].ProfitMargin)
	assert.InDelta(t, 20.0, byRegion["East"].Profit, 1e-9)
}

func TestAggregate_EmptyResultIsNotAnError(t *testing.T) {
	spec := entity.FilterSpec{Regions: []string{"Nowhere"}}

	table := Aggregate(mixedRecords(), spec, []entity.GroupKey{entity.GroupByRegion}, entity.MetricRevenue)

	assert.True(t, table.Empty())
	assert.NotNil(t, table.Rows)
}

func TestFilter_IsIdempotent(t *testing.T) {
	specs := []entity.FilterSpec{
		{},
		{Start: day("2024-01-03"), End: day("2024-02-28")},
		{Regions: []string{"East", "West"}, MinRevenue: 50},
		{Products: []string{"A"}, Categories: []string{"Hardware"}},
	}
	for _, spec := range specs {
		once := Filter(mixedRecords(), spec)
		twice := Filter(once, spec)
		assert.Equal(t, once, twice)
	}
}

func TestFilter_DateRangeIsInclusive(t *testing.T) {
	recs := []entity.Record{
		{Date: time.Date(2024, 1, 31, 23, 30, 0, 0, time.UTC), Region: "East"},
		{Date: day("2024-02-01"), Region: "East"},
	}
	got := Filter(recs, entity.FilterSpec{Start: day("2024-01-31"), End: day("2024-01-31")})
	require.Len(t, got, 1)
	assert.Equal(t, 31, got[0].Date.Day())
}

func TestSummarize_MonthRegionBuckets(t *testing.T) {
	table := SortByKey(Summarize(mixedRecords(), []entity.GroupKey{entity.GroupByMonth, entity.GroupByRegion}, entity.MetricRevenue))

	require.Len(t, table.Rows, 5)
	assert.Equal(t, []string{"2024-01", "East"}, table.Rows[0].Key)
	assert.Equal(t, []string{"2024-03", "West"}, table.Rows[4].Key)
}

func TestComputeKPIs(t *testing.T) {
	all := mixedRecords()
	filtered := Filter(all, entity.FilterSpec{Regions: []string{"West"}})

	k := ComputeKPIs(all, filtered)

	assert.Equal(t, 2, k.Transactions)
	assert.Equal(t, 305.0, k.TotalRevenue)
	assert.Equal(t, int64(13), k.TotalUnits)
	assert.InDelta(t, 152.5, k.AvgOrderValue, 1e-9)
	assert.InDelta(t, 6.5, k.AvgUnitsPerOrder, 1e-9)
	assert.InDelta(t, 0.25, k.AvgProfitMargin, 1e-9)
	assert.InDelta(t, 305.0/745.0*100, k.ShareOfTotal, 1e-9)
	assert.InDelta(t, 120.5, k.TotalProfit, 1e-9)

	assert.Equal(t, entity.KPIs{}, ComputeKPIs(all, nil))
}

func TestDistinctValuesAndBounds(t *testing.T) {
	assert.Equal(t, []string{"East", "North", "West"}, DistinctValues(mixedRecords(), entity.GroupByRegion))

	first, last, ok := DateBounds(mixedRecords())
	require.True(t, ok)
	assert.Equal(t, day("2024-01-01"), first)
	assert.Equal(t, day("2024-03-01"), last)

	_, _, ok = DateBounds(nil)
	assert.False(t, ok)
}

func TestNewestFirst(t *testing.T) {
	out := NewestFirst(mixedRecords())
	assert.Equal(t, day("2024-03-01"), out[0].Date)
	assert.Equal(t, day("2024-01-01"), out[len(out)-1].Date)
}
