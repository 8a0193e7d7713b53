package service

import (
	"testing"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", FormatMoney(0))
	assert.Equal(t, "$1,234.56", FormatMoney(1234.56))
	assert.Equal(t, "$1,000,000.00", FormatMoney(999999.999))
	assert.Equal(t, "-$12.50", FormatMoney(-12.5))
	assert.Equal(t, "$1,234.50", FormatMoney(1234.5))
	assert.Equal(t, "$1,234,567.00", FormatMoney(1234567))
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "999", FormatThousands(999))
	assert.Equal(t, "1,000", FormatThousands(1000))
	assert.Equal(t, "-12,345,678", FormatThousands(-12345678))
	assert.Equal(t, "0", FormatThousands(0))
}

func TestSummaryTableBlock(t *testing.T) {
	table := Aggregate(mixedRecords(), entity.FilterSpec{}, []entity.GroupKey{entity.GroupByRegion}, entity.MetricRevenue)

	block := SummaryTableBlock("By Region", table, entity.MetricRevenue, entity.MetricUnits)

	assert.Equal(t, []string{"Region", "Revenue", "Units"}, block.Columns)
	require.Len(t, block.Rows, 3)
	assert.Equal(t, []string{"West", "$305.00", "13"}, block.Rows[0])
}

func TestRecordsTable(t *testing.T) {
	block := RecordsTable("Details", mixedRecords()[:1])
	assert.Equal(t, entity.RecordColumns, block.Columns)
	assert.Equal(t, []string{"2024-01-01", "East", "A", "Software", "100.00", "2", "", "0.2000", ""}, block.Rows[0])
}

func TestKPIEntries(t *testing.T) {
	entries := KPIEntries(entity.KPIs{TotalRevenue: 1500, Transactions: 3, AvgProfitMargin: 0.25, ShareOfTotal: 40})
	require.Len(t, entries, 8)
	assert.Equal(t, entity.MetadataEntry{Key: "Total Revenue", Value: "$1,500.00"}, entries[0])
	assert.Equal(t, "25.0%", entries[5].Value)
	assert.Equal(t, "40.0%", entries[7].Value)
}
