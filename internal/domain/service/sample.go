package service

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
)

var (
	SampleRegions    = []string{"North America", "Europe", "Asia Pacific", "Latin America", "Middle East"}
	SampleProducts   = []string{"Product A", "Product B", "Product C", "Product D", "Product E"}
	SampleCategories = []string{"Electronics", "Software", "Services", "Hardware", "Accessories"}
)

// SampleOptions controls the synthetic data generator.
type SampleOptions struct {
	Start     time.Time
	Days      int
	MinPerDay int
	MaxPerDay int
	Seed      uint64
}

// DefaultSampleOptions covers calendar year 2024 with 3 to 7 transactions per day.
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{
		Start:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:      366,
		MinPerDay: 3,
		MaxPerDay: 7,
		Seed:      42,
	}
}

// TrailingSampleOptions returns options for the days up to and including today.
func TrailingSampleOptions(days int, today time.Time, seed uint64) SampleOptions {
	opts := DefaultSampleOptions()
	if days < 1 {
		days = 1
	}
	opts.Days = days
	opts.Start = entity.TruncateDay(today).AddDate(0, 0, -(days - 1))
	opts.Seed = seed
	return opts
}

// GenerateSample builds synthetic records in date order. The same options
// always produce the same records.
func GenerateSample(opts SampleOptions) []entity.Record {
	if opts.MaxPerDay < opts.MinPerDay {
		opts.MaxPerDay = opts.MinPerDay
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	start := entity.TruncateDay(opts.Start)

	out := make([]entity.Record, 0, opts.Days*opts.MaxPerDay)
	for d := 0; d < opts.Days; d++ {
		date := start.AddDate(0, 0, d)
		n := opts.MinPerDay + rng.IntN(opts.MaxPerDay-opts.MinPerDay+1)
		for i := 0; i < n; i++ {
			revenue := roundTo(1000+rng.Float64()*49000, 2)
			margin := roundTo(0.15+rng.Float64()*0.30, 4)
			profit := roundTo(revenue*margin, 2)
			out = append(out, entity.Record{
				Date:         date,
				Region:       SampleRegions[rng.IntN(len(SampleRegions))],
				Product:      SampleProducts[rng.IntN(len(SampleProducts))],
				Category:     SampleCategories[rng.IntN(len(SampleCategories))],
				Revenue:      revenue,
				Units:        int64(1 + rng.IntN(99)),
				CustomerID:   fmt.Sprintf("CUST-%d", 1000+rng.IntN(9000)),
				ProfitMargin: &margin,
				Profit:       &profit,
			})
		}
	}
	return out
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
