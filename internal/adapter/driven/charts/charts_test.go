package charts

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func days(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)
	}
	return out
}

func TestRenderPNG_ProducesDecodableImages(t *testing.T) {
	r := NewRenderer()
	specs := []entity.ChartSpec{
		{Kind: entity.ChartLine, Title: "Daily Revenue", Width: 400, Height: 200, Series: []entity.ChartSeries{
			{Name: "Revenue", Times: days(3), Values: []float64{10, 30, 20}},
		}},
		{Kind: entity.ChartBar, Title: "By Region", Width: 400, Height: 200, Labels: []string{"East", "West"},
			Series: []entity.ChartSeries{{Values: []float64{100, 50}}}},
		{Kind: entity.ChartDonut, Title: "By Category", Width: 300, Height: 300, Labels: []string{"A", "B"},
			Series: []entity.ChartSeries{{Values: []float64{3, 1}}}},
	}

	for _, spec := range specs {
		t.Run(string(spec.Kind), func(t *testing.T) {
			data, err := r.RenderPNG(spec)
			require.NoError(t, err)
			cfg, err := png.DecodeConfig(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, spec.Width, cfg.Width)
		})
	}
}

func TestRenderPNG_NotEnoughData(t *testing.T) {
	r := NewRenderer()

	_, err := r.RenderPNG(entity.ChartSpec{Kind: entity.ChartLine, Series: []entity.ChartSeries{
		{Times: days(1), Values: []float64{1}},
	}})
	assert.ErrorIs(t, err, ErrNotEnoughData)

	_, err = r.RenderPNG(entity.ChartSpec{Kind: entity.ChartDonut, Labels: []string{"A"},
		Series: []entity.ChartSeries{{Values: []float64{0}}}})
	assert.ErrorIs(t, err, ErrNotEnoughData)

	_, err = r.RenderPNG(entity.ChartSpec{Kind: "radar"})
	assert.Error(t, err)
}

func TestRenderPNG_BarChartWithFlatValues(t *testing.T) {
	r := NewRenderer()

	cases := map[string]entity.ChartSpec{
		"single bar": {Kind: entity.ChartBar, Title: "By Region", Width: 400, Height: 200,
			Labels: []string{"East"}, Series: []entity.ChartSeries{{Values: []float64{100}}}},
		"equal bars": {Kind: entity.ChartBar, Title: "By Product", Width: 400, Height: 200,
			Labels: []string{"A", "B"}, Series: []entity.ChartSeries{{Values: []float64{100, 100}}}},
		"zero bars": {Kind: entity.ChartBar, Title: "By Category", Width: 400, Height: 200,
			Labels: []string{"A", "B"}, Series: []entity.ChartSeries{{Values: []float64{0, 0}}}},
	}

	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := r.RenderPNG(spec)
			require.NoError(t, err)
			_, err = png.DecodeConfig(bytes.NewReader(data))
			assert.NoError(t, err)
		})
	}
}

func TestBarRange_StartsAtZero(t *testing.T) {
	rng := barRange([]float64{100})
	assert.Equal(t, 0.0, rng.Min)
	assert.Greater(t, rng.Max, 100.0)

	rng = barRange([]float64{0, 0})
	assert.Equal(t, 0.0, rng.Min)
	assert.Greater(t, rng.Max, 0.0)
}
