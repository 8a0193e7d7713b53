// Package charts rasterizes dashboard charts to PNG with go-chart.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/repository"
	"github.com/diillson/sales-dashboard-go/internal/domain/service"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default raster size. The 2:1 ratio matches the report image box.
const (
	DefaultWidth  = 1024
	DefaultHeight = 512
)

var ErrNotEnoughData = errors.New("not enough data to draw chart")

var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
}

func colorAt(i int) drawing.Color {
	return palette[i%len(palette)]
}

// Renderer implementa o ChartRepository.
type Renderer struct{}

// NewRenderer cria uma nova implementação do ChartRepository.
func NewRenderer() repository.ChartRepository {
	return &Renderer{}
}

// RenderPNG draws spec and returns the encoded PNG.
func (r *Renderer) RenderPNG(spec entity.ChartSpec) ([]byte, error) {
	w, h := spec.Width, spec.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}

	var buf bytes.Buffer
	var err error
	switch spec.Kind {
	case entity.ChartLine:
		err = renderLine(&buf, spec, w, h)
	case entity.ChartBar:
		err = renderBar(&buf, spec, w, h)
	case entity.ChartDonut:
		err = renderDonut(&buf, spec, w, h)
	default:
		return nil, fmt.Errorf("unsupported chart kind: %q", spec.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s chart %q: %w", spec.Kind, spec.Title, err)
	}
	return buf.Bytes(), nil
}

func moneyFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return service.FormatMoney(f)
	}
	return ""
}

func renderLine(buf *bytes.Buffer, spec entity.ChartSpec, w, h int) error {
	series := make([]chart.Series, 0, len(spec.Series))
	for i, s := range spec.Series {
		// go-chart needs two X values to compute a range.
		if len(s.Times) < 2 || len(s.Times) != len(s.Values) {
			continue
		}
		series = append(series, chart.TimeSeries{
			Name:    s.Name,
			XValues: s.Times,
			YValues: s.Values,
			Style: chart.Style{
				StrokeColor: colorAt(i),
				StrokeWidth: 2,
			},
		})
	}
	if len(series) == 0 {
		return ErrNotEnoughData
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat(entity.DateLayout)},
		YAxis:      chart.YAxis{ValueFormatter: moneyFormatter},
		Series:     series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(chart.PNG, buf)
}

func singleSeries(spec entity.ChartSpec) (entity.ChartSeries, error) {
	if len(spec.Series) == 0 {
		return entity.ChartSeries{}, ErrNotEnoughData
	}
	s := spec.Series[0]
	if len(s.Values) == 0 || len(s.Values) != len(spec.Labels) {
		return entity.ChartSeries{}, ErrNotEnoughData
	}
	return s, nil
}

func renderBar(buf *bytes.Buffer, spec entity.ChartSpec, w, h int) error {
	s, err := singleSeries(spec)
	if err != nil {
		return err
	}

	bars := make([]chart.Value, 0, len(s.Values))
	for i, v := range s.Values {
		bars = append(bars, chart.Value{
			Label: spec.Labels[i],
			Value: v,
			Style: chart.Style{FillColor: colorAt(i), StrokeColor: colorAt(i)},
		})
	}

	bc := chart.BarChart{
		Title:      spec.Title,
		Width:      w,
		Height:     h,
		BarWidth:   barWidth(w, len(bars)),
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{ValueFormatter: moneyFormatter, Range: barRange(s.Values)},
		Bars:       bars,
	}
	return bc.Render(chart.PNG, buf)
}

// barRange fixa o eixo Y a partir de zero; com uma barra ou barras iguais o
// intervalo calculado pelo go-chart teria amplitude zero.
func barRange(values []float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi * 1.05}
}

func barWidth(w, n int) int {
	bw := w / (n*2 + 1)
	if bw > 120 {
		bw = 120
	}
	if bw < 8 {
		bw = 8
	}
	return bw
}

func renderDonut(buf *bytes.Buffer, spec entity.ChartSpec, w, h int) error {
	s, err := singleSeries(spec)
	if err != nil {
		return err
	}

	total := 0.0
	values := make([]chart.Value, 0, len(s.Values))
	for i, v := range s.Values {
		if v <= 0 {
			continue
		}
		total += v
		values = append(values, chart.Value{
			Label: spec.Labels[i],
			Value: v,
			Style: chart.Style{FillColor: colorAt(i)},
		})
	}
	if total == 0 {
		return ErrNotEnoughData
	}

	dc := chart.DonutChart{
		Title:  spec.Title,
		Width:  w,
		Height: h,
		Values: values,
	}
	return dc.Render(chart.PNG, buf)
}
