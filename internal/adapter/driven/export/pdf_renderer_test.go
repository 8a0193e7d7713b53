package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func table(rows, cols int) *entity.TableBlock {
	t := &entity.TableBlock{}
	for c := 0; c < cols; c++ {
		t.Columns = append(t.Columns, fmt.Sprintf("col%d", c))
	}
	for r := 0; r < rows; r++ {
		row := make([]string, cols)
		for c := range row {
			row[c] = fmt.Sprintf("r%dc%d", r, c)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func baseDoc() entity.ReportDocument {
	return entity.ReportDocument{
		ID:          "test",
		Title:       "Sales Overview Report",
		GeneratedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Metadata: []entity.MetadataEntry{
			{Key: "Date Range", Value: "2024-01-01 to 2024-01-31"},
			{Key: "Regions", Value: "All"},
		},
	}
}

// smallGeometry leaves room for exactly six table rows after the title and header.
func smallGeometry() Geometry {
	g := DefaultGeometry()
	g.PageHeight = 100
	g.MarginTop = 10
	g.MarginBottom = 10
	g.TableTitleH = 10
	g.HeaderHeight = 10
	g.RowHeight = 10
	return g
}

func TestRender_TitleAndMetadataOnly(t *testing.T) {
	res, err := NewPDFRenderer(DefaultGeometry()).Render(baseDoc())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(res.Bytes, []byte("%PDF-")))
	assert.Equal(t, 1, res.Pages)
	assert.Zero(t, res.TableRows)
	assert.Zero(t, res.Images)
}

func TestRender_EmptyTableIsOmitted(t *testing.T) {
	doc := baseDoc()
	doc.Table = &entity.TableBlock{Columns: []string{"a"}}

	res, err := NewPDFRenderer(DefaultGeometry()).Render(doc)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
}

func TestRender_TableStopsWhenPageIsFull(t *testing.T) {
	doc := baseDoc()
	doc.Table = table(100, 3)
	doc.MaxTableRows = 40

	res, err := NewPDFRenderer(smallGeometry()).Render(doc)

	require.NoError(t, err)
	assert.Equal(t, 6, res.TableRows)
	assert.Equal(t, 2, res.Pages)
}

func TestRender_TableHonorsMaxRows(t *testing.T) {
	doc := baseDoc()
	doc.Table = table(100, 3)

	res, err := NewPDFRenderer(DefaultGeometry()).Render(doc)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTableRows, res.TableRows)

	doc.MaxTableRows = 3
	res, err = NewPDFRenderer(DefaultGeometry()).Render(doc)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TableRows)
}

func TestRender_TableNeverExceedsRowsGiven(t *testing.T) {
	doc := baseDoc()
	doc.Table = table(2, 10)
	doc.MaxColumns = 4

	res, err := NewPDFRenderer(smallGeometry()).Render(doc)

	require.NoError(t, err)
	assert.Equal(t, 2, res.TableRows)
}

func TestRender_SkipsBrokenImages(t *testing.T) {
	doc := baseDoc()
	doc.Images = [][]byte{
		pngBytes(t, 40, 20),
		[]byte("definitely not a png"),
		nil,
		pngBytes(t, 20, 40),
	}
	doc.Table = table(5, 2)

	res, err := NewPDFRenderer(DefaultGeometry()).Render(doc)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Images)
	assert.Equal(t, 2, res.SkippedImages)
	assert.Equal(t, 5, res.TableRows)
	assert.True(t, bytes.HasPrefix(res.Bytes, []byte("%PDF-")))
}

func TestRender_ImagesBreakPagesWhenSpaceRunsOut(t *testing.T) {
	doc := baseDoc()
	img := pngBytes(t, 40, 20)
	doc.Images = [][]byte{img, img, img}

	res, err := NewPDFRenderer(DefaultGeometry()).Render(doc)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Images)
	assert.Equal(t, 2, res.Pages)
}

func TestCursor(t *testing.T) {
	g := smallGeometry()
	c := NewCursor(g)
	assert.Zero(t, c.Remaining())
	assert.False(t, c.Fits(1))

	c.Break()
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, 80.0, c.Remaining())

	c.Advance(75)
	assert.True(t, c.Fits(5))
	assert.False(t, c.Fits(5.5))

	c.Break()
	assert.Equal(t, 2, c.Page)
	assert.Equal(t, g.MarginTop, c.Y)
}
