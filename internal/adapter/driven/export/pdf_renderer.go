package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/jung-kurt/gofpdf"
)

// Limits applied when a document leaves them unset.
const (
	DefaultMaxTableRows = 40
	DefaultMaxColumns   = 6
)

// RenderResult is the finalized document plus what ended up on the pages.
type RenderResult struct {
	Bytes         []byte
	Pages         int
	Images        int
	SkippedImages int
	TableRows     int
}

// PDFRenderer lays a ReportDocument onto fixed-size pages.
type PDFRenderer struct {
	geo Geometry
}

// NewPDFRenderer cria um renderizador com a geometria informada.
func NewPDFRenderer(g Geometry) *PDFRenderer {
	return &PDFRenderer{geo: g}
}

type pageWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	geo Geometry
	cur *Cursor
}

func (w *pageWriter) newPage() {
	w.pdf.AddPage()
	w.cur.Break()
}

// Render draws title and metadata on page 1, then each image, then the
// table on a fresh page. Rows that do not fit after the table header are
// dropped; the table is never continued on another page.
func (r *PDFRenderer) Render(doc entity.ReportDocument) (RenderResult, error) {
	g := r.geo
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	pdf.SetMargins(g.MarginLeft, g.MarginTop, g.MarginRight)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("Sales Analytics Dashboard", true)
	if doc.ID != "" {
		pdf.SetSubject("Report "+doc.ID, true)
	}
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
	}

	w := &pageWriter{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		geo: g,
		cur: NewCursor(g),
	}

	footerDate := doc.GeneratedAt.Format(entity.DateLayout)
	pdf.SetFooterFunc(func() {
		pdf.SetXY(g.MarginLeft, g.PageHeight-g.FooterOffset)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		width := g.ContentWidth()
		pdf.CellFormat(width, 10, w.tr(fmt.Sprintf("Generated by Sales Analytics Dashboard | %s", footerDate)), "", 0, "L", false, 0, "")
		pdf.SetX(g.MarginLeft)
		pdf.CellFormat(width, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	var res RenderResult

	w.newPage()
	w.drawHeader(doc.Title, doc.Metadata)

	for i, img := range doc.Images {
		if w.drawImage(fmt.Sprintf("img%d", i), img) {
			res.Images++
		} else {
			res.SkippedImages++
		}
	}

	if !doc.Table.Empty() {
		w.newPage()
		res.TableRows = w.drawTable(doc.Table, limitOr(doc.MaxTableRows, DefaultMaxTableRows), limitOr(doc.MaxColumns, DefaultMaxColumns))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return RenderResult{}, fmt.Errorf("error writing PDF: %w", err)
	}
	res.Bytes = buf.Bytes()
	res.Pages = w.cur.Page
	return res, nil
}

func limitOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (w *pageWriter) drawHeader(title string, meta []entity.MetadataEntry) {
	g := w.geo
	pdf := w.pdf

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", g.TitleFontSize)
	pdf.SetXY(g.MarginLeft, w.cur.Y)
	pdf.CellFormat(g.ContentWidth(), g.TitleHeight, w.tr(title), "", 0, "L", false, 0, "")
	w.cur.Advance(g.TitleHeight)

	pdf.SetFont("Arial", "", g.MetaFontSize)
	pdf.SetTextColor(50, 50, 50)
	for _, m := range meta {
		pdf.SetXY(g.MarginLeft, w.cur.Y)
		pdf.CellFormat(g.ContentWidth(), g.MetaLineHeight, w.tr(fmt.Sprintf("%s: %s", m.Key, m.Value)), "", 0, "L", false, 0, "")
		w.cur.Advance(g.MetaLineHeight)
	}
	w.cur.Advance(g.MetaGap)
}

// drawImage returns false when the image could not be decoded or registered.
// The pdf error state is cleared so later blocks still render.
func (w *pageWriter) drawImage(name string, data []byte) bool {
	g := w.geo
	pdf := w.pdf

	if len(data) == 0 {
		return false
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return false
	}
	imageType := map[string]string{"png": "PNG", "jpeg": "JPG", "gif": "GIF"}[format]
	if imageType == "" {
		return false
	}

	info := pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	if !pdf.Ok() || info == nil {
		pdf.ClearError()
		return false
	}
	iw, ih := info.Width(), info.Height()
	if iw <= 0 || ih <= 0 {
		return false
	}

	if !w.cur.Fits(g.MinImageSpace) {
		w.newPage()
	}

	scale := math.Min(g.ImageWidth/iw, g.ImageHeight/ih)
	dw, dh := iw*scale, ih*scale
	x := g.MarginLeft + (g.ImageWidth-dw)/2
	y := w.cur.Y + (g.ImageHeight-dh)/2
	pdf.ImageOptions(name, x, y, dw, dh, false, gofpdf.ImageOptions{ImageType: imageType}, 0, "")
	if !pdf.Ok() {
		pdf.ClearError()
		return false
	}
	w.cur.Advance(g.ImageAdvance)
	return true
}

// drawTable returns the number of data rows drawn.
func (w *pageWriter) drawTable(t *entity.TableBlock, maxRows, maxCols int) int {
	g := w.geo
	pdf := w.pdf

	cols := t.Columns
	if len(cols) > maxCols {
		cols = cols[:maxCols]
	}
	colWidth := g.ContentWidth() / float64(len(cols))

	title := t.Title
	if title == "" {
		title = g.TableTitle
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", g.TableTitleSize)
	pdf.SetXY(g.MarginLeft, w.cur.Y)
	pdf.CellFormat(g.ContentWidth(), g.TableTitleH, w.tr(title), "", 0, "L", false, 0, "")
	w.cur.Advance(g.TableTitleH)

	if !w.cur.Fits(g.HeaderHeight) {
		return 0
	}
	pdf.SetFont("Arial", "B", g.TableFontSize)
	pdf.SetDrawColor(200, 200, 200)
	for i, c := range cols {
		pdf.SetXY(g.MarginLeft+float64(i)*colWidth, w.cur.Y)
		pdf.CellFormat(colWidth, g.HeaderHeight, w.fit(c, colWidth), "B", 0, "L", false, 0, "")
	}
	w.cur.Advance(g.HeaderHeight)

	pdf.SetFont("Arial", "", g.TableFontSize)
	pdf.SetTextColor(50, 50, 50)
	drawn := 0
	for _, row := range t.Rows {
		if drawn >= maxRows || !w.cur.Fits(g.RowHeight) {
			break
		}
		for i := range cols {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.SetXY(g.MarginLeft+float64(i)*colWidth, w.cur.Y)
			pdf.CellFormat(colWidth, g.RowHeight, w.fit(cell, colWidth), "", 0, "L", false, 0, "")
		}
		w.cur.Advance(g.RowHeight)
		drawn++
	}
	return drawn
}

// fit truncates s to CellChars runes and then to the column width.
func (w *pageWriter) fit(s string, width float64) string {
	runes := []rune(s)
	if w.geo.CellChars > 0 && len(runes) > w.geo.CellChars {
		runes = runes[:w.geo.CellChars]
	}
	out := w.tr(string(runes))
	for len(runes) > 0 && w.pdf.GetStringWidth(out) > width-1 {
		runes = runes[:len(runes)-1]
		out = w.tr(string(runes))
	}
	return out
}
