package export

// Geometry fixes the page size and every block dimension of a report, in mm.
type Geometry struct {
	PageWidth  float64
	PageHeight float64

	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64

	TitleFontSize  float64
	TitleHeight    float64
	MetaFontSize   float64
	MetaLineHeight float64
	MetaGap        float64

	ImageWidth   float64
	ImageHeight  float64
	ImageAdvance float64
	// MinImageSpace is the free height below which an image starts a new page.
	MinImageSpace float64

	TableTitle     string
	TableTitleSize float64
	TableTitleH    float64
	TableFontSize  float64
	HeaderHeight   float64
	RowHeight      float64
	CellChars      int

	FooterOffset float64
}

// DefaultGeometry is an A4 portrait page with 2 cm margins.
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:  210,
		PageHeight: 297,

		MarginLeft:   20,
		MarginRight:  20,
		MarginTop:    20,
		MarginBottom: 20,

		TitleFontSize:  16,
		TitleHeight:    7,
		MetaFontSize:   10,
		MetaLineHeight: 4.5,
		MetaGap:        2,

		ImageWidth:    160,
		ImageHeight:   80,
		ImageAdvance:  90,
		MinImageSpace: 80,

		TableTitle:     "Details",
		TableTitleSize: 12,
		TableTitleH:    6.35,
		TableFontSize:  9,
		HeaderHeight:   4.94,
		RowHeight:      4.23,
		CellChars:      30,

		FooterOffset: 15,
	}
}

// ContentWidth is the printable width between the side margins.
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - g.MarginLeft - g.MarginRight
}

// Cursor is the layout state threaded through the draw operations: the
// vertical position on the current page, measured from the top edge, and
// the 1-based page index. Page 0 means no page has been started.
type Cursor struct {
	geo  Geometry
	Y    float64
	Page int
}

// NewCursor returns a cursor positioned before the first page.
func NewCursor(g Geometry) *Cursor {
	return &Cursor{geo: g}
}

// Remaining is the free height left above the bottom margin.
func (c *Cursor) Remaining() float64 {
	if c.Page == 0 {
		return 0
	}
	return c.geo.PageHeight - c.geo.MarginBottom - c.Y
}

// Fits reports whether a block of height h fits on the current page.
func (c *Cursor) Fits(h float64) bool {
	return c.Remaining() >= h
}

// Advance moves the cursor down by h.
func (c *Cursor) Advance(h float64) {
	c.Y += h
}

// Break moves to the top margin of the next page.
func (c *Cursor) Break() {
	c.Page++
	c.Y = c.geo.MarginTop
}
