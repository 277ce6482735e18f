package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// Options configures PDF generation
type Options struct {
	PageSize    string  `json:"page_size"`   // A4, Letter, Legal
	Orientation string  `json:"orientation"` // portrait, landscape
	Unit        string  `json:"unit"`        // pt, mm, cm, in
	FontFamily  string  `json:"font_family"`
	Margins     Margins `json:"margins"`
	Compress    bool    `json:"compress"`
	Title       string  `json:"title,omitempty"`
	Subject     string  `json:"subject,omitempty"`
	Author      string  `json:"author,omitempty"`
	Creator     string  `json:"creator,omitempty"`
}

// Margins represents page margins
type Margins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// DefaultOptions returns default PDF options: A4 portrait in points with
// one inch margins
func DefaultOptions() Options {
	return Options{
		PageSize:    "A4",
		Orientation: "portrait",
		Unit:        "pt",
		FontFamily:  "Helvetica",
		Margins: Margins{
			Left:   72,
			Right:  72,
			Top:    72,
			Bottom: 72,
		},
		Compress: true,
	}
}

// Paragraph is a block of styled text
type Paragraph struct {
	Runs       []Run   `json:"runs"`
	FontSize   float64 `json:"font_size"`
	Leading    float64 `json:"leading"` // line height; 1.2 x font size when zero
	Color      Color   `json:"color"`
	Align      string  `json:"align"` // L, C, R
	SpaceAfter float64 `json:"space_after"`
}

// Frame is a double rectangle drawn around the page edge
type Frame struct {
	Color      Color   `json:"color"`
	Inset      float64 `json:"inset"`       // distance from the page edge to the outer line
	Gap        float64 `json:"gap"`         // distance between the outer and inner lines
	OuterWidth float64 `json:"outer_width"` // line widths
	InnerWidth float64 `json:"inner_width"`
}

// Document wraps a single gofpdf document
type Document struct {
	pdf       *gofpdf.Fpdf
	options   Options
	translate func(string) string
}

// NewDocument creates a document and adds its first page
func NewDocument(options Options) *Document {
	orientation := "P"
	if options.Orientation == "landscape" {
		orientation = "L"
	}
	unit := options.Unit
	if unit == "" {
		unit = "pt"
	}
	if options.FontFamily == "" {
		options.FontFamily = "Helvetica"
	}

	pdf := gofpdf.New(orientation, unit, options.PageSize, "")
	pdf.SetMargins(options.Margins.Left, options.Margins.Top, options.Margins.Right)
	// Certificates are single page; overflowing text is clipped rather than paginated.
	pdf.SetAutoPageBreak(false, options.Margins.Bottom)
	pdf.SetCompression(options.Compress)
	if options.Title != "" {
		pdf.SetTitle(options.Title, true)
	}
	if options.Subject != "" {
		pdf.SetSubject(options.Subject, true)
	}
	if options.Author != "" {
		pdf.SetAuthor(options.Author, true)
	}
	if options.Creator != "" {
		pdf.SetCreator(options.Creator, true)
	}

	d := &Document{
		pdf:       pdf,
		options:   options,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
	pdf.AddPage()
	return d
}

// PageSize returns the current page width and height
func (d *Document) PageSize() (float64, float64) {
	return d.pdf.GetPageSize()
}

// ContentWidth returns the width between the left and right margins
func (d *Document) ContentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	return w - d.options.Margins.Left - d.options.Margins.Right
}

// TextWidth implements Measurer using the document's core font metrics
func (d *Document) TextWidth(text string, run Run, size float64) float64 {
	d.pdf.SetFont(d.options.FontFamily, run.fontStyle(), size)
	return d.pdf.GetStringWidth(d.translate(text))
}

// Fill paints the whole page with a color
func (d *Document) Fill(c Color) {
	w, h := d.pdf.GetPageSize()
	d.pdf.SetFillColor(c.R, c.G, c.B)
	d.pdf.Rect(0, 0, w, h, "F")
}

// DrawFrame draws the outer and inner frame rectangles
func (d *Document) DrawFrame(f Frame) {
	w, h := d.pdf.GetPageSize()
	d.pdf.SetDrawColor(f.Color.R, f.Color.G, f.Color.B)

	if f.OuterWidth > 0 {
		d.pdf.SetLineWidth(f.OuterWidth)
		d.pdf.Rect(f.Inset, f.Inset, w-2*f.Inset, h-2*f.Inset, "D")
	}
	if f.InnerWidth > 0 {
		in := f.Inset + f.Gap
		d.pdf.SetLineWidth(f.InnerWidth)
		d.pdf.Rect(in, in, w-2*in, h-2*in, "D")
	}
}

// Spacer advances the cursor vertically
func (d *Document) Spacer(height float64) {
	d.pdf.SetY(d.pdf.GetY() + height)
}

// WriteParagraph wraps and draws a paragraph at the cursor and returns the
// laid out lines
func (d *Document) WriteParagraph(p Paragraph) []Line {
	leading := p.Leading
	if leading == 0 {
		leading = p.FontSize * 1.2
	}

	lines := Wrap(p.Runs, d.ContentWidth(), p.FontSize, d)
	d.pdf.SetTextColor(p.Color.R, p.Color.G, p.Color.B)

	for _, line := range lines {
		d.pdf.SetX(d.lineX(line.Width, p.Align))
		for _, r := range line.Runs {
			d.pdf.SetFont(d.options.FontFamily, r.fontStyle(), p.FontSize)
			text := d.translate(r.Text)
			d.pdf.CellFormat(d.pdf.GetStringWidth(text), leading, text, "", 0, "L", false, 0, "")
		}
		d.pdf.Ln(leading)
	}

	if p.SpaceAfter > 0 {
		d.Spacer(p.SpaceAfter)
	}
	return lines
}

func (d *Document) lineX(width float64, align string) float64 {
	left := d.options.Margins.Left
	switch align {
	case "C":
		return left + (d.ContentWidth()-width)/2
	case "R":
		return left + d.ContentWidth() - width
	default:
		return left
	}
}

// HorizontalRule draws a centered line of the given width at the cursor
func (d *Document) HorizontalRule(width, lineWidth float64, c Color) {
	x := d.lineX(width, "C")
	y := d.pdf.GetY()
	d.pdf.SetDrawColor(c.R, c.G, c.B)
	d.pdf.SetLineWidth(lineWidth)
	d.pdf.Line(x, y, x+width, y)
}

// Err returns the first error recorded by the underlying document
func (d *Document) Err() error {
	return d.pdf.Error()
}

// WriteTo writes the PDF to a writer
func (d *Document) WriteTo(w io.Writer) error {
	return d.pdf.Output(w)
}

// OutputToBytes returns the PDF as bytes
func (d *Document) OutputToBytes() ([]byte, error) {
	if err := d.pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf generation failed: %w", err)
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output failed: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveAs saves the PDF to a file
func (d *Document) SaveAs(path string) error {
	return d.pdf.OutputFileAndClose(path)
}
