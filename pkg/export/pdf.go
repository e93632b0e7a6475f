package export

import (
	"bytes"
	"sync"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/errors"
	"github.com/matzehuels/panelmap/pkg/measure"
)

const pdfFont = "Helvetica"

// RenderPDF draws d as a single-page PDF sized to the padded diagram. One
// PDF unit equals one diagram pixel.
//
// Labels are drawn with the Helvetica core font, which covers Windows-1252.
// A label with characters outside that set is an errors.ErrCodeEncoding
// error.
func RenderPDF(d diagram.Diagram, opts ...Option) (Document, error) {
	cfg := newConfig(opts)
	if err := checkEncodable(d); err != nil {
		return Document{}, err
	}

	m := cfg.measurer
	if m == nil {
		m = NewPDFMeasurer()
	}
	page, ok := cfg.planner().Plan(d, m)
	if !ok {
		return Document{}, ErrEmptyDiagram
	}

	pdf := newPDF(page)
	for _, c := range page.Edges {
		pdf.SetDrawColor(int(c.Color.R), int(c.Color.G), int(c.Color.B))
		pdf.SetLineWidth(c.Width)
		pdf.CurveBezierCubic(c.From.X, c.From.Y, c.C1.X, c.C1.Y, c.C2.X, c.C2.Y, c.To.X, c.To.Y, "D")
	}
	for _, b := range page.Boxes {
		drawPDFBox(pdf, b)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInternal, err, "write pdf")
	}
	return Document{
		Format:      FormatPDF,
		Filename:    Filename(cfg.filename, FormatPDF),
		Data:        buf.Bytes(),
		Width:       page.Width,
		Height:      page.Height,
		Orientation: page.Orientation,
	}, nil
}

// newPDF starts a document with one page of the page's size. fpdf swaps
// the given size for landscape pages, so the size is passed pre-swapped.
func newPDF(page *Page) *fpdf.Fpdf {
	orientation, size := "P", fpdf.SizeType{Wd: page.Width, Ht: page.Height}
	if page.Orientation == Landscape {
		orientation, size = "L", fpdf.SizeType{Wd: page.Height, Ht: page.Width}
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "pt",
		Size:           size,
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont(pdfFont, "", DefaultFontSize)
	return pdf
}

func drawPDFBox(pdf *fpdf.Fpdf, b Box) {
	pdf.SetFillColor(int(b.Fill.R), int(b.Fill.G), int(b.Fill.B))
	pdf.SetDrawColor(int(b.Border.R), int(b.Border.G), int(b.Border.B))
	pdf.SetLineWidth(BorderWidth)
	pdf.RoundedRect(b.X, b.Y, b.Width, b.Height, min(b.Radius, b.Width/2, b.Height/2), "1234", "FD")

	pdf.SetFont(pdfFont, "", b.FontSize)
	pdf.SetTextColor(int(b.Text.R), int(b.Text.G), int(b.Text.B))
	for _, l := range b.Lines {
		text := encode1252(l.Text)
		x := l.X
		if b.Align == diagram.AlignCenter {
			x -= pdf.GetStringWidth(text) / 2
		}
		pdf.Text(x, l.Y, text)
	}
}

// checkEncodable reports the first label the core font cannot draw.
func checkEncodable(d diagram.Diagram) error {
	enc := charmap.Windows1252.NewEncoder()
	for _, n := range d.Nodes {
		if _, err := enc.String(n.Label); err != nil {
			return errors.Wrap(errors.ErrCodeEncoding, err, "label of node %q cannot be drawn with %s", n.ID, pdfFont)
		}
	}
	return nil
}

// encode1252 converts UTF-8 text to the single-byte encoding core fonts use.
func encode1252(s string) string {
	out, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return s
	}
	return out
}

// PDFMeasurer wraps text with Helvetica core-font metrics, matching what
// RenderPDF draws. It is safe for concurrent use.
type PDFMeasurer struct {
	mu  sync.Mutex
	pdf *fpdf.Fpdf
}

// NewPDFMeasurer returns a measurer backed by a scratch fpdf document.
func NewPDFMeasurer() *PDFMeasurer {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont(pdfFont, "", DefaultFontSize)
	return &PDFMeasurer{pdf: pdf}
}

// Width returns the width of s in points at fontSize.
func (m *PDFMeasurer) Width(s string, fontSize float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFontSize(fontSize)
	return m.pdf.GetStringWidth(encode1252(s))
}

// Wrap implements measure.TextMeasurer.
func (m *PDFMeasurer) Wrap(text string, maxWidth, fontSize float64) []string {
	return measure.WrapWords(text, maxWidth, func(s string) float64 { return m.Width(s, fontSize) })
}
