package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"sync"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/errors"
	"github.com/matzehuels/panelmap/pkg/measure"
)

var (
	glyphOnce sync.Once
	glyph     *measure.Glyph
	glyphErr  error
)

func sharedGlyph() (*measure.Glyph, error) {
	glyphOnce.Do(func() { glyph, glyphErr = measure.NewGlyph() })
	return glyph, glyphErr
}

// RenderSVG draws d as a standalone SVG document.
func RenderSVG(d diagram.Diagram, opts ...Option) (Document, error) {
	cfg := newConfig(opts)
	m := cfg.measurer
	if m == nil {
		g, err := sharedGlyph()
		if err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInternal, err, "load font")
		}
		m = g
	}
	page, ok := cfg.planner().Plan(d, m)
	if !ok {
		return Document{}, ErrEmptyDiagram
	}
	return Document{
		Format:      FormatSVG,
		Filename:    Filename(cfg.filename, FormatSVG),
		Data:        writeSVG(page),
		Width:       page.Width,
		Height:      page.Height,
		Orientation: page.Orientation,
	}, nil
}

// writeSVG draws page with svgo. Curves keep their fractional coordinates
// in the path data; boxes and text are placed on whole user units.
func writeSVG(page *Page) []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(px(page.Width), px(page.Height),
		fmt.Sprintf(`viewBox="0 0 %.2f %.2f"`, page.Width, page.Height))
	canvas.Rect(0, 0, px(page.Width), px(page.Height), `fill="#ffffff"`)

	canvas.Group(`class="edges"`, `fill="none"`)
	for _, c := range page.Edges {
		canvas.Path(
			fmt.Sprintf("M %.2f %.2f C %.2f %.2f, %.2f %.2f, %.2f %.2f",
				c.From.X, c.From.Y, c.C1.X, c.C1.Y, c.C2.X, c.C2.Y, c.To.X, c.To.Y),
			attr("id", "edge-"+c.ID),
			attr("stroke", c.Color.Hex()),
			fmt.Sprintf(`stroke-width="%.2f"`, c.Width))
	}
	canvas.Gend()

	canvas.Group(`class="nodes"`)
	for _, b := range page.Boxes {
		writeSVGBox(canvas, b)
	}
	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

func writeSVGBox(canvas *svg.SVG, b Box) {
	r := px(b.Radius)
	canvas.Roundrect(px(b.X), px(b.Y), px(b.Width), px(b.Height), r, r,
		attr("id", "node-"+b.ID),
		attr("fill", b.Fill.Hex()),
		attr("stroke", b.Border.Hex()),
		fmt.Sprintf(`stroke-width="%.0f"`, BorderWidth))

	anchor := "middle"
	if b.Align == diagram.AlignLeft {
		anchor = "start"
	}
	for _, l := range b.Lines {
		if l.Text == "" {
			continue
		}
		canvas.Text(px(l.X), px(l.Y), l.Text,
			attr("font-family", measure.FontFamily),
			fmt.Sprintf(`font-size="%.0f"`, b.FontSize),
			attr("fill", b.Text.Hex()),
			attr("text-anchor", anchor),
			`xml:space="preserve"`)
	}
}

// px rounds a page coordinate to the integer grid svgo draws on.
func px(v float64) int {
	return int(math.Round(v))
}

// attr formats an escaped name="value" attribute. svgo passes strings
// containing "=" through as attributes rather than style.
func attr(name, value string) string {
	return name + `="` + escapeXML(value) + `"`
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
