package export

import (
	"math"

	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/measure"
)

// Page geometry and text defaults.
const (
	Padding          = 50.0 // margin around the diagram's bounding box
	DefaultFontSize  = 12.0
	DefaultEdgeWidth = 2.0
	BorderWidth      = 2.0
	CornerRadius     = 12.0

	textInset       = 24.0 // left text margin inside a box
	wrapInset       = 48.0 // horizontal room taken from the wrap width
	blockPadding    = 60.0 // vertical room added around the text block
	lineSpacing     = 1.5  // line height as a multiple of the font size
	baselineDivisor = 1.6  // first baseline sits lineHeight/1.6 below the block top
	controlRatio    = 0.4  // bezier control offset as a share of the anchor distance
)

// DefaultEdgeColor strokes edges that carry no color.
const DefaultEdgeColor = "#cbd5e1"

// Orientation of the page.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Page is a diagram ready to draw. Coordinates are page units with the
// origin at the top-left corner; Offset is subtracted from diagram
// coordinates to get page coordinates.
type Page struct {
	Width       float64
	Height      float64
	Orientation Orientation
	Offset      diagram.Point
	Edges       []Curve
	Boxes       []Box
}

// Curve is a cubic bezier edge.
type Curve struct {
	ID       string
	From, To diagram.Point
	C1, C2   diagram.Point
	Color    Color
	Width    float64
}

// Box is a node drawn as a rounded rectangle with wrapped text.
type Box struct {
	ID           string
	X, Y         float64
	Width        float64
	Height       float64 // drawn height, never below LayoutHeight
	LayoutHeight float64
	Radius       float64
	Fill         Color
	Border       Color
	Text         Color
	FontSize     float64
	Align        diagram.Align
	LineHeight   float64
	Lines        []Line
}

// Line is one line of text. X is the left edge for left-aligned text and
// the center for centered text; Y is the baseline.
type Line struct {
	Text string
	X, Y float64
}

// Planner computes pages.
type Planner struct {
	// Padding around the bounding box. Zero means no padding.
	Padding float64
	// EdgeColor strokes edges without a color. Empty means DefaultEdgeColor.
	EdgeColor string
}

// Plan computes the page for d with the default padding. It reports false,
// and returns nil, when d has no nodes.
func Plan(d diagram.Diagram, m measure.TextMeasurer) (*Page, bool) {
	return Planner{Padding: Padding}.Plan(d, m)
}

// Plan computes the page for d, wrapping text with m.
func (p Planner) Plan(d diagram.Diagram, m measure.TextMeasurer) (*Page, bool) {
	if d.Empty() {
		return nil, false
	}
	bounds := d.Bounds()
	page := &Page{
		Width:       bounds.Width + 2*p.Padding,
		Height:      bounds.Height + 2*p.Padding,
		Orientation: Portrait,
		Offset:      diagram.Point{X: bounds.X - p.Padding, Y: bounds.Y - p.Padding},
		Edges:       make([]Curve, 0, len(d.Edges)),
		Boxes:       make([]Box, 0, len(d.Nodes)),
	}
	if page.Width > page.Height {
		page.Orientation = Landscape
	}

	edgeColor := parseColor(DefaultEdgeColor, black)
	if p.EdgeColor != "" {
		edgeColor = parseColor(p.EdgeColor, edgeColor)
	}

	nodes := make(map[string]diagram.Node, len(d.Nodes))
	for _, n := range d.Nodes {
		nodes[n.ID] = n
	}
	for _, e := range d.Edges {
		src, ok1 := nodes[e.Source]
		dst, ok2 := nodes[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		page.Edges = append(page.Edges, page.curve(e, src, dst, d.Direction, edgeColor))
	}
	for _, n := range d.Nodes {
		page.Boxes = append(page.Boxes, page.box(n, m))
	}
	return page, true
}

func (pg *Page) shift(p diagram.Point) diagram.Point {
	return diagram.Point{X: p.X - pg.Offset.X, Y: p.Y - pg.Offset.Y}
}

// curve runs from the source's outgoing side to the target's incoming side.
// Control points keep the curve's tangents perpendicular to those sides.
func (pg *Page) curve(e diagram.Edge, src, dst diagram.Node, dir diagram.Direction, fallback Color) Curve {
	c := Curve{
		ID:    e.ID,
		Color: parseColor(e.Color, fallback),
		Width: e.StrokeWidth,
	}
	if c.Width <= 0 {
		c.Width = DefaultEdgeWidth
	}
	if dir == diagram.TopToBottom {
		c.From = pg.shift(diagram.Point{X: src.Position.X + src.Width/2, Y: src.Position.Y + src.Height})
		c.To = pg.shift(diagram.Point{X: dst.Position.X + dst.Width/2, Y: dst.Position.Y})
		dist := math.Abs(c.To.Y - c.From.Y)
		c.C1 = diagram.Point{X: c.From.X, Y: c.From.Y + dist*controlRatio}
		c.C2 = diagram.Point{X: c.To.X, Y: c.To.Y - dist*controlRatio}
		return c
	}
	c.From = pg.shift(diagram.Point{X: src.Position.X + src.Width, Y: src.Position.Y + src.Height/2})
	c.To = pg.shift(diagram.Point{X: dst.Position.X, Y: dst.Position.Y + dst.Height/2})
	dist := math.Abs(c.To.X - c.From.X)
	c.C1 = diagram.Point{X: c.From.X + dist*controlRatio, Y: c.From.Y}
	c.C2 = diagram.Point{X: c.To.X - dist*controlRatio, Y: c.To.Y}
	return c
}

func (pg *Page) box(n diagram.Node, m measure.TextMeasurer) Box {
	st := n.Style
	origin := pg.shift(n.Position)
	b := Box{
		ID:           n.ID,
		X:            origin.X,
		Y:            origin.Y,
		Width:        n.Width,
		Height:       n.Height,
		LayoutHeight: n.Height,
		Fill:         parseColor(st.Background, white),
		Border:       parseColor(st.ResolvedBorderColor(), black),
		Text:         parseColor(st.Color, black),
		FontSize:     st.FontSize,
		Align:        st.TextAlign,
	}
	if b.FontSize <= 0 {
		b.FontSize = DefaultFontSize
	}
	if b.Align != diagram.AlignLeft {
		b.Align = diagram.AlignCenter
	}

	lines := m.Wrap(n.Label, n.Width-wrapInset, b.FontSize)
	if len(lines) == 0 {
		lines = []string{""}
	}
	b.LineHeight = b.FontSize * lineSpacing
	block := float64(len(lines)) * b.LineHeight
	b.Height = max(b.Height, block+blockPadding)

	b.Radius = CornerRadius
	if st.Pill() {
		b.Radius = b.Height / 2
	}

	x := b.X + b.Width/2
	if b.Align == diagram.AlignLeft {
		x = b.X + textInset
	}
	top := b.Y + b.Height/2 - block/2 + b.LineHeight/baselineDivisor
	b.Lines = make([]Line, len(lines))
	for i, text := range lines {
		b.Lines[i] = Line{Text: text, X: x, Y: top + float64(i)*b.LineHeight}
	}
	return b
}
