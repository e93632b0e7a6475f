package export

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/errors"
	"github.com/matzehuels/panelmap/pkg/measure"
)

// Document formats.
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// DefaultFilename is the name PDF exports are saved under.
const DefaultFilename = "architecture_map_vector.pdf"

// ErrEmptyDiagram is returned when there is nothing to draw. No document is
// produced and callers should not write a file.
var ErrEmptyDiagram = errors.New(errors.ErrCodeEmptyDiagram, "diagram has no nodes")

// Document is one exported file.
type Document struct {
	Format      string
	Filename    string
	Data        []byte
	Width       float64
	Height      float64
	Orientation Orientation
}

// ContentType returns the MIME type of the document.
func (d Document) ContentType() string {
	switch d.Format {
	case FormatPDF:
		return "application/pdf"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case "json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// Option configures an export.
type Option func(*config)

type config struct {
	padding   float64
	edgeColor string
	filename  string
	scale     float64
	measurer  measure.TextMeasurer
}

func (c config) planner() Planner {
	return Planner{Padding: c.padding, EdgeColor: c.edgeColor}
}

// WithPadding sets the margin around the diagram.
func WithPadding(p float64) Option {
	return func(c *config) {
		if p >= 0 {
			c.padding = p
		}
	}
}

// WithEdgeColor sets the stroke for edges that carry no color.
func WithEdgeColor(color string) Option {
	return func(c *config) { c.edgeColor = color }
}

// WithFilename sets the document's file name. The extension is replaced
// with the format's own.
func WithFilename(name string) Option {
	return func(c *config) { c.filename = name }
}

// WithScale sets the PNG resolution multiplier.
func WithScale(s float64) Option {
	return func(c *config) {
		if s > 0 {
			c.scale = s
		}
	}
}

// WithMeasurer replaces the sink's own text measurer. Drawing still uses
// the sink's font.
func WithMeasurer(m measure.TextMeasurer) Option {
	return func(c *config) { c.measurer = m }
}

func newConfig(opts []Option) config {
	c := config{padding: Padding, filename: DefaultFilename, scale: 2}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Filename returns name with its extension replaced by format. An empty
// name yields the default file name.
func Filename(name, format string) string {
	if name == "" {
		name = DefaultFilename
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + "." + format
}

// Render exports d in the named format.
func Render(ctx context.Context, d diagram.Diagram, format string, opts ...Option) (Document, error) {
	switch strings.ToLower(format) {
	case FormatPDF:
		return RenderPDF(d, opts...)
	case FormatSVG:
		return RenderSVG(d, opts...)
	case FormatPNG:
		return RenderPNG(ctx, d, opts...)
	default:
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q", format)
	}
}
