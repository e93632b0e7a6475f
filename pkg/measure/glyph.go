package measure

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Glyph measures text with the Go Regular font's real advance widths.
// It is safe for concurrent use.
type Glyph struct {
	mu    sync.Mutex
	font  *opentype.Font
	faces map[float64]font.Face
}

// NewGlyph parses the embedded Go Regular font.
func NewGlyph() (*Glyph, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse go regular font: %w", err)
	}
	return &Glyph{font: f, faces: make(map[float64]font.Face)}, nil
}

// FontFamily is the CSS family matching the metrics Glyph uses.
const FontFamily = "'Go', 'Helvetica Neue', Helvetica, Arial, sans-serif"

// Width returns the advance width of s in pixels at fontSize.
func (g *Glyph) Width(s string, fontSize float64) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	face, err := g.face(fontSize)
	if err != nil {
		// Fall back to the layout heuristic rather than failing an export.
		return float64(len([]rune(s))) * CharWidth * fontSize / 15
	}
	return float64(font.MeasureString(face, s)) / 64
}

// Wrap implements TextMeasurer.
func (g *Glyph) Wrap(text string, maxWidth, fontSize float64) []string {
	return WrapWords(text, maxWidth, func(s string) float64 { return g.Width(s, fontSize) })
}

// face returns the cached face for size. Callers hold g.mu; faces are not
// safe for concurrent use.
func (g *Glyph) face(size float64) (font.Face, error) {
	if f, ok := g.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(g.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	g.faces[size] = f
	return f, nil
}
