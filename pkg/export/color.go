package export

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

var (
	white = Color{255, 255, 255}
	black = Color{0, 0, 0}
)

var namedColors = map[string]Color{
	"white": white,
	"black": black,
	"red":   {255, 0, 0},
	"green": {0, 128, 0},
	"blue":  {0, 0, 255},
	"gray":  {128, 128, 128},
	"grey":  {128, 128, 128},
}

// parseColor reads a CSS hex color ("#rgb" or "#rrggbb") or one of a few
// color names. Anything else yields fallback.
func parseColor(s string, fallback Color) Color {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return fallback
	}
	if c, ok := namedColors[s]; ok {
		return c
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	r, g, b := c.Clamped().RGB255()
	return Color{r, g, b}
}
