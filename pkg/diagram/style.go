package diagram

import (
	"fmt"
	"strings"
)

// Colors used by the default theme.
const (
	RootColor     = "#0f172a" // neutral root fill and border
	RootTextColor = "#ffffff"
	NodeFill      = "#ffffff"
	NodeTextColor = "#1e293b"
	EdgeColor     = "#cbd5e1" // fallback stroke for edges without a color
)

// Font sizes in pixels.
const (
	NodeFontSize = 15.0
	RootFontSize = 18.0
)

// Edge drawing defaults.
const (
	EdgeStrokeWidth = 3.0
	EdgeOpacity     = 0.8
	BorderWidth     = 3.0
	CornerRadius    = 16.0
	PillRadius      = "9999px"
)

// LongContentChars is the label length above which text is left-aligned.
const LongContentChars = 50

// DefaultPalette is the ordered branch palette.
var DefaultPalette = []string{
	"#3b82f6", // blue
	"#10b981", // emerald
	"#f59e0b", // amber
	"#ef4444", // red
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#06b6d4", // cyan
	"#84cc16", // lime
}

// Style carries the visual hints of a node. Every field is optional: the
// exporter falls back to white fill, black border and text, 12px font and
// centered alignment for anything left empty, so styles set by other tools
// are honored as long as they use these fields.
type Style struct {
	Background   string  `json:"background,omitempty"`
	BorderColor  string  `json:"border_color,omitempty"`
	Border       string  `json:"border,omitempty"` // CSS shorthand, e.g. "3px solid #3b82f6"
	Color        string  `json:"color,omitempty"`
	FontSize     float64 `json:"font_size,omitempty"`
	FontWeight   int     `json:"font_weight,omitempty"`
	TextAlign    Align   `json:"text_align,omitempty"`
	WhiteSpace   string  `json:"white_space,omitempty"`
	BorderRadius string  `json:"border_radius,omitempty"`
	MinWidth     float64 `json:"min_width,omitempty"`
	MaxWidth     float64 `json:"max_width,omitempty"`
	Padding      string  `json:"padding,omitempty"`
}

// Pill reports whether the node is drawn as a fully rounded capsule.
func (s Style) Pill() bool { return s.BorderRadius == PillRadius }

// ResolvedBorderColor returns BorderColor, else the color token of Border
// ("3px solid red" → "red"), else "".
func (s Style) ResolvedBorderColor() string {
	if s.BorderColor != "" {
		return s.BorderColor
	}
	if parts := strings.Fields(s.Border); len(parts) == 3 {
		return parts[2]
	}
	return ""
}

// BranchColor returns the palette color for a branch index.
func BranchColor(palette []string, index int) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if index < 0 {
		index = -index
	}
	return palette[index%len(palette)]
}

// IsLongContent reports whether a label reads as a list or paragraph:
// longer than 50 characters, multi-line, numbered ("1.") or bulleted
// (starting with "-").
func IsLongContent(label string) bool {
	return len([]rune(label)) > LongContentChars ||
		strings.Contains(label, "\n") ||
		strings.Contains(label, "1.") ||
		strings.HasPrefix(strings.TrimSpace(label), "-")
}

func nodeStyle(isRoot bool, color string, long bool, maxWidth float64) Style {
	s := Style{
		Background:   NodeFill,
		Border:       fmt.Sprintf("%gpx solid %s", BorderWidth, color),
		Color:        NodeTextColor,
		FontSize:     NodeFontSize,
		FontWeight:   500,
		TextAlign:    AlignCenter,
		WhiteSpace:   "normal",
		BorderRadius: fmt.Sprintf("%gpx", CornerRadius),
		MinWidth:     180,
		MaxWidth:     maxWidth,
		Padding:      "16px 24px",
	}
	if long {
		s.TextAlign = AlignLeft
		s.WhiteSpace = "pre-wrap"
	}
	if isRoot {
		s.Background = color
		s.Border = fmt.Sprintf("%gpx solid %s", BorderWidth, color)
		s.Color = RootTextColor
		s.FontSize = RootFontSize
		s.FontWeight = 700
		s.MinWidth = 220
	}
	return s
}
