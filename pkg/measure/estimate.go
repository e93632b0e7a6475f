package measure

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Box estimation constants, in screen pixels.
const (
	BaseWidth    = 200.0 // narrowest regular box
	BaseHeight   = 60.0  // shortest box
	MaxWidth     = 400.0 // widest box; longer text wraps
	RootMinWidth = 220.0 // narrowest root box

	CharWidth       = 9.0  // width estimate per character
	WrapCharWidth   = 8.5  // per-character width when counting wrapped lines
	WidthPadding    = 60.0 // added to the text width estimate
	InnerPadding    = 48.0 // horizontal padding inside a box
	VerticalPadding = 64.0 // vertical padding inside a box
	LineHeight      = 24.0 // height of one text line
)

// Size is a box extent in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SizeEstimator maps a label to the box it is expected to occupy.
type SizeEstimator interface {
	Estimate(label string) Size
}

// Heuristic is the fixed-width estimator used for layout.
type Heuristic struct {
	// MinWidth is the narrowest box produced. Zero means BaseWidth.
	MinWidth float64
}

// Default estimators for regular and root nodes.
var (
	DefaultEstimator SizeEstimator = Heuristic{MinWidth: BaseWidth}
	RootEstimator    SizeEstimator = Heuristic{MinWidth: RootMinWidth}
)

// Estimate returns the estimated box for label.
//
// Width follows the longest explicit line (9px per character plus 60px),
// clamped to [MinWidth, MaxWidth]. Height counts the larger of the wrapped
// line estimate and the explicit line count, at 24px per line plus 64px.
// An empty label gets the base box.
func (h Heuristic) Estimate(label string) Size {
	minWidth := h.MinWidth
	if minWidth == 0 {
		minWidth = BaseWidth
	}
	if label == "" {
		return Size{Width: minWidth, Height: BaseHeight}
	}

	textWidth := float64(LongestLine(label)) * CharWidth
	width := max(minWidth, min(textWidth+WidthPadding, MaxWidth))

	charsPerLine := math.Floor((width - InnerPadding) / WrapCharWidth)
	wrapped := math.Ceil(float64(utf8.RuneCountInString(label)) / charsPerLine)
	explicit := float64(strings.Count(label, "\n") + 1)
	lines := max(wrapped, explicit)

	return Size{
		Width:  width,
		Height: max(BaseHeight, VerticalPadding+lines*LineHeight),
	}
}

// LongestLine returns the character count of the longest explicit line.
func LongestLine(label string) int {
	longest := 0
	for _, line := range strings.Split(label, "\n") {
		longest = max(longest, utf8.RuneCountInString(line))
	}
	return longest
}
