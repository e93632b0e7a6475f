package measure

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestHeuristicEstimate(t *testing.T) {
	tests := []struct {
		name  string
		est   Heuristic
		label string
		want  Size
	}{
		{"short label", Heuristic{}, strings.Repeat("a", 10), Size{200, 88}},
		{"clamped to max width", Heuristic{}, strings.Repeat("a", 50), Size{400, 112}},
		{"mid width", Heuristic{}, strings.Repeat("a", 20), Size{240, 88}},
		{"newline uses longest line", Heuristic{}, "Hello\nWorld", Size{200, 112}},
		{"empty label", Heuristic{}, "", Size{200, 60}},
		{"root minimum", Heuristic{MinWidth: RootMinWidth}, "Home", Size{220, 88}},
		{"explicit lines win", Heuristic{}, "a\nb\nc\nd", Size{200, 160}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.est.Estimate(tt.label); got != tt.want {
				t.Errorf("Estimate(%q) = %+v, want %+v", tt.label, got, tt.want)
			}
		})
	}
}

func TestEstimateNewlineAwareWidth(t *testing.T) {
	long := strings.Repeat("x", 30)
	got := DefaultEstimator.Estimate(long + "\n" + "yy")
	// 30 chars * 9 + 60, not 33 chars.
	if got.Width != 330 {
		t.Errorf("width = %v, want 330", got.Width)
	}
}

func TestLongestLine(t *testing.T) {
	if got := LongestLine("Hello\nWorld!!\nx"); got != 7 {
		t.Errorf("LongestLine = %d, want 7", got)
	}
	if got := LongestLine("héllo"); got != 5 {
		t.Errorf("LongestLine counts runes, got %d", got)
	}
}

func TestEstimateProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("width is non-decreasing in characters", prop.ForAll(
		func(n int) bool {
			a := DefaultEstimator.Estimate(strings.Repeat("w", n))
			b := DefaultEstimator.Estimate(strings.Repeat("w", n+1))
			return b.Width >= a.Width && b.Width <= MaxWidth && a.Width >= BaseWidth
		},
		gen.IntRange(1, 200),
	))

	properties.Property("height is non-decreasing once width is clamped", prop.ForAll(
		func(n int) bool {
			a := DefaultEstimator.Estimate(strings.Repeat("h", n))
			b := DefaultEstimator.Estimate(strings.Repeat("h", n+1))
			return a.Width == MaxWidth && b.Height >= a.Height
		},
		gen.IntRange(38, 2000),
	))

	properties.Property("estimate is deterministic", prop.ForAll(
		func(s string) bool {
			return DefaultEstimator.Estimate(s) == DefaultEstimator.Estimate(s)
		},
		gen.AnyString(),
	))

	properties.Property("root box is never narrower than a regular one", prop.ForAll(
		func(s string) bool {
			return RootEstimator.Estimate(s).Width >= DefaultEstimator.Estimate(s).Width
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
