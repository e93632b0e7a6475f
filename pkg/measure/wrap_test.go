package measure

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

// tenPerRune is a monospace width function: 10px per character.
func tenPerRune(s string) float64 { return float64(utf8.RuneCountInString(s)) * 10 }

func TestWrapWords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"fits", "hello world", 200, []string{"hello world"}},
		{"wraps on words", "hello big world", 90, []string{"hello big", "world"}},
		{"explicit newline", "a\nb", 200, []string{"a", "b"}},
		{"blank line kept", "a\n\nb", 200, []string{"a", "", "b"}},
		{"long word split", "abcdefghij", 40, []string{"abcd", "efgh", "ij"}},
		{"long word after text", "ab abcdefgh", 50, []string{"ab", "abcde", "fgh"}},
		{"empty", "", 100, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapWords(tt.text, tt.width, tenPerRune)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WrapWords(%q, %v) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapWordsTinyWidthTerminates(t *testing.T) {
	got := WrapWords("abc", 1, tenPerRune)
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("got %q", got)
	}
}

func TestGlyphMeasurer(t *testing.T) {
	g, err := NewGlyph()
	if err != nil {
		t.Fatalf("NewGlyph: %v", err)
	}
	narrow, wide := g.Width("iiii", 15), g.Width("WWWW", 15)
	if narrow <= 0 || wide <= narrow {
		t.Errorf("widths narrow=%v wide=%v", narrow, wide)
	}
	if g.Width("abc", 30) <= g.Width("abc", 15) {
		t.Error("width should grow with font size")
	}

	text := strings.Repeat("lorem ipsum ", 20)
	for _, line := range g.Wrap(text, 150, 12) {
		if w := g.Width(line, 12); w > 150 {
			t.Errorf("line %q is %vpx wide, limit 150", line, w)
		}
	}
}
