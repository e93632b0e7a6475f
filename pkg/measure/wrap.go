package measure

import (
	"strings"
)

// TextMeasurer wraps text to fit a given width at a given font size.
type TextMeasurer interface {
	Wrap(text string, maxWidth, fontSize float64) []string
}

// WidthFunc returns the rendered width of s.
type WidthFunc func(s string) float64

// WrapWords greedily wraps text so that no line is wider than maxWidth
// according to width. Explicit newlines always break; a single word wider
// than maxWidth is split between characters. An empty text yields no lines.
func WrapWords(text string, maxWidth float64, width WidthFunc) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		out = append(out, wrapParagraph(para, maxWidth, width)...)
	}
	return out
}

func wrapParagraph(para string, maxWidth float64, width WidthFunc) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if width(candidate) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		if width(w) <= maxWidth {
			line = w
			continue
		}
		pieces := breakWord(w, maxWidth, width)
		lines = append(lines, pieces[:len(pieces)-1]...)
		line = pieces[len(pieces)-1]
	}
	return append(lines, line)
}

// breakWord splits a word that does not fit on one line. Every piece holds
// at least one character so the loop always makes progress.
func breakWord(w string, maxWidth float64, width WidthFunc) []string {
	var pieces []string
	current := ""
	for _, r := range w {
		next := current + string(r)
		if current != "" && width(next) > maxWidth {
			pieces = append(pieces, current)
			next = string(r)
		}
		current = next
	}
	return append(pieces, current)
}
