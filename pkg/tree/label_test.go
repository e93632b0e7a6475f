package tree

import "testing"

func TestResolveLabel(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"node label", New("a", "  Login  "), "Login"},
		{"node value", Node{Label: "Value"}, "Value"},
		{"blank node label", New("a", "   "), FallbackLabel},
		{"nil node", (*Node)(nil), FallbackLabel},
		{"map label", map[string]any{"label": "L", "title": "T"}, "L"},
		{"map title fallback", map[string]any{"label": " ", "title": "T", "name": "N"}, "T"},
		{"map name fallback", map[string]any{"name": "N"}, "N"},
		{"map non-string label", map[string]any{"label": 42, "name": "N"}, "N"},
		{"empty map", map[string]any{}, FallbackLabel},
		{"nil", nil, FallbackLabel},
		{"scalar", 12, FallbackLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLabel(tt.in); got != tt.want {
				t.Errorf("ResolveLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
