package tree

import "strings"

// FallbackLabel is shown for nodes that carry no usable text.
const FallbackLabel = "Unnamed Interaction"

// ResolveLabel returns a non-empty display string for any node-like value.
//
// The first non-blank string among the label, title and name fields wins
// and is returned trimmed. Maps are inspected by key; *Node and Node use
// their Label. Anything else, including nil, yields [FallbackLabel].
func ResolveLabel(v any) string {
	switch n := v.(type) {
	case *Node:
		if n != nil {
			return firstNonBlank(n.Label)
		}
	case Node:
		return firstNonBlank(n.Label)
	case map[string]any:
		return firstNonBlank(stringField(n, "label"), stringField(n, "title"), stringField(n, "name"))
	}
	return FallbackLabel
}

func firstNonBlank(candidates ...string) string {
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return FallbackLabel
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
