package tree

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/panelmap/pkg/errors"
)

// Placeholder ids and labels used when input cannot be interpreted.
const (
	ErrorRootID    = "root-error"
	ErrorRootLabel = "Error Parsing Map"
	untitledLabel  = "Untitled"
	panelRootLabel = "Panel"
)

// Format names accepted by [Decode].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Shape describes which input layout [Resolve] recognised.
type Shape string

const (
	ShapeRoot    Shape = "root"    // {"root": {...}} with ids generated on the fly
	ShapePanel   Shape = "panel"   // {"panel": {"root": {...}}}
	ShapeScreens Shape = "screens" // legacy {"Panel": ..., "Screens": [...]}
	ShapeNode    Shape = "node"    // a bare {id, label, children} object
	ShapeUnknown Shape = "unknown" // placeholder tree
)

// Decode parses data in the given format and resolves it into a tree.
// Only a non-object document is an error; see [Resolve].
func Decode(data []byte, format string, ids IDGenerator) (*Node, Shape, error) {
	var raw any
	switch strings.ToLower(format) {
	case FormatJSON, "":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json tree")
		}
	case FormatYAML, "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml tree")
		}
	default:
		return nil, "", errors.New(errors.ErrCodeInvalidFormat, "unsupported tree format %q", format)
	}
	return Resolve(raw, ids)
}

// ReadFile decodes a tree file, picking the format from its extension.
func ReadFile(path string, ids IDGenerator) (*Node, Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data, FormatFromPath(path), ids)
}

// FormatFromPath maps a file extension to a Decode format. Unknown
// extensions are treated as JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Resolve turns a loosely typed document into a tree.
//
// Recognised shapes, in order: a "root" wrapper (all ids regenerated), a
// "panel" wrapper around a root, the legacy "Screens" panel layout, and a
// bare node object. Any other object resolves to the placeholder tree
// {id: "root-error", label: "Error Parsing Map"} with [ShapeUnknown].
// Input that is not an object at all is rejected with INVALID_INPUT.
//
// Missing children are treated as none. Missing or duplicate ids on bare
// nodes are replaced with ids from ids, so the result always validates.
func Resolve(raw any, ids IDGenerator) (*Node, Shape, error) {
	if ids == nil {
		ids = NewCounter()
	}
	m, ok := asMap(raw)
	if !ok {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "tree input must be an object, got %T", raw)
	}

	if root, ok := asMap(m["root"]); ok {
		return assignIDs(root, "node", ids), ShapeRoot, nil
	}
	if panel, ok := asMap(m["panel"]); ok {
		if root, ok := asMap(panel["root"]); ok {
			return assignIDs(root, "node", ids), ShapePanel, nil
		}
	}
	if screens, ok := m["Screens"].([]any); ok {
		return fromScreens(m, screens), ShapeScreens, nil
	}
	if looksLikeNode(m) {
		seen := make(map[string]struct{})
		return fromNode(m, ids, seen), ShapeNode, nil
	}
	return New(ErrorRootID, ErrorRootLabel), ShapeUnknown, nil
}

// assignIDs copies a raw subtree giving every node a fresh id derived from
// its parent's: root "node_x", children "node_x_0_y", and so on.
func assignIDs(m map[string]any, prefix string, ids IDGenerator) *Node {
	id := ids.Next(prefix)
	label := stringField(m, "label")
	if strings.TrimSpace(label) == "" {
		label = untitledLabel
	}
	n := New(id, label)
	for i, c := range children(m) {
		n.Children = append(n.Children, assignIDs(c, fmt.Sprintf("%s_%d", id, i), ids))
	}
	return n
}

func fromNode(m map[string]any, ids IDGenerator, seen map[string]struct{}) *Node {
	id := strings.TrimSpace(scalarString(m["id"]))
	if _, dup := seen[id]; dup || id == "" {
		for {
			id = ids.Next("node")
			if _, dup := seen[id]; !dup {
				break
			}
		}
	}
	seen[id] = struct{}{}

	n := New(id, ResolveLabel(m))
	for _, c := range children(m) {
		n.Children = append(n.Children, fromNode(c, ids, seen))
	}
	return n
}

// fromScreens converts the legacy panel layout: each screen becomes a
// branch holding its description, and the description holds one leaf per
// interaction.
func fromScreens(m map[string]any, screens []any) *Node {
	label := stringField(m, "Panel")
	if label == "" {
		label = panelRootLabel
	}
	root := New("root", label)
	for i, s := range screens {
		screen, _ := asMap(s)
		desc := New(fmt.Sprintf("screen_%d_desc", i), stringField(screen, "Description"))
		acts, _ := screen["Interactions"].([]any)
		for j, a := range acts {
			act, _ := asMap(a)
			desc.Children = append(desc.Children, New(fmt.Sprintf("screen_%d_act_%d", i, j), stringField(act, "Action")))
		}
		root.Children = append(root.Children, New(fmt.Sprintf("screen_%d", i), stringField(screen, "ScreenName"), desc))
	}
	return root
}

func looksLikeNode(m map[string]any) bool {
	for _, key := range []string{"id", "label", "title", "name", "children"} {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

func children(m map[string]any) []map[string]any {
	list, _ := m["children"].([]any)
	out := make([]map[string]any, 0, len(list))
	for _, c := range list {
		if cm, ok := asMap(c); ok {
			out = append(out, cm)
		}
	}
	return out
}

// asMap accepts both JSON objects and YAML mappings with non-string keys.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64, int, int64, uint64, bool:
		return fmt.Sprint(s)
	}
	return ""
}
