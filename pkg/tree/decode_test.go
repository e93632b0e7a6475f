package tree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/panelmap/pkg/errors"
)

func TestDecodeBareNode(t *testing.T) {
	data := []byte(`{"id":"root","label":"App","children":[{"id":"a","title":"Login"},{"label":"No id"}]}`)

	root, shape, err := Decode(data, FormatJSON, NewCounter())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if shape != ShapeNode {
		t.Errorf("shape = %q, want %q", shape, ShapeNode)
	}
	if root.ID != "root" || root.Label != "App" {
		t.Errorf("root = %q/%q", root.ID, root.Label)
	}
	if got := root.Children[0].Label; got != "Login" {
		t.Errorf("title fallback = %q, want Login", got)
	}
	if got := root.Children[1].ID; got != "node_0" {
		t.Errorf("generated id = %q, want node_0", got)
	}
	if err := root.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDecodeDuplicateIDsAreReplaced(t *testing.T) {
	data := []byte(`{"id":"x","label":"R","children":[{"id":"x","label":"A"},{"id":"x","label":"B"}]}`)
	root, _, err := Decode(data, FormatJSON, NewCounter())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := root.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDecodeRootWrapperAssignsIDs(t *testing.T) {
	data := []byte(`{"root":{"label":"Panel","children":[{"label":"Screen","children":[{}]}]}}`)

	root, shape, err := Decode(data, FormatJSON, NewCounter())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if shape != ShapeRoot {
		t.Errorf("shape = %q, want %q", shape, ShapeRoot)
	}
	if root.ID != "node_0" {
		t.Errorf("root id = %q, want node_0", root.ID)
	}
	screen := root.Children[0]
	if screen.ID != "node_0_0_1" {
		t.Errorf("screen id = %q, want node_0_0_1", screen.ID)
	}
	if got := screen.Children[0].Label; got != "Untitled" {
		t.Errorf("missing label = %q, want Untitled", got)
	}
}

func TestDecodePanelWrapper(t *testing.T) {
	data := []byte(`{"panel":{"id":"p","title":"Billing","root":{"label":"Billing","children":[]}},"complexity":"Low"}`)
	root, shape, err := Decode(data, FormatJSON, NewRandomIDs())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if shape != ShapePanel || root.Label != "Billing" {
		t.Errorf("got shape %q label %q", shape, root.Label)
	}
	if !strings.HasPrefix(root.ID, "node_") {
		t.Errorf("root id = %q, want node_ prefix", root.ID)
	}
}

func TestDecodeLegacyScreens(t *testing.T) {
	data := []byte(`{
		"Panel": "Admin",
		"Screens": [
			{"ScreenName": "Users", "Description": "Manage users",
			 "Interactions": [{"Action": "Invite"}, {"Action": "Remove"}]},
			{"ScreenName": "Audit"}
		]
	}`)

	root, shape, err := Decode(data, FormatJSON, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if shape != ShapeScreens {
		t.Errorf("shape = %q, want %q", shape, ShapeScreens)
	}
	if root.ID != "root" || root.Label != "Admin" || len(root.Children) != 2 {
		t.Fatalf("root = %s", dump(root))
	}
	users := root.Children[0]
	if users.ID != "screen_0" || users.Label != "Users" {
		t.Errorf("screen = %q/%q", users.ID, users.Label)
	}
	desc := users.Children[0]
	if desc.ID != "screen_0_desc" || len(desc.Children) != 2 || desc.Children[1].ID != "screen_0_act_1" {
		t.Errorf("description = %s", dump(desc))
	}
	if len(root.Children[1].Children[0].Children) != 0 {
		t.Errorf("screen without interactions should have an empty description")
	}
}

func TestDecodeYAML(t *testing.T) {
	data := []byte("id: root\nlabel: App\nchildren:\n  - id: a\n    label: Home\n")
	root, _, err := Decode(data, FormatYAML, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if root.Label != "App" || len(root.Children) != 1 || root.Children[0].Label != "Home" {
		t.Errorf("root = %s", dump(root))
	}
}

func TestDecodeUnknownShapeIsPlaceholder(t *testing.T) {
	root, shape, err := Decode([]byte(`{"foo": 1}`), FormatJSON, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if shape != ShapeUnknown || root.ID != ErrorRootID || root.Label != ErrorRootLabel {
		t.Errorf("got %q %s", shape, dump(root))
	}
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	inputs := []string{`[1,2]`, `"text"`, `42`, `null`, `{not json`}
	for _, in := range inputs {
		_, _, err := Decode([]byte(in), FormatJSON, nil)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Decode(%s) error = %v, want INVALID_INPUT", in, err)
		}
	}
	if _, _, err := Decode([]byte(`{}`), "toml", nil); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.yml")
	if err := os.WriteFile(path, []byte("label: From file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	root, shape, err := ReadFile(path, NewCounter())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if shape != ShapeNode || root.Label != "From file" || root.ID != "node_0" {
		t.Errorf("got %q %s", shape, dump(root))
	}
	if _, _, err := ReadFile(filepath.Join(dir, "missing.json"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
