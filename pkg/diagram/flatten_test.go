package diagram

import (
	"testing"

	"github.com/matzehuels/panelmap/pkg/measure"
	"github.com/matzehuels/panelmap/pkg/tree"
)

func sampleTree() *tree.Node {
	return tree.New("root", "Home",
		tree.New("a", "Settings",
			tree.New("a1", "Privacy"),
			tree.New("a2", "Notifications",
				tree.New("a2x", "Email digest"),
			),
		),
		tree.New("b", "Profile"),
	)
}

func TestFlattenPreOrder(t *testing.T) {
	d := Flatten(sampleTree())

	var ids []string
	for _, n := range d.Nodes {
		ids = append(ids, n.ID)
	}
	want := []string{"root", "a", "a1", "a2", "a2x", "b"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
	if len(d.Edges) != len(d.Nodes)-1 {
		t.Errorf("edges = %d, want %d", len(d.Edges), len(d.Nodes)-1)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFlattenBranchColors(t *testing.T) {
	d := Flatten(sampleTree())

	tests := []struct {
		id     string
		branch int
		color  string
		depth  int
	}{
		{"root", 0, RootColor, 0},
		{"a", 0, DefaultPalette[0], 1},
		{"a1", 0, DefaultPalette[0], 2},
		{"a2x", 0, DefaultPalette[0], 3},
		{"b", 1, DefaultPalette[1], 1},
	}
	for _, tt := range tests {
		n, ok := d.Node(tt.id)
		if !ok {
			t.Fatalf("node %q missing", tt.id)
		}
		if n.BranchIndex != tt.branch || n.BranchColor != tt.color || n.Depth != tt.depth {
			t.Errorf("%s: branch=%d color=%s depth=%d, want %d %s %d",
				tt.id, n.BranchIndex, n.BranchColor, n.Depth, tt.branch, tt.color, tt.depth)
		}
	}
}

func TestFlattenBranchColorsSkipNilChildren(t *testing.T) {
	root := tree.New("root", "Home", nil, tree.New("a", "Settings"), nil, tree.New("b", "Profile"))
	d := Flatten(root)

	for i, id := range []string{"a", "b"} {
		n, ok := d.Node(id)
		if !ok {
			t.Fatalf("node %q missing", id)
		}
		if n.BranchIndex != i || n.BranchColor != DefaultPalette[i] {
			t.Errorf("%s: branch=%d color=%s, want %d %s", id, n.BranchIndex, n.BranchColor, i, DefaultPalette[i])
		}
	}
}

func TestFlattenPaletteWraps(t *testing.T) {
	root := tree.New("r", "Root")
	for i := 0; i < 10; i++ {
		root.Children = append(root.Children, tree.New(string(rune('a'+i)), "x"))
	}

	d := Flatten(root, WithPalette([]string{"#111111", "#222222", "#333333"}))

	n, _ := d.Node("j") // index 9
	if n.BranchColor != "#111111" {
		t.Errorf("color = %s, want #111111", n.BranchColor)
	}
	n, _ = d.Node("e") // index 4
	if n.BranchColor != "#222222" {
		t.Errorf("color = %s, want #222222", n.BranchColor)
	}
}

func TestFlattenEdges(t *testing.T) {
	d := Flatten(sampleTree())

	for _, e := range d.Edges {
		target, ok := d.Node(e.Target)
		if !ok {
			t.Fatalf("edge %s: unknown target", e.ID)
		}
		if e.ID != e.Source+"-"+e.Target {
			t.Errorf("edge id = %q", e.ID)
		}
		if e.Color != target.BranchColor {
			t.Errorf("edge %s color = %s, want %s", e.ID, e.Color, target.BranchColor)
		}
		if e.StrokeWidth != 3 || e.Opacity != 0.8 || e.Animated {
			t.Errorf("edge %s: width=%v opacity=%v animated=%v", e.ID, e.StrokeWidth, e.Opacity, e.Animated)
		}
	}
	e := d.Edges[2]
	if e.Source != "a" || e.Target != "a2" {
		t.Errorf("edges[2] = %s->%s, want a->a2", e.Source, e.Target)
	}
}

func TestFlattenRootStyling(t *testing.T) {
	d := Flatten(sampleTree())
	root := d.Nodes[0]

	if !root.IsRoot {
		t.Fatal("first node is not root")
	}
	if root.Style.Background != RootColor || root.Style.Color != RootTextColor {
		t.Errorf("root colors = %s/%s", root.Style.Background, root.Style.Color)
	}
	if root.Style.FontSize != RootFontSize || root.Style.FontWeight != 700 {
		t.Errorf("root font = %v/%d", root.Style.FontSize, root.Style.FontWeight)
	}
	if root.Width != measure.RootMinWidth {
		t.Errorf("root width = %v, want %v", root.Width, measure.RootMinWidth)
	}
	for _, n := range d.Nodes[1:] {
		if n.IsRoot {
			t.Errorf("%s marked root", n.ID)
		}
		if n.Style.ResolvedBorderColor() != n.BranchColor {
			t.Errorf("%s border = %q, want %q", n.ID, n.Style.ResolvedBorderColor(), n.BranchColor)
		}
	}
}

func TestFlattenRootColorOverride(t *testing.T) {
	d := Flatten(sampleTree(), WithRootColor("#7c3aed"))
	root := d.Nodes[0]
	if root.BranchColor != "#7c3aed" || root.Style.Background != "#7c3aed" {
		t.Errorf("root colors = %s/%s", root.BranchColor, root.Style.Background)
	}
	if root.Style.ResolvedBorderColor() != "#7c3aed" {
		t.Errorf("root border = %q", root.Style.ResolvedBorderColor())
	}
	if d.Nodes[1].BranchColor != DefaultPalette[0] {
		t.Errorf("branch color changed: %s", d.Nodes[1].BranchColor)
	}
}

func TestFlattenSizesAndPlaceholders(t *testing.T) {
	label := "A label that is long enough to need wrapping inside the box"
	d := Flatten(tree.New("r", "Root", tree.New("c", label)))

	c, _ := d.Node("c")
	want := measure.DefaultEstimator.Estimate(label)
	if c.Width != want.Width || c.Height != want.Height {
		t.Errorf("size = %vx%v, want %vx%v", c.Width, c.Height, want.Width, want.Height)
	}
	if c.Position != (Point{}) {
		t.Errorf("position = %+v, want origin", c.Position)
	}
	if c.TextAlign != AlignLeft || c.Style.WhiteSpace != "pre-wrap" {
		t.Errorf("align = %s whitespace = %s", c.TextAlign, c.Style.WhiteSpace)
	}
}

func TestFlattenPorts(t *testing.T) {
	lr := Flatten(sampleTree())
	if n := lr.Nodes[1]; n.TargetPort != PortLeft || n.SourcePort != PortRight {
		t.Errorf("LR ports = %s/%s", n.TargetPort, n.SourcePort)
	}
	tb := Flatten(sampleTree(), WithDirection(TopToBottom))
	if tb.Direction != TopToBottom {
		t.Errorf("direction = %s", tb.Direction)
	}
	if n := tb.Nodes[1]; n.TargetPort != PortTop || n.SourcePort != PortBottom {
		t.Errorf("TB ports = %s/%s", n.TargetPort, n.SourcePort)
	}
}

func TestFlattenAssignsMissingIDs(t *testing.T) {
	root := &tree.Node{Label: "Root", Children: []*tree.Node{
		{Label: "One"},
		{ID: "dup", Label: "Two"},
		{ID: "dup", Label: "Three"},
		nil,
	}}

	d := Flatten(root)

	if len(d.Nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(d.Nodes))
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if d.Nodes[0].ID != "node_0" || d.Nodes[1].ID != "node_1" {
		t.Errorf("generated ids = %s %s", d.Nodes[0].ID, d.Nodes[1].ID)
	}
	if d.Nodes[2].ID != "dup" || d.Nodes[3].ID == "dup" {
		t.Errorf("dedup ids = %s %s", d.Nodes[2].ID, d.Nodes[3].ID)
	}
}

func TestFlattenResolvesLabels(t *testing.T) {
	d := Flatten(tree.New("r", "  Root  ", tree.New("c", "   ")))

	if d.Nodes[0].Label != "Root" {
		t.Errorf("root label = %q", d.Nodes[0].Label)
	}
	if d.Nodes[1].Label != tree.FallbackLabel {
		t.Errorf("child label = %q, want fallback", d.Nodes[1].Label)
	}
}

func TestFlattenNil(t *testing.T) {
	d := Flatten(nil)
	if !d.Empty() || d.Nodes == nil || d.Edges == nil {
		t.Errorf("Flatten(nil) = %+v", d)
	}
}

func TestFlattenDoesNotMutate(t *testing.T) {
	root := sampleTree()
	before := root.Clone()

	Flatten(root)

	if root.Count() != before.Count() || root.Children[0].Label != before.Children[0].Label {
		t.Error("input tree changed")
	}
}
