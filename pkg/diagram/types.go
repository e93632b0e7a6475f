package diagram

import (
	"github.com/matzehuels/panelmap/pkg/errors"
)

// Direction is the flow of ranks across the page.
type Direction string

const (
	LeftToRight Direction = "LR"
	TopToBottom Direction = "TB"
)

// Valid reports whether d is a supported direction.
func (d Direction) Valid() bool { return d == LeftToRight || d == TopToBottom }

// Ports returns the sides where edges enter (target) and leave (source) a
// node for this direction.
func (d Direction) Ports() (target, source Port) {
	if d == TopToBottom {
		return PortTop, PortBottom
	}
	return PortLeft, PortRight
}

// Port is a side of a node box.
type Port string

const (
	PortLeft   Port = "left"
	PortRight  Port = "right"
	PortTop    Port = "top"
	PortBottom Port = "bottom"
)

// Align is horizontal text alignment inside a box.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// Point is a position in diagram pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is one box of the diagram. Position is the top-left corner.
type Node struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Position    Point   `json:"position"`
	IsRoot      bool    `json:"is_root,omitempty"`
	Depth       int     `json:"depth"`
	BranchIndex int     `json:"branch_index"`
	BranchColor string  `json:"branch_color"`
	TextAlign   Align   `json:"text_align"`
	TargetPort  Port    `json:"target_port,omitempty"`
	SourcePort  Port    `json:"source_port,omitempty"`
	Style       Style   `json:"style"`
}

// Center returns the center of the node's box.
func (n Node) Center() Point {
	return Point{X: n.Position.X + n.Width/2, Y: n.Position.Y + n.Height/2}
}

// Rect returns the node's box.
func (n Node) Rect() Rect {
	return Rect{X: n.Position.X, Y: n.Position.Y, Width: n.Width, Height: n.Height}
}

// Edge connects a parent (Source) to a child (Target).
type Edge struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"stroke_width"`
	Opacity     float64 `json:"opacity"`
	Animated    bool    `json:"animated,omitempty"`
}

// Diagram is the complete node/edge set for one tree.
type Diagram struct {
	Direction Direction `json:"direction"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
}

// Empty reports whether there is nothing to draw.
func (d Diagram) Empty() bool { return len(d.Nodes) == 0 }

// Index maps node ids to their position in Nodes.
func (d Diagram) Index() map[string]int {
	idx := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Node returns the node with the given id.
func (d Diagram) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Bounds returns the smallest rectangle holding every node box.
// An empty diagram has zero bounds.
func (d Diagram) Bounds() Rect {
	if len(d.Nodes) == 0 {
		return Rect{}
	}
	first := d.Nodes[0]
	minX, minY := first.Position.X, first.Position.Y
	maxX, maxY := minX+first.Width, minY+first.Height
	for _, n := range d.Nodes[1:] {
		minX = min(minX, n.Position.X)
		minY = min(minY, n.Position.Y)
		maxX = max(maxX, n.Position.X+n.Width)
		maxY = max(maxY, n.Position.Y+n.Height)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Clone returns a copy that shares nothing with d.
func (d Diagram) Clone() Diagram {
	out := Diagram{Direction: d.Direction}
	out.Nodes = append([]Node(nil), d.Nodes...)
	out.Edges = append([]Edge(nil), d.Edges...)
	return out
}

// Validate checks that node ids are unique, every edge references known
// nodes, and the edges form a single rooted tree (one fewer edge than
// nodes, each node targeted at most once, every node reachable from the
// root).
func (d Diagram) Validate() error {
	if err := d.CheckIDs(); err != nil {
		return err
	}
	idx := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		idx[n.ID] = struct{}{}
	}
	targeted := make(map[string]struct{}, len(d.Edges))
	for _, e := range d.Edges {
		if _, ok := idx[e.Source]; !ok {
			return errors.New(errors.ErrCodeInvalidDiagram, "edge %q references unknown source %q", e.ID, e.Source)
		}
		if _, ok := idx[e.Target]; !ok {
			return errors.New(errors.ErrCodeInvalidDiagram, "edge %q references unknown target %q", e.ID, e.Target)
		}
		if _, dup := targeted[e.Target]; dup {
			return errors.New(errors.ErrCodeInvalidDiagram, "node %q has more than one parent", e.Target)
		}
		targeted[e.Target] = struct{}{}
	}
	if len(d.Nodes) == 0 {
		return nil
	}
	if len(d.Edges) != len(d.Nodes)-1 {
		return errors.New(errors.ErrCodeInvalidDiagram, "%d edges for %d nodes, want %d", len(d.Edges), len(d.Nodes), len(d.Nodes)-1)
	}
	root, _ := d.Root()
	children := d.Children()
	reached := 0
	stack := []string{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reached++
		stack = append(stack, children[id]...)
	}
	if reached != len(d.Nodes) {
		return errors.New(errors.ErrCodeInvalidDiagram, "only %d of %d nodes reachable from root %q", reached, len(d.Nodes), root)
	}
	return nil
}

// CheckIDs reports an empty or duplicate node id. It is the only check a
// diagram must pass to be exported: edges are not inspected.
func (d Diagram) CheckIDs() error {
	seen := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidDiagram, "node without id")
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidDiagram, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	return nil
}

// Root returns the id of the first node that no edge targets.
func (d Diagram) Root() (string, bool) {
	targeted := make(map[string]struct{}, len(d.Edges))
	for _, e := range d.Edges {
		targeted[e.Target] = struct{}{}
	}
	for _, n := range d.Nodes {
		if _, ok := targeted[n.ID]; !ok {
			return n.ID, true
		}
	}
	return "", false
}

// Children maps each node id to its child ids in edge order.
func (d Diagram) Children() map[string][]string {
	out := make(map[string][]string, len(d.Nodes))
	for _, e := range d.Edges {
		out[e.Source] = append(out[e.Source], e.Target)
	}
	return out
}
