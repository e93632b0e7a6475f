package diagram

import (
	"github.com/matzehuels/panelmap/pkg/measure"
	"github.com/matzehuels/panelmap/pkg/tree"
)

// FlattenOption configures Flatten.
type FlattenOption func(*flattenConfig)

type flattenConfig struct {
	palette   []string
	rootColor string
	regular   measure.SizeEstimator
	root      measure.SizeEstimator
	direction Direction
	ids       tree.IDGenerator
}

// WithPalette overrides the branch palette. An empty palette is ignored.
func WithPalette(palette []string) FlattenOption {
	return func(c *flattenConfig) {
		if len(palette) > 0 {
			c.palette = palette
		}
	}
}

// WithRootColor overrides the root's fill and border color.
func WithRootColor(color string) FlattenOption {
	return func(c *flattenConfig) {
		if color != "" {
			c.rootColor = color
		}
	}
}

// WithEstimators overrides the size estimators for regular and root nodes.
// A nil estimator keeps the default.
func WithEstimators(regular, root measure.SizeEstimator) FlattenOption {
	return func(c *flattenConfig) {
		if regular != nil {
			c.regular = regular
		}
		if root != nil {
			c.root = root
		}
	}
}

// WithDirection sets the direction recorded on the diagram.
func WithDirection(d Direction) FlattenOption {
	return func(c *flattenConfig) {
		if d.Valid() {
			c.direction = d
		}
	}
}

// WithIDs sets the generator used for nodes without an id.
func WithIDs(ids tree.IDGenerator) FlattenOption {
	return func(c *flattenConfig) {
		if ids != nil {
			c.ids = ids
		}
	}
}

// Flatten walks root depth-first (pre-order) and produces one diagram node
// per tree node and one edge per parent/child pair. Nodes are sized by the
// estimators and positioned at the origin; a layout engine places them.
//
// Each child of the root starts a branch. The branch index selects the
// palette color and is inherited by every descendant. The root is drawn in
// the neutral RootColor unless WithRootColor says otherwise.
//
// A nil root yields an empty diagram.
func Flatten(root *tree.Node, opts ...FlattenOption) Diagram {
	cfg := flattenConfig{
		palette:   DefaultPalette,
		rootColor: RootColor,
		regular:   measure.DefaultEstimator,
		root:      measure.RootEstimator,
		direction: LeftToRight,
		ids:       tree.NewCounter(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := Diagram{Direction: cfg.direction, Nodes: []Node{}, Edges: []Edge{}}
	if root == nil {
		return d
	}
	f := &flattener{cfg: cfg, out: &d, seen: make(map[string]struct{})}
	f.visit(root, "", 0, 0)
	return d
}

type flattener struct {
	cfg  flattenConfig
	out  *Diagram
	seen map[string]struct{}
}

func (f *flattener) visit(n *tree.Node, parentID string, depth, branch int) {
	id := f.id(n.ID)
	label := tree.ResolveLabel(n)
	isRoot := depth == 0

	color := f.cfg.rootColor
	if !isRoot {
		color = BranchColor(f.cfg.palette, branch)
	}

	est := f.cfg.regular
	if isRoot {
		est = f.cfg.root
	}
	size := est.Estimate(label)

	long := IsLongContent(label)
	style := nodeStyle(isRoot, color, long, measure.MaxWidth)
	target, source := f.cfg.direction.Ports()

	f.out.Nodes = append(f.out.Nodes, Node{
		ID:          id,
		Label:       label,
		Width:       size.Width,
		Height:      size.Height,
		IsRoot:      isRoot,
		Depth:       depth,
		BranchIndex: branch,
		BranchColor: color,
		TextAlign:   style.TextAlign,
		TargetPort:  target,
		SourcePort:  source,
		Style:       style,
	})

	if !isRoot {
		f.out.Edges = append(f.out.Edges, Edge{
			ID:          EdgeID(parentID, id),
			Source:      parentID,
			Target:      id,
			Color:       color,
			StrokeWidth: EdgeStrokeWidth,
			Opacity:     EdgeOpacity,
		})
	}

	next := 0
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		childBranch := branch
		if isRoot {
			childBranch = next
		}
		next++
		f.visit(child, id, depth+1, childBranch)
	}
}

// id returns the node's own id, or a fresh one when it is empty or already
// taken in this diagram.
func (f *flattener) id(given string) string {
	id := given
	for {
		if id != "" {
			if _, dup := f.seen[id]; !dup {
				break
			}
		}
		id = f.cfg.ids.Next("node")
	}
	f.seen[id] = struct{}{}
	return id
}

// EdgeID is the id of the edge from source to target.
func EdgeID(source, target string) string { return source + "-" + target }
