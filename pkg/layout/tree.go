package layout

import (
	"context"

	"github.com/matzehuels/panelmap/pkg/diagram"
)

// Tree is a layered tidy-tree layout.
//
// Ranks are tree depths. A rank is as deep as its largest node along the
// rank axis, and adjacent ranks are separated by RankSep. Along the other
// axis every subtree occupies a band wide enough for itself and its
// children; sibling bands are separated by NodeSep and each parent is
// centered on its children.
type Tree struct {
	Options Options
}

// Layout positions d. An empty diagram is returned unchanged.
func (t *Tree) Layout(ctx context.Context, d diagram.Diagram) (diagram.Diagram, error) {
	if err := ctx.Err(); err != nil {
		return diagram.Diagram{}, err
	}
	s, err := analyze(d)
	if err != nil {
		return diagram.Diagram{}, err
	}
	opts := t.Options.withDefaults()
	dir := opts.direction(d)
	if d.Empty() {
		out := d.Clone()
		out.Direction = dir
		return out, nil
	}

	tl := &tidy{d: d, s: s, opts: opts, vertical: dir == diagram.TopToBottom}
	tl.rankCenters()
	tl.extents = make(map[string]float64, len(d.Nodes))
	tl.extent(s.root)
	tl.centers = make(map[string]diagram.Point, len(d.Nodes))
	tl.place(s.root, 0)

	return place(d, s, dir, tl.centers)
}

type tidy struct {
	d        diagram.Diagram
	s        *structure
	opts     Options
	vertical bool

	ranks   []float64 // center of each rank along the rank axis
	extents map[string]float64
	centers map[string]diagram.Point
}

// along returns a node's size on the rank axis, across its size on the
// sibling axis.
func (t *tidy) along(id string) float64 {
	n := t.d.Nodes[t.s.index[id]]
	if t.vertical {
		return n.Height
	}
	return n.Width
}

func (t *tidy) across(id string) float64 {
	n := t.d.Nodes[t.s.index[id]]
	if t.vertical {
		return n.Width
	}
	return n.Height
}

func (t *tidy) rankCenters() {
	var widest []float64
	for _, n := range t.d.Nodes {
		depth := t.s.depth[n.ID]
		for len(widest) <= depth {
			widest = append(widest, 0)
		}
		widest[depth] = max(widest[depth], t.along(n.ID))
	}
	t.ranks = make([]float64, len(widest))
	offset := 0.0
	for i, w := range widest {
		t.ranks[i] = offset + w/2
		offset += w + t.opts.RankSep
	}
}

func (t *tidy) extent(id string) float64 {
	block := t.childBlock(id)
	e := max(t.across(id), block)
	t.extents[id] = e
	return e
}

// childBlock computes the extents of id's children and returns the size of
// their combined band.
func (t *tidy) childBlock(id string) float64 {
	kids := t.s.children[id]
	if len(kids) == 0 {
		return 0
	}
	total := t.opts.NodeSep * float64(len(kids)-1)
	for _, c := range kids {
		total += t.extent(c)
	}
	return total
}

// place centers id inside the band starting at start and lays out its
// children below it.
func (t *tidy) place(id string, start float64) {
	extent := t.extents[id]
	mid := start + extent/2
	t.centers[id] = t.point(t.ranks[t.s.depth[id]], mid)

	kids := t.s.children[id]
	if len(kids) == 0 {
		return
	}
	block := t.opts.NodeSep * float64(len(kids)-1)
	for _, c := range kids {
		block += t.extents[c]
	}
	cursor := mid - block/2
	for _, c := range kids {
		t.place(c, cursor)
		cursor += t.extents[c] + t.opts.NodeSep
	}
}

func (t *tidy) point(rank, cross float64) diagram.Point {
	if t.vertical {
		return diagram.Point{X: cross, Y: rank}
	}
	return diagram.Point{X: rank, Y: cross}
}
