package layout

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/errors"
)

// Engine names accepted by New.
const (
	EngineGraphviz = "graphviz"
	EngineTree     = "tree"
)

// Default spacing in diagram pixels.
const (
	DefaultRankSep = 300.0
	DefaultNodeSep = 150.0
)

// Engine positions the nodes of a diagram. Implementations never modify
// their input.
type Engine interface {
	Layout(ctx context.Context, d diagram.Diagram) (diagram.Diagram, error)
}

// Options configures an engine.
type Options struct {
	// Direction overrides the diagram's own direction when set.
	Direction diagram.Direction
	RankSep   float64
	NodeSep   float64
}

// DefaultOptions returns left-to-right spacing of 300px between ranks and
// 150px between siblings.
func DefaultOptions() Options {
	return Options{Direction: diagram.LeftToRight, RankSep: DefaultRankSep, NodeSep: DefaultNodeSep}
}

func (o Options) withDefaults() Options {
	if o.RankSep <= 0 {
		o.RankSep = DefaultRankSep
	}
	if o.NodeSep <= 0 {
		o.NodeSep = DefaultNodeSep
	}
	return o
}

func (o Options) direction(d diagram.Diagram) diagram.Direction {
	switch {
	case o.Direction.Valid():
		return o.Direction
	case d.Direction.Valid():
		return d.Direction
	default:
		return diagram.LeftToRight
	}
}

// New returns the named engine. The Graphviz engine falls back to the Tree
// engine, logging a warning, when dot cannot lay out a diagram.
func New(name string, opts Options, logger *log.Logger) (Engine, error) {
	switch name {
	case EngineGraphviz, "dot", "":
		return &Graphviz{Options: opts, Fallback: &Tree{Options: opts}, Logger: logger}, nil
	case EngineTree:
		return &Tree{Options: opts}, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown layout engine %q", name)
	}
}

// structure is the parsed tree shape of a validated diagram.
type structure struct {
	root     string
	children map[string][]string
	depth    map[string]int
	index    map[string]int
}

// analyze validates d and records each node's depth.
func analyze(d diagram.Diagram) (*structure, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	s := &structure{
		children: d.Children(),
		depth:    make(map[string]int, len(d.Nodes)),
		index:    d.Index(),
	}
	if len(d.Nodes) == 0 {
		return s, nil
	}
	s.root, _ = d.Root()
	queue := []string{s.root}
	s.depth[s.root] = 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range s.children[id] {
			s.depth[c] = s.depth[id] + 1
			queue = append(queue, c)
		}
	}
	return s, nil
}

// place writes a center position for every node into a copy of d, converting
// centers to top-left corners and setting depth and ports.
func place(d diagram.Diagram, s *structure, dir diagram.Direction, centers map[string]diagram.Point) (diagram.Diagram, error) {
	out := d.Clone()
	out.Direction = dir
	target, source := dir.Ports()
	for i := range out.Nodes {
		n := &out.Nodes[i]
		c, ok := centers[n.ID]
		if !ok {
			return diagram.Diagram{}, errors.New(errors.ErrCodeInternal, "no position for node %q", n.ID)
		}
		n.Position = diagram.Point{X: c.X - n.Width/2, Y: c.Y - n.Height/2}
		n.Depth = s.depth[n.ID]
		n.TargetPort, n.SourcePort = target, source
	}
	return out, nil
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
