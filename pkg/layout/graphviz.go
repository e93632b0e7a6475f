package layout

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/errors"
)

// plainFormat is Graphviz's line-oriented output of computed positions.
const plainFormat graphviz.Format = "plain"

// Graphviz lays out diagrams with the dot algorithm. A fresh Graphviz
// instance is created per call, so one Graphviz value may be shared.
type Graphviz struct {
	Options Options

	// Fallback, when set, is used if dot fails. Invalid diagrams are never
	// retried.
	Fallback Engine
	Logger   *log.Logger
}

// Layout positions d with dot.
func (g *Graphviz) Layout(ctx context.Context, d diagram.Diagram) (diagram.Diagram, error) {
	if err := ctx.Err(); err != nil {
		return diagram.Diagram{}, err
	}
	s, err := analyze(d)
	if err != nil {
		return diagram.Diagram{}, err
	}
	opts := g.Options.withDefaults()
	dir := opts.direction(d)
	if d.Empty() {
		out := d.Clone()
		out.Direction = dir
		return out, nil
	}

	centers, err := runDot(ctx, ToDOT(d, dir, opts))
	if err == nil {
		byID := make(map[string]diagram.Point, len(centers))
		for i, n := range d.Nodes {
			if c, ok := centers[fmt.Sprintf("n%d", i)]; ok {
				byID[n.ID] = c
			}
		}
		var out diagram.Diagram
		if out, err = place(d, s, dir, byID); err == nil {
			return out, nil
		}
	}

	if g.Fallback == nil {
		return diagram.Diagram{}, errors.Wrap(errors.ErrCodeInternal, err, "graphviz layout")
	}
	g.logger().Warn("graphviz layout failed, using tree layout", "error", err, "nodes", len(d.Nodes))
	return g.Fallback.Layout(ctx, d)
}

func (g *Graphviz) logger() *log.Logger {
	if g.Logger == nil {
		return discardLogger()
	}
	return g.Logger
}

func runDot(ctx context.Context, dot string) (map[string]diagram.Point, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, plainFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return parsePlain(buf.Bytes())
}
