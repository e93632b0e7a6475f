package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/layout"
	"github.com/matzehuels/panelmap/pkg/tree"
)

// =============================================================================
// Build Stage
// =============================================================================

// Build normalizes root, flattens it and lays the diagram out. It does not
// consult the cache; see Runner.Build.
func Build(ctx context.Context, root *tree.Node, opts Options) (diagram.Diagram, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return diagram.Diagram{}, err
	}
	if err := root.CheckShape(); err != nil {
		return diagram.Diagram{}, err
	}

	work := Prepare(root, opts)
	d := Flatten(work, opts)
	return Layout(ctx, d, opts)
}

// Prepare applies normalization unless opts.SkipNormalize is set. The input
// tree is never modified.
func Prepare(root *tree.Node, opts Options) *tree.Node {
	if root == nil || opts.SkipNormalize {
		return root
	}
	work := tree.Normalize(root)
	if opts.Logger != nil {
		opts.Logger.Debug("normalized tree",
			"original_nodes", root.Count(),
			"normalized_nodes", work.Count())
	}
	return work
}

// Flatten converts root into an unplaced diagram.
func Flatten(root *tree.Node, opts Options) diagram.Diagram {
	fo := []diagram.FlattenOption{
		diagram.WithPalette(opts.Palette),
		diagram.WithRootColor(opts.RootColor),
		diagram.WithDirection(opts.Direction),
	}
	if opts.IDs != nil {
		fo = append(fo, diagram.WithIDs(opts.IDs))
	}
	return diagram.Flatten(root, fo...)
}

// Layout positions d with the configured engine.
func Layout(ctx context.Context, d diagram.Diagram, opts Options) (diagram.Diagram, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return diagram.Diagram{}, err
	}
	engine, err := layout.New(opts.Engine, opts.LayoutOptions(), opts.Logger)
	if err != nil {
		return diagram.Diagram{}, err
	}
	out, err := engine.Layout(ctx, d)
	if err != nil {
		return diagram.Diagram{}, fmt.Errorf("%s layout: %w", opts.Engine, err)
	}
	return out, nil
}
