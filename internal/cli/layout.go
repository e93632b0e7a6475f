package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panelmap/pkg/diagram"
	pkgio "github.com/matzehuels/panelmap/pkg/io"
	"github.com/matzehuels/panelmap/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  buildFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json|tree.yaml]",
		Short: "Lay out a panel tree as a diagram",
		Long: `Lay out a panel tree as a diagram.

The tree is normalized, flattened into styled nodes and edges, and placed by
the layout engine. The result is a diagram JSON file that 'export' turns into
documents.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(&opts)
			return c.runLayout(cmd.Context(), args[0], output, opts, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the tree, computes the layout, and writes the diagram.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	root, err := pipeline.ParseFile(input, opts.IDs, c.Logger)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Laying out %d nodes...", root.Count()))
	spinner.Start()
	prog := newProgress(c.Logger)

	d, cacheHit, err := runner.BuildWithCacheInfo(ctx, root, opts)
	spinner.Stop()
	if err != nil {
		c.out.error("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("laid out diagram", "nodes", len(d.Nodes), "cached", cacheHit)

	if output == "" {
		output = layoutPath(input)
	}
	if err := pkgio.ExportJSON(d, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	c.out.success("Layout complete")
	c.out.file(output)
	c.out.stats(len(d.Nodes), len(d.Edges), cacheHit)
	c.out.nextStep("Export", appName+" export "+output)
	return nil
}

// layoutPath derives "<base>.layout.json" from a tree file name.
func layoutPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

// directionFlag accepts a direction in any case.
func directionFlag(s string) diagram.Direction {
	return diagram.Direction(strings.ToUpper(strings.TrimSpace(s)))
}
