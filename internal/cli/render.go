package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panelmap/pkg/export"
	"github.com/matzehuels/panelmap/pkg/pipeline"
)

// renderCommand creates the render command: layout and export in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		build buildFlags
		out   exportFlags
	)

	cmd := &cobra.Command{
		Use:   "render [tree.json|tree.yaml]",
		Short: "Lay out a panel tree and export it",
		Long: `Render a panel tree straight to documents.

This is 'layout' followed by 'export'. Use -f json to also keep the diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			build.apply(&opts)
			out.apply(&opts)
			return c.runRender(cmd.Context(), args[0], out.outDir, opts, build.noCache)
		},
	}

	build.register(cmd)
	out.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, outDir string, opts pipeline.Options, noCache bool) error {
	root, err := pipeline.ParseFile(input, opts.IDs, c.Logger)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, root, opts)
	spinner.Stop()
	if errors.Is(err, export.ErrEmptyDiagram) {
		c.out.warning("Diagram is empty, nothing to export")
		return nil
	}
	if err != nil {
		c.out.error("Render failed")
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeDocuments(result.Documents, outDir)
	if err != nil {
		return err
	}
	c.out.success("Rendered %d document(s)", len(paths))
	for _, p := range paths {
		c.out.file(p)
	}
	c.out.stats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.BuildHit && result.CacheInfo.ExportHit)
	return nil
}
