package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panelmap/pkg/export"
	pkgio "github.com/matzehuels/panelmap/pkg/io"
	"github.com/matzehuels/panelmap/pkg/pipeline"
)

// exportFlags are the flags shared by export and render.
type exportFlags struct {
	formats   string
	outDir    string
	filename  string
	padding   float64
	scale     float64
	edgeColor string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "comma-separated output formats: pdf, svg, png, json (default from config)")
	fs.StringVarP(&f.outDir, "output", "o", ".", "output directory")
	fs.StringVar(&f.filename, "name", "", "base file name for documents (default from config)")
	fs.Float64Var(&f.padding, "padding", -1, "margin around the diagram (default from config)")
	fs.Float64Var(&f.scale, "scale", 0, "PNG resolution multiplier")
	fs.StringVar(&f.edgeColor, "edge-color", "", "color for edges without one")
}

func (f *exportFlags) apply(opts *pipeline.Options) {
	if formats := parseFormats(f.formats); len(formats) > 0 {
		opts.Formats = formats
	}
	if f.filename != "" {
		opts.Filename = f.filename
	}
	if f.padding >= 0 {
		p := f.padding
		opts.Padding = &p
	}
	if f.scale > 0 {
		opts.Scale = f.scale
	}
	if f.edgeColor != "" {
		opts.EdgeColor = f.edgeColor
	}
}

// exportCommand creates the export command for laid-out diagrams.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags   exportFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export [diagram.layout.json]",
		Short: "Export a laid-out diagram as PDF, SVG or PNG",
		Long: `Export a diagram produced by 'layout' as one document per format.

PDF and SVG are drawn as vectors. PNG rasterizes the SVG and needs rsvg-convert
on the PATH. An empty diagram produces no documents.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			flags.apply(&opts)
			return c.runExport(cmd.Context(), args[0], flags.outDir, opts, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input, outDir string, opts pipeline.Options, noCache bool) error {
	d, err := pkgio.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	prog := newProgress(c.Logger)
	docs, cacheHit, err := runner.ExportWithCacheInfo(ctx, d, opts)
	if errors.Is(err, export.ErrEmptyDiagram) {
		c.out.warning("Diagram is empty, nothing to export")
		return nil
	}
	if err != nil {
		return err
	}
	prog.done("exported documents", "formats", len(docs), "cached", cacheHit)

	paths, err := writeDocuments(docs, outDir)
	if err != nil {
		return err
	}
	c.out.success("Exported %d document(s)", len(paths))
	for _, p := range paths {
		c.out.file(p)
	}
	c.out.stats(len(d.Nodes), len(d.Edges), cacheHit)
	return nil
}

// writeDocuments writes each document into dir under its own file name and
// returns the paths in format order.
func writeDocuments(docs map[string]export.Document, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	formats := make([]string, 0, len(docs))
	for f := range docs {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		doc := docs[f]
		path := filepath.Join(dir, doc.Filename)
		if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
