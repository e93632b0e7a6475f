package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/panelmap/pkg/pipeline"
	"github.com/matzehuels/panelmap/pkg/tree"
)

// normalizeCommand creates the normalize command.
func (c *CLI) normalizeCommand() *cobra.Command {
	var (
		output    string
		format    string
		randomIDs bool
	)

	cmd := &cobra.Command{
		Use:   "normalize [tree.json|tree.yaml]",
		Short: "Merge sibling leaves of a panel tree",
		Long: `Normalize a panel tree: every group of sibling leaves under a parent becomes
one node listing the leaves as numbered lines.

The tree is written to stdout, or to --output with the format picked from the
file extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := tree.IDGenerator(tree.NewCounter())
			if randomIDs {
				ids = tree.NewRandomIDs()
			}
			root, err := pipeline.ParseFile(args[0], ids, c.Logger)
			if err != nil {
				return err
			}
			normalized := tree.Normalize(root)
			c.Logger.Debug("normalized tree", "before", root.Count(), "after", normalized.Count())

			if output == "" {
				return writeTree(cmd.OutOrStdout(), normalized, format)
			}
			if format == "" {
				format = tree.FormatFromPath(output)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()
			if err := writeTree(f, normalized, format); err != nil {
				return err
			}
			c.out.success("Normalized %d nodes into %d", root.Count(), normalized.Count())
			c.out.file(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "output format: json, yaml (default: from --output, else json)")
	cmd.Flags().BoolVar(&randomIDs, "random-ids", false, "generate random ids for nodes that have none")

	return cmd
}

// writeTree encodes root as indented JSON or YAML.
func writeTree(w io.Writer, root *tree.Node, format string) error {
	switch format {
	case tree.FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case tree.FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(root)
	default:
		return fmt.Errorf("unsupported tree format %q", format)
	}
}
