package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/export"
	pkgio "github.com/matzehuels/panelmap/pkg/io"
)

// =============================================================================
// Export Stage
// =============================================================================

// Export produces one document per requested format. It does not consult
// the cache; see Runner.Export. An empty diagram yields
// export.ErrEmptyDiagram and no documents.
func Export(ctx context.Context, d diagram.Diagram, opts Options) (map[string]export.Document, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, err
	}
	if d.Empty() {
		return nil, export.ErrEmptyDiagram
	}

	docs := make(map[string]export.Document, len(opts.Formats))
	for _, format := range opts.Formats {
		doc, err := ExportFormat(ctx, d, format, opts)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		docs[format] = doc
	}
	return docs, nil
}

// ExportFormat produces a single document. The "json" format is the
// diagram document itself.
func ExportFormat(ctx context.Context, d diagram.Diagram, format string, opts Options) (export.Document, error) {
	if err := ValidateFormat(format); err != nil {
		return export.Document{}, err
	}
	if format == FormatJSON {
		var buf bytes.Buffer
		if err := pkgio.WriteJSON(d, &buf); err != nil {
			return export.Document{}, err
		}
		b := d.Bounds()
		return export.Document{
			Format:   FormatJSON,
			Filename: export.Filename(opts.Filename, FormatJSON),
			Data:     buf.Bytes(),
			Width:    b.Width,
			Height:   b.Height,
		}, nil
	}
	return export.Render(ctx, d, format, opts.ExportOptions()...)
}
