// Package export draws laid-out diagrams into standalone vector documents.
//
// Export happens in two steps. [Plan] turns a diagram into a backend-neutral
// [Page]: the page size (the diagram's bounding box plus padding), one
// cubic curve per edge, and one rounded box per node with its text already
// wrapped by a [measure.TextMeasurer]. A sink then draws the page:
//
//   - [RenderPDF] uses github.com/go-pdf/fpdf with the Helvetica core font.
//   - [RenderSVG] draws with github.com/ajstarks/svgo and measures text with Go Regular.
//   - [RenderPNG] converts the SVG with rsvg-convert.
//
// Each sink wraps text with its own font metrics, so exported boxes may be
// taller than the estimated boxes used for layout. Boxes only ever grow:
// the drawn height is the larger of the layout height and the wrapped text
// block plus padding. The diagram itself is never modified.
//
// Exporting a diagram without nodes draws nothing and returns
// [ErrEmptyDiagram], which callers treat as a no-op.
package export
