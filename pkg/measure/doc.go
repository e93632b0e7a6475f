// Package measure estimates how much room a label needs without rendering it.
//
// Two separate measurements exist on purpose:
//
//   - [SizeEstimator] maps a label to a box before layout. [Heuristic] is
//     the fixed-width estimator used by the interactive diagram: about 9px
//     per character for width, 8.5px per character when counting wrapped
//     lines, 24px per line plus 64px of vertical padding.
//   - [TextMeasurer] wraps a label inside an already-sized box when a
//     document is exported. Implementations use real font metrics, so they
//     can disagree with the heuristic. Exporters only ever grow a box to fit
//     their own wrapping; they never shrink it.
//
// Both are deterministic: the same input always produces the same output.
package measure
