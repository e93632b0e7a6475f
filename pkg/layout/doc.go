// Package layout assigns positions to flattened diagrams.
//
// An [Engine] takes a diagram whose nodes carry estimated sizes and returns
// a copy with every node placed. Ranks follow tree depth: in a left-to-right
// diagram each generation sits in its own column, in a top-to-bottom diagram
// in its own row. Positions are top-left corners in diagram pixels.
//
// Two engines are provided:
//
//   - [Graphviz] runs Graphviz dot in-process (github.com/goccy/go-graphviz)
//     and reads node centers back from the "plain" output format.
//   - [Tree] is a pure-Go layered tidy-tree layout. It needs no Graphviz and
//     is what [Graphviz] falls back to when dot fails.
//
// Both honor [Options]: RankSep is the gap between adjacent ranks and
// NodeSep the gap between neighbors within a rank.
//
//	eng, err := layout.New(layout.EngineGraphviz, layout.DefaultOptions(), logger)
//	placed, err := eng.Layout(ctx, d)
package layout
