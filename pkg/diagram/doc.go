// Package diagram holds the positioned node/edge representation of a tree.
//
// # Overview
//
// [Flatten] walks a (normalized) [tree.Node] depth-first and produces a
// [Diagram]: one [Node] per tree node and one [Edge] per parent→child
// link. Nodes get their estimated size and styling immediately; positions
// stay at (0,0) until a layout engine fills them in.
//
// # Branch colors
//
// Each direct child of the root starts a branch. The branch index selects a
// color from the palette (wrapping around) and every descendant inherits
// it, for both its border and its incoming edge. The root itself is drawn
// in a neutral dark color outside the palette.
//
// # Alignment
//
// Labels that read like lists or paragraphs are left-aligned with
// whitespace preserved; see [IsLongContent]. Everything else is centered.
//
// # Serialization
//
// Diagrams carry JSON tags; package io reads and writes them as the hand-off
// document between the layout and export stages.
//
// [tree.Node]: github.com/matzehuels/panelmap/pkg/tree.Node
package diagram
