// Package tree holds the labeled hierarchy that every diagram starts from.
//
// # Overview
//
// A [Node] is an immutable value: id, display label and ordered children.
// Trees arrive from an upstream generator as JSON or YAML and are turned
// into [Node] values by [Decode] or [Resolve]. The resolver understands
// the shapes that generator has produced over time (a "root" wrapper, the
// legacy "Screens" panel format, or a bare node) and never fails on a
// well-formed object: unknown shapes become a placeholder tree.
//
// # Labels
//
// [ResolveLabel] extracts a display string from anything node-like, walking
// label → title → name and falling back to [FallbackLabel].
//
// # Normalization
//
// [Normalize] merges runs of sibling leaves into one numbered summary leaf
// so that long lists of atomic actions render as a single readable block:
//
//	Settings                      Settings
//	├── Enable dark mode    →     └── Settings:
//	└── Change password               1. Enable dark mode
//	                                  2. Change password
//
// Only homogeneous leaf runs merge. A parent with any non-leaf child is
// left as is and normalization simply recurses into its children.
// Normalize is idempotent and never mutates its input.
//
// # Identifiers
//
// Synthetic ids come from an [IDGenerator] scoped to a single decode or
// flatten pass ([NewCounter] or [NewRandomIDs]); there is no process-wide
// counter.
package tree
