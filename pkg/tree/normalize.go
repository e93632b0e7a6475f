package tree

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// MergedSuffix is appended to a parent's id to form the id of its merged leaf.
const MergedSuffix = "_spec"

var newlineRuns = regexp.MustCompile(`\n+`)

// Normalize returns a copy of root in which every run of two or more
// sibling leaves is replaced by a single summary leaf.
//
// The summary leaf has id "{parent.ID}_spec" and a label made of the
// parent's resolved label followed by one numbered line per original leaf:
//
//	Settings:
//	1. Enable dark mode
//	2. Change password
//
// A parent whose children are not all leaves is not merged at all; its
// children are normalized individually. A single leaf child is kept as is.
// Normalize is idempotent and does not modify root.
func Normalize(root *Node) *Node {
	if root == nil {
		return nil
	}
	return normalizeNode(root)
}

func normalizeNode(n *Node) *Node {
	children := compact(n.Children)

	if len(children) > 1 && allLeaves(children) {
		return &Node{
			ID:       n.ID,
			Label:    n.Label,
			Children: []*Node{mergeLeaves(n, children)},
		}
	}

	out := &Node{ID: n.ID, Label: n.Label, Children: make([]*Node, 0, len(children))}
	for _, c := range children {
		out.Children = append(out.Children, normalizeNode(c))
	}
	return out
}

func mergeLeaves(parent *Node, leaves []*Node) *Node {
	var b strings.Builder
	b.WriteString(ResolveLabel(parent))
	b.WriteString(":\n")
	for i, leaf := range leaves {
		text := strings.TrimSpace(newlineRuns.ReplaceAllString(ResolveLabel(leaf), " "))
		fmt.Fprintf(&b, "%d. %s\n", i+1, text)
	}
	return &Node{
		ID:       parent.ID + MergedSuffix,
		Label:    strings.TrimRightFunc(b.String(), unicode.IsSpace),
		Children: []*Node{},
	}
}

func allLeaves(nodes []*Node) bool {
	for _, n := range nodes {
		if !n.IsLeaf() {
			return false
		}
	}
	return true
}

// compact drops nil entries so malformed input never panics downstream.
func compact(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
