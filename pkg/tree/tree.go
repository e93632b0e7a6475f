package tree

import (
	"github.com/matzehuels/panelmap/pkg/errors"
)

// Node is one entry of the labeled hierarchy.
//
// Nodes are treated as immutable once built: every transformation in this
// module returns a new tree instead of editing an existing one, so a
// subtree may be shared freely between trees.
type Node struct {
	ID       string  `json:"id" yaml:"id"`
	Label    string  `json:"label" yaml:"label"`
	Children []*Node `json:"children" yaml:"children"`
}

// New returns a node with the given children.
func New(id, label string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{ID: id, Label: label, Children: children}
}

// IsLeaf reports whether n has no children. A nil children slice counts as empty.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{ID: n.ID, Label: n.Label, Children: make([]*Node, 0, len(n.Children))}
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		out.Children = append(out.Children, c.Clone())
	}
	return out
}

// Walk visits n and its descendants depth-first in pre-order. The visit
// function receives each node with its depth (root = 0); returning false
// skips that node's children.
func (n *Node) Walk(visit func(node *Node, depth int) bool) {
	if n == nil {
		return
	}
	n.walk(visit, 0)
}

func (n *Node) walk(visit func(*Node, int) bool, depth int) {
	if !visit(n, depth) {
		return
	}
	for _, c := range n.Children {
		if c != nil {
			c.walk(visit, depth+1)
		}
	}
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Depth returns the number of levels below n (a single node has depth 0).
func (n *Node) Depth() int {
	deepest := 0
	n.Walk(func(_ *Node, d int) bool {
		deepest = max(deepest, d)
		return true
	})
	return deepest
}

// Validate checks the tree invariants: ids are non-empty and unique, and
// no node is reachable twice (which would mean a cycle or a shared child).
func (n *Node) Validate() error {
	if n == nil {
		return errors.New(errors.ErrCodeInvalidTree, "tree is empty")
	}
	ids := make(map[string]struct{})
	seen := make(map[*Node]struct{})
	return n.validate(ids, seen)
}

// CheckShape reports a node reachable more than once. Unlike Validate it
// accepts missing and duplicate ids, which Flatten replaces.
func (n *Node) CheckShape() error {
	if n == nil {
		return nil
	}
	return n.validate(nil, make(map[*Node]struct{}))
}

func (n *Node) validate(ids map[string]struct{}, seen map[*Node]struct{}) error {
	if _, ok := seen[n]; ok {
		return errors.New(errors.ErrCodeInvalidTree, "node %q is reachable more than once", n.ID)
	}
	seen[n] = struct{}{}
	if ids == nil {
		for _, c := range n.Children {
			if c == nil {
				continue
			}
			if err := c.validate(nil, seen); err != nil {
				return err
			}
		}
		return nil
	}
	if n.ID == "" {
		return errors.New(errors.ErrCodeInvalidTree, "node with label %q has no id", n.Label)
	}
	if _, ok := ids[n.ID]; ok {
		return errors.New(errors.ErrCodeInvalidTree, "duplicate node id %q", n.ID)
	}
	ids[n.ID] = struct{}{}
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if err := c.validate(ids, seen); err != nil {
			return err
		}
	}
	return nil
}
