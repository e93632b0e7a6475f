package tree_test

import (
	"fmt"

	"github.com/matzehuels/panelmap/pkg/tree"
)

func ExampleNormalize() {
	root := tree.New("settings", "Settings",
		tree.New("dark", "Enable dark mode"),
		tree.New("pw", "Change password"),
	)

	n := tree.Normalize(root)
	fmt.Println(n.Children[0].ID)
	fmt.Println(n.Children[0].Label)
	// Output:
	// settings_spec
	// Settings:
	// 1. Enable dark mode
	// 2. Change password
}

func ExampleResolveLabel() {
	fmt.Println(tree.ResolveLabel(map[string]any{"title": "Checkout"}))
	fmt.Println(tree.ResolveLabel(nil))
	// Output:
	// Checkout
	// Unnamed Interaction
}
