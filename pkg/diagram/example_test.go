package diagram_test

import (
	"fmt"

	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/tree"
)

func ExampleFlatten() {
	root := tree.New("home", "Home",
		tree.New("settings", "Settings"),
		tree.New("profile", "Profile"),
	)

	d := diagram.Flatten(root)
	for _, n := range d.Nodes {
		fmt.Printf("%s %s %.0fx%.0f\n", n.ID, n.BranchColor, n.Width, n.Height)
	}
	for _, e := range d.Edges {
		fmt.Println(e.ID)
	}
	// Output:
	// home #0f172a 220x88
	// settings #3b82f6 200x88
	// profile #10b981 200x88
	// home-settings
	// home-profile
}
