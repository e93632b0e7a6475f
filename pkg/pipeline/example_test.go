package pipeline_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/panelmap/pkg/layout"
	"github.com/matzehuels/panelmap/pkg/pipeline"
)

func Example() {
	input := []byte(`{
	  "id": "home", "label": "Home",
	  "children": [
	    {"id": "settings", "label": "Settings", "children": [
	      {"id": "pw", "label": "Change password"},
	      {"id": "del", "label": "Delete account"}
	    ]}
	  ]
	}`)

	root, err := pipeline.Parse(input, "json", nil, nil)
	if err != nil {
		panic(err)
	}

	runner := pipeline.NewRunner(nil, nil, nil)
	d, err := runner.Build(context.Background(), root, pipeline.Options{Engine: layout.EngineTree})
	if err != nil {
		panic(err)
	}
	for _, n := range d.Nodes {
		fmt.Printf("%s %q\n", n.ID, n.Label)
	}
	// Output:
	// home "Home"
	// settings "Settings"
	// settings_spec "Settings:\n1. Change password\n2. Delete account"
}
