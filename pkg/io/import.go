package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/errors"
)

// ReadJSON decodes a diagram from r.
//
// A missing direction defaults to left-to-right. Malformed JSON is an
// errors.ErrCodeInvalidInput error; an unknown direction or an empty or
// duplicate node id is errors.ErrCodeInvalidDiagram. Edges are not checked,
// so a partial tree still decodes and exports what is drawable. Callers
// that need a whole tree run [diagram.Diagram.Validate]. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (diagram.Diagram, error) {
	var d diagram.Diagram
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return diagram.Diagram{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode diagram")
	}
	if d.Direction == "" {
		d.Direction = diagram.LeftToRight
	}
	if !d.Direction.Valid() {
		return diagram.Diagram{}, errors.New(errors.ErrCodeInvalidDiagram, "unknown direction %q", d.Direction)
	}
	if d.Nodes == nil {
		d.Nodes = []diagram.Node{}
	}
	if d.Edges == nil {
		d.Edges = []diagram.Edge{}
	}
	if err := d.CheckIDs(); err != nil {
		return diagram.Diagram{}, err
	}
	return d, nil
}

// ImportJSON reads the diagram stored at path with [ReadJSON].
func ImportJSON(path string) (diagram.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return diagram.Diagram{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
