package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/panelmap/pkg/diagram"
)

// WriteJSON encodes d as indented JSON and writes it to w.
// Nil node and edge slices are written as empty arrays.
func WriteJSON(d diagram.Diagram, w io.Writer) error {
	if d.Nodes == nil {
		d.Nodes = []diagram.Node{}
	}
	if d.Edges == nil {
		d.Edges = []diagram.Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes d to a JSON file at path.
func ExportJSON(d diagram.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}
