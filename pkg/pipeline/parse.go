package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/panelmap/pkg/tree"
)

// Parse decodes tree input in the given format ("json" or "yaml").
//
// Input that decodes but has no recognisable shape yields the placeholder
// tree and a warning; only undecodable input is an error. ids names nodes
// that arrive without an id; nil means a fresh counter.
func Parse(data []byte, format string, ids tree.IDGenerator, logger *log.Logger) (*tree.Node, error) {
	if ids == nil {
		ids = tree.NewCounter()
	}
	root, shape, err := tree.Decode(data, format, ids)
	if err != nil {
		return nil, err
	}
	logShape(logger, shape, root)
	return root, nil
}

// ParseFile decodes a tree file, picking the format from its extension.
func ParseFile(path string, ids tree.IDGenerator, logger *log.Logger) (*tree.Node, error) {
	if ids == nil {
		ids = tree.NewCounter()
	}
	root, shape, err := tree.ReadFile(path, ids)
	if err != nil {
		return nil, err
	}
	logShape(logger, shape, root)
	return root, nil
}

func logShape(logger *log.Logger, shape tree.Shape, root *tree.Node) {
	if logger == nil {
		return
	}
	if shape == tree.ShapeUnknown {
		logger.Warn("unrecognised tree input, using placeholder", "root", root.ID)
		return
	}
	logger.Debug("parsed tree", "shape", shape, "nodes", root.Count(), "depth", root.Depth())
}
