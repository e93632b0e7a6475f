// Package io reads and writes diagrams as JSON.
//
// The diagram JSON document is the hand-off format between the layout and
// export stages: `panelmap layout` writes it and `panelmap export` reads it
// back, so a diagram can be inspected or edited by other tools in between.
//
//	{
//	  "direction": "LR",
//	  "nodes": [
//	    {"id": "root", "label": "Home", "width": 220, "height": 88,
//	     "position": {"x": 0, "y": 0}, "is_root": true, "style": {...}}
//	  ],
//	  "edges": [
//	    {"id": "root-a", "source": "root", "target": "a",
//	     "color": "#3b82f6", "stroke_width": 3, "opacity": 0.8}
//	  ]
//	}
//
// [ReadJSON] and [ImportJSON] check the direction and that node ids are
// unique. Edges are left alone: an edge to a missing node is dropped at
// export time, so a partial tree still produces a document. A document
// that fails the checks is reported as errors.ErrCodeInvalidDiagram.
package io
