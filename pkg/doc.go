// Package pkg provides the core libraries for panelmap architecture maps.
//
// # Overview
//
// Panelmap turns a hierarchical description of a control panel into an
// architecture map: a left-to-right (or top-to-bottom) tree diagram whose
// first-level branches are color coded, exported as a vector document.
//
// # Architecture
//
// The typical data flow:
//
//	JSON / YAML panel description
//	         ↓
//	    [tree] package (resolve input shape, normalize sibling leaves)
//	         ↓
//	    [diagram] package (flatten into styled nodes and edges)
//	         ↓
//	    [layout] package (graphviz dot or the built-in tree engine)
//	         ↓
//	    [export] package (PDF, SVG, PNG)
//
// [pipeline] chains these stages with caching through [cache].
//
// # Quick Start
//
//	root, err := pipeline.ParseFile("panel.json", nil, logger)
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, root, pipeline.Options{Formats: []string{"pdf"}})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("map.pdf", result.Documents["pdf"].Data, 0o644)
//
// # Main Packages
//
//   - [tree]: panel tree, input shapes, leaf merging, id generation
//   - [measure]: label size heuristics and glyph metrics
//   - [diagram]: flattened, styled, positioned nodes and edges
//   - [layout]: layout engines
//   - [export]: vector document backends
//   - [io]: diagram JSON documents
//   - [pipeline]: stage orchestration and the cached runner
//   - [cache]: file, redis and null caches with content-hash keys
//   - [config]: TOML configuration
//   - [errors]: coded errors shared by the CLI and the HTTP API
//   - [observability]: hooks for metrics and tracing
//   - [buildinfo]: version information
//
// [tree]: github.com/matzehuels/panelmap/pkg/tree
// [measure]: github.com/matzehuels/panelmap/pkg/measure
// [diagram]: github.com/matzehuels/panelmap/pkg/diagram
// [layout]: github.com/matzehuels/panelmap/pkg/layout
// [export]: github.com/matzehuels/panelmap/pkg/export
// [io]: github.com/matzehuels/panelmap/pkg/io
// [pipeline]: github.com/matzehuels/panelmap/pkg/pipeline
// [cache]: github.com/matzehuels/panelmap/pkg/cache
// [config]: github.com/matzehuels/panelmap/pkg/config
// [errors]: github.com/matzehuels/panelmap/pkg/errors
// [observability]: github.com/matzehuels/panelmap/pkg/observability
// [buildinfo]: github.com/matzehuels/panelmap/pkg/buildinfo
package pkg
