// Package pipeline ties the panelmap stages together.
//
// The pipeline turns a tree into a laid-out diagram and then into
// documents, and is shared by the CLI and the HTTP server so both behave
// the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode tree JSON or YAML and resolve the panel root
//  2. Build: Normalize the tree, flatten it into a diagram and lay it out
//  3. Export: Produce documents (PDF, SVG, PNG) or diagram JSON
//
// Build and Export results are cached by content hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	root, err := pipeline.Parse(data, "json", logger)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, root, pipeline.Options{
//	    Formats: []string{"pdf", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	pdf := result.Documents["pdf"].Data
//
// Run individual stages:
//
//	d, err := runner.Build(ctx, root, opts)
//	docs, err := runner.Export(ctx, d, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/panelmap/pkg/cache"
	"github.com/matzehuels/panelmap/pkg/config"
	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/errors"
	"github.com/matzehuels/panelmap/pkg/export"
	"github.com/matzehuels/panelmap/pkg/layout"
	"github.com/matzehuels/panelmap/pkg/tree"
)

// Format constants for output formats.
const (
	FormatPDF  = export.FormatPDF
	FormatSVG  = export.FormatSVG
	FormatPNG  = export.FormatPNG
	FormatJSON = "json"
)

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ValidEngines is the set of supported layout engines.
var ValidEngines = map[string]bool{
	layout.EngineGraphviz: true,
	layout.EngineTree:     true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Engine        string            `json:"engine,omitempty"`
	Direction     diagram.Direction `json:"direction,omitempty"`
	RankSep       float64           `json:"rank_sep,omitempty"`
	NodeSep       float64           `json:"node_sep,omitempty"`
	Palette       []string          `json:"palette,omitempty"`
	RootColor     string            `json:"root_color,omitempty"`
	SkipNormalize bool              `json:"skip_normalize,omitempty"` // Keep sibling leaves as separate nodes

	// Export options
	Formats   []string `json:"formats,omitempty"`
	Padding   *float64 `json:"padding,omitempty"` // nil means export.Padding
	EdgeColor string   `json:"edge_color,omitempty"`
	Filename  string   `json:"filename,omitempty"`
	Scale     float64  `json:"scale,omitempty"`

	// Cache options
	Refresh bool          `json:"refresh,omitempty"`
	TTL     time.Duration `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger      `json:"-"`
	IDs    tree.IDGenerator `json:"-"` // ids for nodes that have none

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// FromConfig returns options carrying the configured defaults.
func FromConfig(cfg config.Config) Options {
	padding := cfg.Export.Padding
	return Options{
		Engine:        cfg.Layout.Engine,
		Direction:     diagram.Direction(cfg.Layout.Direction),
		RankSep:       cfg.Layout.RankSep,
		NodeSep:       cfg.Layout.NodeSep,
		Palette:       cfg.Theme.Palette,
		RootColor:     cfg.Theme.RootColor,
		SkipNormalize: !cfg.Layout.Normalize,
		Formats:       cfg.Export.Formats,
		Padding:       &padding,
		EdgeColor:     cfg.Theme.EdgeColor,
		Filename:      cfg.Export.Filename,
		Scale:         cfg.Export.Scale,
		TTL:           cfg.Cache.TTL.Duration,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the laid-out diagram.
	Diagram diagram.Diagram

	// DiagramHash is the content hash of the diagram.
	DiagramHash string

	// Documents contains exported outputs keyed by format.
	Documents map[string]export.Document

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the diagram came from cache
	ExportHit bool // Whether all documents came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: pdf, svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that a layout engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errors.New(errors.ErrCodeUnsupported, "invalid engine: %q (must be one of: graphviz, tree)", engine)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetBuildDefaults sets default values for diagram building.
func (o *Options) SetBuildDefaults() {
	if o.Engine == "" {
		o.Engine = layout.EngineGraphviz
	}
	if o.Direction == "" {
		o.Direction = diagram.LeftToRight
	}
	if o.RankSep == 0 {
		o.RankSep = layout.DefaultRankSep
	}
	if o.NodeSep == 0 {
		o.NodeSep = layout.DefaultNodeSep
	}
	if o.TTL == 0 {
		o.TTL = cache.TTLDiagram
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForBuild validates and sets defaults for diagram building.
func (o *Options) ValidateForBuild() error {
	o.SetBuildDefaults()
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if !o.Direction.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid direction: %q (must be LR or TB)", o.Direction)
	}
	if o.RankSep < 0 || o.NodeSep < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "spacing must not be negative")
	}
	return nil
}

// SetExportDefaults sets default values for exporting.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
	if o.Padding == nil {
		p := export.Padding
		o.Padding = &p
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.TTL == 0 {
		o.TTL = cache.TTLArtifact
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForExport validates and sets defaults for exporting.
func (o *Options) ValidateForExport() error {
	o.SetExportDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if *o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "padding must not be negative")
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive")
	}
	if o.Filename != "" {
		if err := errors.ValidateFilename(o.Filename); err != nil {
			return err
		}
	}
	return nil
}

// LayoutOptions returns the layout engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{Direction: o.Direction, RankSep: o.RankSep, NodeSep: o.NodeSep}
}

// ExportOptions returns the exporter options for format.
func (o *Options) ExportOptions() []export.Option {
	opts := []export.Option{
		export.WithFilename(o.Filename),
		export.WithEdgeColor(o.EdgeColor),
		export.WithScale(o.Scale),
	}
	if o.Padding != nil {
		opts = append(opts, export.WithPadding(*o.Padding))
	}
	return opts
}

// DiagramKeyOpts returns cache key options for diagram building.
func (o *Options) DiagramKeyOpts() cache.DiagramKeyOpts {
	return cache.DiagramKeyOpts{
		Engine:    o.Engine,
		Direction: string(o.Direction),
		RankSep:   o.RankSep,
		NodeSep:   o.NodeSep,
		Palette:   o.Palette,
		RootColor: o.RootColor,
		Normalize: !o.SkipNormalize,
	}
}

// ArtifactKeyOpts returns cache key options for exporting format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Filename: o.Filename, EdgeColor: o.EdgeColor}
	if o.Padding != nil {
		k.Padding = *o.Padding
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
