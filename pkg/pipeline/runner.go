package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/panelmap/pkg/cache"
	"github.com/matzehuels/panelmap/pkg/diagram"
	"github.com/matzehuels/panelmap/pkg/export"
	pkgio "github.com/matzehuels/panelmap/pkg/io"
	"github.com/matzehuels/panelmap/pkg/observability"
	"github.com/matzehuels/panelmap/pkg/tree"
)

// Cache key types reported to observability hooks.
const (
	keyTypeDiagram  = "diagram"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, root *tree.Node, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	d, buildHit, err := r.BuildWithCacheInfo(ctx, root, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Diagram = d
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = len(d.Nodes)
	result.Stats.EdgeCount = len(d.Edges)
	result.CacheInfo.BuildHit = buildHit

	if h, err := cache.HashJSON(d); err == nil {
		result.DiagramHash = h
	}

	r.Logger.Info("built diagram",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	// Stage 2: Export
	exportStart := time.Now()
	docs, exportHit, err := r.ExportWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Documents = docs
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported documents",
		"formats", opts.Formats,
		"cached", exportHit,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// BuildWithCacheInfo builds a laid-out diagram with caching and returns
// cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, root *tree.Node, opts Options) (diagram.Diagram, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return diagram.Diagram{}, false, err
	}
	if err := root.CheckShape(); err != nil {
		return diagram.Diagram{}, false, err
	}

	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	treeHash, err := cache.HashJSON(root)
	if err != nil {
		return diagram.Diagram{}, false, err
	}
	cacheKey := r.Keyer.DiagramKey(treeHash, opts.DiagramKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			d, err := pkgio.ReadJSON(bytes.NewReader(data))
			if err == nil {
				err = d.Validate()
			}
			if err == nil {
				cacheHooks.OnCacheHit(ctx, keyTypeDiagram)
				return d, true, nil
			}
			r.Logger.Debug("discarding unreadable cached diagram", "error", err)
		} else if err != nil {
			r.Logger.Debug("cache get failed", "key", cacheKey, "error", err)
		}
		cacheHooks.OnCacheMiss(ctx, keyTypeDiagram)
	}

	start := time.Now()
	hooks.OnBuildStart(ctx, opts.Engine)
	d, err := Build(ctx, root, opts)
	hooks.OnBuildComplete(ctx, opts.Engine, len(d.Nodes), time.Since(start), err)
	if err != nil {
		return diagram.Diagram{}, false, err
	}

	var buf bytes.Buffer
	if err := pkgio.WriteJSON(d, &buf); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), opts.TTL); err != nil {
			r.Logger.Debug("cache set failed", "key", cacheKey, "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, keyTypeDiagram, buf.Len())
		}
	}

	return d, false, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Build(ctx context.Context, root *tree.Node, opts Options) (diagram.Diagram, error) {
	d, _, err := r.BuildWithCacheInfo(ctx, root, opts)
	return d, err
}

// ExportWithCacheInfo exports d in every requested format with caching and
// returns whether all documents came from the cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, d diagram.Diagram, opts Options) (map[string]export.Document, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}
	if d.Empty() {
		return nil, false, export.ErrEmptyDiagram
	}

	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	diagramHash, err := cache.HashJSON(d)
	if err != nil {
		return nil, false, fmt.Errorf("hash diagram for cache key: %w", err)
	}

	docs := make(map[string]export.Document, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(diagramHash, opts.ArtifactKeyOpts(format))

		if !opts.Refresh {
			if doc, ok := r.cachedDocument(ctx, cacheKey); ok {
				cacheHooks.OnCacheHit(ctx, keyTypeArtifact)
				docs[format] = doc
				continue
			}
			cacheHooks.OnCacheMiss(ctx, keyTypeArtifact)
		}
		allCached = false

		start := time.Now()
		hooks.OnExportStart(ctx, format, len(d.Nodes))
		doc, err := ExportFormat(ctx, d, format, opts)
		hooks.OnExportComplete(ctx, format, len(doc.Data), time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("export %s: %w", format, err)
		}
		docs[format] = doc

		if data, err := json.Marshal(doc); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, opts.TTL); err != nil {
				r.Logger.Debug("cache set failed", "key", cacheKey, "error", err)
			} else {
				cacheHooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
			}
		}
	}

	return docs, allCached, nil
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Export(ctx context.Context, d diagram.Diagram, opts Options) (map[string]export.Document, error) {
	docs, _, err := r.ExportWithCacheInfo(ctx, d, opts)
	return docs, err
}

func (r *Runner) cachedDocument(ctx context.Context, key string) (export.Document, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return export.Document{}, false
	}
	var doc export.Document
	if err := json.Unmarshal(data, &doc); err != nil || len(doc.Data) == 0 {
		return export.Document{}, false
	}
	return doc, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
