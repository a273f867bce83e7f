package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/cache"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/graph"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/observability"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/schema"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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

// parseEntry is the cached form of a parsed document.
type parseEntry struct {
	Graph   graph.Graph `json:"graph"`
	ShowKey bool        `json:"show_key,omitempty"`
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("run", result.RunID)

	// Stage 1: Parse
	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx, opts.Source())
	doc, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	observability.Pipeline().OnParseComplete(ctx, opts.Source(), nodeCount(doc), time.Since(parseStart), err)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Graph = doc.Graph
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = doc.Graph.NodeCount()
	result.Stats.EdgeCount = doc.Graph.EdgeCount()
	result.CacheInfo.ParseHit = parseHit

	// Compute graph hash for cache keys and downstream tooling
	if graphData, err := graph.MarshalGraph(doc.Graph); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	logger.Info("parsed schema",
		"nodes", doc.Graph.NodeCount(),
		"edges", doc.Graph.EdgeCount(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, doc.Graph.NodeCount())
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	observability.Pipeline().OnLayoutComplete(ctx, len(l.Result.Warnings), time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Warnings = len(l.Result.Warnings)
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"boxes", len(l.Result.Rects),
		"warnings", len(l.Result.Warnings),
		"duration", result.Stats.LayoutTime)
	for _, w := range l.Result.Warnings {
		logger.Warn("layout diagnostic", "code", w.Code, "detail", w.String())
	}

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, doc, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses the schema with caching and returns cache hit info.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*schema.Document, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	text, err := loadSchema(opts)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.SchemaKey(cache.Hash([]byte(text)))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if doc, err := decodeParseEntry(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "schema")
				return doc, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "schema")
	}

	// Parse from the already loaded text
	doc, err := schema.ParseString(text)
	if err != nil {
		return nil, false, err
	}
	if err := doc.Graph.Validate(); err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := json.Marshal(parseEntry{Graph: graph.FromFlow(doc.Graph), ShowKey: doc.ShowKey}); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSchema)
		observability.Cache().OnCacheSet(ctx, "schema", len(data))
	}

	return doc, false, nil // Cache miss
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*schema.Document, error) {
	doc, _, err := r.ParseWithCacheInfo(ctx, opts)
	return doc, err
}

// GenerateLayoutWithCacheInfo generates a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, doc *schema.Document, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	graphData, _ := graph.MarshalGraph(doc.Graph)
	graphHash := cache.Hash(graphData)
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := graph.UnmarshalLayout(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	// Generate layout
	l, err := GenerateLayout(doc, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}

	// Cache the result
	if data, err := graph.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return l, false, nil // Cache miss
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, doc *schema.Document, opts Options) (graph.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, doc *schema.Document, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	cacheKeyHash := cache.Hash(layoutData)

	// Try to get all formats from cache (unless refresh requested)
	if !opts.Refresh {
		allCached := true
		artifacts := make(map[string][]byte)

		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}

		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil // All artifacts from cache
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Render all formats
	var g *flow.Graph
	if doc != nil {
		g = doc.Graph
	}
	rendered, err := RenderFromLayout(l, g, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, doc *schema.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, doc, opts)
	return artifacts, err
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

func decodeParseEntry(data []byte) (*schema.Document, error) {
	var entry parseEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	g, err := graph.ToFlow(entry.Graph)
	if err != nil {
		return nil, err
	}
	return &schema.Document{Graph: g, ShowKey: entry.ShowKey}, nil
}

func nodeCount(doc *schema.Document) int {
	if doc == nil || doc.Graph == nil {
		return 0
	}
	return doc.Graph.NodeCount()
}
