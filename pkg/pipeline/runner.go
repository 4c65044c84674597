package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glycodraw/pkg/cache"
	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/graph"
	"github.com/matzehuels/glycodraw/pkg/observability"
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute decodes doc and runs layout and render with caching.
func (r *Runner) Execute(ctx context.Context, doc graph.Glycan, opts Options) (*Result, error) {
	t, err := graph.ToTree(doc, glycan.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return r.ExecuteTree(ctx, t, opts)
}

// ExecuteTree runs layout and render for a clone of t. The caller's tree is
// left untouched.
func (r *Runner) ExecuteTree(ctx context.Context, t *glycan.Tree, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	work := t.Clone()
	docHash, err := DocumentHash(work)
	if err != nil {
		return nil, err
	}
	result := &Result{Tree: work, DocHash: docHash}
	result.Stats.NodeCount = work.Len()

	// Stage 1: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, work, docHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Debug("computed layout",
		"viz", opts.VizType,
		"nodes", result.Stats.NodeCount,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, work, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// DocumentHash hashes the wire form of t. Names do not contribute, so
// renamed copies of a structure share cache entries.
func DocumentHash(t *glycan.Tree) (string, error) {
	return cache.HashJSON(graph.FromTree(t).Nodes)
}

// LayoutWithCacheInfo returns the layout for t, computing and caching it on a
// miss. SNFG positions are written onto t either way.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, t *glycan.Tree, docHash string, opts Options) (graph.Layout, bool, error) {
	opts.SetDefaults()
	if err := ValidateVizType(opts.VizType); err != nil {
		return graph.Layout{}, false, err
	}
	key := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())

	observability.Pipeline().OnLayoutStart(ctx, t.Len())
	start := time.Now()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				applyPositions(t, cached)
				observability.Pipeline().OnLayoutComplete(ctx, time.Since(start), nil)
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l := GenerateLayout(t, opts)
	observability.Pipeline().OnLayoutComplete(ctx, time.Since(start), nil)

	if data, err := graph.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache layout", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// RenderWithCacheInfo produces artifacts for every requested format. Cached
// artifacts are used only when all formats hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, t *glycan.Tree, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderFromLayout(ctx, l, t, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
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

// applyPositions copies cached SNFG positions onto t.
func applyPositions(t *glycan.Tree, l graph.Layout) {
	for _, pn := range l.Nodes {
		if n, ok := t.Node(glycan.NodeID(pn.ID)); ok {
			n.X, n.Y, n.EdgeRun = pn.X, pn.Y, pn.EdgeRun
		}
	}
}
