package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/observability"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
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

// Execute runs the complete adapt → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Adapt
	hooks := observability.Pipeline()
	mode := opts.Chart.Type
	hooks.OnAdaptStart(ctx, mode, len(opts.Data))
	adaptStart := time.Now()
	items, cfg, err := Adapt(opts)
	hooks.OnAdaptComplete(ctx, mode, len(items), time.Since(adaptStart), err)
	if err != nil {
		return nil, fmt.Errorf("adapt: %w", err)
	}
	result.Items = items
	result.Stats.Rows = len(opts.Data)
	result.Stats.Bars = len(items)
	result.Stats.AdaptTime = time.Since(adaptStart)

	r.Logger.Debug("adapted rows",
		"rows", result.Stats.Rows,
		"bars", result.Stats.Bars,
		"mode", cfg.Mode)

	// Stage 2: Render
	hooks.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, hash, renderHit, err := r.render(ctx, items, cfg, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.DataHash = hash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"bars", result.Stats.Bars,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, items []waterfall.Item, cfg waterfall.Config, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	artifacts, _, hit, err := r.render(ctx, items, cfg, opts)
	return artifacts, hit, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, items []waterfall.Item, cfg waterfall.Config, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, items, cfg, opts)
	return artifacts, err
}

// render keys artifacts by the hash of the raw rows. Rows that cannot be
// hashed bypass the cache.
func (r *Runner) render(ctx context.Context, items []waterfall.Item, cfg waterfall.Config, opts Options) (map[string][]byte, string, bool, error) {
	hash, err := cache.HashJSON(opts.Data)
	if err != nil {
		r.Logger.Debug("rows not hashable, skipping cache", "err", err)
		artifacts, err := Render(items, cfg, opts)
		return artifacts, "", false, err
	}

	hooks := observability.Cache()

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache get failed", "key", key, "err", err)
				break
			}
			if !hit {
				hooks.OnCacheMiss(ctx, format)
				break
			}
			hooks.OnCacheHit(ctx, format)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, hash, true, nil
		}
	}

	rendered, err := Render(items, cfg, opts)
	if err != nil {
		return nil, hash, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			r.Logger.Warn("cache set failed", "key", key, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, format, len(data))
	}

	return rendered, hash, false, nil
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
