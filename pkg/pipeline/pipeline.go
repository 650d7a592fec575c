// Package pipeline provides the adapt → render pipeline for waterfall charts.
//
// This package implements the path from raw rows to rendered artifacts that
// is shared by the CLI and the HTTP server. By centralizing this logic, both
// entry points apply the same defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Adapt: Turn raw rows into positioned items ([waterfall.Adapt])
//  2. Render: Draw the items on one scene per requested format
//
// Supported formats are SVG, PNG, a JSON scene dump and a plain-text
// terminal rendering.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Data:    rows,
//	    Chart:   waterfall.Options{Width: 600},
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	items, cfg, err := pipeline.Adapt(opts)
//	artifacts, err := runner.Render(ctx, items, cfg, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/scene/raster"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultWidth is the chart width used when neither options nor flags set one.
const DefaultWidth = 600.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatText = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatText: true,
}

// ContentTypes maps formats to their MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
	FormatText: "text/plain; charset=utf-8",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Data  []waterfall.RawItem `json:"data"`
	Chart waterfall.Options   `json:"options,omitzero"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"` // PNG pixel density
	Class   string   `json:"class,omitempty"` // SVG root class, usually the chart id
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Items are the adapted bars, including the synthesised total.
	Items []waterfall.Item

	// DataHash is the content hash of the raw rows. Empty when the rows
	// cannot be hashed (non-finite numbers).
	DataHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Bars       int
	AdaptTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, json, txt)", format)
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

// ParseFormats splits a comma-separated format list, dropping blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Chart.Width == 0 {
		o.Chart.Width = DefaultWidth
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = raster.DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender checks formats, scale and chart options.
func (o *Options) ValidateForRender() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.InvalidConfig("scale must be positive, got %v", o.Scale)
	}
	if o.Class != "" {
		if err := errors.ValidateSurfaceID(o.Class); err != nil {
			return err
		}
	}
	_, err := o.Config()
	return err
}

// Config converts the chart options to a validated [waterfall.Config].
func (o *Options) Config() (waterfall.Config, error) {
	cfg, err := o.Chart.Config()
	if err != nil {
		return waterfall.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return waterfall.Config{}, err
	}
	return cfg, nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:  format,
		Width:   o.Chart.Width,
		Options: o.Chart,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
