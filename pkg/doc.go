// Package pkg provides the core libraries for Waterfall chart rendering.
//
// # Overview
//
// Waterfall turns an ordered list of signed contributions into a vertical
// waterfall bar chart: each bar floats between the running total before and
// after it, and a total bar closes the sequence. The pkg directory is
// organized into four main areas:
//
//  1. [waterfall] - Domain logic (adapting rows, geometry, the chart lifecycle)
//  2. [scene] - Drawing surfaces (SVG, PNG, terminal, recording)
//  3. [host] - Binding a chart to a UI host's mount / update / unmount calls
//  4. [pipeline] - Orchestration (adapt → render) with artifact caching
//
// # Architecture
//
// The typical data flow:
//
//	JSON / TOML / CSV / XLSX file or HTTP body
//	         ↓
//	    [io] package (decode rows and options)
//	         ↓
//	    [waterfall] package (adapt rows into bars, compute layout)
//	         ↓
//	    [scene] package (draw onto a surface)
//	         ↓
//	SVG/PNG/JSON/text output
//
// # Quick Start
//
// Render a chart to SVG:
//
//	import (
//	    "github.com/matzehuels/waterfall/pkg/scene"
//	    "github.com/matzehuels/waterfall/pkg/scene/svg"
//	    "github.com/matzehuels/waterfall/pkg/waterfall"
//	)
//
//	reg := scene.NewRegistry()
//	surface := svg.New()
//	_ = reg.Mount("sales", surface)
//
//	cfg := waterfall.DefaultConfig()
//	cfg.Width = 600
//	chart, _ := waterfall.New("sales", reg, rows, cfg)
//	_ = chart.Render()
//	os.Stdout.Write(surface.Bytes())
//
// # Main Packages
//
// ## Domain
//
// [waterfall] - Row adaptation (cumulative and custom modes), colours,
// band/linear layout and the Chart lifecycle (Render, Update, Destroy).
//
// [format] - Number formatter specs ("comma", "si:2", "%.1f") used for axis
// ticks and bar labels.
//
// [scale] - Band and linear scales mapping categories and values to pixels.
//
// ## Surfaces
//
// [scene] - The drawing interface, the surface registry and a display-list
// recorder. Subpackages svg, raster and term implement it.
//
// [host] - Change-gated redraws for hosts that resize or replace props.
//
// ## Infrastructure
//
// [pipeline] - Adapt → render orchestration shared by the CLI and server.
//
// [cache] - Artifact caching (file, Redis, null) keyed by data hash and
// render options.
//
// [session] - Chart sessions for the HTTP API (memory, file and Redis).
//
// [server] - The HTTP API.
//
// [io] - Document import and export.
//
// [errors] - Error codes shared by every layer.
//
// [observability] - Hooks for metrics and tracing.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/waterfall/...  # Specific package
//	go test -run Example         # Examples only
//
// [waterfall]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/waterfall
// [scene]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/scene
// [host]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/host
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/io
// [format]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/format
// [scale]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/scale
// [cache]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/observability
package pkg
