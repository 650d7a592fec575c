// Package scene defines the drawing capability the chart renderer targets.
//
// # Overview
//
// The renderer never writes SVG, pixels or terminal cells itself. It talks to
// a [Scene], which offers exactly what a waterfall chart needs:
//
//   - Band / Linear: scale construction
//   - Group: a translated, classed container (bar groups, axes)
//   - Rect / Text / Line: the three primitives
//   - Resize / Clear: surface sizing and full reset
//
// Concrete scenes live in subpackages:
//
//   - [svg]: standalone SVG documents
//   - [raster]: PNG (and go-chart SVG) via github.com/wcharczuk/go-chart/v2
//   - [term]: coloured terminal cells for previews
//
// [Recorder] is a headless scene that keeps every primitive in memory. It is
// the test double for the renderer and the source of the JSON scene dump.
//
// # Surfaces
//
// A [Registry] maps stable surface ids to scenes, mirroring how a page
// selects an element by id. A chart resolves its surface through the
// registry on every draw and unregisters it on destroy.
//
//	reg := scene.NewRegistry()
//	_ = reg.Mount("chart_main", svg.New())
//	s, err := reg.Lookup("chart_main")
//
// [svg]: github.com/matzehuels/waterfall/pkg/scene/svg
// [raster]: github.com/matzehuels/waterfall/pkg/scene/raster
// [term]: github.com/matzehuels/waterfall/pkg/scene/term
package scene
