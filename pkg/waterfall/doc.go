// Package waterfall builds vertical waterfall bar charts.
//
// # Overview
//
// A waterfall chart shows how an ordered sequence of signed values moves a
// running total. Each bar floats between a start and an end level, dashed
// connectors join consecutive bar tops, and a label on every bar shows the
// difference it contributes.
//
// The package has three layers:
//
//  1. [Adapt] turns raw rows into [Item] geometry (start, end, colour).
//  2. [Render] draws items onto a [scene.Scene] using band and linear scales.
//  3. [Chart] owns one surface and one data/config snapshot and exposes the
//     Render / Update / Destroy lifecycle a host calls into.
//
// # Data Modes
//
// In [ModeCumulative] (the default) every bar starts where the previous one
// ended and a synthetic total bar is appended:
//
//	items, _ := waterfall.Adapt([]waterfall.RawItem{
//	    {Name: "A", Value: waterfall.Num(10)},
//	    {Name: "B", Value: waterfall.Num(-4)},
//	    {Name: "C", Value: waterfall.Num(6)},
//	}, waterfall.DefaultConfig())
//	// A 0→10, B 10→6, C 6→12, Total 0→12
//
// In [ModeCustom] the caller supplies start and end for every bar and no
// total is added.
//
// # Colours
//
// Each item is coloured once, at adapt time: an explicit colour wins,
// otherwise non-negative values take the increment colour and negative
// values the decrement colour. The total bar always takes the total colour.
// Because colours are frozen into items, changing the default colours only
// affects the chart after the next full update.
//
// # Geometry
//
// The surface height is always five sixths of its width. Inside fixed
// margins, names are laid out on a band scale with 0.3 padding and values
// on a linear scale whose domain always includes zero.
package waterfall
