// Package scale maps data values to screen coordinates.
//
// Two scales are provided, matching what a vertical bar chart needs:
//
//   - [Band]: discrete categories to evenly spaced slots with padding
//   - [Linear]: a continuous domain to a continuous range, plus tick generation
//
// Both follow the conventions of the d3-scale family so that geometry
// computed here lines up with charts drawn in the browser by the same rules:
// band ranges are rounded to whole pixels, padding is applied both between
// and around bands, and ticks land on multiples of 1, 2 or 5 times a power
// of ten.
//
// Scales are immutable values; create a new one when the domain or range
// changes.
package scale
