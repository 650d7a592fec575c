package scale

import "math"

// Band maps an ordered set of names to contiguous slots within a range.
//
// Padding is a ratio of the step shared between inner gaps (between bands)
// and outer gaps (before the first and after the last band). Bands are
// centred in the range and snapped to whole pixels.
type Band struct {
	domain    []string
	index     map[string]int
	padding   float64
	start     float64
	step      float64
	bandwidth float64
}

// NewBand creates a rounded band scale over domain spanning [r0, r1].
// Duplicate names keep their first position.
func NewBand(domain []string, r0, r1, padding float64) Band {
	b := Band{
		index:   make(map[string]int, len(domain)),
		padding: padding,
	}
	for _, name := range domain {
		if _, dup := b.index[name]; dup {
			continue
		}
		b.index[name] = len(b.domain)
		b.domain = append(b.domain, name)
	}

	start, stop := r0, r1
	if r1 < r0 {
		start, stop = r1, r0
	}
	n := float64(len(b.domain))
	step := (stop - start) / math.Max(1, n-padding+padding*2)
	step = math.Floor(step)
	start += (stop - start - step*(n-padding)) * 0.5
	b.step = step
	b.start = jsRound(start)
	b.bandwidth = jsRound(step * (1 - padding))
	return b
}

// Position returns the left edge of the band for name.
// The second result is false when name is not in the domain.
func (b Band) Position(name string) (float64, bool) {
	i, ok := b.index[name]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Center returns the horizontal centre of the band for name.
func (b Band) Center(name string) (float64, bool) {
	x, ok := b.Position(name)
	return x + b.bandwidth/2, ok
}

// Bandwidth returns the width of a single band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands.
func (b Band) Step() float64 { return b.step }

// Padding returns the padding ratio the scale was built with.
func (b Band) Padding() float64 { return b.padding }

// Domain returns the deduplicated names in band order.
func (b Band) Domain() []string {
	out := make([]string, len(b.domain))
	copy(out, b.domain)
	return out
}

// jsRound rounds half up, matching Math.round rather than math.Round.
func jsRound(x float64) float64 { return math.Floor(x + 0.5) }
