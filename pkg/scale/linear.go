package scale

import "math"

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Linear maps a continuous domain [D0, D1] onto a range [R0, R1].
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear creates a linear scale.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Scale maps v into the range.
// A collapsed domain maps every value to the middle of the range.
func (l Linear) Scale(v float64) float64 {
	span := l.D1 - l.D0
	var t float64
	switch {
	case math.IsNaN(span):
		return math.NaN()
	case span == 0:
		t = 0.5
	default:
		t = (v - l.D0) / span
	}
	return l.R0 + t*(l.R1-l.R0)
}

// Ticks returns roughly count human-friendly values inside the domain.
// Tick values are multiples of 1, 2 or 5 times a power of ten.
func (l Linear) Ticks(count int) []float64 {
	return Ticks(l.D0, l.D1, count)
}

// Ticks returns roughly count evenly spaced, rounded values in [start, stop].
func Ticks(start, stop float64, count int) []float64 {
	if math.IsNaN(start) || math.IsNaN(stop) || count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	inc := tickIncrement(start, stop, count)
	if inc == 0 || math.IsInf(inc, 0) || math.IsNaN(inc) {
		return nil
	}

	var ticks []float64
	if inc > 0 {
		lo, hi := math.Ceil(start/inc), math.Floor(stop/inc)
		for i := lo; i <= hi; i++ {
			ticks = append(ticks, i*inc)
		}
	} else {
		inc = -inc
		lo, hi := math.Ceil(start*inc), math.Floor(stop*inc)
		for i := lo; i <= hi; i++ {
			ticks = append(ticks, i/inc)
		}
	}

	if reverse {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

// tickIncrement returns the tick step for the interval. Negative results
// encode the reciprocal of a sub-unit step, which keeps tick values exact.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}

	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}
