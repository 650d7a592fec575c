package waterfall

import (
	"math"
	"strconv"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/format"
	"github.com/matzehuels/waterfall/pkg/scale"
	"github.com/matzehuels/waterfall/pkg/scene"
)

// Margins around the plot area, in pixels.
const (
	MarginTop    = 20.0
	MarginRight  = 30.0
	MarginBottom = 30.0
	MarginLeft   = 60.0
)

const (
	// BandPadding is the inner and outer padding of the category scale.
	BandPadding = 0.3

	labelOffset    = 7.0  // gap between a bar edge and its label
	labelDrop      = 14.0 // label offset below a decrement's lower edge
	baselineBand   = 20.0 // decrements ending this close to the minimum get labels on top
	connectorInset = 5.0
	tickSize       = 6.0
	tickPadding    = 3.0
	tickCount      = 10
)

// Classes emitted on drawn primitives.
const (
	ClassPlot      = "plot"
	ClassXAxis     = "x axis"
	ClassYAxis     = "y axis"
	ClassTick      = "tick"
	ClassDomain    = "domain"
	ClassBar       = "bar"
	ClassLast      = "last"
	ClassConnector = "connector"
)

// Layout is the resolved geometry of one render.
type Layout struct {
	Width, Height           float64
	InnerWidth, InnerHeight float64
	X                       scale.Band
	Y                       scale.Linear
}

// Min returns the lower end of the value domain.
func (l Layout) Min() float64 { return l.Y.D0 }

// Max returns the upper end of the value domain.
func (l Layout) Max() float64 { return l.Y.D1 }

// NewLayout computes margins and scales for items at cfg.Width. Scales are
// obtained from s so scene implementations may customise them.
func NewLayout(items []Item, cfg Config, s scene.Scene) Layout {
	width := cfg.Width
	height := cfg.Height()
	innerW := width - MarginLeft - MarginRight
	innerH := height - MarginTop - MarginBottom

	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	lo, hi := Domain(items)
	return Layout{
		Width:       width,
		Height:      height,
		InnerWidth:  innerW,
		InnerHeight: innerH,
		X:           s.Band(names, 0, innerW, BandPadding),
		Y:           s.Linear(lo, hi, innerH, 0),
	}
}

// Domain returns the value extent of items: the smallest and largest end,
// widened so that it always contains zero. Starts do not count, so a custom
// bar may begin outside the plot. NaN ends are skipped.
func Domain(items []Item) (lo, hi float64) {
	for _, it := range items {
		if math.IsNaN(it.End) {
			continue
		}
		lo = math.Min(lo, it.End)
		hi = math.Max(hi, it.End)
	}
	return lo, hi
}

// Render clears s and draws items onto it at cfg.Width.
//
// The configuration is validated before the surface is touched, so an
// INVALID_CONFIG error leaves the previous drawing in place. Items are
// expected to be the output of [Adapt]; names should be unique, as bars
// with the same name share one band.
func Render(items []Item, cfg Config, s scene.Scene) error {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if s == nil {
		return errors.New(errors.ErrCodeSurfaceNotFound, "no drawing surface")
	}

	l := NewLayout(items, cfg, s)
	s.Clear()
	s.Resize(l.Width, l.Height)
	s.Group(scene.Group{Class: ClassPlot, X: MarginLeft, Y: MarginTop}, func() {
		drawXAxis(s, l)
		drawYAxis(s, l, cfg)
		drawBars(s, l, items, cfg)
	})
	return nil
}

func drawXAxis(s scene.Scene, l Layout) {
	s.Group(scene.Group{Class: ClassXAxis, Y: l.InnerHeight}, func() {
		s.Line(scene.Line{X2: l.InnerWidth, Class: ClassDomain})
		for _, name := range l.X.Domain() {
			cx, _ := l.X.Center(name)
			s.Group(scene.Group{Class: ClassTick, X: cx}, func() {
				s.Line(scene.Line{Y2: tickSize})
				s.Text(scene.Text{
					Y:        tickSize + tickPadding,
					Content:  name,
					Anchor:   scene.AnchorMiddle,
					Baseline: scene.BaselineHanging,
				})
			})
		}
	})
}

func drawYAxis(s scene.Scene, l Layout, cfg Config) {
	tickFormat := cfg.TickFormat
	if tickFormat == nil {
		tickFormat = format.Number
	}
	s.Group(scene.Group{Class: ClassYAxis}, func() {
		s.Line(scene.Line{Y2: l.InnerHeight, Class: ClassDomain})
		for _, v := range l.Y.Ticks(tickCount) {
			s.Group(scene.Group{Class: ClassTick, Y: l.Y.Scale(v)}, func() {
				s.Line(scene.Line{X1: -tickSize})
				s.Text(scene.Text{
					X:        -(tickSize + tickPadding),
					Content:  tickFormat(v),
					Anchor:   scene.AnchorEnd,
					Baseline: scene.BaselineMiddle,
				})
			})
		}
	})
}

func drawBars(s scene.Scene, l Layout, items []Item, cfg Config) {
	bw := l.X.Bandwidth()
	y := l.Y.Scale
	for i, it := range items {
		x, _ := l.X.Position(it.Name)
		last := i == len(items)-1
		s.Group(scene.Group{Class: BarClass(it, i, last), Fill: it.Color, X: x}, func() {
			s.Rect(scene.Rect{
				Y: y(math.Max(it.Start, it.End)),
				W: bw,
				H: math.Abs(y(it.Start) - y(it.End)),
			})
			s.Text(scene.Text{
				X:       bw / 2,
				Y:       LabelY(it, l),
				Content: Label(it, cfg),
				Anchor:  scene.AnchorMiddle,
			})
			if !last {
				s.Line(scene.Line{
					X1:     bw + connectorInset,
					Y1:     y(it.End),
					X2:     bw/(1-BandPadding) - connectorInset,
					Y2:     y(it.End),
					Class:  ClassConnector,
					Dashed: true,
				})
			}
		})
	}
}

// BarClass returns the class list of the group holding bar i:
// "bar", then the item class or "bar<i>", then "last" on the final bar.
func BarClass(it Item, i int, last bool) string {
	c := it.Class
	if c == "" {
		c = ClassBar + strconv.Itoa(i)
	}
	c = ClassBar + " " + c
	if last {
		c += " " + ClassLast
	}
	return c
}

// LabelY returns the vertical label position for it in plot coordinates.
//
// Increments and flat bars are labelled just above their end. Decrements
// are labelled below their end, unless the end sits within a small band
// above the domain minimum; those are labelled above their start so the
// label stays inside the plot.
func LabelY(it Item, l Layout) float64 {
	y := l.Y.Scale
	if it.Decrement() {
		if it.End >= l.Min() && it.End <= l.Min()+baselineBand {
			return y(it.Start) - labelOffset
		}
		return y(it.End) + labelDrop
	}
	return y(it.End) - labelOffset
}

// Label returns the text shown on it.
func Label(it Item, cfg Config) string {
	if cfg.ValuesFormat != nil {
		return cfg.ValuesFormat(it.Diff(), it)
	}
	return format.Number(it.Diff())
}
