// Package raster implements a [scene.Scene] that rasterises to PNG.
//
// Drawing calls are recorded into a display list and replayed onto a
// go-chart renderer when the image is requested, so a Surface can be
// cleared and redrawn any number of times before encoding.
package raster

import (
	"bytes"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/scene"
)

// DefaultScale renders at 2x for sharp output on high-density screens.
const DefaultScale = 2.0

// Option configures a Surface.
type Option func(*Surface)

// WithScale sets the pixel density multiplier.
func WithScale(s float64) Option {
	return func(r *Surface) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithBackground sets the canvas colour. An empty string leaves the
// canvas transparent.
func WithBackground(c string) Option { return func(r *Surface) { r.background = c } }

// WithProvider sets the go-chart renderer used for encoding, for example
// chart.SVG. The default is chart.PNG.
func WithProvider(p chart.RendererProvider) Option { return func(r *Surface) { r.provider = p } }

// Surface is a display-list scene encoded through go-chart.
type Surface struct {
	*scene.Recorder

	scale      float64
	background string
	provider   chart.RendererProvider
}

// New creates an empty surface.
func New(opts ...Option) *Surface {
	s := &Surface{
		Recorder:   scene.NewRecorder(),
		scale:      DefaultScale,
		background: "white",
		provider:   chart.PNG,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Encode replays the display list and writes the image to w.
func (s *Surface) Encode(w io.Writer) error {
	width, height := s.Size()
	pw, ph := s.px(width), s.px(height)
	if pw <= 0 || ph <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "surface has no size (%vx%v)", width, height)
	}

	r, err := s.provider(pw, ph)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create renderer")
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}
	r.SetDPI(72)
	r.SetFont(font)

	if c, ok := scene.ParseColor(s.background); ok {
		r.SetFillColor(toDrawing(c))
		r.MoveTo(0, 0)
		r.LineTo(pw, 0)
		r.LineTo(pw, ph)
		r.LineTo(0, ph)
		r.Close()
		r.Fill()
	}

	for _, el := range s.Elements() {
		s.draw(r, el)
	}
	if err := r.Save(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode image")
	}
	return nil
}

// Bytes encodes the image into memory.
func (s *Surface) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Surface) draw(r chart.Renderer, el scene.Element) {
	ox, oy := el.Offset()
	p := scene.Resolve(el)

	switch el.Kind {
	case scene.KindRect:
		rc := el.Rect
		if !finite(ox+rc.X, oy+rc.Y, rc.W, rc.H) || rc.W <= 0 || rc.H <= 0 {
			return
		}
		x0, y0 := s.px(ox+rc.X), s.px(oy+rc.Y)
		x1, y1 := s.px(ox+rc.X+rc.W), s.px(oy+rc.Y+rc.H)
		r.ResetStyle()
		r.SetFillColor(toDrawing(p.Fill))
		r.MoveTo(x0, y0)
		r.LineTo(x1, y0)
		r.LineTo(x1, y1)
		r.LineTo(x0, y1)
		r.Close()
		r.Fill()

	case scene.KindLine:
		l := el.Line
		if !finite(ox+l.X1, oy+l.Y1, ox+l.X2, oy+l.Y2) {
			return
		}
		r.ResetStyle()
		r.SetStrokeColor(toDrawing(p.Stroke))
		r.SetStrokeWidth(s.scale)
		if p.Dashed {
			r.SetStrokeDashArray([]float64{3 * s.scale, 3 * s.scale})
		}
		r.MoveTo(s.px(ox+l.X1), s.px(oy+l.Y1))
		r.LineTo(s.px(ox+l.X2), s.px(oy+l.Y2))
		r.Stroke()

	case scene.KindText:
		t := el.Text
		if t.Content == "" || !finite(ox+t.X, oy+t.Y) {
			return
		}
		r.ResetStyle()
		r.SetFontColor(toDrawing(p.Fill))
		r.SetFontSize(p.FontSize * s.scale)
		box := r.MeasureText(t.Content)
		x, y := s.px(ox+t.X), s.px(oy+t.Y)
		switch t.Anchor {
		case scene.AnchorMiddle:
			x -= box.Width() / 2
		case scene.AnchorEnd:
			x -= box.Width()
		}
		switch t.Baseline {
		case scene.BaselineHanging:
			y += box.Height()
		case scene.BaselineMiddle:
			y += box.Height() / 2
		}
		r.Text(t.Content, x, y)
	}
}

func (s *Surface) px(v float64) int { return int(math.Round(v * s.scale)) }

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func toDrawing(c scene.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

var _ scene.Scene = (*Surface)(nil)
