// Package svg implements a [scene.Scene] that writes SVG markup.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/matzehuels/waterfall/pkg/scene"
)

// DefaultCSS styles connectors, bar labels and axes.
const DefaultCSS = `
    .bar line.connector { stroke: grey; stroke-dasharray: 3; }
    .bar text { fill: #666; font: 12px sans-serif; text-anchor: middle; }
    .axis text { font: 11px 'Open Sans', 'Roboto', sans-serif; fill: #666; }
    .axis path, .axis line { fill: none; stroke: #999; shape-rendering: crispEdges; }`

// Option configures a Surface.
type Option func(*Surface)

// WithClass sets the class attribute of the root element, typically the
// surface id so the drawing can be found in a page.
func WithClass(c string) Option { return func(s *Surface) { s.class = c } }

// WithCSS replaces the embedded stylesheet. An empty string omits it.
func WithCSS(css string) Option { return func(s *Surface) { s.css = css } }

// Surface accumulates SVG elements. The zero value is not usable; call New.
type Surface struct {
	scene.Scales

	class         string
	css           string
	width, height float64
	body          bytes.Buffer
	depth         int
}

// New creates an empty surface.
func New(opts ...Option) *Surface {
	s := &Surface{css: DefaultCSS}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resize sets the width and height attributes.
func (s *Surface) Resize(width, height float64) { s.width, s.height = width, height }

// Size returns the current surface size.
func (s *Surface) Size() (width, height float64) { return s.width, s.height }

// Group writes a <g> element around the output of draw.
func (s *Surface) Group(g scene.Group, draw func()) {
	s.indent()
	s.body.WriteString("<g")
	attr(&s.body, "class", g.Class)
	if g.Fill != "" {
		attr(&s.body, "style", "fill:"+g.Fill+";")
	}
	if g.X != 0 || g.Y != 0 {
		attr(&s.body, "transform", "translate("+num(g.X)+","+num(g.Y)+")")
	}
	s.body.WriteString(">\n")

	s.depth++
	draw()
	s.depth--

	s.indent()
	s.body.WriteString("</g>\n")
}

// Rect writes a <rect> element.
func (s *Surface) Rect(r scene.Rect) {
	s.indent()
	s.body.WriteString("<rect")
	attr(&s.body, "class", r.Class)
	fmt.Fprintf(&s.body, ` x="%s" y="%s" width="%s" height="%s"`, num(r.X), num(r.Y), num(r.W), num(r.H))
	attr(&s.body, "fill", r.Fill)
	s.body.WriteString("/>\n")
}

// Text writes a <text> element.
func (s *Surface) Text(t scene.Text) {
	s.indent()
	s.body.WriteString("<text")
	attr(&s.body, "class", t.Class)
	fmt.Fprintf(&s.body, ` x="%s" y="%s"`, num(t.X), num(t.Y))
	attr(&s.body, "text-anchor", string(t.Anchor))
	attr(&s.body, "dominant-baseline", string(t.Baseline))
	attr(&s.body, "fill", t.Fill)
	s.body.WriteString(">")
	s.body.WriteString(EscapeXML(t.Content))
	s.body.WriteString("</text>\n")
}

// Line writes a <line> element.
func (s *Surface) Line(l scene.Line) {
	s.indent()
	s.body.WriteString("<line")
	attr(&s.body, "class", l.Class)
	fmt.Fprintf(&s.body, ` x1="%s" y1="%s" x2="%s" y2="%s"`, num(l.X1), num(l.Y1), num(l.X2), num(l.Y2))
	attr(&s.body, "stroke", l.Stroke)
	if l.Dashed {
		attr(&s.body, "stroke-dasharray", "3")
	}
	s.body.WriteString("/>\n")
}

// Clear drops the drawn elements. Size and options are kept.
func (s *Surface) Clear() {
	s.body.Reset()
	s.depth = 0
}

// Bytes returns the complete SVG document.
func (s *Surface) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	attr(&buf, "class", s.class)
	fmt.Fprintf(&buf, ` width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(s.width), num(s.height), num(s.width), num(s.height))
	if s.css != "" {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", s.css)
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// WriteTo writes the SVG document to w.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Bytes())
	return int64(n), err
}

func (s *Surface) indent() {
	for range s.depth + 1 {
		s.body.WriteString("  ")
	}
}

// EscapeXML escapes s for use in text content and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func attr(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(buf, ` %s="%s"`, name, EscapeXML(value))
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // normalise -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

var _ scene.Scene = (*Surface)(nil)
