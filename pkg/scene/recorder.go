package scene

import (
	"encoding/json"
	"strings"
)

// Kind identifies the primitive held by an [Element].
type Kind string

// Element kinds.
const (
	KindRect Kind = "rect"
	KindText Kind = "text"
	KindLine Kind = "line"
)

// Element is a recorded primitive together with the groups enclosing it,
// outermost first.
type Element struct {
	Kind Kind    `json:"kind"`
	Path []Group `json:"groups,omitempty"`
	Rect *Rect   `json:"rect,omitempty"`
	Text *Text   `json:"text,omitempty"`
	Line *Line   `json:"line,omitempty"`
}

// Offset returns the accumulated translation of the enclosing groups.
func (e Element) Offset() (x, y float64) {
	for _, g := range e.Path {
		x += g.X
		y += g.Y
	}
	return x, y
}

// Fill returns the element's own fill or, failing that, the nearest group fill.
func (e Element) Fill() string {
	switch {
	case e.Rect != nil && e.Rect.Fill != "":
		return e.Rect.Fill
	case e.Text != nil && e.Text.Fill != "":
		return e.Text.Fill
	}
	for i := len(e.Path) - 1; i >= 0; i-- {
		if e.Path[i].Fill != "" {
			return e.Path[i].Fill
		}
	}
	return ""
}

// GroupClass returns the class of the innermost enclosing group.
func (e Element) GroupClass() string {
	if len(e.Path) == 0 {
		return ""
	}
	return e.Path[len(e.Path)-1].Class
}

// HasClass reports whether the element or any enclosing group carries class c.
func (e Element) HasClass(c string) bool {
	own := ""
	switch {
	case e.Rect != nil:
		own = e.Rect.Class
	case e.Text != nil:
		own = e.Text.Class
	case e.Line != nil:
		own = e.Line.Class
	}
	if hasClass(own, c) {
		return true
	}
	for _, g := range e.Path {
		if hasClass(g.Class, c) {
			return true
		}
	}
	return false
}

func hasClass(list, c string) bool {
	for _, f := range strings.Fields(list) {
		if f == c {
			return true
		}
	}
	return false
}

// Recorder is a headless [Scene] that keeps primitives in drawing order.
// Other scenes embed it as a display list and replay it onto their target.
type Recorder struct {
	Scales

	width, height float64
	elements      []Element
	groups        []Group
	stack         []Group
	clears        int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Resize records the surface size.
func (r *Recorder) Resize(width, height float64) {
	r.width, r.height = width, height
}

// Size returns the last size passed to Resize.
func (r *Recorder) Size() (width, height float64) { return r.width, r.height }

// Group records g and the primitives drawn inside it.
func (r *Recorder) Group(g Group, draw func()) {
	r.groups = append(r.groups, g)
	r.stack = append(r.stack, g)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()
	draw()
}

// Rect records a rectangle.
func (r *Recorder) Rect(rc Rect) {
	r.elements = append(r.elements, Element{Kind: KindRect, Path: r.path(), Rect: &rc})
}

// Text records a label.
func (r *Recorder) Text(t Text) {
	r.elements = append(r.elements, Element{Kind: KindText, Path: r.path(), Text: &t})
}

// Line records a segment.
func (r *Recorder) Line(l Line) {
	r.elements = append(r.elements, Element{Kind: KindLine, Path: r.path(), Line: &l})
}

// Clear drops every recorded primitive and group.
func (r *Recorder) Clear() {
	r.elements = nil
	r.groups = nil
	r.stack = nil
	r.clears++
}

// Clears returns how many times Clear has been called.
func (r *Recorder) Clears() int { return r.clears }

// Elements returns all recorded primitives in drawing order.
func (r *Recorder) Elements() []Element { return r.elements }

// Groups returns the opened groups in drawing order.
func (r *Recorder) Groups() []Group { return r.groups }

// Rects returns the recorded rectangles.
func (r *Recorder) Rects() []Element { return r.ofKind(KindRect) }

// Texts returns the recorded labels.
func (r *Recorder) Texts() []Element { return r.ofKind(KindText) }

// Lines returns the recorded segments.
func (r *Recorder) Lines() []Element { return r.ofKind(KindLine) }

// WithClass returns the primitives that carry class c, themselves or via a group.
func (r *Recorder) WithClass(c string) []Element {
	var out []Element
	for _, e := range r.elements {
		if e.HasClass(c) {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) ofKind(k Kind) []Element {
	var out []Element
	for _, e := range r.elements {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) path() []Group {
	if len(r.stack) == 0 {
		return nil
	}
	p := make([]Group, len(r.stack))
	copy(p, r.stack)
	return p
}

// Snapshot is the serialisable form of a recorded scene.
type Snapshot struct {
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Elements []Element `json:"elements"`
}

// Snapshot returns the current size and primitives.
func (r *Recorder) Snapshot() Snapshot {
	els := r.elements
	if els == nil {
		els = []Element{}
	}
	return Snapshot{Width: r.width, Height: r.height, Elements: els}
}

// MarshalJSON encodes the recorder as its [Snapshot].
func (r *Recorder) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Snapshot())
}

var _ Scene = (*Recorder)(nil)
