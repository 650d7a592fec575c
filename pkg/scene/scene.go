package scene

import "github.com/matzehuels/waterfall/pkg/scale"

// Scene is a drawing surface.
// Coordinates of primitives are relative to the innermost open [Group].
type Scene interface {
	// Resize sets the outer surface size in pixels.
	Resize(width, height float64)
	// Band creates a band scale over domain spanning [r0, r1].
	Band(domain []string, r0, r1, padding float64) scale.Band
	// Linear creates a linear scale from [d0, d1] to [r0, r1].
	Linear(d0, d1, r0, r1 float64) scale.Linear
	// Group draws the primitives emitted by draw inside g.
	Group(g Group, draw func())
	// Rect draws a filled rectangle.
	Rect(r Rect)
	// Text draws a label.
	Text(t Text)
	// Line draws a stroked line segment.
	Line(l Line)
	// Clear removes everything drawn so far. The surface keeps its size.
	Clear()
}

// Group is a translated container. Fill is inherited by nested rects and
// texts that do not set their own.
type Group struct {
	Class string  `json:"class,omitempty"`
	Fill  string  `json:"fill,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"width"`
	H     float64 `json:"height"`
	Class string  `json:"class,omitempty"`
	Fill  string  `json:"fill,omitempty"`
}

// Anchor is the horizontal alignment of a text relative to its X.
type Anchor string

// Text anchors.
const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Baseline is the vertical alignment of a text relative to its Y.
type Baseline string

// Text baselines. Hanging puts the top of the glyphs at Y, Middle centres
// them on Y.
const (
	BaselineAlphabetic Baseline = ""
	BaselineHanging    Baseline = "hanging"
	BaselineMiddle     Baseline = "middle"
)

// Text is a single-line label.
type Text struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Content  string   `json:"content"`
	Anchor   Anchor   `json:"anchor,omitempty"`
	Baseline Baseline `json:"baseline,omitempty"`
	Class    string   `json:"class,omitempty"`
	Fill     string   `json:"fill,omitempty"`
}

// Line is a straight segment.
type Line struct {
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Class  string  `json:"class,omitempty"`
	Stroke string  `json:"stroke,omitempty"`
	Dashed bool    `json:"dashed,omitempty"`
}

// Scales implements the scale factories of [Scene]. Embed it in scene
// implementations that have no reason to customise scale construction.
type Scales struct{}

// Band creates a rounded band scale.
func (Scales) Band(domain []string, r0, r1, padding float64) scale.Band {
	return scale.NewBand(domain, r0, r1, padding)
}

// Linear creates a linear scale.
func (Scales) Linear(d0, d1, r0, r1 float64) scale.Linear {
	return scale.NewLinear(d0, d1, r0, r1)
}
