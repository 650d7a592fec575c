// Package term implements a [scene.Scene] that draws into a character grid
// for terminal previews.
package term

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/waterfall/pkg/scene"
)

// Approximate pixel size of one terminal cell.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

const (
	runeBar   = '█'
	runeHoriz = '─'
	runeDash  = '┄'
	runeVert  = '│'
	runeCross = '┼'
)

// Option configures a Surface.
type Option func(*Surface)

// WithRenderer sets the lipgloss renderer used for colouring, which
// decides the colour profile of the output.
func WithRenderer(r *lipgloss.Renderer) Option { return func(s *Surface) { s.renderer = r } }

// Surface is a display-list scene rendered as coloured text.
type Surface struct {
	*scene.Recorder

	renderer *lipgloss.Renderer
}

// New creates an empty surface.
func New(opts ...Option) *Surface {
	s := &Surface{
		Recorder: scene.NewRecorder(),
		renderer: lipgloss.DefaultRenderer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type cell struct {
	r     rune
	color string
}

type grid struct {
	cells      [][]cell
	sx, sy     float64
	cols, rows int
}

// String renders the scene at one cell per CellWidth x CellHeight pixels.
func (s *Surface) String() string {
	w, h := s.Size()
	return s.Render(int(math.Ceil(w/CellWidth)), int(math.Ceil(h/CellHeight)))
}

// Render draws the scene into a cols x rows grid.
func (s *Surface) Render(cols, rows int) string {
	w, h := s.Size()
	if cols <= 0 || rows <= 0 || w <= 0 || h <= 0 {
		return ""
	}
	g := &grid{
		cells: make([][]cell, rows),
		sx:    float64(cols) / w,
		sy:    float64(rows) / h,
		cols:  cols,
		rows:  rows,
	}
	for i := range g.cells {
		g.cells[i] = make([]cell, cols)
	}

	for _, el := range s.Elements() {
		ox, oy := el.Offset()
		p := scene.Resolve(el)
		switch el.Kind {
		case scene.KindRect:
			g.rect(ox+el.Rect.X, oy+el.Rect.Y, el.Rect.W, el.Rect.H, p.Fill.Hex())
		case scene.KindLine:
			l := el.Line
			g.line(ox+l.X1, oy+l.Y1, ox+l.X2, oy+l.Y2, p.Dashed, p.Stroke.Hex())
		case scene.KindText:
			g.text(ox+el.Text.X, oy+el.Text.Y, el.Text, p.Fill.Hex())
		}
	}
	return s.paint(g)
}

func (g *grid) set(col, row int, r rune, color string) {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return
	}
	c := &g.cells[row][col]
	if (c.r == runeHoriz && r == runeVert) || (c.r == runeVert && (r == runeHoriz || r == runeDash)) {
		r = runeCross
	}
	c.r, c.color = r, color
}

func (g *grid) rect(x, y, w, h float64, color string) {
	if !finite(x, y, w, h) || w <= 0 || h <= 0 {
		return
	}
	c0, c1 := span(x*g.sx, (x+w)*g.sx)
	r0, r1 := span(y*g.sy, (y+h)*g.sy)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			g.set(col, row, runeBar, color)
		}
	}
}

func (g *grid) line(x1, y1, x2, y2 float64, dashed bool, color string) {
	if !finite(x1, y1, x2, y2) {
		return
	}
	if math.Abs(y2-y1)*g.sy < math.Abs(x2-x1)*g.sx {
		r := rune(runeHoriz)
		if dashed {
			r = runeDash
		}
		row := int(math.Round(y1 * g.sy))
		if row >= g.rows {
			row = g.rows - 1
		}
		c0, c1 := span(math.Min(x1, x2)*g.sx, math.Max(x1, x2)*g.sx)
		for col := c0; col < c1; col++ {
			g.set(col, row, r, color)
		}
		return
	}
	col := int(math.Floor(x1 * g.sx))
	r0, r1 := span(math.Min(y1, y2)*g.sy, math.Max(y1, y2)*g.sy)
	for row := r0; row < r1; row++ {
		g.set(col, row, runeVert, color)
	}
}

func (g *grid) text(x, y float64, t scene.Text, color string) {
	if !finite(x, y) || t.Content == "" {
		return
	}
	runes := []rune(t.Content)
	cy := y * g.sy
	row := int(math.Ceil(cy)) - 1
	if t.Baseline != scene.BaselineAlphabetic {
		row = int(math.Floor(cy))
	}
	col := int(math.Round(x * g.sx))
	switch t.Anchor {
	case scene.AnchorMiddle:
		col -= len(runes) / 2
	case scene.AnchorEnd:
		col -= len(runes)
	}
	for i, r := range runes {
		g.set(col+i, row, r, color)
	}
}

// span returns the cells [from, to) covering a continuous interval,
// at least one cell wide.
func span(a, b float64) (int, int) {
	from, to := int(math.Round(a)), int(math.Round(b))
	if to <= from {
		to = from + 1
	}
	return from, to
}

func (s *Surface) paint(g *grid) string {
	var out strings.Builder
	for i, row := range g.cells {
		if i > 0 {
			out.WriteByte('\n')
		}
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				out.WriteString(run.String())
			} else {
				out.WriteString(s.renderer.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			}
			run.Reset()
		}
		for _, c := range row {
			r, color := c.r, c.color
			if r == 0 {
				r, color = ' ', ""
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteRune(r)
		}
		flush()
	}
	return out.String()
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

var _ scene.Scene = (*Surface)(nil)
