package waterfall

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/scene"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func sampleItems(t *testing.T) []Item {
	t.Helper()
	items, err := Adapt([]RawItem{
		{Name: "A", Value: Num(10)},
		{Name: "B", Value: Num(-4)},
		{Name: "C", Value: Num(6)},
	}, DefaultConfig())
	if err != nil {
		t.Fatalf("Adapt: %v", err)
	}
	return items
}

func render(t *testing.T, items []Item, cfg Config) *scene.Recorder {
	t.Helper()
	rec := scene.NewRecorder()
	if err := Render(items, cfg, rec); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return rec
}

func TestRenderSurfaceSize(t *testing.T) {
	rec := render(t, sampleItems(t), Config{Width: 300})
	w, h := rec.Size()
	if w != 300 || h != 250 {
		t.Errorf("size = %vx%v, want 300x250", w, h)
	}
}

func TestRenderBars(t *testing.T) {
	items := sampleItems(t)
	rec := render(t, items, Config{Width: 300})

	rects := rec.Rects()
	if len(rects) != len(items) {
		t.Fatalf("got %d rects, want %d", len(rects), len(items))
	}

	// Inner area is 210x200; four bands on a rounded 0.3-padded scale.
	wantX := []float64{16, 64, 112, 160}
	y := func(v float64) float64 { return 200 - v*200/12 }
	for i, el := range rects {
		it := items[i]
		x, oy := el.Offset()
		if !approx(x, MarginLeft+wantX[i]) || !approx(oy, MarginTop) {
			t.Errorf("bar %d offset = (%v,%v), want (%v,%v)", i, x, oy, MarginLeft+wantX[i], MarginTop)
		}
		if el.Rect.W != 34 {
			t.Errorf("bar %d width = %v, want 34", i, el.Rect.W)
		}
		if !approx(el.Rect.Y, y(math.Max(it.Start, it.End))) {
			t.Errorf("bar %d y = %v, want %v", i, el.Rect.Y, y(math.Max(it.Start, it.End)))
		}
		if !approx(el.Rect.H, math.Abs(y(it.Start)-y(it.End))) {
			t.Errorf("bar %d height = %v", i, el.Rect.H)
		}
		if el.Fill() != it.Color {
			t.Errorf("bar %d fill = %q, want %q", i, el.Fill(), it.Color)
		}
	}
}

func TestRenderBarClasses(t *testing.T) {
	items := sampleItems(t)
	rec := render(t, items, Config{Width: 300})

	want := []string{"bar bar0", "bar bar1", "bar bar2", "bar total last"}
	for i, el := range rec.Rects() {
		if got := el.GroupClass(); got != want[i] {
			t.Errorf("bar %d class = %q, want %q", i, got, want[i])
		}
	}
	// rect and label only; the last bar has no connector
	if n := len(rec.WithClass(ClassLast)); n != 2 {
		t.Errorf("%d elements under the last bar, want 2", n)
	}
}

func TestRenderConnectors(t *testing.T) {
	items := sampleItems(t)
	rec := render(t, items, Config{Width: 300})

	conns := rec.WithClass(ClassConnector)
	if len(conns) != len(items)-1 {
		t.Fatalf("got %d connectors, want %d", len(conns), len(items)-1)
	}
	y := func(v float64) float64 { return 200 - v*200/12 }
	for i, el := range conns {
		l := el.Line
		if !l.Dashed {
			t.Errorf("connector %d not dashed", i)
		}
		if !approx(l.X1, 39) || !approx(l.X2, 34/0.7-5) {
			t.Errorf("connector %d x = %v..%v", i, l.X1, l.X2)
		}
		if !approx(l.Y1, y(items[i].End)) || l.Y1 != l.Y2 {
			t.Errorf("connector %d y = %v/%v, want %v", i, l.Y1, l.Y2, y(items[i].End))
		}
		if el.HasClass(ClassLast) {
			t.Errorf("connector %d drawn on last bar", i)
		}
	}
}

func barLabels(rec *scene.Recorder) []scene.Element {
	var out []scene.Element
	for _, el := range rec.Texts() {
		if el.HasClass(ClassBar) {
			out = append(out, el)
		}
	}
	return out
}

func TestRenderLabels(t *testing.T) {
	items := sampleItems(t)
	rec := render(t, items, Config{Width: 300})

	labels := barLabels(rec)
	if len(labels) != len(items) {
		t.Fatalf("got %d labels, want %d", len(labels), len(items))
	}
	y := func(v float64) float64 { return 200 - v*200/12 }
	tests := []struct {
		content string
		y       float64
	}{
		{"10", y(10) - 7},
		// B ends at 6, inside the band above the domain minimum: label above its start.
		{"-4", y(10) - 7},
		{"6", y(12) - 7},
		{"12", y(12) - 7},
	}
	for i, tt := range tests {
		got := labels[i].Text
		if got.Content != tt.content {
			t.Errorf("label %d = %q, want %q", i, got.Content, tt.content)
		}
		if !approx(got.Y, tt.y) {
			t.Errorf("label %d y = %v, want %v", i, got.Y, tt.y)
		}
		if got.X != 17 || got.Anchor != scene.AnchorMiddle {
			t.Errorf("label %d x = %v anchor %q", i, got.X, got.Anchor)
		}
	}
}

func TestLabelYDecrementOutsideBand(t *testing.T) {
	items, err := Adapt([]RawItem{
		{Name: "A", Value: Num(100)},
		{Name: "B", Value: Num(-50)},
	}, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	rec := render(t, items, Config{Width: 300})
	labels := barLabels(rec)
	y := func(v float64) float64 { return 200 - v*200/100 }
	if got, want := labels[1].Text.Y, y(50)+14; !approx(got, want) {
		t.Errorf("B label y = %v, want %v (below the bar end)", got, want)
	}
}

func TestLabelYRelativeToDomainMinimum(t *testing.T) {
	// All-negative series: minimum is -100, a decrement ending at -90 is
	// within the band and keeps its label above its start.
	items := []Item{
		{Name: "A", Start: 0, End: -60},
		{Name: "B", Start: -60, End: -90},
		{Name: "C", Start: -90, End: -100},
	}
	cfg := Config{Width: 300}.WithDefaults()
	l := NewLayout(items, cfg, scene.NewRecorder())
	if l.Min() != -100 || l.Max() != 0 {
		t.Fatalf("domain = [%v,%v]", l.Min(), l.Max())
	}
	y := l.Y.Scale
	if got := LabelY(items[0], l); !approx(got, y(-60)+14) {
		t.Errorf("A label y = %v, want below end", got)
	}
	if got := LabelY(items[1], l); !approx(got, y(-60)-7) {
		t.Errorf("B label y = %v, want above start", got)
	}
	if got := LabelY(items[2], l); !approx(got, y(-90)-7) {
		t.Errorf("C label y = %v, want above start", got)
	}
}

func TestLabelYCustomStartBelowDomain(t *testing.T) {
	items := []Item{
		{Name: "A", Start: -50, End: 10},
		{Name: "B", Start: 10, End: -20},
	}
	l := NewLayout(items, Config{Width: 300}.WithDefaults(), scene.NewRecorder())
	if l.Min() != -20 || l.Max() != 10 {
		t.Fatalf("domain = [%v,%v], want [-20,10]", l.Min(), l.Max())
	}
	// B ends at the domain minimum, so its label sits above its start.
	if got, want := LabelY(items[1], l), l.Y.Scale(10)-7; !approx(got, want) {
		t.Errorf("B label y = %v, want %v", got, want)
	}
}

func TestRenderValuesFormat(t *testing.T) {
	items := sampleItems(t)
	cfg := Config{
		Width: 300,
		ValuesFormat: func(v float64, it Item) string {
			return it.Name + ":" + strings.Repeat("+", int(math.Abs(v)))
		},
		TickFormat: func(v float64) string { return "t" },
	}
	rec := render(t, items, cfg)
	labels := barLabels(rec)
	if got := labels[1].Text.Content; got != "B:++++" {
		t.Errorf("label = %q, want B:++++", got)
	}
	for _, el := range rec.Texts() {
		if el.HasClass("y") && el.Text.Content != "t" {
			t.Errorf("tick label %q not formatted", el.Text.Content)
		}
	}
}

func TestRenderAxes(t *testing.T) {
	items := sampleItems(t)
	rec := render(t, items, Config{Width: 300})

	var xLabels, yLabels []string
	for _, el := range rec.Texts() {
		switch {
		case el.HasClass("x"):
			xLabels = append(xLabels, el.Text.Content)
		case el.HasClass("y"):
			yLabels = append(yLabels, el.Text.Content)
		}
	}
	if got := strings.Join(xLabels, ","); got != "A,B,C,Total" {
		t.Errorf("x labels = %s", got)
	}
	// [0, 12] at ten ticks gives unit steps.
	if len(yLabels) != 13 || yLabels[0] != "0" || yLabels[12] != "12" {
		t.Errorf("y labels = %v", yLabels)
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		name   string
		items  []Item
		lo, hi float64
	}{
		{"empty", nil, 0, 0},
		{"positive", []Item{{Start: 2, End: 5}}, 0, 5},
		{"negative", []Item{{Start: -2, End: -5}}, -5, 0},
		{"mixed", []Item{{Start: 0, End: 10}, {Start: 10, End: -3}}, -3, 10},
		{"nan skipped", []Item{{Start: 0, End: math.NaN()}, {Start: 1, End: 4}}, 0, 4},
		{"custom starts ignored", []Item{{Start: -50, End: 10}, {Start: 10, End: -20}}, -20, 10},
		{"start above every end", []Item{{Start: 80, End: 5}}, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := Domain(tt.items)
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("Domain = [%v,%v], want [%v,%v]", lo, hi, tt.lo, tt.hi)
			}
			if lo > 0 || hi < 0 {
				t.Errorf("domain [%v,%v] does not contain 0", lo, hi)
			}
		})
	}
}

func TestRenderInvalidWidthKeepsScene(t *testing.T) {
	items := sampleItems(t)
	rec := render(t, items, Config{Width: 300})
	before := len(rec.Elements())
	clears := rec.Clears()

	for _, w := range []float64{0, -1, math.NaN()} {
		err := Render(items, Config{Width: w}, rec)
		if !errors.IsInvalidConfig(err) {
			t.Errorf("width %v: err = %v, want INVALID_CONFIG", w, err)
		}
	}
	if len(rec.Elements()) != before || rec.Clears() != clears {
		t.Errorf("failed render touched the scene")
	}
}

func TestRenderDegenerate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		rec := render(t, nil, Config{Width: 300})
		if len(rec.Rects()) != 0 {
			t.Errorf("drew %d bars", len(rec.Rects()))
		}
		if len(rec.WithClass(ClassDomain)) != 2 {
			t.Errorf("axes not drawn")
		}
	})
	t.Run("nan", func(t *testing.T) {
		items, err := Adapt([]RawItem{{Name: "A", Value: Num(math.NaN())}}, DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		rec := render(t, items, Config{Width: 300})
		if len(rec.Rects()) != 2 {
			t.Errorf("drew %d bars, want 2", len(rec.Rects()))
		}
		if got := barLabels(rec)[0].Text.Content; got != "NaN" {
			t.Errorf("label = %q, want NaN", got)
		}
	})
}

func TestRenderRerenderIsClean(t *testing.T) {
	items := sampleItems(t)
	rec := scene.NewRecorder()
	for range 3 {
		if err := Render(items, Config{Width: 300}, rec); err != nil {
			t.Fatal(err)
		}
	}
	if len(rec.Rects()) != len(items) {
		t.Errorf("got %d rects after three renders, want %d", len(rec.Rects()), len(items))
	}
}

func TestRenderNilScene(t *testing.T) {
	err := Render(nil, Config{Width: 300}, nil)
	if !errors.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}
