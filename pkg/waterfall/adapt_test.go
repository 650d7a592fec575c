package waterfall

import (
	"math"
	"testing"

	"github.com/matzehuels/waterfall/pkg/errors"
)

func TestAdaptCumulative(t *testing.T) {
	raw := []RawItem{
		{Name: "A", Value: Num(10)},
		{Name: "B", Value: Num(-4)},
		{Name: "C", Value: Num(6)},
	}
	items, err := Adapt(raw, DefaultConfig())
	if err != nil {
		t.Fatalf("Adapt: %v", err)
	}

	want := []Item{
		{Name: "A", Value: 10, Color: DefaultIncrementColor, Start: 0, End: 10},
		{Name: "B", Value: -4, Color: DefaultDecrementColor, Start: 10, End: 6},
		{Name: "C", Value: 6, Color: DefaultIncrementColor, Start: 6, End: 12},
		{Name: "Total", Value: 12, Class: TotalClass, Color: DefaultTotalColor, Start: 0, End: 12},
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}
}

func TestAdaptCumulativeInvariants(t *testing.T) {
	values := []float64{3, -7, 0, 2.5, -1.25, 40}
	raw := make([]RawItem, len(values))
	var sum float64
	for i, v := range values {
		raw[i] = RawItem{Name: string(rune('a' + i)), Value: Num(v)}
		sum += v
	}
	items, err := Adapt(raw, DefaultConfig())
	if err != nil {
		t.Fatalf("Adapt: %v", err)
	}
	if len(items) != len(raw)+1 {
		t.Fatalf("got %d items, want %d", len(items), len(raw)+1)
	}
	for i := range raw {
		if items[i].Name != raw[i].Name {
			t.Errorf("item %d name = %q, want %q", i, items[i].Name, raw[i].Name)
		}
		if items[i].End-items[i].Start != items[i].Value {
			t.Errorf("item %d: end-start = %v, want %v", i, items[i].End-items[i].Start, items[i].Value)
		}
		if i > 0 && items[i].Start != items[i-1].End {
			t.Errorf("item %d starts at %v, previous ended at %v", i, items[i].Start, items[i-1].End)
		}
	}
	total := items[len(items)-1]
	if total.Start != 0 || total.End != sum || total.End != items[len(items)-2].End {
		t.Errorf("total = %+v, want 0..%v", total, sum)
	}
}

func TestAdaptEmpty(t *testing.T) {
	items, err := Adapt(nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Adapt: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want only the total", len(items))
	}
	if items[0].Start != 0 || items[0].End != 0 || items[0].Class != TotalClass {
		t.Errorf("total = %+v", items[0])
	}

	items, err = Adapt(nil, Config{Mode: ModeCustom})
	if err != nil {
		t.Fatalf("Adapt custom: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("custom mode produced %d items, want 0", len(items))
	}
}

func TestAdaptColors(t *testing.T) {
	cfg := Config{
		IncrementColor: "green",
		DecrementColor: "red",
		TotalColor:     "blue",
		TotalLabel:     "Net",
	}
	raw := []RawItem{
		{Name: "zero", Value: Num(0)},
		{Name: "neg", Value: Num(-1)},
		{Name: "own", Value: Num(-1), Color: "#abcdef"},
		{Name: "nan", Value: Num(math.NaN())},
	}
	items, err := Adapt(raw, cfg)
	if err != nil {
		t.Fatalf("Adapt: %v", err)
	}

	tests := []struct {
		name  string
		color string
	}{
		{"zero", "green"},
		{"neg", "red"},
		{"own", "#abcdef"},
		{"nan", "red"},
		{"Net", "blue"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if items[i].Name != tt.name {
				t.Fatalf("name = %q, want %q", items[i].Name, tt.name)
			}
			if items[i].Color != tt.color {
				t.Errorf("color = %q, want %q", items[i].Color, tt.color)
			}
		})
	}
}

func TestAdaptCustom(t *testing.T) {
	raw := []RawItem{
		{Name: "A", Value: Num(99), Start: Num(5), End: Num(2), Class: "x"},
		{Name: "B", Start: Num(-3), End: Num(4)},
	}
	items, err := Adapt(raw, Config{Mode: ModeCustom})
	if err != nil {
		t.Fatalf("Adapt: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	a := items[0]
	if a.Start != 5 || a.End != 2 || a.Value != 99 || a.Class != "x" {
		t.Errorf("A = %+v, want start 5 end 2 value 99 class x", a)
	}
	// Value 99 is positive, but colour follows the value sign only.
	if a.Color != DefaultIncrementColor {
		t.Errorf("A color = %q, want %q", a.Color, DefaultIncrementColor)
	}

	b := items[1]
	if b.Value != 7 || b.Color != DefaultIncrementColor {
		t.Errorf("B = %+v, want derived value 7 with increment colour", b)
	}
}

func TestAdaptCustomDecrementColor(t *testing.T) {
	items, err := Adapt([]RawItem{
		{Name: "A", Start: Num(5), End: Num(2)},
	}, Config{Mode: ModeCustom})
	if err != nil {
		t.Fatalf("Adapt: %v", err)
	}
	if items[0].Color != DefaultDecrementColor {
		t.Errorf("color = %q, want %q", items[0].Color, DefaultDecrementColor)
	}
}

func TestAdaptErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  []RawItem
		mode Mode
		code errors.Code
	}{
		{"missing name", []RawItem{{Value: Num(1)}}, ModeCumulative, errors.ErrCodeInvalidInput},
		{"missing value", []RawItem{{Name: "A"}}, ModeCumulative, errors.ErrCodeInvalidInput},
		{"missing start", []RawItem{{Name: "A", End: Num(1)}}, ModeCustom, errors.ErrCodeInvalidInput},
		{"missing end", []RawItem{{Name: "A", Start: Num(1)}}, ModeCustom, errors.ErrCodeInvalidInput},
		{"custom missing name", []RawItem{{Start: Num(0), End: Num(1)}}, ModeCustom, errors.ErrCodeInvalidInput},
		{"unknown mode", []RawItem{{Name: "A", Value: Num(1)}}, Mode("stacked"), errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Adapt(tt.raw, Config{Mode: tt.mode})
			if err == nil {
				t.Fatalf("expected error, got %v", items)
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestAdaptDoesNotAliasInput(t *testing.T) {
	v := 1.0
	raw := []RawItem{{Name: "A", Value: &v}}
	items, err := Adapt(raw, DefaultConfig())
	if err != nil {
		t.Fatalf("Adapt: %v", err)
	}
	v = 100
	if items[0].Value != 1 {
		t.Errorf("item value changed with input: %v", items[0].Value)
	}
}
