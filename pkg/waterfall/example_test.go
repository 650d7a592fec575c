package waterfall_test

import (
	"fmt"

	"github.com/matzehuels/waterfall/pkg/scene"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

func ExampleAdapt() {
	items, _ := waterfall.Adapt([]waterfall.RawItem{
		{Name: "A", Value: waterfall.Num(10)},
		{Name: "B", Value: waterfall.Num(-4)},
		{Name: "C", Value: waterfall.Num(6)},
	}, waterfall.DefaultConfig())
	for _, it := range items {
		fmt.Printf("%s %v..%v %s\n", it.Name, it.Start, it.End, it.Color)
	}
	// Output:
	// A 0..10 #2ca02c
	// B 10..6 #d62728
	// C 6..12 #2ca02c
	// Total 0..12 #1f77b4
}

func ExampleAdapt_custom() {
	items, _ := waterfall.Adapt([]waterfall.RawItem{
		{Name: "A", Start: waterfall.Num(5), End: waterfall.Num(2)},
	}, waterfall.Config{Mode: waterfall.ModeCustom})
	fmt.Println(len(items), items[0].Start, items[0].End, items[0].Color)
	// Output:
	// 1 5 2 #d62728
}

func ExampleChart() {
	reg := scene.NewRegistry()
	rec := scene.NewRecorder()
	_ = reg.Mount("chart_demo", rec)

	chart, err := waterfall.New("chart_demo", reg, []waterfall.RawItem{
		{Name: "Revenue", Value: waterfall.Num(120)},
		{Name: "Costs", Value: waterfall.Num(-80)},
	}, waterfall.Config{Width: 300})
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = chart.Render()

	w, h := rec.Size()
	fmt.Println(w, h, len(rec.Rects()))
	_ = chart.Destroy()
	fmt.Println(reg.Len())
	// Output:
	// 300 250 3
	// 0
}
