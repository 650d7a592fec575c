package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/host"
	wio "github.com/matzehuels/waterfall/pkg/io"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

const salesJSON = `{"data": [
	{"name": "Revenue", "value": 1000},
	{"name": "Costs", "value": -400},
	{"name": "Tax", "value": -100}
]}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		formats []string
		want    map[string]string
	}{
		{"derived from input", "", "data/sales.csv", []string{"svg"}, map[string]string{"svg": "data/sales.svg"}},
		{"single output as given", "chart.out", "sales.csv", []string{"png"}, map[string]string{"png": "chart.out"}},
		{"base from output with extension", "out.svg", "sales.csv", []string{"svg", "png"}, map[string]string{"svg": "out.svg", "png": "out.png"}},
		{"base without extension", "report", "sales.csv", []string{"svg", "txt"}, map[string]string{"svg": "report.svg", "txt": "report.txt"}},
		{"never overwrites input", "", "sales.json", []string{"json", "svg"}, map[string]string{"json": "sales.chart.json", "svg": "sales.svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.input, tt.formats)
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "sales.csv", "sales"},
		{"", "dir/q3.xlsx", "dir/q3"},
		{"out.png", "sales.csv", "out"},
		{"out.chart", "sales.csv", "out.chart"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestHumanNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234.5, "1,234.5"},
		{-1000, "-1,000"},
		{0.126, "0.13"},
		{42, "42"},
	}
	for _, tt := range tests {
		if got := humanNumber(tt.in); got != tt.want {
			t.Errorf("humanNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(1, 2, false)
	for _, want := range []string{"1 row", "2 bars", iconFresh} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine() = %q, missing %q", line, want)
		}
	}
	if line := statsLine(1200, 1201, true); !strings.Contains(line, "1,200 rows") || !strings.Contains(line, iconCached) {
		t.Errorf("statsLine() = %q", line)
	}
}

func TestItemsTable(t *testing.T) {
	items := []waterfall.Item{
		{Name: "Revenue", Value: 1000, Start: 0, End: 1000, Color: "#4682b4"},
		{Name: "Total", Value: 500, Start: 0, End: 500, Color: "#ccc"},
	}
	out := itemsTable(items)
	for _, want := range []string{"Name", "Start", "Revenue", "1,000", "Total", "#4682b4"} {
		if !strings.Contains(out, want) {
			t.Errorf("itemsTable() missing %q:\n%s", want, out)
		}
	}
}

func TestChartFlagsLoad(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sales.json", `{
		"data": [{"name": "a", "value": 1}],
		"options": {"width": 500, "total_label": "Net", "type": "cumulative"}
	}`)
	optsFile := writeFile(t, dir, "opts.toml", "width = 400\ntick_format = \"si\"\n")

	f := chartFlags{optionsFile: optsFile}
	f.opts.TotalLabel = "Sum"

	doc, err := f.load(context.Background(), input)
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	want := waterfall.Options{Width: 400, Type: "cumulative", TickFormat: "si", TotalLabel: "Sum"}
	if doc.Options != want {
		t.Errorf("Options = %+v, want %+v", doc.Options, want)
	}
	if len(doc.Data) != 1 {
		t.Errorf("len(Data) = %d, want 1", len(doc.Data))
	}
}

func TestChartFlagsLoadMissingOptions(t *testing.T) {
	input := writeFile(t, t.TempDir(), "sales.json", salesJSON)
	f := chartFlags{optionsFile: filepath.Join(t.TempDir(), "nope.toml")}
	if _, err := f.load(context.Background(), input); err == nil {
		t.Error("expected error for missing options file")
	}
}

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sales.json", salesJSON)
	out := filepath.Join(dir, "out")

	if err := runRoot(t, "render", input, "-f", "svg,txt", "-o", out, "--cache-backend", "none", "--width", "400"); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(out + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(svg), "<svg") || !strings.Contains(string(svg), `width="400"`) {
		t.Errorf("unexpected svg head: %.80s", svg)
	}
	txt, err := os.ReadFile(out + ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(txt), "Total") {
		t.Errorf("text chart missing total bar:\n%s", txt)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sales.json", salesJSON)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"render", input, "-f", "pdf", "--cache-backend", "none"}},
		{"stdout needs one format", []string{"render", input, "-f", "svg,png", "-o", "-", "--cache-backend", "none"}},
		{"bad chart type", []string{"render", input, "-t", "stacked", "--cache-backend", "none"}},
		{"bad cache backend", []string{"render", input, "--cache-backend", "s3"}},
		{"missing file", []string{"render", filepath.Join(dir, "missing.json"), "--cache-backend", "none"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runRoot(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sales.json", salesJSON)

	for _, ext := range []string{"csv", "xlsx", "toml"} {
		t.Run(ext, func(t *testing.T) {
			out := filepath.Join(dir, "sales."+ext)
			if err := runRoot(t, "convert", input, out); err != nil {
				t.Fatalf("convert: %v", err)
			}
			doc, err := wio.Import(out)
			if err != nil {
				t.Fatal(err)
			}
			if len(doc.Data) != 3 || doc.Data[1].Name != "Costs" || *doc.Data[1].Value != -400 {
				t.Errorf("round trip lost rows: %+v", doc.Data)
			}
		})
	}
}

func TestAdaptCommand(t *testing.T) {
	input := writeFile(t, t.TempDir(), "sales.json", salesJSON)
	if err := runRoot(t, "adapt", input, "--total-label", "Net"); err != nil {
		t.Fatalf("adapt: %v", err)
	}
	if err := runRoot(t, "adapt", input, "--json"); err != nil {
		t.Fatalf("adapt --json: %v", err)
	}
}

func TestPreviewModel(t *testing.T) {
	props := host.Props{Data: []waterfall.RawItem{
		{Name: "Revenue", Value: waterfall.Num(1000)},
		{Name: "Costs", Value: waterfall.Num(-400)},
	}}
	m := newPreviewModel("sales.json", func() (host.Props, error) { return props, nil }, log.New(io.Discard))

	step := func(msg tea.Msg) {
		t.Helper()
		next, _ := m.Update(msg)
		m = next.(previewModel)
		if m.err != nil {
			t.Fatalf("Update(%T): %v", msg, m.err)
		}
	}

	step(reloadMsg{})
	if m.binding.Chart() != nil {
		t.Fatal("mounted before the window size is known")
	}

	step(tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.redraws != 1 || m.binding.Width() != 800 {
		t.Errorf("after mount: redraws=%d width=%v, want 1, 800", m.redraws, m.binding.Width())
	}

	step(tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.redraws != 1 {
		t.Errorf("same width redrew: redraws=%d", m.redraws)
	}

	step(tea.WindowSizeMsg{Width: 50, Height: 30})
	if m.redraws != 2 || m.binding.Width() != 400 {
		t.Errorf("after resize: redraws=%d width=%v, want 2, 400", m.redraws, m.binding.Width())
	}

	props.Options.Width = 300
	step(reloadMsg{})
	if m.redraws != 3 || m.binding.Width() != 300 {
		t.Errorf("after reload: redraws=%d width=%v, want 3, 300", m.redraws, m.binding.Width())
	}

	view := m.View()
	if !strings.Contains(view, "3 draws") || !strings.Contains(view, "300px") {
		t.Errorf("status line missing from view:\n%s", view)
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
	if err := m.binding.OnUnmount(); err != nil {
		t.Fatal(err)
	}
}

func TestPreviewModelLoadError(t *testing.T) {
	m := newPreviewModel("bad.json", func() (host.Props, error) {
		return host.Props{}, errors.New("boom")
	}, log.New(io.Discard))

	next, _ := m.Update(reloadMsg{})
	m = next.(previewModel)
	if m.err == nil || !strings.Contains(m.View(), "boom") {
		t.Errorf("load error not shown: %v\n%s", m.err, m.View())
	}
}
