package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

var sample = Document{
	Data: []waterfall.RawItem{
		{Name: "Revenue", Value: waterfall.Num(120)},
		{Name: "Costs", Value: waterfall.Num(-80.5), Color: "#ff0000"},
		{Name: "Tax", Value: waterfall.Num(-10), Class: "tax"},
	},
	Options: waterfall.Options{Width: 600, TotalLabel: "Net"},
}

func checkRows(t *testing.T, got []waterfall.RawItem, want []waterfall.RawItem) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Name != w.Name || g.Class != w.Class || g.Color != w.Color {
			t.Errorf("row %d = %+v, want %+v", i, g, w)
		}
		if (g.Value == nil) != (w.Value == nil) || (g.Value != nil && *g.Value != *w.Value) {
			t.Errorf("row %d value = %v, want %v", i, g.Value, w.Value)
		}
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rows  int
		width float64
	}{
		{"bare array", `[{"name":"A","value":1},{"name":"B","value":-2}]`, 2, 0},
		{"document", `{"data":[{"name":"A","value":1}],"options":{"width":400,"type":"cumulative"}}`, 1, 400},
		{"custom rows", `[{"name":"A","start":5,"end":2}]`, 1, 0},
		{"empty array", `[]`, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ReadJSON(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadJSON: %v", err)
			}
			if len(doc.Data) != tt.rows || doc.Options.Width != tt.width {
				t.Errorf("doc = %+v", doc)
			}
		})
	}
}

func TestReadJSONErrors(t *testing.T) {
	for _, input := range []string{`{`, `{"rows":[]}`, `[{"name":"A","value":"x"}]`, `42`} {
		_, err := ReadJSON(strings.NewReader(input))
		if !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ReadJSON(%s) err = %v, want INVALID_FORMAT", input, err)
		}
	}
}

func TestReadTOML(t *testing.T) {
	input := `
[options]
width = 480
type = "cumulative"
tick_format = "comma"

[[data]]
name = "A"
value = 10

[[data]]
name = "B"
value = -4.5
color = "navy"
`
	doc, err := ReadTOML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadTOML: %v", err)
	}
	if doc.Options.Width != 480 || doc.Options.TickFormat != "comma" {
		t.Errorf("options = %+v", doc.Options)
	}
	checkRows(t, doc.Data, []waterfall.RawItem{
		{Name: "A", Value: waterfall.Num(10)},
		{Name: "B", Value: waterfall.Num(-4.5), Color: "navy"},
	})

	_, err = ReadTOML(strings.NewReader("[options]\nwidht = 3\n"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown key: err = %v", err)
	}
}

func TestReadCSV(t *testing.T) {
	input := "Value,Name,color,start,end\n10,A,,,\n\n-4,B,red,,\n,C,,1,3\n"
	doc, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	checkRows(t, doc.Data, []waterfall.RawItem{
		{Name: "A", Value: waterfall.Num(10)},
		{Name: "B", Value: waterfall.Num(-4), Color: "red"},
		{Name: "C"},
	})
	if c := doc.Data[2]; c.Start == nil || *c.Start != 1 || c.End == nil || *c.End != 3 {
		t.Errorf("custom row = %+v", c)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name, input, msg string
	}{
		{"empty", "", "header"},
		{"no name column", "label,value\nA,1\n", "name column"},
		{"bad number", "name,value\nA,ten\n", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Fatalf("err = %v, want INVALID_FORMAT", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("err = %v, want mention of %q", err, tt.msg)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatTOML, FormatCSV, FormatXLSX} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(sample, &buf, f); err != nil {
				t.Fatalf("Write: %v", err)
			}
			doc, err := Read(&buf, f)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			checkRows(t, doc.Data, sample.Data)
			if f == FormatJSON || f == FormatTOML {
				if doc.Options != sample.Options {
					t.Errorf("options = %+v, want %+v", doc.Options, sample.Options)
				}
			}
		})
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"chart.json", "chart.toml", "chart.csv", "chart.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Export(sample, path); err != nil {
				t.Fatalf("Export: %v", err)
			}
			doc, err := Import(path)
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			checkRows(t, doc.Data, sample.Data)
		})
	}

	if _, err := Import(filepath.Join(dir, "missing.json")); !errors.IsNotFound(err) {
		t.Errorf("missing file: err = %v", err)
	}
	if _, err := Import(filepath.Join(dir, "chart.yaml")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad extension: err = %v", err)
	}
}

func TestReadOptions(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"bare.json": `{"width":300,"total_label":"Sum"}`,
		"doc.json":  `{"data":[],"options":{"width":300,"total_label":"Sum"}}`,
		"bare.toml": "width = 300\ntotal_label = \"Sum\"\n",
		"doc.toml":  "[options]\nwidth = 300\ntotal_label = \"Sum\"\n",
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			opts, err := ReadOptions(path)
			if err != nil {
				t.Fatalf("ReadOptions: %v", err)
			}
			if opts.Width != 300 || opts.TotalLabel != "Sum" {
				t.Errorf("opts = %+v", opts)
			}
		})
	}

	csvPath := filepath.Join(dir, "opts.csv")
	_ = os.WriteFile(csvPath, []byte("name\n"), 0644)
	if _, err := ReadOptions(csvPath); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("csv options: err = %v", err)
	}
}

func TestWriteItems(t *testing.T) {
	items, err := waterfall.Adapt(sample.Data, waterfall.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteItems(items, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"name": "Total"`, `"class": "total"`, `"end": 29.5`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}
