package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	wio "github.com/matzehuels/waterfall/pkg/io"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// chartFlags holds the chart option flags shared by render, adapt and preview.
// Set flags override the options file, which overrides options embedded in
// the data file.
type chartFlags struct {
	optionsFile string
	opts        waterfall.Options
}

// register adds the chart option flags to cmd.
func (f *chartFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.optionsFile, "options", "", "chart options file (.json or .toml)")
	fl.Float64Var(&f.opts.Width, "width", 0, "chart width in pixels (height is 5/6 of it)")
	fl.StringVarP(&f.opts.Type, "type", "t", "", "data mode: cumulative (default) or custom")
	fl.StringVar(&f.opts.TickFormat, "tick-format", "", "value axis format: comma, si[:d], ftoa[:d] or a printf verb")
	fl.StringVar(&f.opts.ValuesFormat, "values-format", "", "bar label format, same forms as --tick-format")
	fl.StringVar(&f.opts.IncrementColor, "increment-color", "", "fill of rising bars")
	fl.StringVar(&f.opts.DecrementColor, "decrement-color", "", "fill of falling bars")
	fl.StringVar(&f.opts.TotalColor, "total-color", "", "fill of the total bar")
	fl.StringVar(&f.opts.TotalLabel, "total-label", "", "name of the total bar")
}

// load imports the data file and merges the options layers.
func (f *chartFlags) load(ctx context.Context, path string) (wio.Document, error) {
	logger := loggerFromContext(ctx)

	doc, err := wio.Import(path)
	if err != nil {
		return wio.Document{}, err
	}
	logger.Debug("loaded data", "file", path, "rows", len(doc.Data))

	if f.optionsFile != "" {
		opts, err := wio.ReadOptions(f.optionsFile)
		if err != nil {
			return wio.Document{}, fmt.Errorf("options: %w", err)
		}
		doc.Options = doc.Options.Merge(opts)
		logger.Debug("loaded options", "file", f.optionsFile)
	}
	doc.Options = doc.Options.Merge(f.opts)
	return doc, nil
}
