package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wio "github.com/matzehuels/waterfall/pkg/io"
	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// adaptCommand prints the bars a data file turns into.
func (c *CLI) adaptCommand() *cobra.Command {
	var (
		chart  chartFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "adapt [file]",
		Short: "Show the bars computed from a data file",
		Long: `Show the bars computed from a data file: running start and end values,
the sign-based colour and, for cumulative data, the appended total.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDataFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdapt(cmd.Context(), args[0], &chart, asJSON)
		},
	}

	chart.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the bars as JSON")
	return cmd
}

func runAdapt(ctx context.Context, input string, chart *chartFlags, asJSON bool) error {
	doc, err := chart.load(ctx, input)
	if err != nil {
		return err
	}
	items, cfg, err := pipeline.Adapt(pipeline.Options{Data: doc.Data, Chart: doc.Options})
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("adapted", "rows", len(doc.Data), "bars", len(items), "mode", cfg.Mode)

	if asJSON {
		return wio.WriteItems(items, os.Stdout)
	}

	fmt.Println(StyleTitle.Render(input) + StyleDim.Render(" · "+string(cfg.Mode)))
	fmt.Println(itemsTable(items))
	if len(items) > 0 {
		last := items[len(items)-1]
		printKeyValue("Final", humanNumber(last.End))
	}
	return nil
}

// convertCommand converts data files between the supported encodings.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a data file to another format",
		Long: `Convert a data file between JSON, TOML, CSV and Excel (.xlsx).
Formats are chosen by file extension. Chart options are kept by JSON and
TOML and dropped by the tabular formats.`,
		Example: `  waterfall convert sales.xlsx sales.toml
  waterfall convert sales.json sales.csv`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeDataFiles(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			doc, err := wio.Import(args[0])
			if err != nil {
				return err
			}
			to, err := wio.DetectFormat(args[1])
			if err != nil {
				return err
			}
			if (to == wio.FormatCSV || to == wio.FormatXLSX) && doc.Options != (waterfall.Options{}) {
				printWarning("Chart options are not kept in %s files", to)
			}
			if err := wio.Export(doc, args[1]); err != nil {
				return err
			}
			logger.Debug("converted", "from", args[0], "to", args[1], "rows", len(doc.Data))
			printSuccess("Converted %d rows", len(doc.Data))
			printFile(args[1])
			return nil
		},
	}
}
