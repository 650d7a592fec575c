package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	chart   chartFlags
	output  string   // output file path (or base path for multiple outputs), "-" for stdout
	formats []string // output formats: "svg", "png", "json", "txt"
	scale   float64  // PNG pixel density
	noCache bool     // skip the artifact cache
	refresh bool     // re-render and overwrite cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a data file to a waterfall chart",
		Long: `Render a data file (.json, .toml, .csv or .xlsx) to a waterfall chart.

Cumulative data lists signed contributions; a total bar is appended.
Custom data (--type custom) lists explicit start/end pairs.`,
		Example: `  waterfall render sales.csv
  waterfall render sales.csv -f svg,png --width 800
  waterfall render sales.toml -f txt -o -`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDataFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = pipeline.ParseFormats(formatsStr)
			if len(opts.formats) == 0 {
				opts.formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output == "-" && len(opts.formats) != 1 {
				return fmt.Errorf("--output - needs exactly one format")
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	opts.chart.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, txt (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG pixel density (default 2)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

// runRender loads input, renders every requested format and writes the files.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	doc, err := opts.chart.load(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, pipeline.Options{
		Data:    doc.Data,
		Chart:   doc.Options,
		Formats: opts.formats,
		Scale:   opts.scale,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := os.Stdout.Write(result.Artifacts[opts.formats[0]])
		return err
	}

	paths := outputPaths(opts.output, input, opts.formats)
	for _, format := range opts.formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}
	prog.done("Rendered "+input, "bars", result.Stats.Bars, "cached", result.CacheInfo.RenderHit)

	printSuccess("Rendered %s", filepath.Base(input))
	fmt.Println(statsLine(result.Stats.Rows, result.Stats.Bars, result.CacheInfo.RenderHit))
	for _, format := range opts.formats {
		printFile(paths[format])
	}
	if !slices.Contains(opts.formats, pipeline.FormatText) {
		printNextStep("Preview in the terminal", "waterfall preview "+input)
	}
	return nil
}

// outputPaths maps each format to its output file.
// A single format writes to output as given; several formats share a base
// path derived from output or, if empty, from the input file name. A derived
// path never overwrites the input.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		p := base + "." + f
		if p == input {
			p = base + ".chart." + f
		}
		paths[f] = p
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
