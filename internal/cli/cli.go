// Package cli implements the waterfall command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/waterfall/pkg/buildinfo"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories, env vars and display.
const appName = "waterfall"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger   *log.Logger
	viper    *viper.Viper
	settings Settings
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		viper:  viper.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Waterfall renders running totals as waterfall bar charts",
		Long:         `Waterfall turns a list of signed contributions (or explicit start/end pairs) into a waterfall bar chart, as SVG, PNG, JSON or terminal output.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(c.viper)
			if err != nil {
				return err
			}
			c.settings = s
			if f := c.viper.ConfigFileUsed(); f != "" {
				c.Logger.Debug("loaded config", "file", f)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	if err := addPersistentFlags(root, c.viper); err != nil {
		c.Logger.Fatal("bind flags", "err", err)
	}

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.adaptCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	registerFlagCompletions(root)
	for _, sub := range root.Commands() {
		registerFlagCompletions(sub)
	}

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.settings.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}
