// Package cli implements the waterfall command-line interface.
//
// This package provides commands for rendering waterfall charts from JSON,
// TOML, CSV or Excel files, inspecting the adapted bars, previewing charts
// in the terminal and serving the HTTP API. The CLI is built using cobra,
// reads settings through viper and logs via charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Generate SVG, PNG, JSON or text charts
//   - adapt: Print the bars a data file turns into
//   - convert: Convert data files between formats
//   - preview: Draw a chart in the terminal, redrawn on resize
//   - serve: Run the HTTP API
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time and any extra key/value pairs.
// Example output: "Rendered sales.csv (12ms) bars=5"
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
	if len(keyvals) > 0 {
		p.logger.Debug(msg, keyvals...)
	}
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
