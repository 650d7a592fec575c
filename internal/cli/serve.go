package cli

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/server"
	"github.com/matzehuels/waterfall/pkg/session"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API: one-shot rendering on POST /v1/render and live charts
under /v1/charts whose SVG is redrawn only when data, options or the
requested width change.`,
		Example: `  waterfall serve --addr :9000
  waterfall serve --session-backend redis --cache-backend redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), noCache)
		},
	}

	f := cmd.Flags()
	f.String("addr", ":8080", "listen address")
	f.String("session-backend", backendMemory, "chart session store: memory, file or redis")
	f.String("session-dir", "", "file session directory (default ~/.config/waterfall/sessions)")
	f.Duration("session-ttl", session.DefaultTTL, "idle time before a chart session expires")
	f.BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	for _, name := range []string{"addr", "session-backend", "session-dir", "session-ttl"} {
		if err := c.viper.BindPFlag(name, f.Lookup(name)); err != nil {
			c.Logger.Fatal("bind flag", "flag", name, "err", err)
		}
	}
	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	logger := loggerFromContext(ctx)

	store, err := c.settings.openSessions(ctx)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		_ = store.Close()
		return err
	}

	srv := server.New(
		server.WithLogger(logger),
		server.WithStore(store),
		server.WithRunner(runner),
		server.WithTTL(c.settings.SessionTTL),
	)
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Warn("close server", "err", err)
		}
	}()

	logger.Info("starting server",
		"addr", c.settings.Addr,
		"sessions", c.settings.SessionBackend,
		"cache", c.settings.CacheBackend,
	)
	printNextStep("Render a chart", "curl --data @chart.json "+baseURL(c.settings.Addr)+"/v1/render")

	err = srv.ListenAndServe(ctx, c.settings.Addr)
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		logger.Info("server stopped")
		return nil
	}
	return err
}

// baseURL turns a listen address into a URL a local client can use.
func baseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
