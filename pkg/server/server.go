// Package server exposes waterfall rendering over HTTP.
//
// Routes:
//
//	GET    /healthz               liveness and build info
//	POST   /v1/render?format=svg  one-shot render of {data, options}
//	POST   /v1/charts             create a chart session
//	GET    /v1/charts/{id}        session state and adapted items
//	PUT    /v1/charts/{id}        replace data and options
//	DELETE /v1/charts/{id}        drop the session and its surface
//	GET    /v1/charts/{id}/svg    draw the session, optionally ?width=
//
// Sessions live in a [session.Store]. Each session drawn through the svg
// route is bound to an SVG surface by a [host.Binding], so repeated
// requests with unchanged state and width reuse the last drawing.
//
// Errors are JSON bodies {"code", "message"} with status 400 for invalid
// input, 404 for unknown charts and 500 otherwise.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/waterfall/pkg/host"
	"github.com/matzehuels/waterfall/pkg/observability"
	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/scene"
	"github.com/matzehuels/waterfall/pkg/session"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// CleanupInterval is how often expired sessions are purged while serving.
const CleanupInterval = time.Minute

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the session store. The default is an in-memory store.
func WithStore(st session.Store) Option {
	return func(s *Server) {
		if st != nil {
			s.store = st
		}
	}
}

// WithRunner sets the pipeline runner used by the render route.
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithTTL sets the session lifetime.
func WithTTL(ttl time.Duration) Option { return func(s *Server) { s.ttl = ttl } }

// Server handles chart requests.
type Server struct {
	runner   *pipeline.Runner
	store    session.Store
	registry *scene.Registry
	logger   *log.Logger
	ttl      time.Duration

	mu   sync.Mutex
	live map[string]*liveChart
}

// liveChart serialises access to one session's surface. Once closed it
// must not be mounted again.
type liveChart struct {
	mu      sync.Mutex
	binding *host.Binding
	closed  bool
}

// New creates a server.
func New(opts ...Option) *Server {
	s := &Server{
		store:    session.NewMemoryStore(),
		registry: scene.NewRegistry(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		ttl:      session.DefaultTTL,
		live:     make(map[string]*liveChart),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Route("/charts", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Put("/", s.handleUpdate)
				r.Delete("/", s.handleDelete)
				r.Get("/svg", s.handleSVG)
			})
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are purged every CleanupInterval.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.janitor(ctx)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func (s *Server) janitor(ctx context.Context) {
	t := time.NewTicker(CleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}

// Cleanup purges expired sessions and unmounts surfaces whose session is gone.
func (s *Server) Cleanup(ctx context.Context) error {
	if err := s.store.Cleanup(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	ids := make([]string, 0, len(s.live))
	for id := range s.live {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		sess, err := s.store.Get(ctx, id)
		if err != nil {
			return err
		}
		if sess == nil {
			s.unmount(id)
		}
	}
	return nil
}

// Close unmounts every surface and closes the store and runner.
func (s *Server) Close() error {
	s.mu.Lock()
	live := s.live
	s.live = make(map[string]*liveChart)
	s.mu.Unlock()

	for _, lc := range live {
		lc.mu.Lock()
		lc.closed = true
		_ = lc.binding.OnUnmount()
		lc.mu.Unlock()
	}
	return errors.Join(s.store.Close(), s.runner.Close())
}

// Registry returns the registry holding mounted surfaces.
func (s *Server) Registry() *scene.Registry { return s.registry }

// liveFor returns the surface binding for id, creating an unmounted one.
func (s *Server) liveFor(id string) *liveChart {
	s.mu.Lock()
	defer s.mu.Unlock()
	lc, ok := s.live[id]
	if !ok {
		lc = &liveChart{binding: host.NewBinding(s.registry, svgFactory,
			host.WithID(id), host.WithLogger(s.logger))}
		s.live[id] = lc
	}
	return lc
}

func (s *Server) unmount(id string) {
	s.mu.Lock()
	lc, ok := s.live[id]
	delete(s.live, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.closed = true
	if err := lc.binding.OnUnmount(); err != nil {
		s.logger.Warn("unmount failed", "id", id, "err", err)
	}
}

// forget drops lc from the live set if it is still the entry for id.
// The caller holds lc.mu.
func (s *Server) forget(id string, lc *liveChart) {
	s.mu.Lock()
	if s.live[id] == lc {
		delete(s.live, id)
	}
	s.mu.Unlock()
	lc.closed = true
	if err := lc.binding.OnUnmount(); err != nil {
		s.logger.Warn("unmount failed", "id", id, "err", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
