package waterfall

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/scene"
)

// Chart binds one surface of a [scene.Registry] to the data and config it
// currently shows. Methods are safe for concurrent use.
type Chart struct {
	mu        sync.Mutex
	id        string
	registry  *scene.Registry
	items     []Item
	cfg       Config
	logger    *log.Logger
	destroyed bool
}

// Option configures a Chart.
type Option func(*Chart)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(c *Chart) {
		if l != nil {
			c.logger = l
		}
	}
}

// New adapts raw under cfg and returns a chart bound to the surface id.
// Nothing is drawn until [Chart.Render]. The surface need not be mounted
// yet, but must be by the time Render is called.
func New(id string, registry *scene.Registry, raw []RawItem, cfg Config, opts ...Option) (*Chart, error) {
	if err := errors.ValidateSurfaceID(id); err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil surface registry")
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	items, err := Adapt(raw, cfg)
	if err != nil {
		return nil, err
	}
	c := &Chart{
		id:       id,
		registry: registry,
		items:    items,
		cfg:      cfg,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ID returns the surface identifier.
func (c *Chart) ID() string { return c.id }

// Items returns a copy of the adapted items.
func (c *Chart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item(nil), c.items...)
}

// Config returns the current configuration.
func (c *Chart) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Render clears the surface and draws the current items.
func (c *Chart) Render() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render(c.items, c.cfg)
}

// Update replaces data and config and redraws.
//
// A positive width overrides cfg.Width; when neither is positive the
// previous width is kept. On error the chart keeps its previous data,
// config and drawing.
func (c *Chart) Update(raw []RawItem, cfg Config, width float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg = cfg.WithDefaults()
	switch {
	case width > 0:
		cfg.Width = width
	case cfg.Width <= 0:
		cfg.Width = c.cfg.Width
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	items, err := Adapt(raw, cfg)
	if err != nil {
		return err
	}
	if err := c.render(items, cfg); err != nil {
		return err
	}
	c.items, c.cfg = items, cfg
	return nil
}

// Destroy clears the surface and unmounts it. Calling Destroy again is a
// no-op; any later Render or Update fails with SURFACE_NOT_FOUND.
func (c *Chart) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return nil
	}
	if s, err := c.registry.Lookup(c.id); err == nil {
		s.Clear()
	}
	c.registry.Remove(c.id)
	c.destroyed = true
	c.logger.Debug("destroyed chart", "id", c.id)
	return nil
}

func (c *Chart) render(items []Item, cfg Config) error {
	if c.destroyed {
		return errors.New(errors.ErrCodeSurfaceNotFound, "chart %s was destroyed", c.id)
	}
	s, err := c.registry.Lookup(c.id)
	if err != nil {
		return err
	}
	if err := Render(items, cfg, s); err != nil {
		return err
	}
	c.logger.Debug("rendered chart", "id", c.id, "bars", len(items), "width", cfg.Width)
	return nil
}
