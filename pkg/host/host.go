// Package host binds a waterfall chart to the lifecycle of a UI host.
//
// A host (a web page, a terminal preview, an HTTP session) owns a container
// of some width and hands the chart new props whenever they may have
// changed. [Binding] turns those callbacks into Chart calls:
//
//	OnMount        -> mount a surface, New, Render
//	OnPropsChanged -> Update, only if data, options or width changed
//	OnUnmount      -> Destroy
package host

import (
	"io"
	"math"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/scene"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// Props is what the host passes on every lifecycle callback.
type Props struct {
	Data    []waterfall.RawItem
	Options waterfall.Options
}

// SceneFactory creates the surface for a newly mounted chart.
type SceneFactory func(id string) scene.Scene

// Option configures a Binding.
type Option func(*Binding)

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(b *Binding) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithID sets the surface id instead of generating one on mount.
func WithID(id string) Option { return func(b *Binding) { b.id = id } }

// Binding drives one chart through mount, update and unmount.
type Binding struct {
	mu       sync.Mutex
	registry *scene.Registry
	factory  SceneFactory
	logger   *log.Logger

	id    string
	scene scene.Scene
	chart *waterfall.Chart
	props Props
	width float64
}

// NewBinding creates an unmounted binding. Surfaces are created by factory
// and registered in registry.
func NewBinding(registry *scene.Registry, factory SceneFactory, opts ...Option) *Binding {
	b := &Binding{
		registry: registry,
		factory:  factory,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ResolveWidth picks the chart width for a container: the configured width
// capped by the container, or the container width when none is configured.
// A host without a measurable container (parent <= 0) gets the configured
// width as is.
func ResolveWidth(configured, parent float64) float64 {
	switch {
	case configured > 0 && parent > 0:
		return math.Min(configured, parent)
	case configured > 0:
		return configured
	}
	return parent
}

// OnMount creates the surface and the chart and draws it.
func (b *Binding) OnMount(p Props, parentWidth float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.chart != nil {
		return errors.New(errors.ErrCodeInvalidInput, "surface %s is already mounted", b.id)
	}

	width := ResolveWidth(p.Options.Width, parentWidth)
	cfg, err := p.Options.Config()
	if err != nil {
		return err
	}
	cfg.Width = width
	if err := cfg.Validate(); err != nil {
		return err
	}

	if b.id == "" {
		b.id = scene.NewID()
	}
	s := b.factory(b.id)
	if err := b.registry.Mount(b.id, s); err != nil {
		return err
	}
	chart, err := waterfall.New(b.id, b.registry, p.Data, cfg, waterfall.WithLogger(b.logger))
	if err == nil {
		err = chart.Render()
	}
	if err != nil {
		b.registry.Remove(b.id)
		return err
	}

	b.scene, b.chart = s, chart
	b.props, b.width = p, width
	b.logger.Debug("mounted chart", "id", b.id, "width", width)
	return nil
}

// OnPropsChanged redraws the chart if the data, the options or the
// resolved width differ from the last successful render. It reports
// whether a redraw happened.
func (b *Binding) OnPropsChanged(p Props, parentWidth float64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.chart == nil {
		return false, errors.New(errors.ErrCodeSurfaceNotFound, "chart is not mounted")
	}

	width := ResolveWidth(p.Options.Width, parentWidth)
	if EqualData(p.Data, b.props.Data) && p.Options == b.props.Options && width == b.width {
		return false, nil
	}
	cfg, err := p.Options.Config()
	if err != nil {
		return false, err
	}
	if err := b.chart.Update(p.Data, cfg, width); err != nil {
		return false, err
	}
	b.props, b.width = p, b.chart.Config().Width
	b.logger.Debug("updated chart", "id", b.id, "width", b.width)
	return true, nil
}

// OnUnmount destroys the chart. Unmounting twice is a no-op.
func (b *Binding) OnUnmount() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.chart == nil {
		return nil
	}
	err := b.chart.Destroy()
	b.chart, b.scene = nil, nil
	b.logger.Debug("unmounted chart", "id", b.id)
	return err
}

// ID returns the surface id, empty before the first mount.
func (b *Binding) ID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

// Scene returns the mounted surface, or nil.
func (b *Binding) Scene() scene.Scene {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scene
}

// Chart returns the mounted chart, or nil.
func (b *Binding) Chart() *waterfall.Chart {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chart
}

// Width returns the width of the last render.
func (b *Binding) Width() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width
}

// EqualData reports whether two row slices hold the same rows. Numbers
// compare bitwise so that an unchanged NaN does not force a redraw.
func EqualData(a, b []waterfall.RawItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Name != y.Name || x.Class != y.Class || x.Color != y.Color {
			return false
		}
		if !equalNum(x.Value, y.Value) || !equalNum(x.Start, y.Start) || !equalNum(x.End, y.End) {
			return false
		}
	}
	return true
}

func equalNum(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return math.Float64bits(*a) == math.Float64bits(*b)
}
