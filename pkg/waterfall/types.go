package waterfall

import (
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/format"
)

// Mode selects how raw rows become bar ranges.
type Mode string

// Data modes.
const (
	ModeCumulative Mode = "cumulative"
	ModeCustom     Mode = "custom"
)

// Defaults applied to zero-valued [Config] fields.
const (
	DefaultIncrementColor = "#2ca02c"
	DefaultDecrementColor = "#d62728"
	DefaultTotalColor     = "#1f77b4"
	DefaultTotalLabel     = "Total"

	// TotalClass is the class of the synthetic total bar.
	TotalClass = "total"

	// AspectRatio is height divided by width.
	AspectRatio = 5.0 / 6.0
)

// RawItem is an input row. Value is required in cumulative mode; Start and
// End are required in custom mode.
type RawItem struct {
	Name  string   `json:"name" toml:"name"`
	Value *float64 `json:"value,omitempty" toml:"value,omitempty"`
	Class string   `json:"class,omitempty" toml:"class,omitempty"`
	Color string   `json:"color,omitempty" toml:"color,omitempty"`
	Start *float64 `json:"start,omitempty" toml:"start,omitempty"`
	End   *float64 `json:"end,omitempty" toml:"end,omitempty"`
}

// Num returns a pointer to v, for building RawItem literals.
func Num(v float64) *float64 { return &v }

// Item is an adapted bar ready for rendering.
type Item struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Class string  `json:"class,omitempty"`
	Color string  `json:"color"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Decrement reports whether the bar goes down.
func (it Item) Decrement() bool { return it.Start > it.End }

// Diff returns the signed height of the bar.
func (it Item) Diff() float64 { return it.End - it.Start }

// Config controls adaptation and rendering.
type Config struct {
	Width float64
	Mode  Mode

	// TickFormat formats value-axis ticks. Nil prints the raw number.
	TickFormat func(float64) string
	// ValuesFormat formats bar labels from the bar difference. Nil prints
	// the raw number.
	ValuesFormat func(float64, Item) string

	IncrementColor string
	DecrementColor string
	TotalColor     string
	TotalLabel     string
}

// DefaultConfig returns a cumulative configuration with default colours.
// Width is left unset.
func DefaultConfig() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns c with empty fields replaced by their defaults.
func (c Config) WithDefaults() Config {
	if c.Mode == "" {
		c.Mode = ModeCumulative
	}
	if c.IncrementColor == "" {
		c.IncrementColor = DefaultIncrementColor
	}
	if c.DecrementColor == "" {
		c.DecrementColor = DefaultDecrementColor
	}
	if c.TotalColor == "" {
		c.TotalColor = DefaultTotalColor
	}
	if c.TotalLabel == "" {
		c.TotalLabel = DefaultTotalLabel
	}
	return c
}

// Height returns the surface height derived from the width.
func (c Config) Height() float64 { return c.Width * AspectRatio }

// Validate checks the fields a render depends on.
func (c Config) Validate() error {
	if err := errors.ValidateWidth(c.Width); err != nil {
		return err
	}
	return c.validateMode()
}

func (c Config) validateMode() error {
	switch c.Mode {
	case "", ModeCumulative, ModeCustom:
		return nil
	}
	return errors.InvalidConfig("unknown chart type %q (must be cumulative or custom)", c.Mode)
}

// Options is the serialisable form of [Config], as read from option files,
// flags and HTTP requests. Formatters are named by spec, see package format.
type Options struct {
	Width          float64 `json:"width,omitempty" toml:"width,omitempty"`
	Type           string  `json:"type,omitempty" toml:"type,omitempty"`
	TickFormat     string  `json:"tick_format,omitempty" toml:"tick_format,omitempty"`
	ValuesFormat   string  `json:"values_format,omitempty" toml:"values_format,omitempty"`
	IncrementColor string  `json:"increment_color,omitempty" toml:"increment_color,omitempty"`
	DecrementColor string  `json:"decrement_color,omitempty" toml:"decrement_color,omitempty"`
	TotalColor     string  `json:"total_color,omitempty" toml:"total_color,omitempty"`
	TotalLabel     string  `json:"total_label,omitempty" toml:"total_label,omitempty"`
}

// Config converts the options into a Config with defaults applied.
// Width is copied as-is; hosts resolve it against their container.
func (o Options) Config() (Config, error) {
	cfg := Config{
		Width:          o.Width,
		Mode:           Mode(o.Type),
		IncrementColor: o.IncrementColor,
		DecrementColor: o.DecrementColor,
		TotalColor:     o.TotalColor,
		TotalLabel:     o.TotalLabel,
	}
	if err := cfg.validateMode(); err != nil {
		return Config{}, err
	}
	for _, c := range []string{o.IncrementColor, o.DecrementColor, o.TotalColor} {
		if c == "" {
			continue
		}
		if err := errors.ValidateColor(c); err != nil {
			return Config{}, err
		}
	}

	tick, err := format.Parse(o.TickFormat)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "tick_format")
	}
	if tick != nil {
		cfg.TickFormat = tick
	}
	values, err := format.Parse(o.ValuesFormat)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "values_format")
	}
	if values != nil {
		cfg.ValuesFormat = func(v float64, _ Item) string { return values(v) }
	}
	return cfg.WithDefaults(), nil
}

// Merge returns o with the non-zero fields of override applied on top.
func (o Options) Merge(override Options) Options {
	if override.Width != 0 {
		o.Width = override.Width
	}
	if override.Type != "" {
		o.Type = override.Type
	}
	if override.TickFormat != "" {
		o.TickFormat = override.TickFormat
	}
	if override.ValuesFormat != "" {
		o.ValuesFormat = override.ValuesFormat
	}
	if override.IncrementColor != "" {
		o.IncrementColor = override.IncrementColor
	}
	if override.DecrementColor != "" {
		o.DecrementColor = override.DecrementColor
	}
	if override.TotalColor != "" {
		o.TotalColor = override.TotalColor
	}
	if override.TotalLabel != "" {
		o.TotalLabel = override.TotalLabel
	}
	return o
}
