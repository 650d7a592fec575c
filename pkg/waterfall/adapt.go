package waterfall

import "github.com/matzehuels/waterfall/pkg/errors"

// Adapt converts raw rows into renderable items according to cfg.Mode.
//
// Input order is preserved. In cumulative mode a total item is appended.
// Adapt fails with an INVALID_INPUT error when a row has no name, a
// cumulative row has no value, or a custom row lacks start or end. Values
// are otherwise not checked: NaN and any sign flow through to rendering.
func Adapt(raw []RawItem, cfg Config) ([]Item, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.validateMode(); err != nil {
		return nil, err
	}
	if cfg.Mode == ModeCustom {
		return adaptCustom(raw, cfg)
	}
	return adaptCumulative(raw, cfg)
}

func adaptCumulative(raw []RawItem, cfg Config) ([]Item, error) {
	items := make([]Item, 0, len(raw)+1)
	var sum float64
	for i, r := range raw {
		if r.Name == "" {
			return nil, errors.InvalidInput("row %d: missing name", i)
		}
		if r.Value == nil {
			return nil, errors.InvalidInput("row %d (%s): missing value", i, r.Name)
		}
		v := *r.Value
		items = append(items, Item{
			Name:  r.Name,
			Value: v,
			Class: r.Class,
			Color: resolveColor(r.Color, v, cfg),
			Start: sum,
			End:   sum + v,
		})
		sum += v
	}
	items = append(items, Item{
		Name:  cfg.TotalLabel,
		Value: sum,
		Class: TotalClass,
		Color: cfg.TotalColor,
		Start: 0,
		End:   sum,
	})
	return items, nil
}

func adaptCustom(raw []RawItem, cfg Config) ([]Item, error) {
	items := make([]Item, 0, len(raw))
	for i, r := range raw {
		if r.Name == "" {
			return nil, errors.InvalidInput("row %d: missing name", i)
		}
		if r.Start == nil || r.End == nil {
			return nil, errors.InvalidInput("row %d (%s): custom rows need start and end", i, r.Name)
		}
		start, end := *r.Start, *r.End
		v := end - start
		if r.Value != nil {
			v = *r.Value
		}
		items = append(items, Item{
			Name:  r.Name,
			Value: v,
			Class: r.Class,
			Color: resolveColor(r.Color, v, cfg),
			Start: start,
			End:   end,
		})
	}
	return items, nil
}

// resolveColor picks the explicit colour, else one by the sign of v.
// NaN is not >= 0 and therefore takes the decrement colour.
func resolveColor(explicit string, v float64, cfg Config) string {
	if explicit != "" {
		return explicit
	}
	if v >= 0 {
		return cfg.IncrementColor
	}
	return cfg.DecrementColor
}
