package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/scene"
	"github.com/matzehuels/waterfall/pkg/scene/raster"
	"github.com/matzehuels/waterfall/pkg/scene/svg"
	"github.com/matzehuels/waterfall/pkg/scene/term"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// Dump is the JSON artifact: the adapted items next to the drawn scene.
type Dump struct {
	Items []waterfall.Item `json:"items"`
	Scene scene.Snapshot   `json:"scene"`
}

// Adapt validates the options and runs the adapt stage.
func Adapt(opts Options) ([]waterfall.Item, waterfall.Config, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, waterfall.Config{}, err
	}
	cfg, err := opts.Config()
	if err != nil {
		return nil, waterfall.Config{}, err
	}
	items, err := waterfall.Adapt(opts.Data, cfg)
	if err != nil {
		return nil, waterfall.Config{}, err
	}
	return items, cfg, nil
}

// Render generates output artifacts in the requested formats.
// Every format is drawn on a fresh scene.
func Render(items []waterfall.Item, cfg waterfall.Config, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(items, cfg, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat draws items once and encodes the result as format.
func RenderFormat(items []waterfall.Item, cfg waterfall.Config, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		s := svg.New(svg.WithClass(opts.Class))
		if err := waterfall.Render(items, cfg, s); err != nil {
			return nil, err
		}
		return s.Bytes(), nil

	case FormatPNG:
		s := raster.New(raster.WithScale(opts.Scale))
		if err := waterfall.Render(items, cfg, s); err != nil {
			return nil, err
		}
		return s.Bytes()

	case FormatJSON:
		rec := scene.NewRecorder()
		if err := waterfall.Render(items, cfg, rec); err != nil {
			return nil, err
		}
		data, err := json.MarshalIndent(Dump{Items: items, Scene: rec.Snapshot()}, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "encode scene (non-finite values cannot be written as JSON)")
		}
		return data, nil

	case FormatText:
		s := term.New(term.WithRenderer(lipgloss.NewRenderer(io.Discard)))
		if err := waterfall.Render(items, cfg, s); err != nil {
			return nil, err
		}
		return []byte(s.String()), nil
	}
	return nil, ValidateFormat(format)
}
