package raster_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/scene/raster"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

func renderSample(t *testing.T, s *raster.Surface, width float64) {
	t.Helper()
	items, err := waterfall.Adapt([]waterfall.RawItem{
		{Name: "A", Value: waterfall.Num(10)},
		{Name: "B", Value: waterfall.Num(-4)},
		{Name: "C", Value: waterfall.Num(6)},
	}, waterfall.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := waterfall.Render(items, waterfall.Config{Width: width}, s); err != nil {
		t.Fatal(err)
	}
}

func TestEncodePNG(t *testing.T) {
	s := raster.New(raster.WithScale(1))
	renderSample(t, s, 300)

	data, err := s.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 250 {
		t.Errorf("image = %dx%d, want 300x250", b.Dx(), b.Dy())
	}

	// Centre of the first bar (x 60+16..60+50, y 20+33..20+200) is increment green.
	r, g, b, _ := img.At(60+33, 20+120).RGBA()
	if r>>8 != 0x2c || g>>8 != 0xa0 || b>>8 != 0x2c {
		t.Errorf("bar pixel = #%02x%02x%02x, want #2ca02c", r>>8, g>>8, b>>8)
	}
}

func TestEncodeScale(t *testing.T) {
	s := raster.New()
	renderSample(t, s, 240)
	data, err := s.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 480 || cfg.Height != 400 {
		t.Errorf("image = %dx%d, want 480x400 at 2x", cfg.Width, cfg.Height)
	}
}

func TestEncodeWithoutSize(t *testing.T) {
	_, err := raster.New().Bytes()
	if !errors.IsInvalidConfig(err) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}
