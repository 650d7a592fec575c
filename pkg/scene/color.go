package scene

import (
	"strconv"
	"strings"
)

// RGBA is a resolved 8-bit colour.
type RGBA struct{ R, G, B, A uint8 }

// Hex returns the colour as #rrggbb, dropping alpha.
func (c RGBA) Hex() string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0x0f]
	}
	return string(b)
}

// namedColors covers the CSS keywords used by the default theme and the
// ones most often passed as item colours.
var namedColors = map[string]RGBA{
	"black":     {0, 0, 0, 255},
	"white":     {255, 255, 255, 255},
	"grey":      {128, 128, 128, 255},
	"gray":      {128, 128, 128, 255},
	"silver":    {192, 192, 192, 255},
	"red":       {255, 0, 0, 255},
	"green":     {0, 128, 0, 255},
	"blue":      {0, 0, 255, 255},
	"yellow":    {255, 255, 0, 255},
	"orange":    {255, 165, 0, 255},
	"purple":    {128, 0, 128, 255},
	"navy":      {0, 0, 128, 255},
	"teal":      {0, 128, 128, 255},
	"maroon":    {128, 0, 0, 255},
	"olive":     {128, 128, 0, 255},
	"lime":      {0, 255, 0, 255},
	"aqua":      {0, 255, 255, 255},
	"cyan":      {0, 255, 255, 255},
	"fuchsia":   {255, 0, 255, 255},
	"magenta":   {255, 0, 255, 255},
	"steelblue": {70, 130, 180, 255},
	"tomato":    {255, 99, 71, 255},
	"crimson":   {220, 20, 60, 255},
	"gold":      {255, 215, 0, 255},
	"indigo":    {75, 0, 130, 255},
}

// ParseColor resolves a hex colour (#rgb, #rrggbb, #rrggbbaa) or one of a
// small set of CSS keywords.
func ParseColor(s string) (RGBA, bool) {
	s = strings.TrimSpace(s)
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, true
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return RGBA{}, false
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, false
	}
	return RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

// ColorOr resolves s, falling back to def when s is empty or unknown.
func ColorOr(s string, def RGBA) RGBA {
	if c, ok := ParseColor(s); ok {
		return c
	}
	return def
}
