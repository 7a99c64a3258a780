package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// colorNames maps common color names to RGBA values.
var colorNames = map[string]color.RGBA{
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"black":       {R: 0, G: 0, B: 0, A: 255},
	"red":         {R: 255, G: 0, B: 0, A: 255},
	"green":       {R: 0, G: 255, B: 0, A: 255},
	"blue":        {R: 0, G: 0, B: 255, A: 255},
	"yellow":      {R: 255, G: 255, B: 0, A: 255},
	"cyan":        {R: 0, G: 255, B: 255, A: 255},
	"magenta":     {R: 255, G: 0, B: 255, A: 255},
	"grey":        {R: 128, G: 128, B: 128, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"orange":      {R: 255, G: 165, B: 0, A: 255},
	"transparent": {},
}

// parseColor parses a color from a name or hex value.
// Hex values can be RRGGBB or RRGGBBAA, with an optional leading '#'.
func parseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colorNames[s]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color format: %s", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color: %s", s)
	}
	if len(hex) == 6 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// parseBool parses a boolean value from common string representations.
// Accepts: yes, no, true, false, 1, 0
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}

// LayerMask builds a click mask from layer indices.
func LayerMask(layers ...int) (uint32, error) {
	var mask uint32
	for _, l := range layers {
		if l < 0 || l > MaxLayer {
			return 0, fmt.Errorf("layer %d out of range 0..%d", l, MaxLayer)
		}
		mask |= 1 << uint(l)
	}
	return mask, nil
}
