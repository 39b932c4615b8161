package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	triquad "github.com/triquad/triquad/core"
)

// Single letter colour codes as used by matplotlib.
var shortColors = map[string]color.RGBA{
	"b": {R: 0, G: 0, B: 255, A: 255},
	"g": {R: 0, G: 128, B: 0, A: 255},
	"r": {R: 255, G: 0, B: 0, A: 255},
	"c": {R: 0, G: 191, B: 191, A: 255},
	"m": {R: 191, G: 0, B: 191, A: 255},
	"y": {R: 191, G: 191, B: 0, A: 255},
	"k": {R: 0, G: 0, B: 0, A: 255},
	"w": {R: 255, G: 255, B: 255, A: 255},
}

// ParseColor accepts a CSS colour name, a single letter code, "none", or a
// hex value in #rgb, #rrggbb or #rrggbbaa form.
func ParseColor(s string) (color.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := shortColors[name]; ok {
		return c, nil
	}
	if name == "none" || name == "transparent" {
		return color.Transparent, nil
	}
	if c, ok := colornames.Map[strings.ReplaceAll(name, " ", "")]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") {
		if c, ok := parseHex(name[1:]); ok {
			return c, nil
		}
	}
	return nil, &triquad.Error{
		Op:   "render.color",
		Kind: triquad.KindValidation,
		Msg:  fmt.Sprintf("invalid color %q", s),
	}
}

func parseHex(h string) (color.Color, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return nil, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, false
	}
	c := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return c, true
}
