package render

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var named = map[string]string{
	"white":  "#ffffff",
	"black":  "#000000",
	"red":    "#ff0000",
	"green":  "#008000",
	"blue":   "#0000ff",
	"yellow": "#ffff00",
	"gray":   "#808080",
	"grey":   "#808080",
	"orange": "#ffa500",
	"purple": "#800080",
}

// ParseColor understands #rgb, #rrggbb, a few CSS names and "transparent".
func ParseColor(s string) (color.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" || s == "none" {
		return color.Transparent, true
	}
	if hex, ok := named[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		return nil, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, false
	}
	return c.Clamped(), true
}

// Hex normalizes a CSS colour to #rrggbb. Unparsable and transparent
// colours return "".
func Hex(s string) string {
	c, ok := ParseColor(s)
	if !ok {
		return ""
	}
	return HexOf(c)
}

// HexOf formats an opaque colour as #rrggbb; fully transparent is "".
func HexOf(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	return cf.Hex()
}

// Length reads the leading number of a CSS length such as "16", "12px" or
// "12px 24px". Anything else is 0.
func Length(s string) float64 {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "px"), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Border reads a CSS border shorthand like "1px solid #d1d5db".
func Border(s string) (float64, color.Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" || s == "0" {
		return 0, nil, false
	}
	width := 1.0
	var col color.Color = color.Black
	for _, f := range strings.Fields(s) {
		switch {
		case strings.HasSuffix(f, "px"):
			width = Length(f)
		case f == "solid" || f == "dashed" || f == "dotted":
		default:
			if c, ok := ParseColor(f); ok {
				col = c
			}
		}
	}
	if width <= 0 {
		return 0, nil, false
	}
	return width, col, true
}
