package pdf

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Color represents an RGB color
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Named colors used by the certificate layouts
var (
	Black         = Color{R: 0, G: 0, B: 0}
	White         = Color{R: 255, G: 255, B: 255}
	Grey          = Color{R: 128, G: 128, B: 128}
	DarkBlue      = Color{R: 0, G: 0, B: 139}
	LightBlue     = Color{R: 173, G: 216, B: 230}
	DarkGoldenrod = Color{R: 184, G: 134, B: 11}
	LightYellow   = Color{R: 255, G: 255, B: 224}
	DarkGreen     = Color{R: 0, G: 100, B: 0}
	LightGreen    = Color{R: 144, G: 238, B: 144}
)

// ParseHex parses a "#rrggbb" or "rrggbb" string
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Hex returns the color as "#rrggbb"
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalJSON encodes the color as a hex string
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

// UnmarshalJSON accepts either a hex string or an {r,g,b} object
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseHex(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var rgb struct {
		R int `json:"r"`
		G int `json:"g"`
		B int `json:"b"`
	}
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("invalid color: %w", err)
	}
	*c = Color{R: rgb.R, G: rgb.G, B: rgb.B}
	return nil
}
