package material

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fogleman/fauxgl"

	"github.com/df07/go-beam-raytracer/pkg/core"
)

// ParseColour parses a hex colour such as "#fff" or "#ffcc00"
func ParseColour(s string) (core.Colour, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3, 6:
	default:
		return core.Colour{}, fmt.Errorf("invalid hex colour %q", s)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return core.Colour{}, fmt.Errorf("invalid hex colour %q", s)
		}
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	c := fauxgl.HexColor(hex)
	return core.NewColour(float32(c.R), float32(c.G), float32(c.B)), nil
}

// ColourValue is a colour in a JSON document: either a hex string or an [r, g, b] array
type ColourValue core.Colour

// UnmarshalJSON accepts "#rrggbb" or [r, g, b]
func (c *ColourValue) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err == nil {
		parsed, err := ParseColour(hex)
		if err != nil {
			return err
		}
		*c = ColourValue(parsed)
		return nil
	}

	var channels []float32
	if err := json.Unmarshal(data, &channels); err != nil {
		return fmt.Errorf("colour must be a hex string or [r, g, b]: %w", err)
	}
	if len(channels) != 3 {
		return fmt.Errorf("colour array must have 3 channels, got %d", len(channels))
	}
	*c = ColourValue(core.NewColour(channels[0], channels[1], channels[2]))
	return nil
}

// Colour returns the parsed value
func (c ColourValue) Colour() core.Colour {
	return core.Colour(c)
}
