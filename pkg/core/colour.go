package core

import (
	"image/color"
	"math"
)

// Colour is unbounded RGB light energy. Channels may exceed 1 until tone mapping.
type Colour struct {
	Red, Green, Blue float32
}

// NewColour creates a new Colour
func NewColour(r, g, b float32) Colour {
	return Colour{Red: r, Green: g, Blue: b}
}

// Grey returns a colour with all channels set to v
func Grey(v float32) Colour {
	return Colour{v, v, v}
}

// ColourFromRGB8 converts an 8-bit triple to light energy in [0, 1]
func ColourFromRGB8(r, g, b uint8) Colour {
	return Colour{float32(r) / 255, float32(g) / 255, float32(b) / 255}
}

// ColourFromColor converts any image colour, ignoring alpha
func ColourFromColor(c color.Color) Colour {
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ColourFromRGB8(nrgba.R, nrgba.G, nrgba.B)
}

// Add returns the channel-wise sum
func (c Colour) Add(o Colour) Colour {
	return Colour{c.Red + o.Red, c.Green + o.Green, c.Blue + o.Blue}
}

// Sub returns the channel-wise difference
func (c Colour) Sub(o Colour) Colour {
	return Colour{c.Red - o.Red, c.Green - o.Green, c.Blue - o.Blue}
}

// Mul returns the channel-wise product
func (c Colour) Mul(o Colour) Colour {
	return Colour{c.Red * o.Red, c.Green * o.Green, c.Blue * o.Blue}
}

// Div returns the channel-wise quotient
func (c Colour) Div(o Colour) Colour {
	return Colour{c.Red / o.Red, c.Green / o.Green, c.Blue / o.Blue}
}

// Scale multiplies every channel by s
func (c Colour) Scale(s float32) Colour {
	return Colour{c.Red * s, c.Green * s, c.Blue * s}
}

// DivScalar divides every channel by s
func (c Colour) DivScalar(s float32) Colour {
	return Colour{c.Red / s, c.Green / s, c.Blue / s}
}

// Max returns the largest channel, ignoring NaN channels
func (c Colour) Max() float32 {
	m := float32(math.Inf(-1))
	for _, v := range [3]float32{c.Red, c.Green, c.Blue} {
		if v > m {
			m = v
		}
	}
	return m
}

// IsBlack reports whether every channel is zero
func (c Colour) IsBlack() bool {
	return c.Red == 0 && c.Green == 0 && c.Blue == 0
}

// Clamped scales the colour down so its brightest channel is 1, preserving hue.
// Colours with every channel at or below 1 are returned unchanged.
func (c Colour) Clamped() Colour {
	if m := c.Max(); m > 1 {
		return c.DivScalar(m)
	}
	return c
}

// ToRGB8 tone maps the colour and truncates each channel to 8 bits
func (c Colour) ToRGB8() (r, g, b uint8) {
	cl := c.Clamped()
	return channelToByte(cl.Red), channelToByte(cl.Green), channelToByte(cl.Blue)
}

// ToRGBA returns the tone mapped colour as an opaque color.RGBA
func (c Colour) ToRGBA() color.RGBA {
	r, g, b := c.ToRGB8()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// channelToByte truncates toward zero; negative and NaN channels map to 0
func channelToByte(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
