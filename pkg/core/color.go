package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ChannelMax is the nominal maximum of an RGB channel.
// Encoders rescale channels from this range to the image's color range.
const ChannelMax = 255.0

// Color is an RGB color with an alpha blend weight in [0, 1]
type Color struct {
	R, G, B float64
	A       float64
}

var (
	// White is the fixed color background gradients and shading blend towards
	White = Color{R: 216, G: 232, B: 255, A: 1}
	// Black is opaque black
	Black = Color{A: 1}
)

// NewColor creates an opaque color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// NewColorAlpha creates a color with an explicit alpha
func NewColorAlpha(r, g, b, alpha float64) Color {
	return Color{R: r, G: g, B: b, A: alpha}
}

// Scale multiplies the RGB channels by a scalar, keeping alpha
func (c Color) Scale(scalar float64) Color {
	return Color{R: c.R * scalar, G: c.G * scalar, B: c.B * scalar, A: c.A}
}

// Add sums the RGB channels; alpha saturates at 1
func (c Color) Add(other Color) Color {
	return Color{
		R: c.R + other.R,
		G: c.G + other.G,
		B: c.B + other.B,
		A: min(c.A+other.A, 1.0),
	}
}

// Clamp limits the RGB channels to [0, ChannelMax] and alpha to [0, 1]
func (c Color) Clamp() Color {
	return Color{
		R: mgl64.Clamp(c.R, 0, ChannelMax),
		G: mgl64.Clamp(c.G, 0, ChannelMax),
		B: mgl64.Clamp(c.B, 0, ChannelMax),
		A: mgl64.Clamp(c.A, 0, 1),
	}
}

// Blend linearly interpolates between two colors.
// t = 0 returns first exactly, t = 1 returns second exactly; t is clamped to [0, 1].
func Blend(first, second Color, t float64) Color {
	t = mgl64.Clamp(t, 0, 1)
	s := 1.0 - t
	return Color{
		R: s*first.R + t*second.R,
		G: s*first.G + t*second.G,
		B: s*first.B + t*second.B,
		A: s*first.A + t*second.A,
	}
}

// ColorFromSlice converts a decoded [r, g, b] or [r, g, b, a] list into a color.
// Channels must lie in [0, ChannelMax] and alpha in [0, 1].
func ColorFromSlice(values []float64) (Color, error) {
	if len(values) != 3 && len(values) != 4 {
		return Color{}, fmt.Errorf("expected [R, G, B] with an optional alpha, got %d values", len(values))
	}
	for i, v := range values[:3] {
		if !(v >= 0 && v <= ChannelMax) {
			return Color{}, fmt.Errorf("channel %d must be in [0, %g], got %g", i, ChannelMax, v)
		}
	}
	c := NewColor(values[0], values[1], values[2])
	if len(values) == 4 {
		if !(values[3] >= 0 && values[3] <= 1) {
			return Color{}, fmt.Errorf("alpha must be in [0, 1], got %g", values[3])
		}
		c.A = values[3]
	}
	return c, nil
}

// String formats the RGB channels the way plain-text image formats expect
func (c Color) String() string {
	return fmt.Sprintf("%g %g %g", c.R, c.G, c.B)
}
