// Package output holds rendered pixels and encodes them to image files.
package output

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// MaxColorRange is the largest channel value an Image can be encoded with
const MaxColorRange = 65535

// Image is a row-major grid of colors. Row 0 is the top of the picture.
// Pixels are written once by the renderer and read-only afterwards.
// Image implements image.Image so it can be handed to any standard encoder.
type Image struct {
	width      int
	height     int
	colorRange int
	pixels     []core.Color
}

// NewImage allocates a width x height image with the given maximum channel value
func NewImage(width, height, colorRange int) (*Image, error) {
	if width <= 0 {
		return nil, core.NewConfigError("width", "must be positive, got %d", width)
	}
	if height <= 0 {
		return nil, core.NewConfigError("height", "must be positive, got %d", height)
	}
	if colorRange < 1 || colorRange > MaxColorRange {
		return nil, core.NewConfigError("color_range", "must be in [1, %d], got %d", MaxColorRange, colorRange)
	}
	return &Image{
		width:      width,
		height:     height,
		colorRange: colorRange,
		pixels:     make([]core.Color, width*height),
	}, nil
}

// Width returns the number of columns
func (img *Image) Width() int { return img.width }

// Height returns the number of rows
func (img *Image) Height() int { return img.height }

// ColorRange returns the maximum encoded channel value
func (img *Image) ColorRange() int { return img.colorRange }

// Pixel returns the color at column x, row y
func (img *Image) Pixel(x, y int) core.Color {
	return img.pixels[img.index(x, y)]
}

// SetPixel stores the color at column x, row y
func (img *Image) SetPixel(x, y int, c core.Color) {
	img.pixels[img.index(x, y)] = c
}

func (img *Image) index(x, y int) int {
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		panic(fmt.Sprintf("output: pixel (%d, %d) out of bounds %dx%d", x, y, img.width, img.height))
	}
	return y*img.width + x
}

// Quantize maps a channel on the nominal [0, core.ChannelMax] scale to an
// integer in [0, colorRange]
func Quantize(channel float64, colorRange int) int {
	if math.IsNaN(channel) {
		return 0
	}
	v := math.Round(channel / core.ChannelMax * float64(colorRange))
	if v < 0 {
		return 0
	}
	if v > float64(colorRange) {
		return colorRange
	}
	return int(v)
}

// ColorModel implements image.Image
func (img *Image) ColorModel() color.Model {
	if img.colorRange > 255 {
		return color.NRGBA64Model
	}
	return color.NRGBAModel
}

// Bounds implements image.Image
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.width, img.height)
}

// At implements image.Image. Channels are quantized to the color range and
// then rescaled to the model's 8 or 16 bit depth; alpha is always opaque.
func (img *Image) At(x, y int) color.Color {
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		return color.NRGBA{}
	}
	c := img.pixels[y*img.width+x]

	if img.colorRange > 255 {
		return color.NRGBA64{
			R: uint16(img.rescale(c.R, 65535)),
			G: uint16(img.rescale(c.G, 65535)),
			B: uint16(img.rescale(c.B, 65535)),
			A: 65535,
		}
	}
	return color.NRGBA{
		R: uint8(img.rescale(c.R, 255)),
		G: uint8(img.rescale(c.G, 255)),
		B: uint8(img.rescale(c.B, 255)),
		A: 255,
	}
}

// rescale quantizes to the color range, then stretches onto [0, depth]
func (img *Image) rescale(channel float64, depth int) int {
	q := Quantize(channel, img.colorRange)
	if img.colorRange == depth {
		return q
	}
	return int(math.Round(float64(q) * float64(depth) / float64(img.colorRange)))
}
