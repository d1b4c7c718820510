package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Screen is a parallelogram in world space that pixels are mapped onto.
// Corner is the reference corner for (0, 0); Width and Height are the edge
// vectors reaching (1, 0) and (0, 1). The edges need not be orthogonal.
type Screen struct {
	Corner core.Point
	Width  core.Vector
	Height core.Vector
}

// NewScreen creates a screen, rejecting zero-length or non-finite edges
func NewScreen(corner core.Point, width, height core.Vector) (*Screen, error) {
	if !core.IsFinite(corner) {
		return nil, core.NewConfigError("reference_corner", "must be finite, got %v", corner)
	}
	if _, ok := core.Normalize(width); !ok {
		return nil, core.NewConfigError("width", "must be a non-zero finite vector, got %v", width)
	}
	if _, ok := core.Normalize(height); !ok {
		return nil, core.NewConfigError("height", "must be a non-zero finite vector, got %v", height)
	}
	return &Screen{Corner: corner, Width: width, Height: height}, nil
}

// NewViewportScreen derives a screen from the camera: focalLength in front of
// the camera, viewportHeight tall and aspectRatio*viewportHeight wide. The
// reference corner is the top-left, so j grows downward.
func NewViewportScreen(camera *Camera, aspectRatio, viewportHeight, focalLength float64) (*Screen, error) {
	if !(aspectRatio > 0) || math.IsInf(aspectRatio, 0) {
		return nil, core.NewConfigError("aspect_ratio", "must be positive, got %g", aspectRatio)
	}
	if !(viewportHeight > 0) || math.IsInf(viewportHeight, 0) {
		return nil, core.NewConfigError("height", "must be positive, got %g", viewportHeight)
	}
	if !(focalLength > 0) || math.IsInf(focalLength, 0) {
		return nil, core.NewConfigError("focal_length", "must be positive, got %g", focalLength)
	}

	viewportWidth := aspectRatio * viewportHeight
	horizontal := camera.XAxis().Mul(viewportWidth)
	vertical := camera.YAxis.Mul(-viewportHeight)

	center := camera.Position.Add(camera.ZAxis.Mul(focalLength))
	corner := center.Sub(horizontal.Mul(0.5)).Sub(vertical.Mul(0.5))

	return NewScreen(corner, horizontal, vertical)
}

// PointAt maps normalized screen coordinates to a world point.
// Coordinates outside [0, 1] are a domain error.
func (s *Screen) PointAt(i, j float64) (core.Point, error) {
	if !(i >= 0 && i <= 1) {
		return core.Point{}, &core.DomainError{Op: "screen.PointAt", Reason: fmt.Sprintf("i = %g is outside [0, 1]", i)}
	}
	if !(j >= 0 && j <= 1) {
		return core.Point{}, &core.DomainError{Op: "screen.PointAt", Reason: fmt.Sprintf("j = %g is outside [0, 1]", j)}
	}
	return s.Corner.Add(s.Width.Mul(i)).Add(s.Height.Mul(j)), nil
}
