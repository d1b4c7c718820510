package scene

import (
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// orthogonalityTolerance bounds |z·y| for a valid camera basis
const orthogonalityTolerance = 1e-6

// Camera is an eye position with an orthonormal viewing basis.
// ZAxis is the viewing direction and YAxis is up.
type Camera struct {
	Position core.Point
	ZAxis    core.Vector
	YAxis    core.Vector
	xAxis    core.Vector
}

// NewCamera creates a camera, normalizing both axes.
// Zero-length or non-orthogonal axes are rejected.
func NewCamera(position core.Point, zAxis, yAxis core.Vector) (*Camera, error) {
	if !core.IsFinite(position) {
		return nil, core.NewConfigError("position", "must be finite, got %v", position)
	}
	z, ok := core.Normalize(zAxis)
	if !ok {
		return nil, core.NewConfigError("z_axis", "must be a non-zero finite vector, got %v", zAxis)
	}
	y, ok := core.Normalize(yAxis)
	if !ok {
		return nil, core.NewConfigError("y_axis", "must be a non-zero finite vector, got %v", yAxis)
	}
	if dot := z.Dot(y); math.Abs(dot) > orthogonalityTolerance {
		return nil, core.NewConfigError("y_axis", "must be orthogonal to z_axis (z·y = %g)", dot)
	}

	x, _ := core.Normalize(z.Cross(y))
	return &Camera{Position: position, ZAxis: z, YAxis: y, xAxis: x}, nil
}

// NewLookAtCamera creates a camera at position looking at target.
// The up hint is projected onto the plane orthogonal to the viewing direction,
// so it only has to be non-parallel to it.
func NewLookAtCamera(position, target core.Point, up core.Vector) (*Camera, error) {
	z, ok := core.Normalize(target.Sub(position))
	if !ok {
		return nil, core.NewConfigError("look_at", "must differ from position, got %v", target)
	}
	y, ok := core.Normalize(up.Sub(z.Mul(up.Dot(z))))
	if !ok {
		return nil, core.NewConfigError("up", "must not be parallel to the viewing direction, got %v", up)
	}
	return NewCamera(position, z, y)
}

// XAxis returns normalize(ZAxis × YAxis), the camera's right direction
func (c *Camera) XAxis() core.Vector {
	return c.xAxis
}
