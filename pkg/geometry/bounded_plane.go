package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// BoundedPlane is a finite, one-sided rectangle centered on Center.
// Width and Height are measured along a local basis derived from the normal
// and rotated about the normal by RotationAngle degrees.
type BoundedPlane struct {
	Center        core.Point
	Normal        core.Vector // Unit normal, points away from the visible face
	Width         float64
	Height        float64
	RotationAngle float64 // Degrees in [0, 360)
	Color         core.Color

	widthAxis  core.Vector // Cached unit axis along Width
	heightAxis core.Vector // Cached unit axis along Height
}

// NewBoundedPlane creates a rectangle. Width and height must be positive and
// the rotation angle must be in [0, 360) degrees.
func NewBoundedPlane(center core.Point, normal core.Vector, width, height, rotationAngle float64, color core.Color) (*BoundedPlane, error) {
	if !core.IsFinite(center) {
		return nil, core.NewConfigError("center", "must be finite, got %v", center)
	}
	unitNormal, ok := core.Normalize(normal)
	if !ok {
		return nil, core.NewConfigError("normal", "must be a non-zero finite vector, got %v", normal)
	}
	if !(width > 0) || math.IsInf(width, 0) {
		return nil, core.NewConfigError("width", "must be a positive number, got %g", width)
	}
	if !(height > 0) || math.IsInf(height, 0) {
		return nil, core.NewConfigError("height", "must be a positive number, got %g", height)
	}
	if !(rotationAngle >= 0 && rotationAngle < 360) {
		return nil, core.NewConfigError("rotation_angle", "must be in [0, 360) degrees, got %g", rotationAngle)
	}

	bp := &BoundedPlane{
		Center:        center,
		Normal:        unitNormal,
		Width:         width,
		Height:        height,
		RotationAngle: rotationAngle,
		Color:         color,
	}
	bp.computeAxes()
	return bp, nil
}

// computeAxes derives the rectangle's in-plane basis. The unrotated width axis
// is perpendicular to world up (world Z when the normal is vertical).
func (bp *BoundedPlane) computeAxes() {
	reference := core.NewVec3(0, 1, 0)
	if math.Abs(bp.Normal.Dot(reference)) > 1-intersectionEpsilon {
		reference = core.NewVec3(0, 0, 1)
	}
	widthAxis := reference.Cross(bp.Normal).Normalize()
	heightAxis := bp.Normal.Cross(widthAxis)

	rotation := mgl64.QuatRotate(mgl64.DegToRad(bp.RotationAngle), bp.Normal)
	bp.widthAxis = rotation.Rotate(widthAxis)
	bp.heightAxis = rotation.Rotate(heightAxis)
}

// Axes returns the rotated unit axes along Width and Height
func (bp *BoundedPlane) Axes() (widthAxis, heightAxis core.Vector) {
	return bp.widthAxis, bp.heightAxis
}

// IntersectionPoint intersects the underlying plane and keeps the hit only if
// it falls inside the rectangle
func (bp *BoundedPlane) IntersectionPoint(ray core.Ray) (core.Point, bool) {
	point, ok := intersectPlane(ray, bp.Center, bp.Normal)
	if !ok {
		return core.Point{}, false
	}

	// Project the hit into the rectangle's local basis
	local := point.Sub(bp.Center)
	if math.Abs(local.Dot(bp.widthAxis)) > bp.Width/2 {
		return core.Point{}, false
	}
	if math.Abs(local.Dot(bp.heightAxis)) > bp.Height/2 {
		return core.Point{}, false
	}

	return point, true
}

// Intersects reports whether the ray hits the rectangle
func (bp *BoundedPlane) Intersects(ray core.Ray) bool {
	_, ok := bp.IntersectionPoint(ray)
	return ok
}

// ColorAt returns the rectangle's color
func (bp *BoundedPlane) ColorAt(point core.Point) core.Color {
	return bp.Color
}

// NormalAt returns the constant normal
func (bp *BoundedPlane) NormalAt(point core.Point) core.Vector {
	return bp.Normal
}

// Kind returns KindBoundedPlane
func (bp *BoundedPlane) Kind() Kind { return KindBoundedPlane }

func (bp *BoundedPlane) sealed() {}
