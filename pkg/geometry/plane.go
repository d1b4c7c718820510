package geometry

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Plane represents an infinite, one-sided plane defined by a point and normal.
// Rays are only hit when they travel along the normal (normal · direction > 0),
// so the normal points away from the visible face.
type Plane struct {
	Center core.Point  // A point on the plane
	Normal core.Vector // Unit normal
	Color  core.Color
}

// NewPlane creates a new plane, normalizing the normal
func NewPlane(center core.Point, normal core.Vector, color core.Color) (*Plane, error) {
	if !core.IsFinite(center) {
		return nil, core.NewConfigError("center", "must be finite, got %v", center)
	}
	unitNormal, ok := core.Normalize(normal)
	if !ok {
		return nil, core.NewConfigError("normal", "must be a non-zero finite vector, got %v", normal)
	}
	return &Plane{
		Center: center,
		Normal: unitNormal,
		Color:  color,
	}, nil
}

// IntersectionPoint tests the ray against the plane
func (p *Plane) IntersectionPoint(ray core.Ray) (core.Point, bool) {
	return intersectPlane(ray, p.Center, p.Normal)
}

// Intersects reports whether the ray hits the plane
func (p *Plane) Intersects(ray core.Ray) bool {
	_, ok := p.IntersectionPoint(ray)
	return ok
}

// ColorAt returns the plane's color
func (p *Plane) ColorAt(point core.Point) core.Color {
	return p.Color
}

// NormalAt returns the plane normal, which is constant everywhere
func (p *Plane) NormalAt(point core.Point) core.Vector {
	return p.Normal
}

// Kind returns KindPlane
func (p *Plane) Kind() Kind { return KindPlane }

func (p *Plane) sealed() {}

// intersectPlane solves t = (center - origin) · n / (n · d) for a unit normal.
// Near-parallel rays, back-face rays and hits behind the origin are misses.
func intersectPlane(ray core.Ray, center core.Point, normal core.Vector) (core.Point, bool) {
	direction, ok := ray.UnitDirection()
	if !ok {
		return core.Point{}, false
	}

	denominator := normal.Dot(direction)
	if denominator <= intersectionEpsilon {
		return core.Point{}, false
	}

	t := center.Sub(ray.Origin).Dot(normal) / denominator
	if t < 0 {
		return core.Point{}, false
	}

	return ray.Origin.Add(direction.Mul(t)), true
}
