package geometry

import (
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Point
	Radius float64
	Color  core.Color
}

// NewSphere creates a new sphere. The radius must be positive and finite.
func NewSphere(center core.Point, radius float64, color core.Color) (*Sphere, error) {
	if !core.IsFinite(center) {
		return nil, core.NewConfigError("center", "must be finite, got %v", center)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, core.NewConfigError("radius", "must be a positive number, got %g", radius)
	}
	return &Sphere{
		Center: center,
		Radius: radius,
		Color:  color,
	}, nil
}

// IntersectionPoint projects the sphere center onto the ray and solves for the
// half chord. Rays starting inside the sphere hit the exit point.
func (s *Sphere) IntersectionPoint(ray core.Ray) (core.Point, bool) {
	direction, ok := ray.UnitDirection()
	if !ok {
		return core.Point{}, false
	}

	// Vector from ray origin to sphere center
	originToCenter := s.Center.Sub(ray.Origin)
	radiusSq := s.Radius * s.Radius
	distSq := originToCenter.LenSqr()
	inside := distSq < radiusSq

	// Distance along the ray to the point closest to the center
	tProj := originToCenter.Dot(direction)
	if tProj < 0 && !inside {
		return core.Point{}, false
	}

	// Squared distance from the center to the ray
	perpDistSq := distSq - tProj*tProj
	if perpDistSq > radiusSq {
		return core.Point{}, false
	}

	tHalfChord := math.Sqrt(radiusSq - perpDistSq)

	// Try the closer intersection point first
	t := tProj - tHalfChord
	if t < 0 {
		t = tProj + tHalfChord
		if t < 0 {
			return core.Point{}, false
		}
	}

	return ray.Origin.Add(direction.Mul(t)), true
}

// Intersects reports whether the ray hits the sphere
func (s *Sphere) Intersects(ray core.Ray) bool {
	_, ok := s.IntersectionPoint(ray)
	return ok
}

// ColorAt returns the sphere's color
func (s *Sphere) ColorAt(point core.Point) core.Color {
	return s.Color
}

// NormalAt returns the outward normal (from center to point)
func (s *Sphere) NormalAt(point core.Point) core.Vector {
	normal, ok := core.Normalize(point.Sub(s.Center))
	if !ok {
		return core.NewVec3(0, 1, 0)
	}
	return normal
}

// Kind returns KindSphere
func (s *Sphere) Kind() Kind { return KindSphere }

func (s *Sphere) sealed() {}
