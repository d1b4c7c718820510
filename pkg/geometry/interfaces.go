package geometry

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
)

// intersectionEpsilon rejects near-parallel rays and back faces for the flat shapes
const intersectionEpsilon = 1e-6

// Geometry is a renderable primitive. The set of implementations is closed:
// Sphere, Plane, BoundedPlane and Triangle. Switch on Kind (or a type switch)
// to handle each variant.
//
// Implementations are immutable after construction and safe to share across
// goroutines.
type Geometry interface {
	// IntersectionPoint returns the first point along the ray's forward
	// direction where it meets the surface. A miss returns false.
	IntersectionPoint(ray core.Ray) (core.Point, bool)
	// Intersects reports whether IntersectionPoint finds a point
	Intersects(ray core.Ray) bool
	// ColorAt returns the surface color at a point obtained from IntersectionPoint
	ColorAt(point core.Point) core.Color
	// NormalAt returns the unit surface normal at a point obtained from IntersectionPoint
	NormalAt(point core.Point) core.Vector
	// Kind identifies the variant
	Kind() Kind

	sealed()
}
