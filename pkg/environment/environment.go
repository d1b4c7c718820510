// Package environment stores the geometry of a scene and answers ray queries
// against it.
package environment

import (
	"math"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
)

// Hit is the nearest intersection found along a ray
type Hit struct {
	Geometry geometry.Geometry // The primitive that was hit
	Point    core.Point        // Intersection point
	Distance float64           // Distance from the ray origin to Point
	Index    int               // Insertion index of Geometry
}

// Environment owns an insertion-ordered collection of geometry plus a
// background color. Queries never mutate it, so a populated Environment can be
// shared by any number of goroutines. Add must not be called concurrently with
// queries.
type Environment struct {
	geometry   []geometry.Geometry
	background core.Color
}

// New creates an environment with the given background and initial geometry
func New(background core.Color, shapes ...geometry.Geometry) *Environment {
	env := &Environment{
		geometry:   make([]geometry.Geometry, 0, len(shapes)),
		background: background,
	}
	env.Add(shapes...)
	return env
}

// Add appends geometry in order. It is the only mutation path and belongs to
// scene construction.
func (e *Environment) Add(shapes ...geometry.Geometry) {
	for _, shape := range shapes {
		if shape != nil {
			e.geometry = append(e.geometry, shape)
		}
	}
}

// Len returns the number of primitives
func (e *Environment) Len() int {
	return len(e.geometry)
}

// Geometry returns a copy of the primitives in insertion order
func (e *Environment) Geometry() []geometry.Geometry {
	shapes := make([]geometry.Geometry, len(e.geometry))
	copy(shapes, e.geometry)
	return shapes
}

// Background returns the configured background color
func (e *Environment) Background() core.Color {
	return e.background
}

// FirstIntersected returns the primitive whose intersection point is closest
// to the ray origin. The scan is linear in insertion order and only a strictly
// smaller distance replaces the current best, so the first primitive wins ties.
func (e *Environment) FirstIntersected(ray core.Ray) (Hit, bool) {
	closest := Hit{Distance: math.Inf(1), Index: -1}

	for i, shape := range e.geometry {
		point, ok := shape.IntersectionPoint(ray)
		if !ok {
			continue
		}
		distance := point.Sub(ray.Origin).Len()
		if distance < closest.Distance {
			closest = Hit{Geometry: shape, Point: point, Distance: distance, Index: i}
		}
	}

	return closest, closest.Geometry != nil
}

// Intersecting returns every primitive the ray intersects, in insertion order
func (e *Environment) Intersecting(ray core.Ray) []geometry.Geometry {
	var result []geometry.Geometry
	for _, shape := range e.geometry {
		if shape.Intersects(ray) {
			result = append(result, shape)
		}
	}
	return result
}

// BackgroundColor returns the background blended towards core.White by the
// vertical component of the ray direction: straight down is the background
// color, straight up is white.
func (e *Environment) BackgroundColor(ray core.Ray) core.Color {
	t := 0.5
	if direction, ok := ray.UnitDirection(); ok {
		t = (direction.Y() + 1.0) / 2.0
	}
	return core.Blend(e.background, core.White, t)
}
