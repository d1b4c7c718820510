package geometry

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Triangle represents a single one-sided triangle defined by three corners.
// The front face is the one the counter-clockwise winding A, B, C faces.
type Triangle struct {
	A, B, C core.Point // The three corners
	Color   core.Color

	edge1  core.Vector // B - A
	edge2  core.Vector // C - A
	cross  core.Vector // edge1 × edge2, length is twice the area
	area2  float64     // |cross|
	normal core.Vector // Cached unit normal
}

// NewTriangle creates a new triangle. Collinear corners are rejected.
func NewTriangle(a, b, c core.Point, color core.Color) (*Triangle, error) {
	for i, corner := range []core.Point{a, b, c} {
		if !core.IsFinite(corner) {
			return nil, core.NewConfigError("corners", "corner %d must be finite, got %v", i, corner)
		}
	}

	t := &Triangle{A: a, B: b, C: c, Color: color}
	t.edge1 = b.Sub(a)
	t.edge2 = c.Sub(a)
	t.cross = t.edge1.Cross(t.edge2)
	t.area2 = t.cross.Len()

	normal, ok := core.Normalize(t.cross)
	if !ok || t.area2 < intersectionEpsilon*intersectionEpsilon {
		return nil, core.NewConfigError("corners", "triangle is degenerate (corners are collinear): %v, %v, %v", a, b, c)
	}
	t.normal = normal
	return t, nil
}

// IntersectionPoint uses a Möller–Trumbore variant on barycentric coordinates.
// Back faces, parallel rays and hits behind the origin are misses.
func (t *Triangle) IntersectionPoint(ray core.Ray) (core.Point, bool) {
	direction, ok := ray.UnitDirection()
	if !ok {
		return core.Point{}, false
	}

	// Ray/plane determinant; its sign selects the front face
	determinant := -direction.Dot(t.cross)
	if determinant/t.area2 < intersectionEpsilon {
		return core.Point{}, false
	}
	inverseDeterminant := 1.0 / determinant

	aToOrigin := ray.Origin.Sub(t.A)
	dao := aToOrigin.Cross(direction)

	u := t.edge2.Dot(dao) * inverseDeterminant
	v := -t.edge1.Dot(dao) * inverseDeterminant
	distance := aToOrigin.Dot(t.cross) * inverseDeterminant

	if distance < 0 || u < 0 || v < 0 || u+v > 1 {
		return core.Point{}, false
	}

	return ray.Origin.Add(direction.Mul(distance)), true
}

// Intersects reports whether the ray hits the triangle
func (t *Triangle) Intersects(ray core.Ray) bool {
	_, ok := t.IntersectionPoint(ray)
	return ok
}

// ColorAt returns the triangle's color
func (t *Triangle) ColorAt(point core.Point) core.Color {
	return t.Color
}

// NormalAt returns the normal computed at construction
func (t *Triangle) NormalAt(point core.Point) core.Vector {
	return t.normal
}

// Corners returns the three corners in winding order
func (t *Triangle) Corners() [3]core.Point {
	return [3]core.Point{t.A, t.B, t.C}
}

// Kind returns KindTriangle
func (t *Triangle) Kind() Kind { return KindTriangle }

func (t *Triangle) sealed() {}
