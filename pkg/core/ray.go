package core

// Ray represents a ray with an origin and direction.
// The direction is not required to be normalized.
type Ray struct {
	Origin    Point
	Direction Vector
}

// NewRay creates a new ray
func NewRay(origin Point, direction Vector) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Point {
	return r.Origin.Add(r.Direction.Mul(t))
}

// UnitDirection returns the normalized direction, or false for a zero-length direction
func (r Ray) UnitDirection() (Vector, bool) {
	return Normalize(r.Direction)
}
