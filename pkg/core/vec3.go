package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Point is a position in world space
type Point = mgl64.Vec3

// Vector is a displacement or direction in world space
type Vector = mgl64.Vec3

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) mgl64.Vec3 {
	return mgl64.Vec3{x, y, z}
}

// Normalize returns the unit vector in the direction of v.
// Zero-length and non-finite vectors report false instead of producing NaN.
func Normalize(v Vector) (Vector, bool) {
	length := v.Len()
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return Vector{}, false
	}
	return v.Mul(1.0 / length), true
}

// IsFinite reports whether every component of v is a finite number
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// NearlyEqual compares two vectors component-wise using an absolute tolerance
func NearlyEqual(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a[0]-b[0]) <= tolerance &&
		math.Abs(a[1]-b[1]) <= tolerance &&
		math.Abs(a[2]-b[2]) <= tolerance
}

// VecFromSlice converts a decoded [x, y, z] list into a vector.
// The list must have exactly three finite values.
func VecFromSlice(values []float64) (mgl64.Vec3, error) {
	if len(values) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("expected 3 components [x, y, z], got %d", len(values))
	}
	v := mgl64.Vec3{values[0], values[1], values[2]}
	if !IsFinite(v) {
		return mgl64.Vec3{}, fmt.Errorf("components must be finite, got %v", values)
	}
	return v, nil
}
