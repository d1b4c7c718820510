// Package scene maps normalized screen coordinates to world-space rays.
package scene

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Scene pairs a camera with the screen its rays pass through
type Scene struct {
	Camera *Camera
	Screen *Screen
}

// New creates a scene
func New(camera *Camera, screen *Screen) (*Scene, error) {
	if camera == nil {
		return nil, core.NewConfigError("camera", "is required")
	}
	if screen == nil {
		return nil, core.NewConfigError("screen", "is required")
	}
	return &Scene{Camera: camera, Screen: screen}, nil
}

// RayFor returns the ray from the camera through screen point (i, j).
// The direction is not normalized.
func (s *Scene) RayFor(i, j float64) (core.Ray, error) {
	point, err := s.Screen.PointAt(i, j)
	if err != nil {
		return core.Ray{}, err
	}
	direction := point.Sub(s.Camera.Position)
	if direction.LenSqr() == 0 {
		return core.Ray{}, &core.DomainError{Op: "scene.RayFor", Reason: "screen point coincides with the camera position"}
	}
	return core.NewRay(s.Camera.Position, direction), nil
}
