package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

const tolerance = 1e-12

func defaultCamera(t *testing.T) *Camera {
	t.Helper()
	camera, err := NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0))
	require.NoError(t, err)
	return camera
}

func TestNewCamera_NormalizesAxes(t *testing.T) {
	camera, err := NewCamera(core.NewVec3(1, 2, 3), core.NewVec3(0, 0, -5), core.NewVec3(0, 2, 0))
	require.NoError(t, err)

	assert.True(t, core.NearlyEqual(core.NewVec3(0, 0, -1), camera.ZAxis, tolerance))
	assert.True(t, core.NearlyEqual(core.NewVec3(0, 1, 0), camera.YAxis, tolerance))
	assert.True(t, core.NearlyEqual(core.NewVec3(1, 0, 0), camera.XAxis(), tolerance))
}

func TestNewCamera_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		z, y  core.Vector
		field string
	}{
		{"zero z axis", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), "z_axis"},
		{"zero y axis", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 0), "y_axis"},
		{"not orthogonal", core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 1), "y_axis"},
		{"parallel", core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), "y_axis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCamera(core.NewVec3(0, 0, 0), tt.z, tt.y)
			var configErr *core.ConfigError
			require.True(t, errors.As(err, &configErr), "expected ConfigError, got %v", err)
			assert.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestNewLookAtCamera(t *testing.T) {
	camera, err := NewLookAtCamera(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0.3))
	require.NoError(t, err)

	assert.True(t, core.NearlyEqual(core.NewVec3(0, 0, -1), camera.ZAxis, tolerance))
	assert.True(t, core.NearlyEqual(core.NewVec3(0, 1, 0), camera.YAxis, tolerance))

	_, err = NewLookAtCamera(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 5), core.NewVec3(0, 1, 0))
	assert.Error(t, err)
	_, err = NewLookAtCamera(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 2))
	assert.Error(t, err)
}

func TestScreen_PointAt(t *testing.T) {
	screen, err := NewScreen(core.NewVec3(-2, 1, -1), core.NewVec3(4, 0, 0), core.NewVec3(0, -2, 0))
	require.NoError(t, err)

	tests := []struct {
		i, j     float64
		expected core.Point
	}{
		{0, 0, core.NewVec3(-2, 1, -1)},
		{1, 0, core.NewVec3(2, 1, -1)},
		{0, 1, core.NewVec3(-2, -1, -1)},
		{1, 1, core.NewVec3(2, -1, -1)},
		{0.5, 0.5, core.NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		point, err := screen.PointAt(tt.i, tt.j)
		require.NoError(t, err)
		assert.True(t, core.NearlyEqual(tt.expected, point, tolerance), "PointAt(%g, %g) = %v", tt.i, tt.j, point)
	}
}

func TestScreen_PointAtOutOfRange(t *testing.T) {
	screen, err := NewScreen(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	require.NoError(t, err)

	for _, coords := range [][2]float64{{-0.01, 0}, {0, 1.01}, {math.NaN(), 0.5}, {0.5, math.Inf(1)}} {
		_, err := screen.PointAt(coords[0], coords[1])
		var domainErr *core.DomainError
		assert.True(t, errors.As(err, &domainErr), "PointAt(%v) should be a domain error, got %v", coords, err)
	}
}

func TestNewScreen_RejectsZeroEdges(t *testing.T) {
	_, err := NewScreen(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	assert.Error(t, err)
	_, err = NewScreen(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 0))
	assert.Error(t, err)

	// Sheared screens are allowed
	_, err = NewScreen(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 0))
	assert.NoError(t, err)
}

func TestNewViewportScreen(t *testing.T) {
	camera := defaultCamera(t)
	screen, err := NewViewportScreen(camera, 2.0, 2.0, 1.0)
	require.NoError(t, err)

	assert.True(t, core.NearlyEqual(core.NewVec3(-2, 1, -1), screen.Corner, tolerance), "corner %v", screen.Corner)
	assert.True(t, core.NearlyEqual(core.NewVec3(4, 0, 0), screen.Width, tolerance), "width %v", screen.Width)
	assert.True(t, core.NearlyEqual(core.NewVec3(0, -2, 0), screen.Height, tolerance), "height %v", screen.Height)

	_, err = NewViewportScreen(camera, 0, 2, 1)
	assert.Error(t, err)
	_, err = NewViewportScreen(camera, 1, 2, -1)
	assert.Error(t, err)
}

func TestScene_RayFor(t *testing.T) {
	camera := defaultCamera(t)
	screen, err := NewScreen(core.NewVec3(-2, 1, -1), core.NewVec3(4, 0, 0), core.NewVec3(0, -2, 0))
	require.NoError(t, err)
	s, err := New(camera, screen)
	require.NoError(t, err)

	ray, err := s.RayFor(0.5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, camera.Position, ray.Origin)
	assert.True(t, core.NearlyEqual(core.NewVec3(0, 0, -1), ray.Direction, tolerance))

	// Every ray passes through its screen point
	for _, ij := range [][2]float64{{0, 0}, {1, 1}, {0.25, 0.75}} {
		ray, err := s.RayFor(ij[0], ij[1])
		require.NoError(t, err)
		point, _ := screen.PointAt(ij[0], ij[1])
		assert.True(t, core.NearlyEqual(point, ray.At(1), tolerance))
	}

	_, err = s.RayFor(1.5, 0)
	assert.Error(t, err)

	_, err = New(nil, screen)
	assert.Error(t, err)
}
