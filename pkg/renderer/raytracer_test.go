package renderer

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/environment"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

var (
	skyBlue = core.NewColor(122, 178, 255)
	red     = core.NewColor(255, 0, 0)
)

func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	camera, err := scene.NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0))
	require.NoError(t, err)
	screen, err := scene.NewScreen(core.NewVec3(-2, 1, -1), core.NewVec3(4, 0, 0), core.NewVec3(0, -2, 0))
	require.NoError(t, err)
	s, err := scene.New(camera, screen)
	require.NoError(t, err)
	return s
}

func sphereEnvironment(t *testing.T) *environment.Environment {
	t.Helper()
	sphere, err := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, red)
	require.NoError(t, err)
	plane, err := geometry.NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, -1, 0), core.NewColor(90, 90, 90))
	require.NoError(t, err)
	return environment.New(skyBlue, sphere, plane)
}

func newTracer(t *testing.T, env *environment.Environment, config Config) *RayTracer {
	t.Helper()
	rt, err := New(env, testScene(t), config)
	require.NoError(t, err)
	return rt
}

func TestNew_InvalidConfig(t *testing.T) {
	env := sphereEnvironment(t)
	sc := testScene(t)

	tests := []struct {
		name   string
		config Config
		field  string
	}{
		{"zero samples", Config{SamplesPerPixel: 0}, "samples_per_pixel"},
		{"negative threads", Config{SamplesPerPixel: 1, Threads: -2}, "threads"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(env, sc, tt.config)
			var configErr *core.ConfigError
			require.True(t, errors.As(err, &configErr))
			assert.Equal(t, tt.field, configErr.Field)
		})
	}

	_, err := New(nil, sc, DefaultConfig())
	assert.Error(t, err)
	_, err = New(env, nil, DefaultConfig())
	assert.Error(t, err)
}

func TestShade(t *testing.T) {
	rt := newTracer(t, sphereEnvironment(t), DefaultConfig())

	// Head-on hit: the facing term is 1, giving the pure surface color
	c, hit := rt.Shade(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)))
	assert.True(t, hit)
	assert.InDelta(t, red.R, c.R, 1e-9)
	assert.InDelta(t, red.G, c.G, 1e-9)
	assert.InDelta(t, red.B, c.B, 1e-9)

	// Grazing hits lean towards white
	grazing, hit := rt.Shade(core.NewRay(core.NewVec3(0.499, 0, 0), core.NewVec3(0, 0, -1)))
	assert.True(t, hit)
	assert.Greater(t, grazing.G, 100.0)

	// Misses take the background gradient
	up := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	c, hit = rt.Shade(up)
	assert.False(t, hit)
	assert.Equal(t, core.White, c)
}

func TestRender_SingleSampleMatchesSampler(t *testing.T) {
	config := Config{SamplesPerPixel: 1, Threads: 1, Seed: 99}
	env := environment.New(skyBlue)
	rt := newTracer(t, env, config)

	img, stats, err := rt.Render(1, 1, 255)
	require.NoError(t, err)

	sampler := core.NewSeededSampler(core.DeriveSeed(99, 0))
	r1, r2 := sampler.Get2D()
	ray, err := testScene(t).RayFor(r1, r2)
	require.NoError(t, err)
	expected := env.BackgroundColor(ray)

	assert.Equal(t, expected, img.Pixel(0, 0))
	assert.Equal(t, 1, stats.TotalPixels)
	assert.Equal(t, 1, stats.TotalSamples)
	assert.Equal(t, 0, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Workers)
}

func TestRender_Reproducible(t *testing.T) {
	config := Config{SamplesPerPixel: 4, Threads: 3, Seed: 7}
	env := sphereEnvironment(t)

	first, _, err := newTracer(t, env, config).Render(16, 8, 255)
	require.NoError(t, err)
	second, _, err := newTracer(t, env, config).Render(16, 8, 255)
	require.NoError(t, err)

	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			assert.Equal(t, first.Pixel(x, y), second.Pixel(x, y), "pixel (%d, %d)", x, y)
		}
	}
}

func TestRender_TwoByTwoReproducible(t *testing.T) {
	config := Config{SamplesPerPixel: 8, Threads: 2, Seed: 2024}
	env := sphereEnvironment(t)

	first, _, err := newTracer(t, env, config).Render(2, 2, 255)
	require.NoError(t, err)
	second, _, err := newTracer(t, env, config).Render(2, 2, 255)
	require.NoError(t, err)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, first.Pixel(x, y), second.Pixel(x, y))
		}
	}
}

func TestRender_StatsAndCoverage(t *testing.T) {
	var (
		mu   sync.Mutex
		rows = map[int]int{}
	)
	config := Config{
		SamplesPerPixel: 3,
		Threads:         4,
		Seed:            1,
		OnRowComplete: func(row int) {
			mu.Lock()
			rows[row]++
			mu.Unlock()
		},
	}
	rt := newTracer(t, sphereEnvironment(t), config)

	img, stats, err := rt.Render(20, 10, 255)
	require.NoError(t, err)

	assert.Equal(t, 200, stats.TotalPixels)
	assert.Equal(t, 600, stats.TotalSamples)
	assert.Equal(t, stats.TotalSamples, stats.Hits+stats.Misses)
	assert.Positive(t, stats.Hits)
	assert.Positive(t, stats.Misses)
	assert.Equal(t, 4, stats.Workers)

	require.Len(t, rows, 10)
	for row := 0; row < 10; row++ {
		assert.Equal(t, 1, rows[row], "row %d", row)
	}

	// The centre pixel looks straight at the sphere
	centre := img.Pixel(10, 5)
	assert.Greater(t, centre.R, centre.G)
}

func TestRender_Uniform(t *testing.T) {
	// With no geometry each pixel lies between the two gradient endpoints
	rt := newTracer(t, environment.New(skyBlue), Config{SamplesPerPixel: 5, Threads: 2, Seed: 3})
	img, stats, err := rt.Render(4, 4, 255)
	require.NoError(t, err)
	assert.Zero(t, stats.Hits)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := img.Pixel(x, y)
			assert.GreaterOrEqual(t, c.R, skyBlue.R-1e-9)
			assert.LessOrEqual(t, c.R, core.White.R+1e-9)
			assert.InDelta(t, 255.0, c.B, 1e-9)
		}
	}
}

func TestRender_InvalidSize(t *testing.T) {
	rt := newTracer(t, sphereEnvironment(t), DefaultConfig())
	_, _, err := rt.Render(0, 10, 255)
	assert.Error(t, err)
}
