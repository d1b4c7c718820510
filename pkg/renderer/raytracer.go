// Package renderer turns an environment seen through a scene into pixels.
package renderer

import (
	"errors"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/environment"
	"github.com/df07/go-scene-raytracer/pkg/output"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// Config contains rendering configuration
type Config struct {
	SamplesPerPixel int            // Number of jittered rays per pixel
	Threads         int            // Worker goroutines, 0 for runtime.NumCPU()
	Seed            int64          // Base seed; worker k uses core.DeriveSeed(Seed, k)
	Logger          zerolog.Logger // Progress and summary logging
	OnRowComplete   func(row int)  // Called from worker goroutines after each row
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		SamplesPerPixel: 16,
		Threads:         0,
		Seed:            1,
		Logger:          zerolog.Nop(),
	}
}

// RayTracer renders an environment through a scene.
// It holds no mutable state, so Render may be called repeatedly.
type RayTracer struct {
	env     *environment.Environment
	scene   *scene.Scene
	config  Config
	weights []float64
}

// New creates a ray tracer
func New(env *environment.Environment, sc *scene.Scene, config Config) (*RayTracer, error) {
	if env == nil {
		return nil, errors.New("renderer: environment is required")
	}
	if sc == nil {
		return nil, errors.New("renderer: scene is required")
	}
	if config.SamplesPerPixel < 1 {
		return nil, core.NewConfigError("samples_per_pixel", "must be at least 1, got %d", config.SamplesPerPixel)
	}
	if config.Threads < 0 {
		return nil, core.NewConfigError("threads", "must not be negative, got %d", config.Threads)
	}

	return &RayTracer{
		env:     env,
		scene:   sc,
		config:  config,
		weights: SampleWeights(config.SamplesPerPixel),
	}, nil
}

// Render allocates an image and traces every pixel into it
func (rt *RayTracer) Render(width, height, colorRange int) (*output.Image, RenderStats, error) {
	img, err := output.NewImage(width, height, colorRange)
	if err != nil {
		return nil, RenderStats{}, err
	}
	return img, rt.Trace(img), nil
}

// Trace renders every pixel of img in parallel and blocks until done
func (rt *RayTracer) Trace(img *output.Image) RenderStats {
	start := time.Now()
	logger := rt.config.Logger

	pool := NewWorkerPool(rt, img, rt.config.Threads)
	logger.Debug().
		Int("width", img.Width()).
		Int("height", img.Height()).
		Int("samples", rt.config.SamplesPerPixel).
		Int("workers", pool.GetNumWorkers()).
		Int("primitives", rt.env.Len()).
		Msg("render started")

	pool.Start()
	stats := pool.Wait()
	stats.Elapsed = time.Since(start)

	logger.Info().
		Int("pixels", stats.TotalPixels).
		Int("samples", stats.TotalSamples).
		Float64("hitRatio", stats.HitRatio()).
		Dur("elapsed", stats.Elapsed).
		Msg("render finished")

	return stats
}

// renderPixel takes SamplesPerPixel jittered samples inside pixel (col, row)
func (rt *RayTracer) renderPixel(col, row, width, height int, sampler core.Sampler, stats *RenderStats) core.Color {
	var pixel PixelAccumulator

	for _, weight := range rt.weights {
		r1, r2 := sampler.Get2D()
		u := (float64(col) + r1) / float64(width)
		v := (float64(row) + r2) / float64(height)

		var (
			c   core.Color
			hit bool
		)
		ray, err := rt.scene.RayFor(u, v)
		if err != nil {
			// Degenerate screen point; shade the zero ray as background
			c = rt.env.BackgroundColor(core.Ray{})
		} else {
			c, hit = rt.Shade(ray)
		}

		if hit {
			stats.Hits++
		} else {
			stats.Misses++
		}
		pixel.AddSample(c, weight)
	}

	stats.TotalPixels++
	stats.TotalSamples += pixel.SampleCount
	return pixel.GetColor()
}

// Shade returns the color seen along a single ray and whether it hit geometry.
// A hit blends from white towards the surface color by how directly the ray
// faces the surface; the normal is face-forwarded so both sides shade alike.
func (rt *RayTracer) Shade(ray core.Ray) (core.Color, bool) {
	hit, ok := rt.env.FirstIntersected(ray)
	if !ok {
		return rt.env.BackgroundColor(ray), false
	}

	shapeColor := hit.Geometry.ColorAt(hit.Point)
	direction, ok := ray.UnitDirection()
	if !ok {
		return shapeColor, true
	}
	facing := mgl64.Clamp(math.Abs(direction.Dot(hit.Geometry.NormalAt(hit.Point))), 0, 1)
	return core.Blend(core.White, shapeColor, facing), true
}
