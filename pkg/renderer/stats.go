package renderer

import (
	"time"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           `json:"totalPixels"`  // Total number of pixels rendered
	TotalSamples int           `json:"totalSamples"` // Total number of samples taken
	Hits         int           `json:"hits"`         // Samples whose ray hit geometry
	Misses       int           `json:"misses"`       // Samples shaded with the background
	Workers      int           `json:"workers"`      // Goroutines used
	Elapsed      time.Duration `json:"elapsed"`      // Wall time of the render
}

// Merge adds the counters of other into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.Hits += other.Hits
	s.Misses += other.Misses
}

// HitRatio returns the fraction of samples that hit geometry
func (s RenderStats) HitRatio() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalSamples)
}

// PixelAccumulator tracks the weighted color of a single pixel
type PixelAccumulator struct {
	Color       core.Color // Weighted sum of the samples
	WeightSum   float64    // Sum of the sample weights
	SampleCount int        // Number of samples taken
}

// AddSample adds a color sample with its weight
func (p *PixelAccumulator) AddSample(c core.Color, weight float64) {
	p.Color = p.Color.Add(c.Scale(weight))
	p.WeightSum += weight
	p.SampleCount++
}

// GetColor returns the accumulated pixel color.
// Weights from SampleWeights sum to one, so no normalization is applied.
func (p *PixelAccumulator) GetColor() core.Color {
	return p.Color
}

// SampleWeights returns the weight of each of n samples: 1/n for the first
// n-1 and the remainder for the last, so the weights sum to exactly 1.0.
func SampleWeights(n int) []float64 {
	if n <= 0 {
		return nil
	}
	weights := make([]float64, n)
	weight := 1.0 / float64(n)
	sum := 0.0
	for i := 0; i < n-1; i++ {
		weights[i] = weight
		sum += weight
	}
	weights[n-1] = 1.0 - sum
	return weights
}
