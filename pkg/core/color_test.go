package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlend_Endpoints(t *testing.T) {
	a := NewColorAlpha(0.1, 17.3, 200.7, 0.25)
	b := NewColorAlpha(0.3, 250, 3.3, 1)

	assert.Equal(t, a, Blend(a, b, 0), "t=0 must return the first color exactly")
	assert.Equal(t, b, Blend(a, b, 1), "t=1 must return the second color exactly")
}

func TestBlend_Midpoint(t *testing.T) {
	blue := NewColor(122, 178, 255)
	got := Blend(blue, White, 0.5)

	assert.InDelta(t, 169.0, got.R, 1e-9)
	assert.InDelta(t, 205.0, got.G, 1e-9)
	assert.InDelta(t, 255.0, got.B, 1e-9)
	assert.InDelta(t, 1.0, got.A, 1e-9)
}

func TestBlend_MonotonicPerChannel(t *testing.T) {
	a := NewColor(10, 200, 50)
	b := NewColor(240, 20, 50)

	prev := Blend(a, b, 0)
	for i := 1; i <= 100; i++ {
		cur := Blend(a, b, float64(i)/100)
		assert.GreaterOrEqual(t, cur.R, prev.R, "R must not decrease as t grows")
		assert.LessOrEqual(t, cur.G, prev.G, "G must not increase as t grows")
		assert.InDelta(t, 50.0, cur.B, 1e-9)
		prev = cur
	}
}

func TestBlend_ClampsT(t *testing.T) {
	a := NewColor(0, 0, 0)
	b := NewColor(100, 100, 100)

	assert.Equal(t, a, Blend(a, b, -0.5))
	assert.Equal(t, b, Blend(a, b, 1.0000001))
}

func TestColor_ScaleAndAdd(t *testing.T) {
	c := NewColor(100, 50, 10).Scale(0.5)
	assert.Equal(t, NewColor(50, 25, 5), c)

	sum := Color{}.Add(c).Add(c)
	assert.Equal(t, 100.0, sum.R)
	assert.Equal(t, 50.0, sum.G)
	assert.Equal(t, 10.0, sum.B)
	assert.Equal(t, 1.0, sum.A, "alpha saturates at 1")
}

func TestColor_Clamp(t *testing.T) {
	c := NewColorAlpha(-5, 300, 128, 2).Clamp()
	assert.Equal(t, NewColorAlpha(0, ChannelMax, 128, 1), c)
}

func TestColorFromSlice(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		expected  Color
		expectErr bool
	}{
		{"rgb", []float64{1, 2, 3}, NewColor(1, 2, 3), false},
		{"rgba", []float64{1, 2, 3, 0.5}, NewColorAlpha(1, 2, 3, 0.5), false},
		{"too few", []float64{1, 2}, Color{}, true},
		{"too many", []float64{1, 2, 3, 0.5, 1}, Color{}, true},
		{"negative channel", []float64{-1, 2, 3}, Color{}, true},
		{"channel over range", []float64{1, 256, 3}, Color{}, true},
		{"alpha over range", []float64{1, 2, 3, 1.5}, Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ColorFromSlice(tt.values)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}
