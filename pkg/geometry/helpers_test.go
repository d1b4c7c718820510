package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

var testColor = core.NewColor(200, 40, 40)

const tolerance = 1e-9

func assertPoint(t *testing.T, expected, actual core.Point) {
	t.Helper()
	assert.True(t, core.NearlyEqual(expected, actual, tolerance), "expected point %v, got %v", expected, actual)
}
