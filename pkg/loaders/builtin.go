package loaders

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// builtins maps a scene name to the function that constructs its document
var builtins = map[string]func() *Document{
	"default":    NewDefaultDocument,
	"triangle":   NewTriangleDocument,
	"spheregrid": NewSphereGridDocument,
	"box":        NewBoxDocument,
}

// BuiltinNames returns the built-in scene names in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a fresh copy of the named built-in document
func Builtin(name string) (*Document, error) {
	create, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown built-in scene %q, expected one of [%s]", name, strings.Join(BuiltinNames(), ", "))
	}
	return create(), nil
}

func ptr[T any](v T) *T { return &v }

var skyBlue = []float64{122, 178, 255}

// standardCamera looks down -Z from the origin with +Y up
func standardCamera() *CameraDoc {
	return &CameraDoc{
		Position: []float64{0, 0, 0},
		ZAxis:    []float64{0, 0, -1},
		YAxis:    []float64{0, 1, 0},
	}
}

// NewDefaultDocument creates the default scene: a red sphere over a grey floor
func NewDefaultDocument() *Document {
	return &Document{
		Name:        "Default Scene",
		Description: "Red sphere resting on a grey ground plane",
		Camera:      standardCamera(),
		Viewport:    &ViewportDoc{Height: ptr(2.0), FocalLength: ptr(1.0)},
		Environment: &EnvironmentDoc{
			BackgroundColor: skyBlue,
			Geometry: []GeometryDoc{
				{Type: "sphere", Center: []float64{0, 0, -1}, Radius: ptr(0.5), Color: []float64{255, 0, 0}},
				// Normals point away from the visible face
				{Type: "plane", Center: []float64{0, -0.5, 0}, Normal: []float64{0, -1, 0}, Color: []float64{90, 90, 90}},
			},
		},
		Output: &OutputDoc{Width: ptr(400), Height: ptr(200), ColorRange: ptr(255)},
		Render: &RenderDoc{SamplesPerPixel: ptr(16)},
	}
}

// NewTriangleDocument creates a scene with a triangle in front of a tilted
// rectangle, seen through an explicit screen
func NewTriangleDocument() *Document {
	return &Document{
		Name:        "Triangle",
		Description: "Blue triangle in front of a rotated green rectangle",
		Camera:      standardCamera(),
		Screen: &ScreenDoc{
			ReferenceCorner: []float64{-2, 1, -1},
			Width:           []float64{4, 0, 0},
			Height:          []float64{0, -2, 0},
		},
		Environment: &EnvironmentDoc{
			BackgroundColor: skyBlue,
			Geometry: []GeometryDoc{
				{Type: "triangle", Corners: [][]float64{{-1, -0.5, -2}, {1, -0.5, -2}, {0, 0.8, -2}}, Color: []float64{40, 60, 220}},
				{
					Type:          "bounded_plane",
					Center:        []float64{0, 0, -3},
					Normal:        []float64{0, 0, -1},
					Width:         ptr(4.0),
					Height:        ptr(1.5),
					RotationAngle: ptr(30.0),
					Color:         []float64{0, 200, 80},
				},
			},
		},
		Output: &OutputDoc{Width: ptr(400), Height: ptr(200), ColorRange: ptr(255)},
		Render: &RenderDoc{SamplesPerPixel: ptr(16)},
	}
}

// NewSphereGridDocument creates a grid of spheres colored by position
func NewSphereGridDocument() *Document {
	const (
		gridSize   = 7
		targetArea = 6.0
	)
	spacing := targetArea / float64(gridSize-1)
	radius := spacing * 0.35

	geometry := []GeometryDoc{
		{Type: "plane", Center: []float64{0, 0, 0}, Normal: []float64{0, -1, 0}, Color: []float64{128, 128, 128}},
	}

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0
			z := float64(j)*spacing - targetArea/2.0 - 6.0

			// Hue varies across X, chroma across Z
			hue := float64(i) / float64(gridSize-1) * 360.0
			chroma := 0.05 + float64(j)/float64(gridSize-1)*0.20
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)

			geometry = append(geometry, GeometryDoc{
				Type:   "sphere",
				Center: []float64{x, radius, z},
				Radius: ptr(radius),
				Color:  oklchToRGB(lightness, chroma, hue),
			})
		}
	}

	return &Document{
		Name:        "Sphere Grid",
		Description: "Grid of spheres with hue and chroma varying across the floor",
		Camera: &CameraDoc{
			Position: []float64{0, 4, 4},
			LookAt:   []float64{0, 0.3, -6},
			Up:       []float64{0, 1, 0},
		},
		Viewport: &ViewportDoc{Height: ptr(1.2), FocalLength: ptr(1.0)},
		Environment: &EnvironmentDoc{
			BackgroundColor: skyBlue,
			Geometry:        geometry,
		},
		Output: &OutputDoc{Width: ptr(480), Height: ptr(270), ColorRange: ptr(255)},
		Render: &RenderDoc{SamplesPerPixel: ptr(16)},
	}
}

// NewBoxDocument creates an open box of bounded planes holding two spheres
func NewBoxDocument() *Document {
	wall := func(center, normal []float64, width, height float64, color []float64) GeometryDoc {
		return GeometryDoc{
			Type:          "bounded_plane",
			Center:        center,
			Normal:        normal,
			Width:         ptr(width),
			Height:        ptr(height),
			RotationAngle: ptr(0.0),
			Color:         color,
		}
	}
	white := []float64{235, 235, 235}

	return &Document{
		Name:        "Box",
		Description: "Open box with red and green side walls and two spheres",
		Camera: &CameraDoc{
			Position: []float64{0, 0, 1.5},
			ZAxis:    []float64{0, 0, -1},
			YAxis:    []float64{0, 1, 0},
		},
		Viewport: &ViewportDoc{Height: ptr(1.6), FocalLength: ptr(1.0)},
		Environment: &EnvironmentDoc{
			BackgroundColor: []float64{20, 20, 30},
			Geometry: []GeometryDoc{
				// Floor, ceiling and back wall
				wall([]float64{0, -1, -1}, []float64{0, -1, 0}, 2, 2, white),
				wall([]float64{0, 1, -1}, []float64{0, 1, 0}, 2, 2, white),
				wall([]float64{0, 0, -2}, []float64{0, 0, -1}, 2, 2, white),
				// Left and right walls
				wall([]float64{-1, 0, -1}, []float64{-1, 0, 0}, 2, 2, []float64{200, 30, 30}),
				wall([]float64{1, 0, -1}, []float64{1, 0, 0}, 2, 2, []float64{30, 200, 30}),
				{Type: "sphere", Center: []float64{-0.4, -0.65, -1.3}, Radius: ptr(0.35), Color: []float64{230, 200, 60}},
				{Type: "sphere", Center: []float64{0.45, -0.75, -0.8}, Radius: ptr(0.25), Color: []float64{60, 120, 230}},
			},
		},
		Output: &OutputDoc{Width: ptr(300), Height: ptr(300), ColorRange: ptr(255)},
		Render: &RenderDoc{SamplesPerPixel: ptr(16)},
	}
}

// oklchToRGB converts OKLCH color values to a [0, 255] RGB triple.
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) []float64 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	channel := func(v float64) float64 {
		return math.Round(math.Max(0, math.Min(1, v)) * 255)
	}
	return []float64{channel(r), channel(g), channel(blue)}
}
