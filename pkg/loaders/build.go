package loaders

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/environment"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/output"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// Defaults for optional document fields
const (
	DefaultColorRange      = 255
	DefaultSamplesPerPixel = 16
)

// Description is a fully validated scene, ready to render
type Description struct {
	Name        string
	Environment *environment.Environment
	Scene       *scene.Scene
	Output      OutputSettings
	Render      RenderSettings
}

// OutputSettings describes the image to produce
type OutputSettings struct {
	Width          int
	Height         int
	ColorRange     int
	FilePath       string // Empty when the document does not name one
	ThumbnailWidth int    // Zero disables the thumbnail
}

// RenderSettings holds the sampling settings of a document
type RenderSettings struct {
	SamplesPerPixel int
	Threads         int
	Seed            int64
	SeedFromClock   bool // Seed was not in the document and came from the clock
}

// Config converts the settings into a renderer configuration
func (r RenderSettings) Config(logger zerolog.Logger) renderer.Config {
	return renderer.Config{
		SamplesPerPixel: r.SamplesPerPixel,
		Threads:         r.Threads,
		Seed:            r.Seed,
		Logger:          logger,
	}
}

// Validate reports every missing or malformed field in the document.
// The result is nil or an errors.Join of *core.ConfigError values.
func (d *Document) Validate() error {
	_, err := d.compile()
	return err
}

// Build validates the document and constructs the environment and scene.
// Nothing is returned unless the whole document is valid.
func (d *Document) Build() (*Description, error) {
	return d.compile()
}

// FieldErrors flattens a validation error into its ConfigErrors.
// Wrapping added by callers, such as a file name prefix, is looked through.
func FieldErrors(err error) []*core.ConfigError {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *core.ConfigError:
		return []*core.ConfigError{e}
	case interface{ Unwrap() []error }:
		var result []*core.ConfigError
		for _, inner := range e.Unwrap() {
			result = append(result, FieldErrors(inner)...)
		}
		return result
	case interface{ Unwrap() error }:
		var configErr *core.ConfigError
		if errors.As(err, &configErr) {
			return FieldErrors(e.Unwrap())
		}
	}
	return []*core.ConfigError{{Reason: err.Error()}}
}

// builder accumulates field errors while constructing a description
type builder struct {
	errs []error
}

func (b *builder) fail(field, format string, args ...interface{}) {
	b.errs = append(b.errs, core.NewConfigError(field, format, args...))
}

func (b *builder) check(err error, prefix string) bool {
	if err == nil {
		return true
	}
	for _, configErr := range FieldErrors(core.WithFieldPrefix(err, prefix)) {
		b.errs = append(b.errs, configErr)
	}
	return false
}

func (b *builder) vec(values []float64, field string) (core.Vector, bool) {
	if values == nil {
		b.fail(field, "is required")
		return core.Vector{}, false
	}
	v, err := core.VecFromSlice(values)
	return v, b.check(err, field)
}

func (b *builder) color(values []float64, field string) (core.Color, bool) {
	if values == nil {
		b.fail(field, "is required")
		return core.Color{}, false
	}
	c, err := core.ColorFromSlice(values)
	return c, b.check(err, field)
}

func (d *Document) compile() (*Description, error) {
	b := &builder{}
	desc := &Description{Name: d.Name}

	camera := b.camera(d.Camera)
	out, outputOK := b.output(d.Output)
	desc.Output = out
	screen := b.screen(d, camera, out, outputOK)
	desc.Environment = b.environment(d.Environment)
	desc.Render = b.render(d.Render)

	if camera != nil && screen != nil {
		sc, err := scene.New(camera, screen)
		if b.check(err, "") {
			desc.Scene = sc
		}
	}

	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return desc, nil
}

func (b *builder) camera(doc *CameraDoc) *scene.Camera {
	if doc == nil {
		b.fail("camera", "is required")
		return nil
	}
	position, ok := b.vec(doc.Position, "camera.position")

	if doc.LookAt != nil {
		if doc.ZAxis != nil || doc.YAxis != nil {
			b.fail("camera.look_at", "cannot be combined with z_axis or y_axis")
			return nil
		}
		target, targetOK := b.vec(doc.LookAt, "camera.look_at")
		up := core.NewVec3(0, 1, 0)
		upOK := true
		if doc.Up != nil {
			up, upOK = b.vec(doc.Up, "camera.up")
		}
		if !ok || !targetOK || !upOK {
			return nil
		}
		camera, err := scene.NewLookAtCamera(position, target, up)
		if !b.check(err, "camera") {
			return nil
		}
		return camera
	}

	if doc.Up != nil {
		b.fail("camera.up", "is only used together with look_at")
	}
	zAxis, zOK := b.vec(doc.ZAxis, "camera.z_axis")
	yAxis, yOK := b.vec(doc.YAxis, "camera.y_axis")
	if !ok || !zOK || !yOK {
		return nil
	}
	camera, err := scene.NewCamera(position, zAxis, yAxis)
	if !b.check(err, "camera") {
		return nil
	}
	return camera
}

func (b *builder) output(doc *OutputDoc) (OutputSettings, bool) {
	settings := OutputSettings{ColorRange: DefaultColorRange}
	if doc == nil {
		b.fail("output", "is required")
		return settings, false
	}
	ok := true

	if doc.Width == nil {
		b.fail("output.width", "is required")
		ok = false
	} else if *doc.Width <= 0 {
		b.fail("output.width", "must be positive, got %d", *doc.Width)
		ok = false
	} else {
		settings.Width = *doc.Width
	}

	if doc.Height == nil {
		b.fail("output.height", "is required")
		ok = false
	} else if *doc.Height <= 0 {
		b.fail("output.height", "must be positive, got %d", *doc.Height)
		ok = false
	} else {
		settings.Height = *doc.Height
	}

	if doc.ColorRange != nil {
		if *doc.ColorRange < 1 || *doc.ColorRange > output.MaxColorRange {
			b.fail("output.color_range", "must be in [1, %d], got %d", output.MaxColorRange, *doc.ColorRange)
			ok = false
		} else {
			settings.ColorRange = *doc.ColorRange
		}
	}

	if doc.FilePath != "" {
		if _, err := output.FormatFromPath(doc.FilePath); err != nil {
			b.check(err, "output.file_path")
			ok = false
		}
		settings.FilePath = doc.FilePath
	}

	if doc.ThumbnailWidth < 0 {
		b.fail("output.thumbnail_width", "must not be negative, got %d", doc.ThumbnailWidth)
		ok = false
	}
	settings.ThumbnailWidth = doc.ThumbnailWidth

	return settings, ok
}

func (b *builder) screen(d *Document, camera *scene.Camera, out OutputSettings, outputOK bool) *scene.Screen {
	switch {
	case d.Screen != nil && d.Viewport != nil:
		b.fail("screen", "cannot be combined with viewport")
		return nil
	case d.Screen == nil && d.Viewport == nil:
		b.fail("screen", "either screen or viewport is required")
		return nil
	case d.Screen != nil:
		corner, cornerOK := b.vec(d.Screen.ReferenceCorner, "screen.reference_corner")
		width, widthOK := b.vec(d.Screen.Width, "screen.width")
		height, heightOK := b.vec(d.Screen.Height, "screen.height")
		if !cornerOK || !widthOK || !heightOK {
			return nil
		}
		screen, err := scene.NewScreen(corner, width, height)
		if !b.check(err, "screen") {
			return nil
		}
		return screen
	}

	viewport := d.Viewport
	if viewport.Height == nil {
		b.fail("viewport.height", "is required")
	}
	if viewport.FocalLength == nil {
		b.fail("viewport.focal_length", "is required")
	}
	if viewport.Height == nil || viewport.FocalLength == nil || camera == nil || !outputOK {
		return nil
	}

	aspectRatio := float64(out.Width) / float64(out.Height)
	screen, err := scene.NewViewportScreen(camera, aspectRatio, *viewport.Height, *viewport.FocalLength)
	if !b.check(err, "viewport") {
		return nil
	}
	return screen
}

func (b *builder) environment(doc *EnvironmentDoc) *environment.Environment {
	if doc == nil {
		b.fail("environment", "is required")
		return nil
	}
	background, ok := b.color(doc.BackgroundColor, "environment.background_color")

	shapes := make([]geometry.Geometry, 0, len(doc.Geometry))
	for i, g := range doc.Geometry {
		shape := b.geometry(g, fmt.Sprintf("environment.geometry[%d]", i))
		if shape == nil {
			ok = false
			continue
		}
		shapes = append(shapes, shape)
	}
	if !ok {
		return nil
	}
	return environment.New(background, shapes...)
}

// geometryFields lists the optional document fields and which kinds use them
var geometryFields = []struct {
	name  string
	kinds []geometry.Kind
	set   func(g GeometryDoc) bool
}{
	{"center", []geometry.Kind{geometry.KindSphere, geometry.KindPlane, geometry.KindBoundedPlane}, func(g GeometryDoc) bool { return g.Center != nil }},
	{"radius", []geometry.Kind{geometry.KindSphere}, func(g GeometryDoc) bool { return g.Radius != nil }},
	{"normal", []geometry.Kind{geometry.KindPlane, geometry.KindBoundedPlane}, func(g GeometryDoc) bool { return g.Normal != nil }},
	{"width", []geometry.Kind{geometry.KindBoundedPlane}, func(g GeometryDoc) bool { return g.Width != nil }},
	{"height", []geometry.Kind{geometry.KindBoundedPlane}, func(g GeometryDoc) bool { return g.Height != nil }},
	{"rotation_angle", []geometry.Kind{geometry.KindBoundedPlane}, func(g GeometryDoc) bool { return g.RotationAngle != nil }},
	{"corners", []geometry.Kind{geometry.KindTriangle}, func(g GeometryDoc) bool { return g.Corners != nil }},
}

func (b *builder) geometry(g GeometryDoc, prefix string) geometry.Geometry {
	if g.Type == "" {
		b.fail(prefix+".type", "is required")
		return nil
	}
	kind, err := geometry.ParseKind(g.Type)
	if !b.check(err, prefix+".type") {
		return nil
	}

	unused := false
	for _, field := range geometryFields {
		if field.set(g) && !usedBy(field.kinds, kind) {
			b.fail(prefix+"."+field.name, "is not used by %s geometry", kind)
			unused = true
		}
	}

	color, colorOK := b.color(g.Color, prefix+".color")

	var shape geometry.Geometry
	switch kind {
	case geometry.KindSphere:
		center, centerOK := b.vec(g.Center, prefix+".center")
		radius, radiusOK := b.scalar(g.Radius, prefix+".radius")
		if !centerOK || !radiusOK || !colorOK || unused {
			return nil
		}
		sphere, err := geometry.NewSphere(center, radius, color)
		if !b.check(err, prefix) {
			return nil
		}
		shape = sphere

	case geometry.KindPlane:
		center, centerOK := b.vec(g.Center, prefix+".center")
		normal, normalOK := b.vec(g.Normal, prefix+".normal")
		if !centerOK || !normalOK || !colorOK || unused {
			return nil
		}
		plane, err := geometry.NewPlane(center, normal, color)
		if !b.check(err, prefix) {
			return nil
		}
		shape = plane

	case geometry.KindBoundedPlane:
		center, centerOK := b.vec(g.Center, prefix+".center")
		normal, normalOK := b.vec(g.Normal, prefix+".normal")
		width, widthOK := b.scalar(g.Width, prefix+".width")
		height, heightOK := b.scalar(g.Height, prefix+".height")
		rotation, rotationOK := b.scalar(g.RotationAngle, prefix+".rotation_angle")
		if !centerOK || !normalOK || !widthOK || !heightOK || !rotationOK || !colorOK || unused {
			return nil
		}
		boundedPlane, err := geometry.NewBoundedPlane(center, normal, width, height, rotation, color)
		if !b.check(err, prefix) {
			return nil
		}
		shape = boundedPlane

	case geometry.KindTriangle:
		corners, cornersOK := b.corners(g.Corners, prefix+".corners")
		if !cornersOK || !colorOK || unused {
			return nil
		}
		triangle, err := geometry.NewTriangle(corners[0], corners[1], corners[2], color)
		if !b.check(err, prefix) {
			return nil
		}
		shape = triangle

	default:
		b.fail(prefix+".type", "unsupported geometry kind %s", kind)
		return nil
	}

	return shape
}

func (b *builder) scalar(value *float64, field string) (float64, bool) {
	if value == nil {
		b.fail(field, "is required")
		return 0, false
	}
	return *value, true
}

func (b *builder) corners(values [][]float64, field string) ([3]core.Point, bool) {
	var corners [3]core.Point
	if values == nil {
		b.fail(field, "is required")
		return corners, false
	}
	if len(values) != 3 {
		b.fail(field, "expected 3 corners, got %d", len(values))
		return corners, false
	}
	ok := true
	for i, v := range values {
		point, pointOK := b.vec(v, fmt.Sprintf("%s[%d]", field, i))
		corners[i] = point
		ok = ok && pointOK
	}
	return corners, ok
}

func usedBy(kinds []geometry.Kind, kind geometry.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (b *builder) render(doc *RenderDoc) RenderSettings {
	settings := RenderSettings{SamplesPerPixel: DefaultSamplesPerPixel}
	if doc == nil {
		doc = &RenderDoc{}
	}

	if doc.SamplesPerPixel != nil {
		if *doc.SamplesPerPixel < 1 {
			b.fail("render.samples_per_pixel", "must be at least 1, got %d", *doc.SamplesPerPixel)
		}
		settings.SamplesPerPixel = *doc.SamplesPerPixel
	}
	if doc.Threads < 0 {
		b.fail("render.threads", "must not be negative, got %d", doc.Threads)
	}
	settings.Threads = doc.Threads

	if doc.Seed != nil {
		settings.Seed = *doc.Seed
	} else {
		settings.Seed = time.Now().UnixNano()
		settings.SeedFromClock = true
	}
	return settings
}
