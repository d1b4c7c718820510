// Package loaders reads scene documents and turns them into renderable
// environments and scenes.
package loaders

// Document is the decoded form of a scene file. The same structure is read
// from YAML, JSON and TOML. Pointers mark scalars whose absence must be
// distinguished from zero.
type Document struct {
	Name        string          `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Group       string          `yaml:"group,omitempty" json:"group,omitempty" toml:"group,omitempty"`
	Camera      *CameraDoc      `yaml:"camera" json:"camera" toml:"camera"`
	Screen      *ScreenDoc      `yaml:"screen,omitempty" json:"screen,omitempty" toml:"screen,omitempty"`
	Viewport    *ViewportDoc    `yaml:"viewport,omitempty" json:"viewport,omitempty" toml:"viewport,omitempty"`
	Environment *EnvironmentDoc `yaml:"environment" json:"environment" toml:"environment"`
	Output      *OutputDoc      `yaml:"output" json:"output" toml:"output"`
	Render      *RenderDoc      `yaml:"render,omitempty" json:"render,omitempty" toml:"render,omitempty"`
}

// CameraDoc places the camera. Either the explicit axes or look_at (with an
// optional up hint) may be given.
type CameraDoc struct {
	Position []float64 `yaml:"position" json:"position" toml:"position"`
	ZAxis    []float64 `yaml:"z_axis,omitempty" json:"z_axis,omitempty" toml:"z_axis,omitempty"`
	YAxis    []float64 `yaml:"y_axis,omitempty" json:"y_axis,omitempty" toml:"y_axis,omitempty"`
	LookAt   []float64 `yaml:"look_at,omitempty" json:"look_at,omitempty" toml:"look_at,omitempty"`
	Up       []float64 `yaml:"up,omitempty" json:"up,omitempty" toml:"up,omitempty"`
}

// ScreenDoc is an explicit screen parallelogram
type ScreenDoc struct {
	ReferenceCorner []float64 `yaml:"reference_corner" json:"reference_corner" toml:"reference_corner"`
	Width           []float64 `yaml:"width" json:"width" toml:"width"`
	Height          []float64 `yaml:"height" json:"height" toml:"height"`
}

// ViewportDoc derives the screen from the camera and the output aspect ratio
type ViewportDoc struct {
	Height      *float64 `yaml:"height" json:"height" toml:"height"`
	FocalLength *float64 `yaml:"focal_length" json:"focal_length" toml:"focal_length"`
}

// EnvironmentDoc holds the background and the primitives
type EnvironmentDoc struct {
	BackgroundColor []float64     `yaml:"background_color" json:"background_color" toml:"background_color"`
	Geometry        []GeometryDoc `yaml:"geometry" json:"geometry" toml:"geometry"`
}

// GeometryDoc is one primitive. Type selects which of the other fields apply.
type GeometryDoc struct {
	Type          string      `yaml:"type" json:"type" toml:"type"`
	Center        []float64   `yaml:"center,omitempty" json:"center,omitempty" toml:"center,omitempty"`
	Radius        *float64    `yaml:"radius,omitempty" json:"radius,omitempty" toml:"radius,omitempty"`
	Normal        []float64   `yaml:"normal,omitempty" json:"normal,omitempty" toml:"normal,omitempty"`
	Width         *float64    `yaml:"width,omitempty" json:"width,omitempty" toml:"width,omitempty"`
	Height        *float64    `yaml:"height,omitempty" json:"height,omitempty" toml:"height,omitempty"`
	RotationAngle *float64    `yaml:"rotation_angle,omitempty" json:"rotation_angle,omitempty" toml:"rotation_angle,omitempty"`
	Corners       [][]float64 `yaml:"corners,omitempty" json:"corners,omitempty" toml:"corners,omitempty"`
	Color         []float64   `yaml:"color" json:"color" toml:"color"`
}

// OutputDoc describes the image to produce
type OutputDoc struct {
	Width          *int   `yaml:"width" json:"width" toml:"width"`
	Height         *int   `yaml:"height" json:"height" toml:"height"`
	ColorRange     *int   `yaml:"color_range,omitempty" json:"color_range,omitempty" toml:"color_range,omitempty"`
	FilePath       string `yaml:"file_path,omitempty" json:"file_path,omitempty" toml:"file_path,omitempty"`
	ThumbnailWidth int    `yaml:"thumbnail_width,omitempty" json:"thumbnail_width,omitempty" toml:"thumbnail_width,omitempty"`
}

// RenderDoc holds sampling settings. Every field is optional.
type RenderDoc struct {
	SamplesPerPixel *int   `yaml:"samples_per_pixel,omitempty" json:"samples_per_pixel,omitempty" toml:"samples_per_pixel,omitempty"`
	Threads         int    `yaml:"threads,omitempty" json:"threads,omitempty" toml:"threads,omitempty"`
	Seed            *int64 `yaml:"seed,omitempty" json:"seed,omitempty" toml:"seed,omitempty"`
}
