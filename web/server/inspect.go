package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
)

// InspectResponse describes what the center ray of a pixel sees
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Index        int                    `json:"index"` // Position in the environment, -1 on a miss
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance,omitempty"`
	SurfaceColor [3]float64             `json:"surfaceColor"`
	PixelColor   [3]float64             `json:"pixelColor"` // Shaded color of the center ray
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// handleInspect traces the ray through the center of pixel (x, y) of a scene
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	doc, err := s.resolveScene(query.Get("scene"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	job, err := newRenderJob(doc, query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	width, height := job.desc.Output.Width, job.desc.Output.Height
	x, err := parseIntParam(query, "x", -1, 0, width-1)
	if err == nil && x < 0 {
		err = fmt.Errorf("x is required")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	y, err := parseIntParam(query, "y", -1, 0, height-1)
	if err == nil && y < 0 {
		err = fmt.Errorf("y is required")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ray, err := job.desc.Scene.RayFor((float64(x)+0.5)/float64(width), (float64(y)+0.5)/float64(height))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	raytracer, err := renderer.New(job.desc.Environment, job.desc.Scene, job.settings.Config(s.logger))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	shaded, _ := raytracer.Shade(ray)
	response := InspectResponse{Index: -1, PixelColor: colorArray(shaded)}

	if hit, ok := job.desc.Environment.FirstIntersected(ray); ok {
		response.Hit = true
		response.GeometryType = hit.Geometry.Kind().String()
		response.Index = hit.Index
		response.Point = hit.Point
		response.Normal = hit.Geometry.NormalAt(hit.Point)
		response.Distance = hit.Distance
		response.SurfaceColor = colorArray(hit.Geometry.ColorAt(hit.Point))
		response.Properties = geometryProperties(hit.Geometry)
	}

	writeJSON(w, http.StatusOK, response)
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

// geometryProperties extracts the defining parameters of a primitive
func geometryProperties(g geometry.Geometry) map[string]interface{} {
	switch shape := g.(type) {
	case *geometry.Sphere:
		return map[string]interface{}{
			"center": shape.Center,
			"radius": shape.Radius,
		}
	case *geometry.Plane:
		return map[string]interface{}{
			"center": shape.Center,
			"normal": shape.Normal,
		}
	case *geometry.BoundedPlane:
		return map[string]interface{}{
			"center":         shape.Center,
			"normal":         shape.Normal,
			"width":          shape.Width,
			"height":         shape.Height,
			"rotation_angle": shape.RotationAngle,
		}
	case *geometry.Triangle:
		return map[string]interface{}{
			"corners": shape.Corners(),
		}
	}
	return nil
}
