package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/df07/go-scene-raytracer/pkg/loaders"
	"github.com/df07/go-scene-raytracer/pkg/output"
	"github.com/df07/go-scene-raytracer/pkg/renderer"
)

// renderJob is a validated scene with the request's overrides applied
type renderJob struct {
	desc     *loaders.Description
	settings loaders.RenderSettings
}

// newRenderJob builds a document and applies the samples and seed query
// parameters. Oversized images and sample counts are rejected before any work
// is done, whether they come from the document or the query. A query override
// replaces the document's sample count before the limit is checked.
func newRenderJob(doc *loaders.Document, values url.Values) (*renderJob, error) {
	desc, err := doc.Build()
	if err != nil {
		return nil, err
	}
	if desc.Output.Width > maxDimension || desc.Output.Height > maxDimension ||
		desc.Output.Width*desc.Output.Height > maxPixels {
		return nil, fmt.Errorf("image %dx%d exceeds the server limit of %d pixels per side",
			desc.Output.Width, desc.Output.Height, maxDimension)
	}

	settings := desc.Render
	samples, err := parseIntParam(values, "samples", settings.SamplesPerPixel, 1, maxSamples)
	if err != nil {
		return nil, err
	}
	// The document value is the default above and skips the range check
	if samples > maxSamples {
		return nil, fmt.Errorf("samples_per_pixel %d exceeds the server limit of %d", samples, maxSamples)
	}
	settings.SamplesPerPixel = samples

	seed, ok, err := parseInt64Param(values, "seed")
	if err != nil {
		return nil, err
	}
	if ok {
		settings.Seed = seed
		settings.SeedFromClock = false
	}

	return &renderJob{desc: desc, settings: settings}, nil
}

// run renders the job. onRow may be nil.
func (j *renderJob) run(logger zerolog.Logger, onRow func(row int)) (*output.Image, renderer.RenderStats, error) {
	config := j.settings.Config(logger)
	config.OnRowComplete = onRow
	raytracer, err := renderer.New(j.desc.Environment, j.desc.Scene, config)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	return raytracer.Render(j.desc.Output.Width, j.desc.Output.Height, j.desc.Output.ColorRange)
}

// handleRender renders the scene document in the request body and responds
// with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	docFormat := loaders.FormatYAML
	if name := query.Get("format"); name != "" {
		parsed, err := loaders.ParseFormat(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		docFormat = parsed
	}

	imageFormat := output.PNG
	if name := query.Get("output"); name != "" {
		parsed, err := output.ParseFormat(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		imageFormat = parsed
	}

	doc, err := loaders.Parse(http.MaxBytesReader(w, r.Body, maxRequestBody), docFormat)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	job, err := newRenderJob(doc, query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	logger := s.logger.With().Str("scene", job.desc.Name).Logger()
	img, stats, err := job.run(logger, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := output.Write(&buf, img, imageFormat); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", imageFormat.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Render-Seed", strconv.FormatInt(job.settings.Seed, 10))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Write(buf.Bytes())
}
