// Package server exposes the renderer over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/loaders"
)

// Request limits
const (
	maxDimension   = 2000
	maxSamples     = 10000
	maxPixels      = 4_000_000
	maxRequestBody = 1 << 20
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
	logger    zerolog.Logger
}

// NewServer creates a new web server. Scene files in scenesDir are listed and
// renderable next to the built-in scenes.
func NewServer(port int, scenesDir string, logger zerolog.Logger) *Server {
	return &Server{port: port, scenesDir: scenesDir, logger: logger}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/scenes", s.handleScenes)
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /api/progress", s.handleProgress)
	mux.HandleFunc("GET /api/inspect", s.handleInspect)
	return mux
}

// Start serves until the listener fails
func (s *Server) Start() error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info().Str("addr", httpServer.Addr).Str("scenes", s.scenesDir).Msg("starting web server")
	return httpServer.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := loaders.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// resolveScene finds a scene by its listing ID: a built-in name or
// "file:<name>" for a document in the scenes directory. Arbitrary paths are
// never opened.
func (s *Server) resolveScene(id string) (*loaders.Document, error) {
	if id == "" {
		return nil, errors.New("scene is required")
	}
	if doc, err := loaders.Builtin(id); err == nil {
		return doc, nil
	}

	files, err := loaders.ListSceneFiles(s.scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == id {
			return loaders.LoadFile(filepath.Clean(info.FilePath))
		}
	}
	return nil, fmt.Errorf("unknown scene: %s", id)
}

// FieldError is one invalid document field in an error response
type FieldError struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError reports err, listing the offending fields of validation errors
func writeError(w http.ResponseWriter, status int, err error) {
	response := ErrorResponse{Error: err.Error()}
	var configErr *core.ConfigError
	if errors.As(err, &configErr) {
		for _, fieldErr := range loaders.FieldErrors(err) {
			response.Fields = append(response.Fields, FieldError{Field: fieldErr.Field, Reason: fieldErr.Reason})
		}
	}
	writeJSON(w, status, response)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseInt64Param parses an optional 64-bit integer parameter
func parseInt64Param(values url.Values, key string) (int64, bool, error) {
	value := values.Get(key)
	if value == "" {
		return 0, false, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, true, nil
}
