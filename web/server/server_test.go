package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-scene-raytracer/pkg/loaders"
)

const tinyScene = `
name: Tiny
camera:   {position: [0,0,0], z_axis: [0,0,-1], y_axis: [0,1,0]}
screen:   {reference_corner: [-2,1,-1], width: [4,0,0], height: [0,-2,0]}
environment:
  background_color: [122,178,255]
  geometry:
    - {type: sphere, center: [0,0,-1], radius: 0.5, color: [255,0,0]}
output:   {width: 8, height: 4, color_range: 255}
render:   {samples_per_pixel: 2, seed: 7}
`

func newTestServer(t *testing.T) *Server {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.yaml"), []byte(tinyScene), 0644))
	return NewServer(0, dir, zerolog.Nop())
}

func serve(s *Server, method, target string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	return response
}

func TestHandleHealth(t *testing.T) {
	rec := serve(newTestServer(t), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleScenes(t *testing.T) {
	rec := serve(newTestServer(t), http.MethodGet, "/api/scenes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response loaders.ScenesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Groups, 2)
	assert.Len(t, response.Groups[0].Scenes, len(loaders.BuiltinNames()))
	require.Len(t, response.Groups[1].Scenes, 1)
	assert.Equal(t, "file:tiny", response.Groups[1].Scenes[0].ID)
}

func TestHandleRender(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodPost, "/api/render", tinyScene)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "7", rec.Header().Get("X-Render-Seed"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())

	rec = serve(s, http.MethodPost, "/api/render?output=ppm&seed=3", tinyScene)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/x-portable-pixmap", rec.Header().Get("Content-Type"))
	assert.Equal(t, "3", rec.Header().Get("X-Render-Seed"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "P3\n8 4\n255\n"))
}

func TestHandleRender_SameSeedSameImage(t *testing.T) {
	s := newTestServer(t)
	first := serve(s, http.MethodPost, "/api/render?output=ppm", tinyScene)
	second := serve(s, http.MethodPost, "/api/render?output=ppm", tinyScene)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestHandleRender_JSONDocument(t *testing.T) {
	doc, err := loaders.Builtin("triangle")
	require.NoError(t, err)
	doc.Output.Width = intPtr(16)
	doc.Output.Height = intPtr(8)

	var body bytes.Buffer
	require.NoError(t, loaders.Encode(&body, doc, loaders.FormatJSON))

	rec := serve(newTestServer(t), http.MethodPost, "/api/render?format=json&samples=1", body.String())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestHandleRender_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		fields []string
	}{
		{"unknown document format", "/api/render?format=xml", tinyScene, nil},
		{"unknown image format", "/api/render?output=webp", tinyScene, nil},
		{"empty body", "/api/render", "", nil},
		{"unknown field", "/api/render", tinyScene + "extra: 1\n", nil},
		{"samples out of range", "/api/render?samples=0", tinyScene, nil},
		{"bad seed", "/api/render?seed=abc", tinyScene, nil},
		{
			"invalid document",
			"/api/render",
			strings.Replace(strings.Replace(tinyScene, "radius: 0.5", "radius: -1", 1), "width: 8", "width: 0", 1),
			[]string{"environment.geometry[0].radius", "output.width"},
		},
		{"too large", "/api/render", strings.Replace(tinyScene, "width: 8", "width: 5000", 1), nil},
		{"document samples over limit", "/api/render", strings.Replace(tinyScene, "samples_per_pixel: 2", "samples_per_pixel: 2147483647", 1), nil},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, http.MethodPost, tt.target, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			response := decodeError(t, rec)
			assert.NotEmpty(t, response.Error)

			var fields []string
			for _, f := range response.Fields {
				fields = append(fields, f.Field)
			}
			assert.ElementsMatch(t, tt.fields, fields)
		})
	}
}

func TestNewRenderJob_SampleLimit(t *testing.T) {
	parse := func(samples string) *loaders.Document {
		text := strings.Replace(tinyScene, "samples_per_pixel: 2", "samples_per_pixel: "+samples, 1)
		doc, err := loaders.Parse(strings.NewReader(text), loaders.FormatYAML)
		require.NoError(t, err)
		return doc
	}

	tests := []struct {
		name     string
		samples  string
		query    url.Values
		expected int
		wantErr  bool
	}{
		{"document value", "2", url.Values{}, 2, false},
		{"document at limit", "10000", url.Values{}, maxSamples, false},
		{"document over limit", "50000000", url.Values{}, 0, true},
		{"query lowers document", "50000000", url.Values{"samples": {"4"}}, 4, false},
		{"query over limit", "2", url.Values{"samples": {"10001"}}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := newRenderJob(parse(tt.samples), tt.query)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, job.settings.SamplesPerPixel)
		})
	}
}

func TestHandleRender_MethodNotAllowed(t *testing.T) {
	rec := serve(newTestServer(t), http.MethodGet, "/api/render", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodGet, "/api/inspect?scene=default&x=200&y=100", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var hit InspectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hit))
	assert.True(t, hit.Hit)
	assert.Equal(t, "sphere", hit.GeometryType)
	assert.Equal(t, 0, hit.Index)
	assert.InDelta(t, 0.5, hit.Distance, 0.01)
	assert.Equal(t, [3]float64{255, 0, 0}, hit.SurfaceColor)
	assert.Equal(t, 0.5, hit.Properties["radius"])

	rec = serve(s, http.MethodGet, "/api/inspect?scene=default&x=200&y=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var miss InspectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &miss))
	assert.False(t, miss.Hit)
	assert.Equal(t, -1, miss.Index)
	assert.Empty(t, miss.GeometryType)

	rec = serve(s, http.MethodGet, "/api/inspect?scene=file:tiny&x=4&y=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleInspect_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing scene", "/api/inspect?x=1&y=1"},
		{"unknown scene", "/api/inspect?scene=nope&x=1&y=1"},
		{"path instead of id", "/api/inspect?scene=../../etc/passwd&x=1&y=1"},
		{"missing x", "/api/inspect?scene=default&y=1"},
		{"x out of range", "/api/inspect?scene=default&x=400&y=1"},
		{"y not a number", "/api/inspect?scene=default&x=1&y=top"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, http.MethodGet, tt.target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeError(t, rec).Error)
		})
	}
}

func dialProgress(t *testing.T, query string) *websocket.Conn {
	ts := httptest.NewServer(newTestServer(t).Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/progress?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHandleProgress(t *testing.T) {
	conn := dialProgress(t, "scene=file:tiny")

	var progress []int
	var complete ProgressMessage
	for complete.Type == "" {
		var msg ProgressMessage
		require.NoError(t, conn.ReadJSON(&msg))
		switch msg.Type {
		case "progress":
			assert.Equal(t, 4, msg.TotalRows)
			progress = append(progress, msg.RowsDone)
		case "console":
			require.NotNil(t, msg.Console)
		case "complete":
			complete = msg
		default:
			t.Fatalf("unexpected message %+v", msg)
		}
	}

	assert.Equal(t, []int{1, 2, 3, 4}, progress)
	assert.Equal(t, 4, complete.RowsDone)
	assert.Equal(t, int64(7), complete.Seed)
	require.NotNil(t, complete.Stats)
	assert.Equal(t, 32, complete.Stats.TotalPixels)
	assert.Equal(t, 64, complete.Stats.TotalSamples)

	data, err := base64.StdEncoding.DecodeString(complete.ImageData)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}

func TestHandleProgress_UnknownScene(t *testing.T) {
	conn := dialProgress(t, "scene=nope")

	var msg ProgressMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Message, "unknown scene")
}

func TestConsoleSink(t *testing.T) {
	sink := newConsoleSink(2)
	logger := zerolog.New(sink)

	logger.Info().Msg("first")
	logger.Warn().Int("rows", 3).Msg("second")
	logger.Info().Msg("dropped")

	require.Len(t, sink.entries, 2)
	assert.Equal(t, ConsoleEntry{Level: "info", Message: "first"}, <-sink.entries)
	assert.Equal(t, ConsoleEntry{Level: "warn", Message: "second"}, <-sink.entries)

	n, err := sink.Write([]byte("plain text\n"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, "plain text", (<-sink.entries).Message)
}

func intPtr(v int) *int { return &v }
