package server

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/df07/go-scene-raytracer/pkg/renderer"
)

// ProgressMessage is sent over the progress websocket.
// Type is "progress", "console", "complete" or "error".
type ProgressMessage struct {
	Type      string                `json:"type"`
	RowsDone  int                   `json:"rowsDone,omitempty"`
	TotalRows int                   `json:"totalRows,omitempty"`
	ImageData string                `json:"imageData,omitempty"` // Base64 PNG
	Stats     *renderer.RenderStats `json:"stats,omitempty"`
	Seed      int64                 `json:"seed,omitempty"`
	Console   *ConsoleEntry         `json:"console,omitempty"`
	Message   string                `json:"message,omitempty"`
}

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// renderResult carries the outcome of a render goroutine
type renderResult struct {
	img   image.Image
	stats renderer.RenderStats
	err   error
}

// handleProgress renders a scene while streaming row progress over a websocket.
// All writes to the connection happen on this goroutine; the workers only
// feed channels.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	send := func(msg ProgressMessage) error {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return conn.WriteJSON(msg)
	}
	fail := func(err error) {
		send(ProgressMessage{Type: "error", Message: err.Error()})
	}

	query := r.URL.Query()
	sceneID := query.Get("scene")
	doc, err := s.resolveScene(sceneID)
	if err != nil {
		fail(err)
		return
	}
	job, err := newRenderJob(doc, query)
	if err != nil {
		fail(err)
		return
	}

	// Detect client disconnects; the reader must run for close frames to be seen
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	totalRows := job.desc.Output.Height
	rows := make(chan int, totalRows)
	sink := newConsoleSink(64)
	logger := zerolog.New(sink).With().Timestamp().Str("scene", sceneID).Logger()
	s.logger.Info().Str("scene", sceneID).Int("samples", job.settings.SamplesPerPixel).Msg("progressive render requested")

	done := make(chan renderResult, 1)
	go func() {
		img, stats, err := job.run(logger, func(row int) { rows <- row })
		done <- renderResult{img: img, stats: stats, err: err}
	}()

	rowsDone := 0
	progress := func() error {
		rowsDone++
		return send(ProgressMessage{Type: "progress", RowsDone: rowsDone, TotalRows: totalRows})
	}

	for {
		select {
		case <-closed:
			s.logger.Debug().Str("scene", sceneID).Msg("client disconnected")
			return
		case <-rows:
			if err := progress(); err != nil {
				return
			}
		case entry := <-sink.entries:
			if err := send(ProgressMessage{Type: "console", Console: &entry}); err != nil {
				return
			}
		case result := <-done:
			// Every row callback has returned before the render does
			for len(rows) > 0 {
				<-rows
				if err := progress(); err != nil {
					return
				}
			}
			if result.err != nil {
				fail(result.err)
				return
			}
			imageData, err := imageToBase64PNG(result.img)
			if err != nil {
				fail(err)
				return
			}
			send(ProgressMessage{
				Type:      "complete",
				RowsDone:  rowsDone,
				TotalRows: totalRows,
				ImageData: imageData,
				Stats:     &result.stats,
				Seed:      job.settings.Seed,
			})
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout))
			return
		}
	}
}

// imageToBase64PNG encodes an image as base64 PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
