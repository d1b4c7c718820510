package server

import (
	"encoding/json"
	"strings"
)

// ConsoleEntry is one log line forwarded to a websocket client
type ConsoleEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// consoleSink is a zerolog output that queues log lines for a client.
// Lines are dropped rather than blocking the render when the queue is full.
type consoleSink struct {
	entries chan ConsoleEntry
}

func newConsoleSink(size int) *consoleSink {
	return &consoleSink{entries: make(chan ConsoleEntry, size)}
}

// Write implements io.Writer for zerolog's JSON output
func (c *consoleSink) Write(p []byte) (int, error) {
	var fields map[string]interface{}
	entry := ConsoleEntry{Level: "info"}
	if err := json.Unmarshal(p, &fields); err == nil {
		if level, ok := fields["level"].(string); ok {
			entry.Level = level
		}
		if msg, ok := fields["message"].(string); ok {
			entry.Message = msg
		}
	} else {
		entry.Message = strings.TrimSpace(string(p))
	}

	select {
	case c.entries <- entry:
	default:
	}
	return len(p), nil
}
