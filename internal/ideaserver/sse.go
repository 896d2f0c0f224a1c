package ideaserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/anatolykoptev/go_ideas/internal/pipeline"
)

// SSEEmitter writes pipeline events as server-sent events: one `data: <json>\n\n`
// frame per event, flushed immediately.
type SSEEmitter struct {
	mu      sync.Mutex
	writer  http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

// NewSSEEmitter writes the event-stream headers and returns an emitter over w.
// It fails if w cannot flush.
func NewSSEEmitter(w http.ResponseWriter) (*SSEEmitter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support streaming")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &SSEEmitter{writer: w, flusher: flusher}, nil
}

func (s *SSEEmitter) Emit(ev pipeline.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return pipeline.ErrEmitterClosed
	}
	if _, err := fmt.Fprintf(s.writer, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Close marks the stream finished. The HTTP handler ends the response when it returns.
func (s *SSEEmitter) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
