package pipeline

import (
	"errors"
	"sync"

	"github.com/anatolykoptev/go_ideas/internal/engine"
)

// EventType is the top-level discriminator of a stream frame.
type EventType string

const (
	EventProgress EventType = "progress"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// Event is one frame of the stream: {type, data}.
// Data is a Progress, *Result or ErrorPayload depending on Type.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// Terminal reports whether no event may follow e.
func (e Event) Terminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

// Progress is the payload of a progress event.
type Progress struct {
	Step    Step           `json:"step"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// ErrorPayload is the payload of the terminal error event.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Result is the payload of the terminal complete event. Never mutated after it is emitted.
type Result struct {
	Topics      []string                `json:"topics"`
	News        []engine.NewsItem       `json:"news"`
	RedditPosts []engine.DiscussionItem `json:"redditPosts"`
	VideoIdeas  []engine.Idea           `json:"videoIdeas"`
}

func progressEvent(step Step, message string, data map[string]any) Event {
	return Event{Type: EventProgress, Data: Progress{Step: step, Message: message, Data: data}}
}

func completeEvent(res *Result) Event {
	return Event{Type: EventComplete, Data: res}
}

func errorEvent(message string) Event {
	return Event{Type: EventError, Data: ErrorPayload{Message: message}}
}

// Emitter receives the events of one pipeline run, in order, from a single goroutine.
// Close is called exactly once, after the terminal event.
type Emitter interface {
	Emit(Event) error
	Close() error
}

// ErrEmitterClosed is returned by Emit after Close.
var ErrEmitterClosed = errors.New("emitter closed")

// Recorder is an in-memory Emitter. It backs the MCP tool and tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (r *Recorder) Emit(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrEmitterClosed
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Progress returns the payloads of the recorded progress events, in arrival order.
func (r *Recorder) Progress() []Progress {
	var out []Progress
	for _, ev := range r.Events() {
		if p, ok := ev.Data.(Progress); ok && ev.Type == EventProgress {
			out = append(out, p)
		}
	}
	return out
}

// Terminal returns the terminal event, if one was recorded.
func (r *Recorder) Terminal() (Event, bool) {
	events := r.Events()
	if n := len(events); n > 0 && events[n-1].Terminal() {
		return events[n-1], true
	}
	return Event{}, false
}
