package ideaserver

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-contrib/sse"

	"github.com/anatolykoptev/go_ideas/internal/pipeline"
)

// DecodeStream reads an event stream produced by SSEEmitter until EOF and returns
// the events with typed payloads: Progress, *Result or ErrorPayload.
func DecodeStream(r io.Reader) ([]pipeline.Event, error) {
	frames, err := sse.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("read event stream: %w", err)
	}
	events := make([]pipeline.Event, 0, len(frames))
	for i, f := range frames {
		data, ok := f.Data.(string)
		if !ok {
			return nil, fmt.Errorf("frame %d: unexpected data %T", i, f.Data)
		}
		ev, err := decodeEvent([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func decodeEvent(data []byte) (pipeline.Event, error) {
	var raw struct {
		Type pipeline.EventType `json:"type"`
		Data json.RawMessage    `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return pipeline.Event{}, err
	}

	ev := pipeline.Event{Type: raw.Type}
	switch raw.Type {
	case pipeline.EventProgress:
		var p pipeline.Progress
		if err := json.Unmarshal(raw.Data, &p); err != nil {
			return ev, fmt.Errorf("progress payload: %w", err)
		}
		ev.Data = p
	case pipeline.EventComplete:
		var res pipeline.Result
		if err := json.Unmarshal(raw.Data, &res); err != nil {
			return ev, fmt.Errorf("complete payload: %w", err)
		}
		ev.Data = &res
	case pipeline.EventError:
		var e pipeline.ErrorPayload
		if err := json.Unmarshal(raw.Data, &e); err != nil {
			return ev, fmt.Errorf("error payload: %w", err)
		}
		ev.Data = e
	default:
		return ev, fmt.Errorf("unknown event type %q", raw.Type)
	}
	return ev, nil
}
