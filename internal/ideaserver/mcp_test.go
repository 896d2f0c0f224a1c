package ideaserver

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ideas/internal/engine"
	"github.com/anatolykoptev/go_ideas/internal/pipeline"
)

func TestRunContentIdeas(t *testing.T) {
	var calls atomic.Int32
	out := RunContentIdeas(context.Background(), stubOrchestrator(&calls),
		engine.ContentIdeasInput{URL: "https://www.youtube.com/@example"})

	assert.Empty(t, out.Error)
	require.NotNil(t, out.Result)
	assert.Len(t, out.Result.VideoIdeas, 2)
	require.Len(t, out.Progress, len(pipeline.Steps()))
	for i, p := range out.Progress {
		assert.Equal(t, pipeline.Steps()[i], p.Step, "progress is in display order")
	}
}

func TestRunContentIdeasError(t *testing.T) {
	var calls atomic.Int32
	out := RunContentIdeas(context.Background(), stubOrchestrator(&calls), engine.ContentIdeasInput{})

	assert.Nil(t, out.Result)
	assert.Equal(t, "channel URL is required", out.Error)
	assert.NotNil(t, out.Progress)
	assert.Empty(t, out.Progress)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"channel URL is required","progress":[]}`, string(b))
}
