package ideaserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ideas/internal/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postIdeas(t *testing.T, calls *atomic.Int32, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(NewHandler(stubOrchestrator(calls)))
	req := httptest.NewRequest(http.MethodPost, "/api/generate-ideas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateIdeasStreamsEvents(t *testing.T) {
	var calls atomic.Int32
	w := postIdeas(t, &calls, `{"url":"https://www.youtube.com/@example"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, `data: {"type":"progress","data":{"step":"starting"`), body)
	assert.True(t, strings.HasSuffix(body, "\n\n"))

	events, err := DecodeStream(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, events, 12)

	last := events[len(events)-1]
	require.Equal(t, pipeline.EventComplete, last.Type)
	res := last.Data.(*pipeline.Result)
	assert.Equal(t, []string{"Tech", "AI"}, res.Topics)
	assert.NotNil(t, res.News, "news survives as an empty array")
	assert.Empty(t, res.News)
	assert.Len(t, res.VideoIdeas, 2)
	assert.Contains(t, body, `"news":[]`)
	assert.Contains(t, body, `"redditPosts":[]`)

	for _, ev := range events[:len(events)-1] {
		assert.Equal(t, pipeline.EventProgress, ev.Type)
	}
}

func TestGenerateIdeasValidationInStream(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"empty url", `{"url":""}`, "channel URL is required"},
		{"no url", `{}`, "channel URL is required"},
		{"empty body", ``, "channel URL is required"},
		{"number", `{"url":123}`, "channel URL must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			w := postIdeas(t, &calls, tt.body)
			require.Equal(t, http.StatusOK, w.Code)

			events, err := DecodeStream(w.Body)
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, pipeline.EventError, events[0].Type)
			assert.Equal(t, pipeline.ErrorPayload{Message: tt.want}, events[0].Data)
			assert.Zero(t, calls.Load())
		})
	}
}

func TestGenerateIdeasLookupError(t *testing.T) {
	var calls atomic.Int32
	w := postIdeas(t, &calls, `{"url":"https://www.youtube.com/@gone"}`)

	events, err := DecodeStream(w.Body)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, pipeline.ErrorPayload{Message: errChannelGone.Error()}, events[2].Data)
}

func TestGenerateIdeasMalformedBody(t *testing.T) {
	var calls atomic.Int32
	w := postIdeas(t, &calls, `{"url":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request payload"}`, w.Body.String())
	assert.Zero(t, calls.Load())
}

func TestGenerateIdeasNoOrchestrator(t *testing.T) {
	router := NewRouter(&Handler{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/generate-ideas", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	var calls atomic.Int32
	router := NewRouter(NewHandler(stubOrchestrator(&calls)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pipeline_runs")
}
