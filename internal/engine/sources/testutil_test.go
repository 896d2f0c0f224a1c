package sources

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anatolykoptev/go_ideas/internal/engine"
)

// withServer starts h and points every upstream base URL at it.
// mutate adjusts the config before engine.Init.
func withServer(t *testing.T, h http.Handler, mutate func(c *engine.Config)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	saved := *engine.Cfg
	t.Cleanup(func() { engine.Init(saved) })

	c := engine.Config{
		YouTubeAPIBase:  srv.URL,
		YouTubeWebBase:  srv.URL,
		NewsAPIBase:     srv.URL,
		RedditBase:      srv.URL,
		HTTPClient:      srv.Client(),
		RedditUserAgent: "go_ideas-test/1.0",
	}
	if mutate != nil {
		mutate(&c)
	}
	engine.Init(c)
	return srv
}
