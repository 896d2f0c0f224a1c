package engine

import (
	"context"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
	LLMClient          *llm.Client
	// LLMComplete replaces LLMClient when set.
	LLMComplete func(ctx context.Context, prompt string) (string, error)

	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string
	YouTubeAPIBase        string // default: https://www.googleapis.com/youtube/v3
	YouTubeWebBase        string // default: https://www.youtube.com
	YouTubeMaxVideos      int

	NewsAPIKey  string // empty = news search disabled
	NewsAPIBase string // default: https://newsapi.org/v2

	RedditBase      string // default: https://www.reddit.com
	RedditUserAgent string

	PipelineTimeout time.Duration
	StageTimeout    time.Duration

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient *http.Client
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, ideas).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
// Zero-valued endpoints and limits get their defaults.
func Init(c Config) {
	if c.YouTubeAPIBase == "" {
		c.YouTubeAPIBase = "https://www.googleapis.com/youtube/v3"
	}
	if c.YouTubeWebBase == "" {
		c.YouTubeWebBase = "https://www.youtube.com"
	}
	if c.YouTubeMaxVideos <= 0 || c.YouTubeMaxVideos > 50 {
		c.YouTubeMaxVideos = 10
	}
	if c.NewsAPIBase == "" {
		c.NewsAPIBase = "https://newsapi.org/v2"
	}
	if c.RedditBase == "" {
		c.RedditBase = "https://www.reddit.com"
	}
	if c.RedditUserAgent == "" {
		c.RedditUserAgent = UserAgentBot
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	cfg = c
	Cfg = &cfg
}
