package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	PipelineRuns      atomic.Int64
	PipelineCompleted atomic.Int64
	PipelineFailed    atomic.Int64
	LLMCalls          atomic.Int64
	LLMErrors         atomic.Int64
	LLMFallbacks      atomic.Int64
	YouTubeRequests   atomic.Int64
	YouTubeErrors     atomic.Int64
	NewsRequests      atomic.Int64
	NewsErrors        atomic.Int64
	RedditRequests    atomic.Int64
	RedditErrors      atomic.Int64
}

var metricKeys = []string{
	"pipeline_runs", "pipeline_completed", "pipeline_failed",
	"llm_calls", "llm_errors", "llm_fallbacks",
	"youtube_requests", "youtube_errors",
	"news_requests", "news_errors",
	"reddit_requests", "reddit_errors",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"pipeline_runs":      metrics.PipelineRuns.Load(),
		"pipeline_completed": metrics.PipelineCompleted.Load(),
		"pipeline_failed":    metrics.PipelineFailed.Load(),
		"llm_calls":          metrics.LLMCalls.Load(),
		"llm_errors":         metrics.LLMErrors.Load(),
		"llm_fallbacks":      metrics.LLMFallbacks.Load(),
		"youtube_requests":   metrics.YouTubeRequests.Load(),
		"youtube_errors":     metrics.YouTubeErrors.Load(),
		"news_requests":      metrics.NewsRequests.Load(),
		"news_errors":        metrics.NewsErrors.Load(),
		"reddit_requests":    metrics.RedditRequests.Load(),
		"reddit_errors":      metrics.RedditErrors.Load(),
		"cache_hits":         hits,
		"cache_misses":       misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for pipeline/ and sub-packages.
func IncrPipelineRuns()      { metrics.PipelineRuns.Add(1) }
func IncrPipelineCompleted() { metrics.PipelineCompleted.Add(1) }
func IncrPipelineFailed()    { metrics.PipelineFailed.Add(1) }
func IncrLLMFallbacks()      { metrics.LLMFallbacks.Add(1) }
func IncrYouTubeRequests()   { metrics.YouTubeRequests.Add(1) }
func IncrYouTubeErrors()     { metrics.YouTubeErrors.Add(1) }
func IncrNewsRequests()      { metrics.NewsRequests.Add(1) }
func IncrNewsErrors()        { metrics.NewsErrors.Add(1) }
func IncrRedditRequests()    { metrics.RedditRequests.Add(1) }
func IncrRedditErrors()      { metrics.RedditErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 10*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
