// Command go_ideas generates YouTube content ideas for a channel.
//
// Streams pipeline progress over server-sent events (POST /api/generate-ideas)
// and exposes the same pipeline as the content_ideas MCP tool.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ideas/internal/engine"
	"github.com/anatolykoptev/go_ideas/internal/ideaserver"
)

var (
	version  = "dev"
	mcpPort  = env.Str("MCP_PORT", "8891")
	httpPort = env.Str("HTTP_PORT", "8892")
)

func main() {
	initEngine()
	orch := ideaserver.NewOrchestrator()

	slog.Info("starting go_ideas",
		slog.String("http_port", httpPort),
		slog.String("mcp_port", mcpPort),
	)

	gin.SetMode(gin.ReleaseMode)
	httpSrv := ideaserver.NewHTTPServer(":"+httpPort, ideaserver.NewHandler(orch))
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", slog.Any("error", err))
		}
	}()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_ideas",
		Version: version,
	}, nil)
	ideaserver.RegisterTools(server, orch)
	slog.Info("tools registered", slog.Int("count", 1))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_ideas",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: engine.Cfg.PipelineTimeout + 30*time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}

	// Let running pipelines finish their streams.
	ctx, cancel := context.WithTimeout(context.Background(), engine.Cfg.PipelineTimeout+10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Warn("http server shutdown", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		LLMAPIKey:             env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks:    env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:            env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:              env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:        env.Float("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:          env.Int("LLM_MAX_TOKENS", 4096),
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		YouTubeMaxVideos:      env.Int("YOUTUBE_MAX_VIDEOS", 10),
		NewsAPIKey:            env.Str("NEWS_API_KEY", ""),
		NewsAPIBase:           env.Str("NEWS_API_BASE", "https://newsapi.org/v2"),
		RedditUserAgent:       env.Str("REDDIT_USER_AGENT", engine.UserAgentBot),
		PipelineTimeout:       env.Duration("PIPELINE_TIMEOUT", 3*time.Minute),
		StageTimeout:          env.Duration("STAGE_TIMEOUT", 60*time.Second),
		CacheMaxEntries:       env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval:  env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	if c.LLMAPIKey != "" {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
	} else {
		slog.Warn("LLM_API_KEY not set, topics and ideas use keyword fallbacks")
	}
	if c.YouTubeAPIKey == "" {
		slog.Info("YOUTUBE_API_KEY not set, reading channel feeds without the Data API")
	}

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 24*time.Hour)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
