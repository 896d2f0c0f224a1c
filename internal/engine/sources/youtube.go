package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_ideas/internal/engine"
)

// YouTube implementation is split across files by responsibility:
//   youtube.go         channel video lookup entry point and error taxonomy
//   youtube_channel.go channel URL parsing and channel ID resolution (API, page scrape, cache)
//   youtube_api.go     Data API v3 primitives: keyed GET with quota fallback, uploads playlist
//   youtube_feed.go    public Atom feed used when no API key is configured

var (
	ErrInvalidChannelURL = errors.New("invalid YouTube channel URL")
	ErrChannelNotFound   = errors.New("YouTube channel not found")
	ErrQuotaExceeded     = errors.New("YouTube API quota exceeded")
)

// FetchChannelVideos returns the most recent uploads of the channel behind channelURL.
// Uses the Data API when a key is configured; otherwise scrapes the channel page for its ID
// and reads the public feed. Errors are descriptive and meant to be shown to the caller.
func FetchChannelVideos(ctx context.Context, channelURL string) ([]engine.VideoSummary, error) {
	ref, err := ParseChannelURL(channelURL)
	if err != nil {
		return nil, err
	}

	channelID, err := ResolveChannelID(ctx, ref)
	if err != nil {
		engine.IncrYouTubeErrors()
		return nil, fmt.Errorf("resolve channel %s: %w", ref, err)
	}

	limit := engine.Cfg.YouTubeMaxVideos
	var videos []engine.VideoSummary
	if engine.Cfg.YouTubeAPIKey != "" {
		videos, err = fetchUploads(ctx, channelID, limit)
	} else {
		videos, err = fetchFeed(ctx, channelID, limit)
	}
	if err != nil {
		engine.IncrYouTubeErrors()
		return nil, fmt.Errorf("fetch videos for %s: %w", ref, err)
	}

	slog.Debug("youtube: videos fetched",
		slog.String("channel", ref.String()),
		slog.String("channel_id", channelID),
		slog.Int("count", len(videos)))
	return videos, nil
}
