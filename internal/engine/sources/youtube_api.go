package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_ideas/internal/engine"
)

// --- YouTube Data API v3 types ---

type ytErrorResp struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

type ytThumbnail struct {
	URL string `json:"url"`
}

type ytPlaylistItemsResp struct {
	Items []struct {
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			Thumbnails  struct {
				Default *ytThumbnail `json:"default"`
				Medium  *ytThumbnail `json:"medium"`
				High    *ytThumbnail `json:"high"`
			} `json:"thumbnails"`
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

// ytGet performs a keyed Data API GET and decodes the JSON body into out.
// Automatically falls back to the secondary key on quota errors.
func ytGet(ctx context.Context, path string, params url.Values, out any) error {
	keys := []string{engine.Cfg.YouTubeAPIKey}
	if engine.Cfg.YouTubeAPIKeyFallback != "" {
		keys = append(keys, engine.Cfg.YouTubeAPIKeyFallback)
	}
	var lastErr error
	for _, key := range keys {
		err := doYTGet(ctx, path, params, key, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.Is(err, ErrQuotaExceeded) {
			return err
		}
		slog.Debug("youtube data API key over quota, trying fallback", slog.String("path", path))
	}
	return lastErr
}

func doYTGet(ctx context.Context, path string, params url.Values, apiKey string, out any) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", apiKey)
	apiURL := strings.TrimRight(engine.Cfg.YouTubeAPIBase, "/") + path + "?" + q.Encode()

	engine.IncrYouTubeRequests()
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		req.Header.Set("Accept", "application/json")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return fmt.Errorf("youtube data API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ytStatusError(resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode youtube data API: %w", err)
	}
	return nil
}

// ytStatusError maps a Data API error response onto the error taxonomy.
func ytStatusError(status int, body []byte) error {
	var er ytErrorResp
	_ = json.Unmarshal(body, &er)
	msg := er.Error.Message
	if msg == "" {
		msg = strings.TrimSpace(engine.Truncate(string(body), 200))
	}
	for _, e := range er.Error.Errors {
		switch e.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded":
			return ErrQuotaExceeded
		case "channelNotFound", "playlistNotFound":
			return ErrChannelNotFound
		}
	}
	if status == http.StatusNotFound {
		return ErrChannelNotFound
	}
	return fmt.Errorf("youtube data API %d: %s", status, msg)
}

// fetchUploads lists the newest videos of the channel's uploads playlist.
// Every channel's uploads playlist ID is its channel ID with the UC prefix swapped for UU.
func fetchUploads(ctx context.Context, channelID string, limit int) ([]engine.VideoSummary, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", "UU"+strings.TrimPrefix(channelID, "UC"))
	params.Set("maxResults", strconv.Itoa(limit))

	var pr ytPlaylistItemsResp
	if err := ytGet(ctx, "/playlistItems", params, &pr); err != nil {
		return nil, err
	}

	videos := make([]engine.VideoSummary, 0, len(pr.Items))
	for _, item := range pr.Items {
		s := item.Snippet
		if s.ResourceID.VideoID == "" || s.Title == "Private video" || s.Title == "Deleted video" {
			continue
		}
		videos = append(videos, engine.VideoSummary{
			ID:           s.ResourceID.VideoID,
			Title:        s.Title,
			Description:  engine.TruncateRunes(s.Description, 500, "..."),
			PublishedAt:  s.PublishedAt,
			ThumbnailURL: bestThumbnail(s.Thumbnails.High, s.Thumbnails.Medium, s.Thumbnails.Default),
		})
	}
	return videos, nil
}

func bestThumbnail(thumbs ...*ytThumbnail) string {
	for _, t := range thumbs {
		if t != nil && t.URL != "" {
			return t.URL
		}
	}
	return ""
}
