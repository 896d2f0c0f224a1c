package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_ideas/internal/engine"
)

// Atom feed of a channel's latest uploads (at most 15 entries).
type ytFeed struct {
	Entries []ytFeedEntry `xml:"http://www.w3.org/2005/Atom entry"`
}

type ytFeedEntry struct {
	VideoID   string `xml:"http://www.youtube.com/xml/schemas/2015 videoId"`
	Title     string `xml:"http://www.w3.org/2005/Atom title"`
	Published string `xml:"http://www.w3.org/2005/Atom published"`
	Group     struct {
		Description string `xml:"http://search.yahoo.com/mrss/ description"`
		Thumbnail   struct {
			URL string `xml:"url,attr"`
		} `xml:"http://search.yahoo.com/mrss/ thumbnail"`
	} `xml:"http://search.yahoo.com/mrss/ group"`
}

func fetchFeed(ctx context.Context, channelID string, limit int) ([]engine.VideoSummary, error) {
	feedURL := strings.TrimRight(engine.Cfg.YouTubeWebBase, "/") + "/feeds/videos.xml?channel_id=" + url.QueryEscape(channelID)

	engine.IncrYouTubeRequests()
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("youtube feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrChannelNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube feed: status %d", resp.StatusCode)
	}
	return parseFeed(io.LimitReader(resp.Body, 2*1024*1024), limit)
}

func parseFeed(r io.Reader, limit int) ([]engine.VideoSummary, error) {
	var feed ytFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode youtube feed: %w", err)
	}
	videos := make([]engine.VideoSummary, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		if e.VideoID == "" {
			continue
		}
		videos = append(videos, engine.VideoSummary{
			ID:           e.VideoID,
			Title:        strings.TrimSpace(e.Title),
			Description:  engine.TruncateRunes(strings.TrimSpace(e.Group.Description), 500, "..."),
			PublishedAt:  e.Published,
			ThumbnailURL: e.Group.Thumbnail.URL,
		})
		if len(videos) >= limit {
			break
		}
	}
	return videos, nil
}
