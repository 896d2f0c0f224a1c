package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/anatolykoptev/go_ideas/internal/engine"
)

const (
	redditTopicLimit = 3
	redditPerTopic   = 5
	redditWebBase    = "https://www.reddit.com"
	redditMaxBody    = 1024 * 1024
)

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title     string `json:"title"`
	Permalink string `json:"permalink"`
	Subreddit string `json:"subreddit"`
	Over18    bool   `json:"over_18"`
}

// SearchDiscussions returns up to engine.MaxDiscussions Reddit threads about the topics,
// deduplicated by URL, with adult content excluded.
// Topics are searched in parallel; a failing topic contributes nothing.
func SearchDiscussions(ctx context.Context, topics []string) []engine.DiscussionItem {
	if len(topics) > redditTopicLimit {
		topics = topics[:redditTopicLimit]
	}

	results := make([][]engine.DiscussionItem, len(topics))
	var wg sync.WaitGroup
	for i, topic := range topics {
		wg.Add(1)
		go func(i int, topic string) {
			defer wg.Done()
			posts, err := searchReddit(ctx, topic)
			if err != nil {
				engine.IncrRedditErrors()
				slog.Debug("reddit: search failed", slog.String("topic", topic), slog.Any("error", err))
				return
			}
			results[i] = posts
		}(i, topic)
	}
	wg.Wait()

	// Merge in topic order so output is stable regardless of completion order.
	var merged []engine.DiscussionItem
	for _, r := range results {
		merged = append(merged, r...)
	}
	return engine.DedupDiscussions(merged, engine.MaxDiscussions)
}

func searchReddit(ctx context.Context, topic string) ([]engine.DiscussionItem, error) {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("sort", "relevance")
	params.Set("t", "month")
	params.Set("limit", fmt.Sprintf("%d", redditPerTopic))
	params.Set("include_over_18", "off")
	params.Set("raw_json", "1")
	apiURL := strings.TrimRight(engine.Cfg.RedditBase, "/") + "/search.json?" + params.Encode()

	engine.IncrRedditRequests()
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		// Reddit rejects default Go user agents.
		req.Header.Set("User-Agent", engine.Cfg.RedditUserAgent)
		req.Header.Set("Accept", "application/json")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit search returned status %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(io.LimitReader(resp.Body, redditMaxBody)).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode reddit listing: %w", err)
	}

	var items []engine.DiscussionItem
	for _, child := range listing.Data.Children {
		p := child.Data
		if p.Over18 || p.Permalink == "" || strings.TrimSpace(p.Title) == "" {
			continue
		}
		items = append(items, engine.DiscussionItem{
			Title:     strings.TrimSpace(p.Title),
			URL:       redditWebBase + p.Permalink,
			Community: p.Subreddit,
		})
	}
	return items, nil
}
