package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_ideas/internal/engine"
)

// newsTopicLimit caps how many topics go into one NewsAPI query.
const newsTopicLimit = 3

type newsAPIResp struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// SearchNews returns up to engine.MaxNews recent articles matching any of the topics.
// Never fails: an unconfigured key or any upstream problem yields an empty list.
func SearchNews(ctx context.Context, topics []string) []engine.NewsItem {
	if engine.Cfg.NewsAPIKey == "" || len(topics) == 0 {
		return []engine.NewsItem{}
	}
	items, err := searchNewsAPI(ctx, topics)
	if err != nil {
		engine.IncrNewsErrors()
		slog.Debug("news: search failed", slog.Any("error", err))
		return []engine.NewsItem{}
	}
	return items
}

func searchNewsAPI(ctx context.Context, topics []string) ([]engine.NewsItem, error) {
	if len(topics) > newsTopicLimit {
		topics = topics[:newsTopicLimit]
	}
	quoted := make([]string, len(topics))
	for i, t := range topics {
		quoted[i] = strconv.Quote(t)
	}

	params := url.Values{}
	params.Set("q", strings.Join(quoted, " OR "))
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(engine.MaxNews))
	apiURL := strings.TrimRight(engine.Cfg.NewsAPIBase, "/") + "/everything?" + params.Encode()

	engine.IncrNewsRequests()
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		req.Header.Set("X-Api-Key", engine.Cfg.NewsAPIKey)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}
	defer resp.Body.Close()

	var data newsAPIResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1024*1024)).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode newsapi: %w", err)
	}
	if resp.StatusCode != http.StatusOK || data.Status == "error" {
		return nil, fmt.Errorf("newsapi %d: %s %s", resp.StatusCode, data.Code, data.Message)
	}

	items := make([]engine.NewsItem, 0, len(data.Articles))
	seen := make(map[string]bool)
	for _, a := range data.Articles {
		title := engine.CleanHTML(a.Title)
		if title == "" || a.URL == "" || title == "[Removed]" || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		items = append(items, engine.NewsItem{Title: title, URL: a.URL, Source: a.Source.Name})
		if len(items) >= engine.MaxNews {
			break
		}
	}
	return items, nil
}
