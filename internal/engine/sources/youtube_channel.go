package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/anatolykoptev/go_ideas/internal/engine"
)

// ChannelKind tells how a channel URL identifies its channel.
type ChannelKind int

const (
	ChannelByID ChannelKind = iota
	ChannelByHandle
	ChannelByCustomName
	ChannelByUsername
)

// ChannelRef is a parsed channel URL.
type ChannelRef struct {
	Kind  ChannelKind
	Value string // channel ID, handle without "@", custom name or legacy username
}

func (r ChannelRef) String() string {
	switch r.Kind {
	case ChannelByHandle:
		return "@" + r.Value
	case ChannelByCustomName:
		return "c/" + r.Value
	case ChannelByUsername:
		return "user/" + r.Value
	}
	return r.Value
}

// path is the channel page path on youtube.com.
func (r ChannelRef) path() string {
	if r.Kind == ChannelByID {
		return "/channel/" + r.Value
	}
	return "/" + r.String()
}

var (
	channelIDRe = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
	handleRe    = regexp.MustCompile(`^[\p{L}\p{N}._-]{3,30}$`)
	nameRe      = regexp.MustCompile(`^[\p{L}\p{N}._-]+$`)
	canonicalRe = regexp.MustCompile(`/channel/(UC[A-Za-z0-9_-]{22})`)
)

// ParseChannelURL recognizes the channel URL shapes YouTube uses:
// https://www.youtube.com/@handle, /channel/UC..., /c/name, /user/name, and bare @handle.
// Scheme, www./m. prefixes, query strings and trailing tabs (/videos) are optional.
func ParseChannelURL(raw string) (ChannelRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ChannelRef{}, ErrInvalidChannelURL
	}
	if strings.HasPrefix(raw, "@") {
		return handleRef(raw[1:], raw)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ChannelRef{}, fmt.Errorf("%w: %q", ErrInvalidChannelURL, raw)
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")
	if host != "youtube.com" {
		return ChannelRef{}, fmt.Errorf("%w: %q is not a youtube.com address", ErrInvalidChannelURL, raw)
	}

	segs := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segs) == 0 {
		return ChannelRef{}, fmt.Errorf("%w: %q has no channel path", ErrInvalidChannelURL, raw)
	}
	// u.Path is already unescaped.
	first := segs[0]
	if strings.HasPrefix(first, "@") {
		return handleRef(first[1:], raw)
	}
	if len(segs) < 2 {
		return ChannelRef{}, fmt.Errorf("%w: %q", ErrInvalidChannelURL, raw)
	}
	second := segs[1]
	switch first {
	case "channel":
		if channelIDRe.MatchString(second) {
			return ChannelRef{Kind: ChannelByID, Value: second}, nil
		}
	case "c":
		if nameRe.MatchString(second) {
			return ChannelRef{Kind: ChannelByCustomName, Value: second}, nil
		}
	case "user":
		if nameRe.MatchString(second) {
			return ChannelRef{Kind: ChannelByUsername, Value: second}, nil
		}
	}
	return ChannelRef{}, fmt.Errorf("%w: %q", ErrInvalidChannelURL, raw)
}

func handleRef(handle, raw string) (ChannelRef, error) {
	if !handleRe.MatchString(handle) {
		return ChannelRef{}, fmt.Errorf("%w: bad handle in %q", ErrInvalidChannelURL, raw)
	}
	return ChannelRef{Kind: ChannelByHandle, Value: handle}, nil
}

// ResolveChannelID maps a channel ref to its UC... channel ID.
// Resolutions are cached; a channel ID ref resolves to itself without any request.
func ResolveChannelID(ctx context.Context, ref ChannelRef) (string, error) {
	if ref.Kind == ChannelByID {
		return ref.Value, nil
	}
	key := engine.CacheKey("channel_id", strings.ToLower(ref.String()))
	if id, ok := engine.CacheGet(ctx, key); ok {
		return id, nil
	}

	var (
		id  string
		err error
	)
	if engine.Cfg.YouTubeAPIKey != "" {
		id, err = resolveViaAPI(ctx, ref)
	} else {
		id, err = resolveViaPage(ctx, ref)
	}
	if err != nil {
		return "", err
	}
	engine.CacheSet(ctx, key, id)
	return id, nil
}

type ytChannelsResp struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
}

type ytChannelSearchResp struct {
	Items []struct {
		Snippet struct {
			ChannelID string `json:"channelId"`
		} `json:"snippet"`
	} `json:"items"`
}

func resolveViaAPI(ctx context.Context, ref ChannelRef) (string, error) {
	params := url.Values{}
	params.Set("part", "id")

	switch ref.Kind {
	case ChannelByHandle:
		params.Set("forHandle", "@"+ref.Value)
	case ChannelByUsername:
		params.Set("forUsername", ref.Value)
	case ChannelByCustomName:
		// Custom URLs have no direct lookup; the best channel search match is the channel.
		search := url.Values{}
		search.Set("part", "snippet")
		search.Set("type", "channel")
		search.Set("maxResults", "1")
		search.Set("q", ref.Value)
		var sr ytChannelSearchResp
		if err := ytGet(ctx, "/search", search, &sr); err != nil {
			return "", err
		}
		if len(sr.Items) == 0 || sr.Items[0].Snippet.ChannelID == "" {
			return "", ErrChannelNotFound
		}
		return sr.Items[0].Snippet.ChannelID, nil
	}

	var cr ytChannelsResp
	if err := ytGet(ctx, "/channels", params, &cr); err != nil {
		return "", err
	}
	if len(cr.Items) == 0 || cr.Items[0].ID == "" {
		return "", ErrChannelNotFound
	}
	return cr.Items[0].ID, nil
}

// resolveViaPage reads the channel ID from the public channel page.
func resolveViaPage(ctx context.Context, ref ChannelRef) (string, error) {
	pageURL := strings.TrimRight(engine.Cfg.YouTubeWebBase, "/") + ref.path()

	engine.IncrYouTubeRequests()
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		// Skips the EU consent interstitial.
		req.AddCookie(&http.Cookie{Name: "CONSENT", Value: "YES+1"})
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("youtube channel page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrChannelNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("youtube channel page: status %d", resp.StatusCode)
	}
	return channelIDFromPage(io.LimitReader(resp.Body, 4*1024*1024))
}

func channelIDFromPage(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse channel page: %w", err)
	}
	if id := doc.Find(`meta[itemprop="identifier"]`).AttrOr("content", ""); channelIDRe.MatchString(id) {
		return id, nil
	}
	if id := doc.Find(`meta[itemprop="channelId"]`).AttrOr("content", ""); channelIDRe.MatchString(id) {
		return id, nil
	}
	for _, sel := range []string{`link[rel="canonical"]`, `meta[property="og:url"]`} {
		node := doc.Find(sel)
		link := node.AttrOr("href", node.AttrOr("content", ""))
		if m := canonicalRe.FindStringSubmatch(link); len(m) == 2 {
			return m[1], nil
		}
	}
	return "", ErrChannelNotFound
}
