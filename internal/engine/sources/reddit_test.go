package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/anatolykoptev/go_ideas/internal/engine"
)

func redditChild(title, permalink, sub string, nsfw bool) string {
	return fmt.Sprintf(`{"data":{"title":%q,"permalink":%q,"subreddit":%q,"over_18":%t}}`, title, permalink, sub, nsfw)
}

func TestSearchDiscussions(t *testing.T) {
	var (
		mu     sync.Mutex
		agents []string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.Header.Get("User-Agent"))
		mu.Unlock()
		if r.URL.Query().Get("include_over_18") != "off" {
			t.Errorf("include_over_18 = %q", r.URL.Query().Get("include_over_18"))
		}
		q := r.URL.Query().Get("q")
		children := []string{
			redditChild(q+" thread", "/r/tech/comments/"+q+"/", "tech", false),
			redditChild("shared thread", "/r/all/comments/shared/", "all", false),
			redditChild("nsfw "+q, "/r/nsfw/comments/"+q+"/", "nsfw", true),
		}
		fmt.Fprintf(w, `{"data":{"children":[%s]}}`, strings.Join(children, ","))
	})
	withServer(t, mux, nil)

	got := SearchDiscussions(context.Background(), []string{"AI", "Tech"})

	if len(got) != 3 {
		t.Fatalf("got %d items, want 3 (deduped, nsfw dropped): %+v", len(got), got)
	}
	if got[0].URL != "https://www.reddit.com/r/tech/comments/AI/" || got[0].Community != "tech" {
		t.Errorf("first item = %+v", got[0])
	}
	seen := map[string]bool{}
	for _, it := range got {
		if seen[it.URL] {
			t.Errorf("duplicate URL %s", it.URL)
		}
		seen[it.URL] = true
		if strings.HasPrefix(it.Title, "nsfw") {
			t.Errorf("adult post leaked: %+v", it)
		}
	}
	for _, ua := range agents {
		if ua != "go_ideas-test/1.0" {
			t.Errorf("User-Agent = %q", ua)
		}
	}
}

func TestSearchDiscussionsPartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "broken" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprintf(w, `{"data":{"children":[%s]}}`, redditChild("ok", "/r/ok/comments/1/", "ok", false))
	})
	withServer(t, mux, nil)

	got := SearchDiscussions(context.Background(), []string{"broken", "fine"})
	if len(got) != 1 || got[0].Title != "ok" {
		t.Errorf("got %+v, want only the healthy topic's post", got)
	}
}

func TestSearchDiscussionsCap(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		var children []string
		for i := 0; i < redditPerTopic; i++ {
			children = append(children, redditChild(fmt.Sprintf("%s %d", q, i), fmt.Sprintf("/r/x/comments/%s%d/", q, i), "x", false))
		}
		fmt.Fprintf(w, `{"data":{"children":[%s]}}`, strings.Join(children, ","))
	})
	withServer(t, mux, nil)

	got := SearchDiscussions(context.Background(), []string{"a", "b", "c", "d"})
	if len(got) != engine.MaxDiscussions {
		t.Errorf("got %d items, want %d", len(got), engine.MaxDiscussions)
	}
}

func TestSearchDiscussionsNoTopics(t *testing.T) {
	if got := SearchDiscussions(context.Background(), nil); got == nil || len(got) != 0 {
		t.Errorf("SearchDiscussions(nil) = %v, want empty non-nil slice", got)
	}
}

func TestSearchDiscussionsOversizedListing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		// The only post sits past the body limit.
		fmt.Fprintf(w, `{"data":{"children":[%s%s]}}`,
			strings.Repeat(" ", redditMaxBody), redditChild("late", "/r/tech/comments/late/", "tech", false))
	})
	withServer(t, mux, nil)

	got := SearchDiscussions(context.Background(), []string{"AI"})
	if len(got) != 0 {
		t.Errorf("got %d items from an oversized listing, want 0: %+v", len(got), got)
	}
}
