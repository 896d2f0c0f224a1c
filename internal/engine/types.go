package engine

// --- Collaborator data types ---

// VideoSummary is one recent upload of a channel.
type VideoSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PublishedAt  string `json:"publishedAt"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// NewsItem is a news article related to the channel's topics.
type NewsItem struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// DiscussionItem is a forum thread related to the channel's topics.
type DiscussionItem struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Community string `json:"community"` // subreddit name, without the r/ prefix
}

// Idea is a generated video idea.
type Idea struct {
	Title       string `json:"title"`
	ThumbDesign string `json:"thumbDesign"`
	VideoIdea   string `json:"videoIdea"`
}

// IdeaRequest is everything the idea generator gets to work with.
type IdeaRequest struct {
	Topics       []string
	News         []NewsItem
	Discussions  []DiscussionItem
	SampleTitles []string
}

// Collaborator limits.
const (
	MaxTopics       = 8
	MaxNews         = 5
	MaxDiscussions  = 10
	MaxIdeas        = 5
	MaxSampleTitles = 10
)

// --- MCP tool types ---

// ContentIdeasInput is the input for the content_ideas tool.
type ContentIdeasInput struct {
	URL string `json:"url" jsonschema:"YouTube channel URL, e.g. https://www.youtube.com/@handle or https://www.youtube.com/channel/UC..."`
}

// DedupDiscussions drops items with an empty or already seen URL and caps the list at limit.
func DedupDiscussions(items []DiscussionItem, limit int) []DiscussionItem {
	seen := make(map[string]bool, len(items))
	out := make([]DiscussionItem, 0, min(len(items), limit))
	for _, it := range items {
		if it.URL == "" || seen[it.URL] {
			continue
		}
		seen[it.URL] = true
		out = append(out, it)
		if len(out) >= limit {
			break
		}
	}
	return out
}
