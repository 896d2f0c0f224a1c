// Package ideas turns a channel's recent videos into topics and new video ideas.
// Both steps ask the LLM first and fall back to deterministic heuristics, so
// neither ever fails.
package ideas

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/anatolykoptev/go_ideas/internal/engine"
)

const minTopics = 5

// ExtractTopics returns the main topics of the channel, 5-8 in the typical case.
func ExtractTopics(ctx context.Context, videos []engine.VideoSummary) []string {
	topics, err := extractTopicsLLM(ctx, videos)
	if err == nil && len(topics) > 0 {
		return topics
	}
	engine.IncrLLMFallbacks()
	slog.Debug("ideas: topic extraction fell back to keywords", slog.Any("error", err))
	return KeywordTopics(videos, engine.MaxTopics)
}

func extractTopicsLLM(ctx context.Context, videos []engine.VideoSummary) ([]string, error) {
	var sb strings.Builder
	for i, v := range videos {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, v.Title)
		if d := engine.TruncateAtWord(v.Description, 200); d != "" {
			fmt.Fprintf(&sb, "   %s\n", strings.ReplaceAll(d, "\n", " "))
		}
	}
	prompt := fmt.Sprintf(topicsPrompt, engine.CurrentDate(), minTopics, engine.MaxTopics, sb.String())

	raw, err := engine.CallLLM(ctx, prompt)
	if err != nil {
		return nil, err
	}
	topics, err := engine.ParseJSONArray[string](raw)
	if err != nil {
		return nil, err
	}
	topics = engine.DedupStrings(topics)
	if len(topics) > engine.MaxTopics {
		topics = topics[:engine.MaxTopics]
	}
	return topics, nil
}

var stopWords = map[string]bool{
	"about": true, "after": true, "again": true, "also": true, "been": true, "before": true,
	"best": true, "being": true, "does": true, "doing": true, "done": true, "episode": true,
	"every": true, "from": true, "full": true, "have": true, "here": true, "into": true,
	"just": true, "like": true, "made": true, "make": true, "more": true, "most": true,
	"much": true, "need": true, "never": true, "new": true, "only": true, "official": true,
	"over": true, "part": true, "really": true, "review": true, "should": true, "some": true,
	"than": true, "that": true, "their": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "thing": true, "things": true, "this": true, "those": true,
	"time": true, "using": true, "very": true, "video": true, "videos": true, "what": true,
	"when": true, "where": true, "which": true, "while": true, "will": true, "with": true,
	"without": true, "would": true, "your": true, "youre": true, "yours": true, "watch": true,
	"vlog": true, "live": true, "shorts": true, "today": true, "ever": true, "first": true,
}

// KeywordTopics derives up to limit topics from the most frequent title words.
// Ties keep first-seen order. Returns ["General"] when nothing usable remains.
func KeywordTopics(videos []engine.VideoSummary, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, v := range videos {
		words := strings.FieldsFunc(strings.ToLower(v.Title), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			if len([]rune(w)) < 4 || stopWords[w] || isNumber(w) {
				continue
			}
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > limit {
		order = order[:limit]
	}
	if len(order) == 0 {
		return []string{"General"}
	}
	title := cases.Title(language.English)
	topics := make([]string, len(order))
	for i, w := range order {
		topics[i] = title.String(w)
	}
	return topics
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
