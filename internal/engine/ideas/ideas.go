package ideas

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_ideas/internal/engine"
)

// GenerateIdeas proposes up to engine.MaxIdeas video ideas.
// Falls back to one templated idea per topic when the LLM is unavailable or returns junk.
func GenerateIdeas(ctx context.Context, req engine.IdeaRequest) []engine.Idea {
	ideas, err := generateIdeasLLM(ctx, req)
	if err == nil && len(ideas) > 0 {
		return ideas
	}
	engine.IncrLLMFallbacks()
	slog.Debug("ideas: idea generation fell back to templates", slog.Any("error", err))
	return TemplateIdeas(req.Topics)
}

func generateIdeasLLM(ctx context.Context, req engine.IdeaRequest) ([]engine.Idea, error) {
	var titles, news, threads strings.Builder
	for _, t := range req.SampleTitles {
		fmt.Fprintf(&titles, "- %s\n", t)
	}
	for _, n := range req.News {
		fmt.Fprintf(&news, "- %s (%s)\n", n.Title, n.Source)
	}
	for _, d := range req.Discussions {
		fmt.Fprintf(&threads, "- %s (r/%s)\n", d.Title, d.Community)
	}
	prompt := fmt.Sprintf(ideasPrompt,
		engine.CurrentDate(),
		engine.MaxIdeas,
		strings.Join(req.Topics, ", "),
		orNone(titles.String()),
		orNone(news.String()),
		orNone(threads.String()),
	)

	raw, err := engine.CallLLM(ctx, prompt)
	if err != nil {
		return nil, err
	}
	parsed, err := engine.ParseJSONArray[engine.Idea](raw)
	if err != nil {
		return nil, err
	}
	ideas := make([]engine.Idea, 0, engine.MaxIdeas)
	for _, idea := range parsed {
		idea.Title = strings.TrimSpace(idea.Title)
		if idea.Title == "" {
			continue
		}
		ideas = append(ideas, idea)
		if len(ideas) == engine.MaxIdeas {
			break
		}
	}
	return ideas, nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)\n"
	}
	return s
}

// TemplateIdeas builds one idea per topic, at most engine.MaxIdeas.
func TemplateIdeas(topics []string) []engine.Idea {
	ideas := make([]engine.Idea, 0, min(len(topics), engine.MaxIdeas))
	for _, topic := range topics {
		if len(ideas) == engine.MaxIdeas {
			break
		}
		ideas = append(ideas, engine.Idea{
			Title:       fmt.Sprintf("The Truth About %s Nobody Is Talking About", topic),
			ThumbDesign: fmt.Sprintf("Close-up reaction shot, bold %q text, high-contrast background with a red arrow", strings.ToUpper(topic)),
			VideoIdea:   fmt.Sprintf("Break down the latest developments in %s, what they mean for your audience, and where things are heading next.", topic),
		})
	}
	return ideas
}
