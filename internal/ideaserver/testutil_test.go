package ideaserver

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/anatolykoptev/go_ideas/internal/engine"
	"github.com/anatolykoptev/go_ideas/internal/pipeline"
)

var errChannelGone = errors.New("resolve channel @gone: YouTube channel not found")

// stubOrchestrator answers @gone with a lookup error and anything else with the
// three-video scenario. calls counts video lookups.
func stubOrchestrator(calls *atomic.Int32) *pipeline.Orchestrator {
	return pipeline.New(pipeline.Collaborators{
		Videos: pipeline.VideoSourceFunc(func(_ context.Context, u string) ([]engine.VideoSummary, error) {
			calls.Add(1)
			if u == "https://www.youtube.com/@gone" {
				return nil, errChannelGone
			}
			return []engine.VideoSummary{{ID: "a", Title: "One"}, {ID: "b", Title: "Two"}, {ID: "c", Title: "Three"}}, nil
		}),
		Topics: pipeline.TopicExtractorFunc(func(context.Context, []engine.VideoSummary) ([]string, error) {
			return []string{"Tech", "AI"}, nil
		}),
		News: pipeline.NewsSearcherFunc(func(context.Context, []string) ([]engine.NewsItem, error) {
			return nil, errors.New("news down")
		}),
		Discussions: pipeline.DiscussionSearcherFunc(func(context.Context, []string) ([]engine.DiscussionItem, error) {
			return []engine.DiscussionItem{}, nil
		}),
		Ideas: pipeline.IdeaGeneratorFunc(func(context.Context, engine.IdeaRequest) ([]engine.Idea, error) {
			return []engine.Idea{{Title: "A", ThumbDesign: "a", VideoIdea: "a"}, {Title: "B", ThumbDesign: "b", VideoIdea: "b"}}, nil
		}),
	}, pipeline.Options{})
}
