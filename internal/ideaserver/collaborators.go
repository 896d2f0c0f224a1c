// Package ideaserver exposes the content-idea pipeline over HTTP (server-sent events)
// and as an MCP tool.
package ideaserver

import (
	"context"

	"github.com/anatolykoptev/go_ideas/internal/engine"
	"github.com/anatolykoptev/go_ideas/internal/engine/ideas"
	"github.com/anatolykoptev/go_ideas/internal/engine/sources"
	"github.com/anatolykoptev/go_ideas/internal/pipeline"
)

// DefaultCollaborators wires the pipeline to YouTube, NewsAPI, Reddit and the LLM.
// engine.Init must have been called first.
func DefaultCollaborators() pipeline.Collaborators {
	return pipeline.Collaborators{
		Videos: pipeline.VideoSourceFunc(sources.FetchChannelVideos),
		Topics: pipeline.TopicExtractorFunc(func(ctx context.Context, videos []engine.VideoSummary) ([]string, error) {
			return ideas.ExtractTopics(ctx, videos), nil
		}),
		News: pipeline.NewsSearcherFunc(func(ctx context.Context, topics []string) ([]engine.NewsItem, error) {
			return sources.SearchNews(ctx, topics), nil
		}),
		Discussions: pipeline.DiscussionSearcherFunc(func(ctx context.Context, topics []string) ([]engine.DiscussionItem, error) {
			return sources.SearchDiscussions(ctx, topics), nil
		}),
		Ideas: pipeline.IdeaGeneratorFunc(func(ctx context.Context, req engine.IdeaRequest) ([]engine.Idea, error) {
			return ideas.GenerateIdeas(ctx, req), nil
		}),
	}
}

// NewOrchestrator builds an orchestrator over the default collaborators using
// the timeouts from engine.Cfg.
func NewOrchestrator() *pipeline.Orchestrator {
	return pipeline.New(DefaultCollaborators(), pipeline.Options{
		PipelineTimeout: engine.Cfg.PipelineTimeout,
		StageTimeout:    engine.Cfg.StageTimeout,
	})
}
