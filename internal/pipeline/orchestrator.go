// Package pipeline runs the content-idea workflow for one channel and reports
// progress through an Emitter as each stage completes.
//
// Stages run in a fixed order: validate, fetch videos, analyze topics, fetch news
// and discussions concurrently, generate ideas. Only video lookup may fail the run;
// the other collaborators degrade to defaults. Every run ends with exactly one
// terminal event (complete or error) followed by Close.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/anatolykoptev/go_ideas/internal/engine"
)

var (
	ErrMissingURL = errors.New("channel URL is required")
	ErrURLType    = errors.New("channel URL must be a string")
	ErrNoVideos   = errors.New("no videos found for this channel")
	ErrTimeout    = errors.New("pipeline timed out")
	ErrCancelled  = errors.New("request cancelled")
)

// Request is the pipeline input. URL is typed any so non-string JSON values
// reach validation instead of failing in the decoder.
type Request struct {
	URL any `json:"url"`
}

// --- Collaborators ---

type VideoSource interface {
	RecentVideos(ctx context.Context, channelURL string) ([]engine.VideoSummary, error)
}

type TopicExtractor interface {
	ExtractTopics(ctx context.Context, videos []engine.VideoSummary) ([]string, error)
}

type NewsSearcher interface {
	SearchNews(ctx context.Context, topics []string) ([]engine.NewsItem, error)
}

type DiscussionSearcher interface {
	SearchDiscussions(ctx context.Context, topics []string) ([]engine.DiscussionItem, error)
}

type IdeaGenerator interface {
	GenerateIdeas(ctx context.Context, req engine.IdeaRequest) ([]engine.Idea, error)
}

type VideoSourceFunc func(ctx context.Context, channelURL string) ([]engine.VideoSummary, error)

func (f VideoSourceFunc) RecentVideos(ctx context.Context, channelURL string) ([]engine.VideoSummary, error) {
	return f(ctx, channelURL)
}

type TopicExtractorFunc func(ctx context.Context, videos []engine.VideoSummary) ([]string, error)

func (f TopicExtractorFunc) ExtractTopics(ctx context.Context, videos []engine.VideoSummary) ([]string, error) {
	return f(ctx, videos)
}

type NewsSearcherFunc func(ctx context.Context, topics []string) ([]engine.NewsItem, error)

func (f NewsSearcherFunc) SearchNews(ctx context.Context, topics []string) ([]engine.NewsItem, error) {
	return f(ctx, topics)
}

type DiscussionSearcherFunc func(ctx context.Context, topics []string) ([]engine.DiscussionItem, error)

func (f DiscussionSearcherFunc) SearchDiscussions(ctx context.Context, topics []string) ([]engine.DiscussionItem, error) {
	return f(ctx, topics)
}

type IdeaGeneratorFunc func(ctx context.Context, req engine.IdeaRequest) ([]engine.Idea, error)

func (f IdeaGeneratorFunc) GenerateIdeas(ctx context.Context, req engine.IdeaRequest) ([]engine.Idea, error) {
	return f(ctx, req)
}

// Collaborators bundles the external services the pipeline calls. All are required.
type Collaborators struct {
	Videos      VideoSource
	Topics      TopicExtractor
	News        NewsSearcher
	Discussions DiscussionSearcher
	Ideas       IdeaGenerator
}

// Options bounds a run. Zero means no limit.
type Options struct {
	PipelineTimeout time.Duration
	StageTimeout    time.Duration
}

// Orchestrator runs the pipeline. It holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	c    Collaborators
	opts Options
}

func New(c Collaborators, opts Options) *Orchestrator {
	return &Orchestrator{c: c, opts: opts}
}

// State is the position of a run in the pipeline.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateFetchingVideos
	StateAnalyzingTopics
	StateFetchingNewsAndReddit
	StateGeneratingIdeas
	StateComplete
	StateFailed
)

var stateNames = [...]string{
	StateIdle:                  "idle",
	StateValidating:            "validating",
	StateFetchingVideos:        "fetching_videos",
	StateAnalyzingTopics:       "analyzing_topics",
	StateFetchingNewsAndReddit: "fetching_news_and_reddit",
	StateGeneratingIdeas:       "generating_ideas",
	StateComplete:              "complete",
	StateFailed:                "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether s is Complete or Failed.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateFailed
}

// run is the state of one request. Owned by the goroutine calling Run.
type run struct {
	em      Emitter
	log     *slog.Logger
	state   State
	emitErr error
	started time.Time
}

func (r *run) enter(s State) {
	r.log.Debug("pipeline: state", slog.String("from", r.state.String()), slog.String("to", s.String()))
	r.state = s
}

func (r *run) emit(ev Event) {
	if r.emitErr != nil {
		return
	}
	if err := r.em.Emit(ev); err != nil {
		r.emitErr = err
		r.log.Debug("pipeline: emit failed, consumer gone", slog.Any("error", err))
	}
}

func (r *run) progress(step Step, message string, data map[string]any) {
	r.emit(progressEvent(step, message, data))
}

// Run executes the pipeline for req, emitting events to em, and closes em before returning.
// The returned error is the one reported in the terminal error event.
func (o *Orchestrator) Run(ctx context.Context, req Request, em Emitter) (res *Result, err error) {
	r := &run{
		em:      em,
		log:     slog.With(slog.String("request_id", uuid.NewString())),
		started: time.Now(),
	}
	engine.IncrPipelineRuns()

	defer func() {
		if cerr := em.Close(); cerr != nil {
			r.log.Debug("pipeline: close emitter", slog.Any("error", cerr))
		}
	}()
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("internal error: %v", p)
			r.log.Error("pipeline: panic", slog.Any("panic", p), slog.String("state", r.state.String()))
		}
		if err != nil {
			r.fail(err)
		}
	}()

	if o.opts.PipelineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.PipelineTimeout)
		defer cancel()
	}

	res, err = o.run(ctx, r, req)
	if err != nil {
		return nil, err
	}

	r.enter(StateComplete)
	r.emit(completeEvent(res))
	engine.IncrPipelineCompleted()
	r.log.Info("pipeline: complete",
		slog.Int("topics", len(res.Topics)),
		slog.Int("news", len(res.News)),
		slog.Int("reddit_posts", len(res.RedditPosts)),
		slog.Int("ideas", len(res.VideoIdeas)),
		slog.Duration("elapsed", time.Since(r.started)))
	return res, nil
}

// fail emits the single terminal error event.
func (r *run) fail(err error) {
	failedIn := r.state
	r.enter(StateFailed)
	r.emit(errorEvent(err.Error()))
	engine.IncrPipelineFailed()
	r.log.Warn("pipeline: failed",
		slog.String("state", failedIn.String()),
		slog.Any("error", err),
		slog.Duration("elapsed", time.Since(r.started)))
}

func (o *Orchestrator) run(ctx context.Context, r *run, req Request) (*Result, error) {
	r.enter(StateValidating)
	channelURL, err := validate(req)
	if err != nil {
		return nil, err
	}
	r.log.Info("pipeline: start", slog.String("url", channelURL))
	r.progress(StepStarting, "Starting analysis...", nil)

	// Stage 2: videos. The only stage whose failure ends the run.
	r.enter(StateFetchingVideos)
	r.progress(StepFetchingVideos, "Fetching recent videos from channel...", nil)
	videos, err := stage(ctx, "videos", o.opts.StageTimeout, func(ctx context.Context) ([]engine.VideoSummary, error) {
		return o.c.Videos.RecentVideos(ctx, channelURL)
	})
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, ErrNoVideos
	}
	r.progress(StepVideosFetched, fmt.Sprintf("Found %d videos", len(videos)), map[string]any{"count": len(videos)})
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	// Stage 3: topics.
	r.enter(StateAnalyzingTopics)
	r.progress(StepAnalyzingTopics, "Analyzing video topics...", nil)
	topics, err := stage(ctx, "topics", o.opts.StageTimeout, func(ctx context.Context) ([]string, error) {
		return o.c.Topics.ExtractTopics(ctx, videos)
	})
	if err != nil {
		return nil, err
	}
	topics = nonNil(topics)
	r.progress(StepTopicsAnalyzed, fmt.Sprintf("Identified %d topics", len(topics)),
		map[string]any{"topics": topics, "count": len(topics)})
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	// Stage 4: news and discussions, concurrently. Each task resolves to a default on
	// failure, so the join never short-circuits.
	r.enter(StateFetchingNewsAndReddit)
	r.progress(StepFetchingNews, "Fetching related news...", nil)
	r.progress(StepSearchingReddit, "Searching Reddit discussions...", nil)
	var (
		news  []engine.NewsItem
		posts []engine.DiscussionItem
		g     errgroup.Group
	)
	g.Go(func() error {
		news = softStage(ctx, r.log, "news", o.opts.StageTimeout, func(ctx context.Context) ([]engine.NewsItem, error) {
			return o.c.News.SearchNews(ctx, topics)
		})
		return nil
	})
	g.Go(func() error {
		posts = softStage(ctx, r.log, "reddit", o.opts.StageTimeout, func(ctx context.Context) ([]engine.DiscussionItem, error) {
			return o.c.Discussions.SearchDiscussions(ctx, topics)
		})
		return nil
	})
	_ = g.Wait()
	posts = engine.DedupDiscussions(posts, engine.MaxDiscussions)
	r.progress(StepNewsFetched, fmt.Sprintf("Found %d news articles", len(news)),
		map[string]any{"news": news, "count": len(news)})
	r.progress(StepRedditSearched, fmt.Sprintf("Found %d Reddit discussions", len(posts)),
		map[string]any{"posts": posts, "count": len(posts)})
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	// Stage 5: ideas.
	r.enter(StateGeneratingIdeas)
	r.progress(StepGeneratingIdeas, "Generating video ideas...", nil)
	ideaReq := engine.IdeaRequest{
		Topics:       topics,
		News:         news,
		Discussions:  posts,
		SampleTitles: sampleTitles(videos, engine.MaxSampleTitles),
	}
	ideas, err := stage(ctx, "ideas", o.opts.StageTimeout, func(ctx context.Context) ([]engine.Idea, error) {
		return o.c.Ideas.GenerateIdeas(ctx, ideaReq)
	})
	if err != nil {
		return nil, err
	}
	ideas = nonNil(ideas)
	if len(ideas) > engine.MaxIdeas {
		ideas = ideas[:engine.MaxIdeas]
	}
	r.progress(StepIdeasGenerated, fmt.Sprintf("Generated %d video ideas", len(ideas)),
		map[string]any{"ideas": ideas, "count": len(ideas)})
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	return &Result{
		Topics:      topics,
		News:        news,
		RedditPosts: posts,
		VideoIdeas:  ideas,
	}, nil
}

func validate(req Request) (string, error) {
	if req.URL == nil {
		return "", ErrMissingURL
	}
	s, ok := req.URL.(string)
	if !ok {
		return "", ErrURLType
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrMissingURL
	}
	return s, nil
}

// check stops the run at a stage boundary once the caller is gone or time is up.
func (r *run) check(ctx context.Context) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	case ctx.Err() != nil:
		return ErrCancelled
	case r.emitErr != nil:
		return fmt.Errorf("%w: %v", ErrCancelled, r.emitErr)
	}
	return nil
}

// stage calls fn under the per-stage timeout; slow stages are logged.
func stage[T any](ctx context.Context, name string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	var out T
	err := engine.TrackOperation(ctx, "pipeline:"+name, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

// softStage is stage for collaborators whose faults must never fail the run:
// errors and panics are logged and resolve to an empty list.
func softStage[T any](ctx context.Context, log *slog.Logger, name string, timeout time.Duration, fn func(context.Context) ([]T, error)) (out []T) {
	defer func() {
		if p := recover(); p != nil {
			log.Warn("pipeline: soft stage panicked", slog.String("stage", name), slog.Any("panic", p))
			out = []T{}
		}
	}()
	items, err := stage(ctx, name, timeout, fn)
	if err != nil {
		log.Warn("pipeline: soft stage failed", slog.String("stage", name), slog.Any("error", err))
		return []T{}
	}
	return nonNil(items)
}

func sampleTitles(videos []engine.VideoSummary, n int) []string {
	titles := make([]string, 0, min(len(videos), n))
	for _, v := range videos {
		if len(titles) == n {
			break
		}
		if v.Title != "" {
			titles = append(titles, v.Title)
		}
	}
	return titles
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
