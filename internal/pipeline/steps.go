package pipeline

import "sort"

// Step identifies a progress event. The set is fixed; clients render steps in stepOrder.
type Step string

const (
	StepStarting        Step = "starting"
	StepFetchingVideos  Step = "fetching_videos"
	StepVideosFetched   Step = "videos_fetched"
	StepAnalyzingTopics Step = "analyzing_topics"
	StepTopicsAnalyzed  Step = "topics_analyzed"
	StepFetchingNews    Step = "fetching_news"
	StepSearchingReddit Step = "searching_reddit"
	StepNewsFetched     Step = "news_fetched"
	StepRedditSearched  Step = "reddit_searched"
	StepGeneratingIdeas Step = "generating_ideas"
	StepIdeasGenerated  Step = "ideas_generated"
)

var stepOrder = []Step{
	StepStarting,
	StepFetchingVideos,
	StepVideosFetched,
	StepAnalyzingTopics,
	StepTopicsAnalyzed,
	StepFetchingNews,
	StepSearchingReddit,
	StepNewsFetched,
	StepRedditSearched,
	StepGeneratingIdeas,
	StepIdeasGenerated,
}

var stepRank = func() map[Step]int {
	m := make(map[Step]int, len(stepOrder))
	for i, s := range stepOrder {
		m[s] = i
	}
	return m
}()

// Steps returns the recognized steps in display order.
func Steps() []Step {
	return append([]Step(nil), stepOrder...)
}

// Rank is the display position of s, or -1 for an unknown step.
func (s Step) Rank() int {
	if r, ok := stepRank[s]; ok {
		return r
	}
	return -1
}

// Concurrent reports whether s announces one of the two parallel stage-4 calls.
// Their relative arrival order is not guaranteed.
func (s Step) Concurrent() bool {
	return s == StepFetchingNews || s == StepSearchingReddit
}

// SortProgress orders progress events by step rank for display.
// Consumers must not rely on arrival order; unknown steps sort last, ties keep arrival order.
func SortProgress(ps []Progress) {
	sort.SliceStable(ps, func(i, j int) bool {
		return displayRank(ps[i].Step) < displayRank(ps[j].Step)
	})
}

func displayRank(s Step) int {
	if r := s.Rank(); r >= 0 {
		return r
	}
	return len(stepOrder)
}
