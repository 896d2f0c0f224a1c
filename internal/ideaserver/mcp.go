package ideaserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ideas/internal/engine"
	"github.com/anatolykoptev/go_ideas/internal/pipeline"
)

// ContentIdeasOutput is the content_ideas tool result. Exactly one of Result and
// Error is set; Progress lists the steps in display order.
type ContentIdeasOutput struct {
	Result   *pipeline.Result    `json:"result,omitempty"`
	Error    string              `json:"error,omitempty"`
	Progress []pipeline.Progress `json:"progress"`
}

// RegisterTools registers content_ideas on server.
func RegisterTools(server *mcp.Server, orch *pipeline.Orchestrator) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "content_ideas",
		Description: "Generate YouTube video ideas for a channel. Fetches the channel's recent uploads, extracts topics, pulls related news and Reddit discussions, and returns up to 5 ideas (title, thumbnail design, concept) together with the topics, news and discussions used.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.ContentIdeasInput) (*mcp.CallToolResult, ContentIdeasOutput, error) {
		return nil, RunContentIdeas(ctx, orch, input), nil
	})
}

// RunContentIdeas runs the pipeline with a Recorder and folds the events into one result.
func RunContentIdeas(ctx context.Context, orch *pipeline.Orchestrator, input engine.ContentIdeasInput) ContentIdeasOutput {
	rec := &pipeline.Recorder{}
	res, err := orch.Run(ctx, pipeline.Request{URL: input.URL}, rec)

	progress := rec.Progress()
	if progress == nil {
		progress = []pipeline.Progress{}
	}
	pipeline.SortProgress(progress)

	out := ContentIdeasOutput{Result: res, Progress: progress}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}
