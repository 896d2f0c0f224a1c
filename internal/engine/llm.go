package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrLLMUnavailable is returned by CallLLM when no LLM client is configured.
var ErrLLMUnavailable = errors.New("llm: no client configured")

// CurrentDate returns today's date in ISO 8601 format (UTC).
func CurrentDate() string {
	return time.Now().UTC().Format("2006-01-02")
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured temperature and max_tokens.
func CallLLM(ctx context.Context, prompt string) (string, error) {
	metrics.LLMCalls.Add(1)
	var (
		resp string
		err  error
	)
	switch {
	case cfg.LLMComplete != nil:
		resp, err = cfg.LLMComplete(ctx, prompt)
	case cfg.LLMClient != nil:
		resp, err = cfg.LLMClient.Complete(ctx, "", prompt)
	default:
		err = ErrLLMUnavailable
	}
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}
	return stripFences(resp), nil
}

// ParseJSONArray decodes the first JSON array found in raw into []T.
// Models sometimes wrap the array in prose; everything outside the outermost
// brackets is ignored.
func ParseJSONArray[T any](raw string) ([]T, error) {
	raw = stripFences(raw)
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in LLM output %q", Truncate(raw, 120))
	}
	var out []T
	if err := json.Unmarshal([]byte(raw[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("parse LLM array: %w", err)
	}
	return out, nil
}
