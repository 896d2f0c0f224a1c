package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `["a"]`, `["a"]`},
		{"json fence", "```json\n[\"a\"]\n```", `["a"]`},
		{"bare fence", "```\n[1]\n```", `[1]`},
		{"whitespace", "  [1]  ", `[1]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.raw); got != tt.want {
				t.Errorf("stripFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseJSONArray(t *testing.T) {
	t.Run("strings", func(t *testing.T) {
		got, err := ParseJSONArray[string](`["Go", "Rust"]`)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got[0] != "Go" || got[1] != "Rust" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("wrapped in prose", func(t *testing.T) {
		got, err := ParseJSONArray[string]("Here are the topics:\n[\"AI\"]\nHope this helps.")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0] != "AI" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("objects", func(t *testing.T) {
		got, err := ParseJSONArray[Idea](`[{"title":"T","thumbDesign":"D","videoIdea":"V"}]`)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].ThumbDesign != "D" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("no array", func(t *testing.T) {
		if _, err := ParseJSONArray[string](`{"topics": "none"}`); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("no array in long non-Latin output", func(t *testing.T) {
		_, err := ParseJSONArray[string](strings.Repeat("語", 200))
		if err == nil {
			t.Fatal("expected error")
		}
		if strings.Contains(err.Error(), `\x`) {
			t.Errorf("error splits a rune: %v", err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := ParseJSONArray[string](`["unclosed]`); err == nil {
			t.Error("expected error")
		}
	})
}

func TestCallLLM(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { Init(saved) })

	t.Run("unconfigured", func(t *testing.T) {
		Init(Config{})
		if _, err := CallLLM(context.Background(), "hi"); !errors.Is(err, ErrLLMUnavailable) {
			t.Errorf("err = %v, want ErrLLMUnavailable", err)
		}
	})

	t.Run("override strips fences", func(t *testing.T) {
		Init(Config{LLMComplete: func(_ context.Context, prompt string) (string, error) {
			return "```json\n[\"" + prompt + "\"]\n```", nil
		}})
		got, err := CallLLM(context.Background(), "x")
		if err != nil {
			t.Fatal(err)
		}
		if got != `["x"]` {
			t.Errorf("got %q", got)
		}
	})
}
