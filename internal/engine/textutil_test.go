package engine

import (
	"reflect"
	"testing"
)

func TestCleanHTML(t *testing.T) {
	if got := CleanHTML("  <b>Go</b> &amp; <i>AI</i> "); got != "Go &amp; AI" {
		t.Errorf("CleanHTML() = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("ab", 3); got != "ab" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("日本語テキスト", 3); got != "日本語" {
		t.Errorf("Truncate() = %q, want whole runes", got)
	}
}

func TestDedupStrings(t *testing.T) {
	got := DedupStrings([]string{"AI", " ai ", "", "Tech", "tech", "Go"})
	want := []string{"AI", "Tech", "Go"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupStrings() = %v, want %v", got, want)
	}
}
