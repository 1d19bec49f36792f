package cleanse_test

import (
	"strings"
	"testing"

	"github.com/eykd/mdmerge/internal/cleanse"
)

func TestSplitCondensedLinkDefinitions(t *testing.T) {
	input := "[a]: https://a.example [b]: https://b.example"
	got := cleanse.SplitCondensedLinkDefinitions(input)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), got)
	}
	if lines[0] != "[a]: https://a.example" || lines[1] != "[b]: https://b.example" {
		t.Errorf("got %v", lines)
	}
}

func TestSplitLeavesNormalLinesAlone(t *testing.T) {
	input := "Just a normal paragraph.\n[a]: https://a.example\n"
	if got := cleanse.SplitCondensedLinkDefinitions(input); got != input {
		t.Errorf("got %q, want unchanged", got)
	}
}

func TestNormalizeFenceSpacing(t *testing.T) {
	input := "```   go   \ncode\n```\n"
	want := "```go\ncode\n```\n"
	if got := cleanse.NormalizeFenceSpacing(input); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInsertMissingBlankLines(t *testing.T) {
	input := "para\n# Heading\nmore"
	got := cleanse.InsertMissingBlankLines(input)
	want := "para\n\n# Heading\n\nmore"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
