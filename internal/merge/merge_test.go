package merge_test

import (
	"strings"
	"testing"

	"github.com/eykd/mdmerge/internal/align"
	"github.com/eykd/mdmerge/internal/merge"
)

func TestDestinationWinsByDefault(t *testing.T) {
	tmpl := "# A\n\nOld\n"
	dest := "# A\n\nNew\n"

	result, err := merge.Merge(tmpl, dest, merge.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if result.Content != "# A\n\nNew\n" {
		t.Errorf("got %q", result.Content)
	}
}

func TestTemplateOnlyAddedWhenPolicyAccepts(t *testing.T) {
	tmpl := "# A\n\n# B\n"
	dest := "# A\n"

	opts := merge.DefaultOptions()
	opts.AddTemplateOnly = func(align.Entry) bool { return true }
	result, err := merge.Merge(tmpl, dest, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "# A") || !strings.Contains(result.Content, "# B") {
		t.Errorf("expected both headings present, got %q", result.Content)
	}
	idxA := strings.Index(result.Content, "# A")
	idxB := strings.Index(result.Content, "# B")
	if idxA == -1 || idxB == -1 || idxA > idxB {
		t.Errorf("expected A before B, got %q", result.Content)
	}
}

func TestFreezeBlockPreservedVerbatim(t *testing.T) {
	dest := "<!-- markdown-merge:freeze keep -->\nKEEP\n<!-- markdown-merge:unfreeze -->\n"
	tmpl := "REPLACED\n"

	result, err := merge.Merge(tmpl, dest, merge.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "KEEP") {
		t.Errorf("expected frozen content preserved, got %q", result.Content)
	}
	if len(result.FrozenBlocks) != 1 {
		t.Errorf("expected one frozen block recorded, got %+v", result.FrozenBlocks)
	}
}

func TestLinkRehydrationRunsAfterMerge(t *testing.T) {
	dest := "See [Example](https://example.com) here.\n\n[example]: https://example.com\n"
	tmpl := dest

	result, err := merge.Merge(tmpl, dest, merge.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := "See [Example][example] here.\n\n[example]: https://example.com\n"
	if result.Content != want {
		t.Errorf("got %q, want %q", result.Content, want)
	}
}

func TestEmptyTemplatePreferenceDestinationEqualsDestination(t *testing.T) {
	dest := "# A\n\nSome body.\n"

	opts := merge.DefaultOptions()
	opts.RehydrateLinkReferences = false
	opts.NormalizeWhitespace = ""
	result, err := merge.Merge("", dest, opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.Content != dest {
		t.Errorf("got %q, want %q", result.Content, dest)
	}
}

func TestUnknownBackendIsConfigError(t *testing.T) {
	_, err := merge.ResolveBackend("not-a-real-backend")
	if err == nil {
		t.Fatal("expected an error for unknown backend")
	}
	var cfgErr *merge.ConfigError
	if !errorsAs(err, &cfgErr) {
		t.Errorf("expected *merge.ConfigError, got %T", err)
	}
}

func errorsAs(err error, target **merge.ConfigError) bool {
	if ce, ok := err.(*merge.ConfigError); ok {
		*target = ce
		return true
	}
	return false
}
