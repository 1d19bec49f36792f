package mdmerge_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/eykd/mdmerge"
	"github.com/eykd/mdmerge/internal/backend"
)

// alwaysFailBackend simulates a parser that rejects every source, to drive
// Merge's template/destination parse-error branching.
type alwaysFailBackend struct{}

func (alwaysFailBackend) ID() backend.ID { return "always-fail" }
func (alwaysFailBackend) Parse(_ []byte) (*backend.Document, []string) {
	return nil, []string{"forced failure"}
}

func TestMergePublicAPIDestinationWins(t *testing.T) {
	tmpl := "# A\n\nOld\n"
	dest := "# A\n\nNew\n"

	result, err := mdmerge.Merge(tmpl, dest, mdmerge.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if result.Content != "# A\n\nNew\n" {
		t.Errorf("got %q", result.Content)
	}
}

func TestMergePublicAPITemplateParseErrorType(t *testing.T) {
	opts := mdmerge.DefaultOptions()
	opts.Backend = &alwaysFailBackend{}

	_, err := mdmerge.Merge("anything", "anything", opts)
	var tErr *mdmerge.TemplateParseError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected *mdmerge.TemplateParseError, got %T: %v", err, err)
	}
}

func TestMergePublicAPIUnknownBackendIsConfigError(t *testing.T) {
	_, err := mdmerge.ResolveBackend("not-a-real-backend")
	var cfgErr *mdmerge.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *mdmerge.ConfigError, got %T", err)
	}
}

func TestMergePublicAPIAddTemplateOnly(t *testing.T) {
	tmpl := "# A\n\n# B\n"
	dest := "# A\n"

	opts := mdmerge.DefaultOptions()
	opts.AddTemplateOnly = func(mdmerge.AlignEntry) bool { return true }
	result, err := mdmerge.Merge(tmpl, dest, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Content, "# B") {
		t.Errorf("expected template-only heading added, got %q", result.Content)
	}
}
