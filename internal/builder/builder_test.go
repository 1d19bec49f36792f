package builder_test

import (
	"strings"
	"testing"

	"github.com/eykd/mdmerge/internal/analysis"
	"github.com/eykd/mdmerge/internal/backend/goldmarkbackend"
	"github.com/eykd/mdmerge/internal/builder"
)

func mustAnalyze(t *testing.T, source string) *analysis.Analysis {
	t.Helper()
	a, errs := analysis.New([]byte(source), analysis.Options{Backend: goldmarkbackend.New()})
	if len(errs) > 0 {
		t.Fatalf("analyze: %v", errs)
	}
	return a
}

func TestAddNodeSourceIsByteExactForMatchedBlocks(t *testing.T) {
	source := "# Title\n\nSome body text.\n"
	a := mustAnalyze(t, source)

	b := builder.New(false)
	for _, st := range a.Statements() {
		b.AddNodeSource(st, a)
	}
	if b.String() != source {
		t.Errorf("got %q, want %q", b.String(), source)
	}
}

func TestAutoSpacingInsertsBlankBeforeHeading(t *testing.T) {
	destAna := mustAnalyze(t, "Para one.\n")
	tmplAna := mustAnalyze(t, "# Heading\n")

	b := builder.New(true)
	for _, st := range destAna.Statements() {
		if st.Kind == analysis.KindBlock {
			b.AddNodeSource(st, destAna)
		}
	}
	for _, st := range tmplAna.Statements() {
		if st.Kind == analysis.KindBlock {
			b.AddNodeSource(st, tmplAna)
		}
	}
	out := b.String()
	if !strings.Contains(out, "Para one.\n\n# Heading") {
		t.Errorf("expected auto-inserted blank line before heading, got %q", out)
	}
}

func TestAddGapLineAndRaw(t *testing.T) {
	b := builder.New(false)
	b.AddRaw("abc")
	b.AddGapLine(2)
	b.AddRaw("def")
	if b.String() != "abc\n\ndef" {
		t.Errorf("got %q", b.String())
	}
}
