package partial_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/eykd/mdmerge/internal/align"
	"github.com/eykd/mdmerge/internal/mdtype"
	"github.com/eykd/mdmerge/internal/merge"
	"github.com/eykd/mdmerge/internal/partial"
	"github.com/eykd/mdmerge/internal/resolve"
)

// replaceSectionOptions mirrors what a partial merge's caller typically
// wants: the template replaces the destination section outright.
func replaceSectionOptions() merge.Options {
	opts := merge.DefaultOptions()
	opts.Preference = resolve.Preference{Single: resolve.Template}
	opts.AddTemplateOnly = func(align.Entry) bool { return true }
	return opts
}

func TestPartialMergeTouchesOnlyAnchoredSection(t *testing.T) {
	// Differently-worded paragraphs have different signatures and so are
	// additive (spec.md §4.8), not a text replacement: the anchored section
	// gains the template's new paragraph alongside the destination's
	// existing one, while sections outside the anchor are untouched.
	dest := "# Intro\n\nIntro text.\n\n# Requirements\n\nExisting requirement.\n\n# Appendix\n\nAppendix text.\n"
	tmpl := "# Requirements\n\nNew requirement.\n"

	anchor := partial.Anchor{Type: mdtype.Heading, TextPattern: regexp.MustCompile(`^Requirements$`)}
	opts := partial.Options{MergeOptions: replaceSectionOptions()}

	out, err := partial.Merge(tmpl, dest, anchor, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Intro text.") || !strings.Contains(out, "Appendix text.") {
		t.Errorf("expected untouched sections preserved, got %q", out)
	}
	if !strings.Contains(out, "New requirement.") {
		t.Errorf("expected template content merged into the section, got %q", out)
	}
	if !strings.Contains(out, "Existing requirement.") {
		t.Errorf("expected unmatched destination content preserved, got %q", out)
	}
}

func TestPartialMergeIdenticalHeadingIsNotDuplicated(t *testing.T) {
	dest := "# Requirements\n\nSame text.\n"
	tmpl := "# Requirements\n\nSame text.\n"

	anchor := partial.Anchor{Type: mdtype.Heading, TextPattern: regexp.MustCompile(`^Requirements$`)}
	opts := partial.Options{MergeOptions: replaceSectionOptions()}

	out, err := partial.Merge(tmpl, dest, anchor, opts)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "# Requirements") != 1 {
		t.Errorf("expected heading to appear once, got %q", out)
	}
}

func TestPartialMergeLastHeadingExtendsToEOF(t *testing.T) {
	dest := "# Intro\n\nIntro text.\n\n# Last\n\nOld last.\n"
	tmpl := "# Last\n\nNew last.\n"

	anchor := partial.Anchor{Type: mdtype.Heading, TextPattern: regexp.MustCompile(`^Last$`)}
	opts := partial.Options{MergeOptions: replaceSectionOptions()}

	out, err := partial.Merge(tmpl, dest, anchor, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "New last.") || !strings.Contains(out, "Old last.") {
		t.Errorf("expected both template and destination content in the EOF-extending section, got %q", out)
	}
}

func TestPartialMergeMissingAnchorSkipsByDefault(t *testing.T) {
	dest := "# Intro\n\nIntro text.\n"
	tmpl := "# Missing\n\nContent.\n"

	anchor := partial.Anchor{Type: mdtype.Heading, TextPattern: regexp.MustCompile(`^Missing$`)}
	opts := partial.Options{MergeOptions: merge.DefaultOptions(), WhenMissing: partial.Skip}

	out, err := partial.Merge(tmpl, dest, anchor, opts)
	if err != nil {
		t.Fatal(err)
	}
	if out != dest {
		t.Errorf("got %q, want destination unchanged", out)
	}
}
