// Package partial implements spec.md §4.11: merging a template into one
// section of a destination, delimited by an anchor block, leaving the rest
// of the destination untouched. Grounded on the AST-sibling heading-boundary
// walk in the teacher corpus's spec_merger.go (internal/core), generalized
// from that file's single-purpose "find the next requirement heading" scan
// into a general anchor/section delimiter.
package partial

import (
	"regexp"

	"github.com/eykd/mdmerge/internal/analysis"
	"github.com/eykd/mdmerge/internal/backend/goldmarkbackend"
	"github.com/eykd/mdmerge/internal/mdtype"
	"github.com/eykd/mdmerge/internal/merge"
)

// WhenMissing selects the fallback behavior if the anchor cannot be found.
type WhenMissing string

const (
	Skip    WhenMissing = "skip"
	Append  WhenMissing = "append"
	Prepend WhenMissing = "prepend"
)

// Anchor selects the destination section a partial merge targets.
type Anchor struct {
	// Type is the canonical type the anchor block must have.
	Type mdtype.Type
	// TextPattern matches the anchor's text content (heading title, etc).
	TextPattern *regexp.Regexp
	// Boundary, for non-heading anchors, is an explicit line to end the
	// section at (1-based, inclusive); 0 means "next block of the same type".
	Boundary int
}

// Options configures a partial merge.
type Options struct {
	MergeOptions merge.Options
	WhenMissing  WhenMissing
	// PostProcessors run on the final spliced document, in order.
	PostProcessors []func(string) string
}

// Merge locates anchor in destination, runs a full merge of template against
// just that section, and splices the result back into destination.
func Merge(templateContent, destinationContent string, anchor Anchor, opts Options) (string, error) {
	b := opts.MergeOptions.Backend
	if b == nil {
		b = goldmarkbackend.New()
	}

	destAna, errs := analysis.New([]byte(destinationContent), analysis.Options{Backend: b})
	if len(errs) > 0 {
		return "", &merge.ParseError{Side: "destination", Source: destinationContent, Reasons: errs}
	}

	startIdx, endLine, found := findSection(destAna, anchor)
	if !found {
		return applyMissingPolicy(destinationContent, templateContent, opts)
	}

	startLine := destAna.Statements()[startIdx].StartLine
	sectionText := destAna.SourceRange(startLine, endLine)

	sectionOpts := opts.MergeOptions
	sectionOpts.SignatureFn = tableOverrideSignature(sectionOpts.SignatureFn)

	result, err := merge.Merge(templateContent, sectionText, sectionOpts)
	if err != nil {
		return "", err
	}

	before := destAna.SourceRange(1, startLine-1)
	after := destAna.SourceRange(endLine+1, destAna.LineCount())
	spliced := before + result.Content + after

	for _, pp := range opts.PostProcessors {
		spliced = pp(spliced)
	}
	return spliced, nil
}

// findSection locates the anchor statement and the line the section ends at
// (inclusive). For a heading anchor of level L, the section runs to just
// before the next heading of level <= L, or EOF — this overrides any
// boundary the Anchor value itself supplies, since heading nesting is a
// sibling relationship the generic boundary field can't express.
func findSection(a *analysis.Analysis, anchor Anchor) (startIdx, endLine int, found bool) {
	stmts := a.Statements()
	for i, st := range stmts {
		if st.Kind != analysis.KindBlock || st.MergeType() != anchor.Type {
			continue
		}
		text, _ := st.Block.StringContent()
		if anchor.TextPattern != nil && !anchor.TextPattern.MatchString(text) {
			continue
		}

		if anchor.Type == mdtype.Heading {
			level, _ := st.Block.HeaderLevel()
			end := a.LineCount()
			for j := i + 1; j < len(stmts); j++ {
				if stmts[j].Kind != analysis.KindBlock || stmts[j].MergeType() != mdtype.Heading {
					continue
				}
				jLevel, _ := stmts[j].Block.HeaderLevel()
				if jLevel <= level {
					end = stmts[j].StartLine - 1
					break
				}
			}
			return i, end, true
		}

		if anchor.Boundary > 0 {
			return i, anchor.Boundary, true
		}
		end := a.LineCount()
		for j := i + 1; j < len(stmts); j++ {
			if stmts[j].Kind == analysis.KindBlock && stmts[j].MergeType() == anchor.Type {
				end = stmts[j].StartLine - 1
				break
			}
		}
		return i, end, true
	}
	return 0, 0, false
}

func applyMissingPolicy(destinationContent, templateContent string, opts Options) (string, error) {
	switch opts.WhenMissing {
	case Append:
		return destinationContent + templateContent, nil
	case Prepend:
		return templateContent + destinationContent, nil
	default:
		return destinationContent, nil
	}
}

// tableOverrideSignature wraps fn (or supplies a fresh one) with a
// position-based override that forces every table in the section onto one
// signature, so a template table cleanly replaces a destination table
// (spec.md §4.11 step 2).
func tableOverrideSignature(fn analysis.SignatureFunc) analysis.SignatureFunc {
	return func(st *analysis.Statement, a *analysis.Analysis) (analysis.Signature, bool) {
		if st.Kind == analysis.KindBlock && st.MergeType() == mdtype.Table {
			return analysis.Signature("(table, partial_section_override)"), true
		}
		if fn != nil {
			return fn(st, a)
		}
		return "", false
	}
}
