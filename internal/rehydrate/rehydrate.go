// Package rehydrate implements spec.md §4.10: rewriting inline
// `[text](url)`/`![alt](url)` constructs back into reference form,
// `[text][label]`, whenever url is a known link-definition target.
package rehydrate

import (
	"sort"

	"github.com/eykd/mdmerge/internal/linkref"
	"github.com/eykd/mdmerge/internal/problem"
)

// Result is the rehydrated content plus bookkeeping.
type Result struct {
	Content  string
	Changed  bool
	Count    int
	Problems []problem.Problem
}

type replacement struct {
	start, end int
	text       string
}

// Rehydrate is a single-pass, tree-driven rewrite; running it again on its
// own output is a fixpoint (spec.md §8 invariant 5).
func Rehydrate(content string) Result {
	defs := linkref.ParseDefinitions(content)
	urlToLabel := linkref.BuildURLToLabel(defs)
	labelsByURL := linkref.LabelsByURL(defs)

	var problems []problem.Problem
	for url, labels := range labelsByURL {
		if len(labels) > 1 {
			p := problem.New(problem.DuplicateLinkDefinition, problem.Warning, "duplicate link definitions for "+url)
			p.Labels = labels
			problems = append(problems, p)
		}
	}

	forest := linkref.FindAllLinkConstructs(content)

	var replacements []replacement
	count := 0
	for i := range forest {
		reps, ps := rehydrateConstruct(&forest[i], urlToLabel)
		problems = append(problems, ps...)
		replacements = append(replacements, reps...)
		count += len(reps)
	}

	sort.Slice(replacements, func(i, j int) bool { return replacements[i].start > replacements[j].start })

	out := content
	for _, r := range replacements {
		out = out[:r.start] + r.text + out[r.end:]
	}

	return Result{Content: out, Changed: count > 0, Count: count, Problems: problems}
}

// textStart returns the absolute byte offset of the first byte of c's inner
// text (just past its opening "[" or "![").
func textStart(c *linkref.Construct) int {
	if c.IsImage {
		return c.StartByte + 2
	}
	return c.StartByte + 1
}

// rehydrateConstruct processes one construct post-order, returning the
// document-absolute replacements needed to rehydrate it and its descendants.
// If c itself becomes a single reference-style replacement, its children's
// replacements are folded into that one replacement instead of being
// returned separately.
func rehydrateConstruct(c *linkref.Construct, urlToLabel map[string]string) ([]replacement, []problem.Problem) {
	var problems []problem.Problem
	var childReps []replacement
	for i := range c.Children {
		reps, ps := rehydrateConstruct(&c.Children[i], urlToLabel)
		childReps = append(childReps, reps...)
		problems = append(problems, ps...)
	}

	if c.HasTitle {
		cat := problem.LinkHasTitle
		if c.IsImage {
			cat = problem.ImageHasTitle
		}
		problems = append(problems, problem.New(cat, problem.Info, "titled construct left inline"))
		return childReps, problems
	}

	label, ok := urlToLabel[c.URL]
	if !ok {
		return childReps, problems
	}

	text := applyChildReplacements(c, childReps)

	prefix := ""
	if c.IsImage {
		prefix = "!"
	}
	newText := prefix + "[" + text + "][" + label + "]"
	return []replacement{{start: c.StartByte, end: c.EndByte, text: newText}}, problems
}

// applyChildReplacements rebuilds c's inner text (c.Text) with any child
// replacements spliced in, converting their document-absolute byte ranges
// to offsets relative to c's text span.
func applyChildReplacements(c *linkref.Construct, childReps []replacement) string {
	if len(childReps) == 0 {
		return c.Text
	}
	base := textStart(c)
	rels := make([]replacement, len(childReps))
	copy(rels, childReps)
	sort.Slice(rels, func(i, j int) bool { return rels[i].start > rels[j].start })

	out := c.Text
	for _, r := range rels {
		s, e := r.start-base, r.end-base
		if s < 0 || e > len(out) || s > e {
			continue
		}
		out = out[:s] + r.text + out[e:]
	}
	return out
}
