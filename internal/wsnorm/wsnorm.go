// Package wsnorm implements spec.md §4.9: collapsing excessive blank-line
// runs and, in the stricter modes, removing blank lines that separate two
// adjacent link-definition lines.
package wsnorm

import (
	"regexp"
	"strings"

	"github.com/eykd/mdmerge/internal/linkref"
	"github.com/eykd/mdmerge/internal/problem"
)

// Mode selects how aggressively whitespace is normalized.
type Mode string

const (
	Basic    Mode = "basic"
	LinkRefs Mode = "link_refs"
	Strict   Mode = "strict"
)

var runRE = regexp.MustCompile(`\n{3,}`)

// Result is the normalized content plus any problems recorded while
// normalizing.
type Result struct {
	Content  string
	Problems []problem.Problem
}

// Normalize collapses every run of >= 2 consecutive blank lines in content
// to exactly one blank line, and, for LinkRefs/Strict, removes blank runs
// that separate two link-definition lines. Idempotent: Normalize(Normalize(x))
// == Normalize(x) for any mode.
func Normalize(content string, mode Mode) Result {
	var problems []problem.Problem

	lineStarts := computeLineStarts(content)

	collapsed := runRE.ReplaceAllStringFunc(content, func(run string) string {
		newlineCount := strings.Count(run, "\n")
		if newlineCount <= 2 {
			return run
		}
		idx := strings.Index(content, run)
		line := lineForOffset(lineStarts, idx)
		problems = append(problems, withLine(problem.New(problem.ExcessiveWhitespace, problem.Warning,
			"collapsed excessive blank lines"), line, newlineCount, 2))
		return "\n\n"
	})

	if mode == Basic {
		return Result{Content: collapsed, Problems: problems}
	}

	out, linkProblems := collapseLinkRefGaps(collapsed)
	problems = append(problems, linkProblems...)
	return Result{Content: out, Problems: problems}
}

// collapseLinkRefGaps removes blank-only gaps between two link-definition
// lines, per mode link_refs/strict.
func collapseLinkRefGaps(content string) (string, []problem.Problem) {
	lines := strings.Split(content, "\n")
	var problems []problem.Problem
	var out []string
	i := 0
	for i < len(lines) {
		out = append(out, lines[i])
		if _, ok := linkref.ParseDefinitionLine(lines[i], false); !ok {
			i++
			continue
		}
		// Look ahead past a run of purely blank lines to see if another
		// link-definition line follows; if so, drop the blanks.
		j := i + 1
		blankRun := 0
		for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
			blankRun++
			j++
		}
		if blankRun > 0 && j < len(lines) {
			if _, ok := linkref.ParseDefinitionLine(lines[j], false); ok {
				problems = append(problems, problem.New(problem.LinkRefSpacing, problem.Info,
					"removed blank lines between adjacent link definitions"))
				i = j
				continue
			}
		}
		i++
	}
	return strings.Join(out, "\n"), problems
}

func withLine(p problem.Problem, line, newlineCount, collapsedTo int) problem.Problem {
	p.Line = line
	p.NewlineCount = newlineCount
	p.CollapsedTo = collapsedTo
	return p
}

func computeLineStarts(s string) []int {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' && i+1 < len(s) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineForOffset(lineStarts []int, off int) int {
	lo, hi := 0, len(lineStarts)-1
	line := 1
	for lo <= hi {
		mid := (lo + hi) / 2
		if lineStarts[mid] <= off {
			line = mid + 1
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return line
}
