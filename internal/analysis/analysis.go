// Package analysis implements spec.md §4.4: parsing a source into an
// ordered, lossless sequence of Statements, recovering the "gap" content
// (blank lines, link reference definitions) a backend parser consumed or
// normalized away, and detecting freeze/unfreeze regions and leading front
// matter.
package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/eykd/mdmerge/internal/backend"
	"github.com/eykd/mdmerge/internal/frontmatter"
	"github.com/eykd/mdmerge/internal/linkref"
	"github.com/eykd/mdmerge/internal/mdtype"
	"github.com/eykd/mdmerge/internal/mlog"
	"github.com/eykd/mdmerge/internal/problem"
)

// Kind discriminates the statement variants: the four spec.md §3 names plus
// leading front matter.
type Kind int

const (
	KindBlock Kind = iota
	KindGapLine
	KindLinkDefinition
	KindFreezeBlock
	KindFrontMatter
)

// Statement is the ordered, lossless unit of analysis.
type Statement struct {
	Kind               Kind
	StartLine, EndLine int // 1-based, inclusive

	Block     backend.Wrapped      // valid when Kind == KindBlock
	GapLine   int                  // valid when Kind == KindGapLine; same as StartLine, kept for clarity
	GapText   string               // valid when Kind == KindGapLine
	Preceding *Statement           // valid when Kind == KindGapLine; nearest prior non-gap statement, nil at doc start
	LinkDef   linkref.Definition   // valid when Kind == KindLinkDefinition
	Content   string               // valid when Kind == KindFreezeBlock or KindFrontMatter: raw original text
	Reason    string               // valid when Kind == KindFreezeBlock
	Valid     bool                 // valid when Kind == KindFrontMatter: whether its YAML parsed
}

// MergeType returns the statement's canonical type for structural-table and
// alignment purposes.
func (s *Statement) MergeType() mdtype.Type {
	switch s.Kind {
	case KindBlock:
		return s.Block.MergeType
	case KindGapLine:
		return mdtype.GapLine
	case KindLinkDefinition:
		return mdtype.LinkDefinition
	case KindFreezeBlock:
		return mdtype.FreezeBlock
	case KindFrontMatter:
		return mdtype.FrontMatter
	default:
		return mdtype.Unknown
	}
}

// SignatureFunc is a user-supplied override for statement signatures. It
// returns (sig, true) to use sig, or (_, false) to fall through to the
// default signature for st.
type SignatureFunc func(st *Statement, a *Analysis) (Signature, bool)

// Signature is a deterministic equality key: two statements with equal
// signatures are candidate matches.
type Signature string

// Options configures a new Analysis.
type Options struct {
	Backend     backend.Parser
	FreezeToken string // default "markdown-merge"
	SignatureFn SignatureFunc
}

// Analysis is the read-only result of analyzing one source. All its data
// structures are immutable after New returns.
type Analysis struct {
	source     []byte
	lines      []string
	lineStarts []int // byte offset of first byte of each line; lineStarts[i] is line i+1's start
	trailingNL bool

	statements []*Statement
	sigFn      SignatureFunc

	Problems []problem.Problem
}

// New parses source with opts.Backend and builds its statement sequence. A
// non-empty error slice means the backend failed to parse source at all;
// that is always fatal (spec.md §7) and the caller must not use Analysis.
func New(source []byte, opts Options) (*Analysis, []string) {
	if opts.FreezeToken == "" {
		opts.FreezeToken = "markdown-merge"
	}

	doc, errs := opts.Backend.Parse(source)
	if len(errs) > 0 {
		return nil, errs
	}

	a := &Analysis{
		source:     source,
		lines:      splitLinesNoEnding(source),
		lineStarts: computeLineStarts(source),
		trailingNL: len(source) > 0 && source[len(source)-1] == '\n',
		sigFn:      opts.SignatureFn,
	}

	var blockStatements []*Statement
	for _, n := range doc.Blocks {
		wrapped := backend.Wrap(n, opts.Backend.ID())
		start, end := n.StartLine(), n.EndLine()
		if end < start {
			// Backend position anomaly (inverted range): tolerate as
			// single-line coverage (spec.md §7).
			end = start
		}
		blockStatements = append(blockStatements, &Statement{
			Kind:      KindBlock,
			StartLine: start,
			EndLine:   end,
			Block:     wrapped,
		})
	}

	a.statements = a.insertGapStatements(blockStatements)
	a.absorbFrontMatter()
	a.absorbFreezeBlocks(opts.FreezeToken)
	a.linkPreceding()

	return a, nil
}

// Statements returns the final ordered statement list.
func (a *Analysis) Statements() []*Statement { return a.statements }

// LineCount returns the number of lines in the source.
func (a *Analysis) LineCount() int { return len(a.lines) }

// insertGapStatements builds the line-coverage complement of blocks and
// merges gap-line / link-definition statements into one list sorted by
// start line (spec.md §4.4 steps 3-5).
func (a *Analysis) insertGapStatements(blocks []*Statement) []*Statement {
	covered := make([]bool, len(a.lines)+1) // 1-indexed
	for _, b := range blocks {
		for l := b.StartLine; l <= b.EndLine && l <= len(a.lines); l++ {
			covered[l] = true
		}
	}

	var gapStatements []*Statement
	for l := 1; l <= len(a.lines); l++ {
		if covered[l] {
			continue
		}
		text := a.lines[l-1]
		if def, ok := linkref.ParseDefinitionLine(text, false); ok {
			gapStatements = append(gapStatements, &Statement{
				Kind:      KindLinkDefinition,
				StartLine: l,
				EndLine:   l,
				LinkDef:   def,
			})
			continue
		}
		gapStatements = append(gapStatements, &Statement{
			Kind:      KindGapLine,
			StartLine: l,
			EndLine:   l,
			GapLine:   l,
			GapText:   text,
		})
	}

	all := append(append([]*Statement{}, blocks...), gapStatements...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].StartLine < all[j].StartLine })
	return all
}

// linkPreceding sets each gap line's Preceding reference to the nearest
// prior non-gap statement, lazily, after the full list is assembled.
func (a *Analysis) linkPreceding() {
	var lastStructural *Statement
	for _, st := range a.statements {
		if st.Kind == KindGapLine {
			st.Preceding = lastStructural
			continue
		}
		lastStructural = st
	}
}

// absorbFrontMatter detects a leading YAML front matter block and, if
// found, absorbs every statement whose line range falls inside it into one
// KindFrontMatter statement (SPEC_FULL.md §4).
func (a *Analysis) absorbFrontMatter() {
	length, valid, found := frontmatter.Detect(a.source)
	if !found {
		return
	}
	endLine := lineForOffset(a.lineStarts, length-1)
	if endLine < 1 {
		return
	}

	var kept []*Statement
	for _, st := range a.statements {
		if st.StartLine <= endLine {
			continue
		}
		kept = append(kept, st)
	}
	fm := &Statement{
		Kind:      KindFrontMatter,
		StartLine: 1,
		EndLine:   endLine,
		Content:   a.SourceRange(1, endLine),
		Valid:     valid,
	}
	a.statements = append([]*Statement{fm}, kept...)

	if !valid {
		a.Problems = append(a.Problems, problem.New(problem.InvalidFrontMatter, problem.Warning,
			"leading front matter block is not valid YAML"))
	}
}

// absorbFreezeBlocks scans top-level HTML-block statements for
// freeze/unfreeze markers, matching them LIFO, and replaces each matched
// span (including both marker blocks and everything between) with a single
// KindFreezeBlock statement. Unclosed freeze markers are reported but do
// not abort analysis (spec.md §7).
func (a *Analysis) absorbFreezeBlocks(freezeToken string) {
	markerRE := regexp.MustCompile(`<!--\s*` + regexp.QuoteMeta(freezeToken) + `:(freeze|unfreeze)(?:\s+([^>]*?))?\s*-->`)

	var stack []int
	i := 0
	for i < len(a.statements) {
		st := a.statements[i]
		if st.Kind != KindBlock || st.Block.MergeType != mdtype.HTMLBlock {
			i++
			continue
		}
		text := a.SourceRange(st.StartLine, st.EndLine)
		m := markerRE.FindStringSubmatch(text)
		if m == nil {
			i++
			continue
		}
		switch m[1] {
		case "freeze":
			stack = append(stack, i)
			i++
		case "unfreeze":
			if len(stack) == 0 {
				mlog.Logger().Debug().Int("line", st.StartLine).Msg("unmatched unfreeze marker")
				a.Problems = append(a.Problems, problem.New(problem.UnmatchedFreezeMarker, problem.Warning,
					fmt.Sprintf("unmatched unfreeze marker at line %d", st.StartLine)))
				i++
				continue
			}
			startIdx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			startSt := a.statements[startIdx]
			startText := a.SourceRange(startSt.StartLine, startSt.EndLine)
			reason := ""
			if sm := markerRE.FindStringSubmatch(startText); sm != nil {
				reason = strings.TrimSpace(sm[2])
			}
			freezeStmt := &Statement{
				Kind:      KindFreezeBlock,
				StartLine: startSt.StartLine,
				EndLine:   st.EndLine,
				Content:   a.SourceRange(startSt.StartLine, st.EndLine),
				Reason:    reason,
			}
			tail := append([]*Statement{}, a.statements[i+1:]...)
			a.statements = append(append(a.statements[:startIdx], freezeStmt), tail...)
			i = startIdx + 1
		}
	}

	for _, idx := range stack {
		st := a.statements[idx]
		mlog.Logger().Debug().Int("line", st.StartLine).Msg("unmatched freeze marker")
		a.Problems = append(a.Problems, problem.New(problem.UnmatchedFreezeMarker, problem.Warning,
			fmt.Sprintf("unmatched freeze marker at line %d", st.StartLine)))
	}
}

// SourceRange returns the exact byte slice of lines [startLine, endLine]
// (1-indexed, inclusive), joined with "\n", with a trailing "\n" iff
// endLine is not the last line of the file, or the source itself ended
// with a newline.
func (a *Analysis) SourceRange(startLine, endLine int) string {
	if startLine < 1 {
		startLine = 1
	}
	if endLine > len(a.lines) {
		endLine = len(a.lines)
	}
	if startLine > endLine {
		return ""
	}
	body := strings.Join(a.lines[startLine-1:endLine], "\n")
	if endLine != len(a.lines) || a.trailingNL {
		body += "\n"
	}
	return body
}

func splitLinesNoEnding(source []byte) []string {
	if len(source) == 0 {
		return nil
	}
	s := string(source)
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

func computeLineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' && i+1 < len(source) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineForOffset(lineStarts []int, off int) int {
	i := sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > off })
	return i
}
