// Package align implements spec.md §4.5: aligning two statement sequences
// (template, destination) into an ordered list of match/template_only/
// dest_only entries, driven purely by statement signatures.
package align

import "github.com/eykd/mdmerge/internal/analysis"

// EntryType discriminates the three alignment outcomes.
type EntryType int

const (
	Match EntryType = iota
	TemplateOnly
	DestOnly
)

// Entry is one aligned element. TemplateIndex/DestIndex are -1 when not
// applicable to this entry's type.
type Entry struct {
	Type          EntryType
	TemplateIndex int
	DestIndex     int
	TemplateNode  *analysis.Statement
	DestNode      *analysis.Statement
	Signature     analysis.Signature
}

// Refiner scores unmatched template/dest statement pairs for fuzzy
// refinement (spec.md §4.5's table refiner is the canonical instance).
type Refiner interface {
	// Score returns a similarity in [0, 1] for matching t against d.
	Score(t, d *analysis.Statement) float64
	// Applies reports whether this refiner handles statements of this
	// canonical type at all (e.g. the table refiner only applies to tables).
	Applies(t, d *analysis.Statement) bool
}

// Align computes the alignment of tmpl against dest. tmplAnalysis/destAnalysis
// provide the Signature method for each statement. refiner may be nil to skip
// fuzzy refinement; threshold is ignored when refiner is nil.
func Align(tmpl []*analysis.Statement, tmplAnalysis *analysis.Analysis, dest []*analysis.Statement, destAnalysis *analysis.Analysis, refiner Refiner, threshold float64) []Entry {
	// Step 1: index D by signature, preserving insertion order of duplicates.
	destBySig := make(map[analysis.Signature][]int)
	for j, d := range dest {
		sig := destAnalysis.Signature(d)
		destBySig[sig] = append(destBySig[sig], j)
	}
	// consumed[sig] tracks how many of destBySig[sig]'s entries have been used,
	// so repeated signatures are matched in document order.
	consumed := make(map[analysis.Signature]int)

	var entries []Entry
	d := 0
	used := make([]bool, len(dest))

	for i, t := range tmpl {
		sig := tmplAnalysis.Signature(t)
		idxs := destBySig[sig]
		matchIdx := -1
		for consumed[sig] < len(idxs) {
			cand := idxs[consumed[sig]]
			if cand < d {
				consumed[sig]++
				continue
			}
			matchIdx = cand
			consumed[sig]++
			break
		}
		if matchIdx == -1 {
			entries = append(entries, Entry{Type: TemplateOnly, TemplateIndex: i, DestIndex: -1, TemplateNode: t, Signature: sig})
			continue
		}
		for d < matchIdx {
			entries = append(entries, Entry{Type: DestOnly, TemplateIndex: -1, DestIndex: d, DestNode: dest[d], Signature: destAnalysis.Signature(dest[d])})
			used[d] = true
			d++
		}
		entries = append(entries, Entry{Type: Match, TemplateIndex: i, DestIndex: matchIdx, TemplateNode: t, DestNode: dest[matchIdx], Signature: sig})
		used[matchIdx] = true
		d = matchIdx + 1
	}
	for ; d < len(dest); d++ {
		entries = append(entries, Entry{Type: DestOnly, TemplateIndex: -1, DestIndex: d, DestNode: dest[d], Signature: destAnalysis.Signature(dest[d])})
		used[d] = true
	}

	if refiner != nil {
		entries = refine(entries, refiner, threshold)
	}
	return entries
}

// refine implements spec.md §4.5 step 4: collect unmatched template_only and
// dest_only entries, score all applicable pairs, and greedily convert the
// highest-scoring pairs at or above threshold into match entries, in
// decreasing-score order, each node matched at most once.
func refine(entries []Entry, refiner Refiner, threshold float64) []Entry {
	type pair struct {
		tPos, dPos int
		score      float64
	}
	var candidates []pair
	for ti, te := range entries {
		if te.Type != TemplateOnly {
			continue
		}
		for di, de := range entries {
			if de.Type != DestOnly {
				continue
			}
			if !refiner.Applies(te.TemplateNode, de.DestNode) {
				continue
			}
			score := refiner.Score(te.TemplateNode, de.DestNode)
			if score >= threshold {
				candidates = append(candidates, pair{ti, di, score})
			}
		}
	}
	// Decreasing score order; stable so equal scores keep document order.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].score > candidates[j-1].score; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	tMatched := make(map[int]bool)
	dMatched := make(map[int]bool)
	converted := make(map[int]int) // tPos -> dPos, entries to merge
	for _, c := range candidates {
		if tMatched[c.tPos] || dMatched[c.dPos] {
			continue
		}
		tMatched[c.tPos] = true
		dMatched[c.dPos] = true
		converted[c.tPos] = c.dPos
	}
	if len(converted) == 0 {
		return entries
	}

	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		if e.Type == DestOnly && dMatched[i] {
			// Emitted inline at its matching template_only's position instead.
			continue
		}
		if e.Type == TemplateOnly {
			if dPos, ok := converted[i]; ok {
				de := entries[dPos]
				out = append(out, Entry{
					Type:          Match,
					TemplateIndex: e.TemplateIndex,
					DestIndex:     de.DestIndex,
					TemplateNode:  e.TemplateNode,
					DestNode:      de.DestNode,
					Signature:     e.Signature,
				})
				continue
			}
		}
		out = append(out, e)
	}
	return out
}
