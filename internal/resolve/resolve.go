// Package resolve implements spec.md §4.6: deciding, for each matched
// template/destination statement pair, which side's source wins.
package resolve

import (
	"github.com/eykd/mdmerge/internal/analysis"
	"github.com/eykd/mdmerge/internal/mdtype"
)

// Side names which document a decision favors.
type Side string

const (
	Template    Side = "template"
	Destination Side = "destination"
)

// Decision is the outcome: identical content, or a genuine pick of one side.
type Decision string

const (
	Identical        Decision = "identical"
	PickedTemplate   Decision = "template"
	PickedDestination Decision = "destination"
)

// Resolution is the resolver's verdict for one matched pair.
type Resolution struct {
	Source   Side
	Decision Decision
}

// Preference is either a single Side applied to every type, or a per-type
// map with a "default" entry (spec.md §4.6).
type Preference struct {
	Single Side // used when ByType is nil
	ByType map[mdtype.Type]Side
	Default Side
}

// forType returns the side p prefers for canonical type t: Single when
// ByType is nil, otherwise the ByType entry for t, falling back to Default.
func (p Preference) forType(t mdtype.Type) Side {
	if p.ByType == nil {
		return p.Single
	}
	if s, ok := p.ByType[t]; ok {
		return s
	}
	return p.Default
}

// Resolve decides the resolution for a matched (tmpl, dest) pair under the
// preference policy, comparing the source text each side would render (read
// from tmplAna/destAna) for the byte-identical check.
func Resolve(tmplAna, destAna *analysis.Analysis, tmpl, dest *analysis.Statement, pref Preference) Resolution {
	tmplText := sourceText(tmplAna, tmpl)
	destText := sourceText(destAna, dest)

	if dest.Kind == analysis.KindFreezeBlock {
		// Freeze blocks on the destination are unconditionally preferred.
		if tmplText == destText {
			return Resolution{Source: Destination, Decision: Identical}
		}
		return Resolution{Source: Destination, Decision: PickedDestination}
	}

	side := pref.forType(tmpl.MergeType())
	if tmplText == destText {
		if side == Template {
			return Resolution{Source: Template, Decision: Identical}
		}
		return Resolution{Source: Destination, Decision: Identical}
	}

	if side == Template {
		return Resolution{Source: Template, Decision: PickedTemplate}
	}
	return Resolution{Source: Destination, Decision: PickedDestination}
}

func sourceText(a *analysis.Analysis, st *analysis.Statement) string {
	switch st.Kind {
	case analysis.KindFreezeBlock, analysis.KindFrontMatter:
		return st.Content
	case analysis.KindLinkDefinition:
		return formatLinkDefinition(st)
	case analysis.KindGapLine:
		return st.GapText
	default:
		return a.SourceRange(st.StartLine, st.EndLine)
	}
}

func formatLinkDefinition(st *analysis.Statement) string {
	s := "[" + st.LinkDef.Label + "]: " + st.LinkDef.URL
	if st.LinkDef.Title != "" {
		s += ` "` + st.LinkDef.Title + `"`
	}
	return s
}
