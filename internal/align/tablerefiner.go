package align

import (
	"strings"

	"github.com/eykd/mdmerge/internal/analysis"
	"github.com/eykd/mdmerge/internal/mdtype"
)

// RefinerConfig holds the weights and threshold for TableRefiner. Defaults
// are the calibration spec.md §9 leaves to implementers (SPEC_FULL.md §7).
type RefinerConfig struct {
	HeaderWeight       float64
	FirstColumnWeight  float64
	TokenOverlapWeight float64
	PositionWeight     float64
	Threshold          float64
}

// DefaultRefinerConfig returns the weights this implementation settled on.
func DefaultRefinerConfig() RefinerConfig {
	return RefinerConfig{
		HeaderWeight:       0.4,
		FirstColumnWeight:  0.3,
		TokenOverlapWeight: 0.2,
		PositionWeight:     0.1,
		Threshold:          0.5,
	}
}

// TableRefiner implements Refiner for spec.md §4.5's fuzzy table matching.
type TableRefiner struct {
	cfg               RefinerConfig
	tmplLen, destLen  int
	tmplAna, destAna  *analysis.Analysis
}

// NewTableRefiner builds a refiner over documents of the given lengths
// (statement counts), used to normalize positional proximity.
func NewTableRefiner(cfg RefinerConfig, tmplAna *analysis.Analysis, destAna *analysis.Analysis) *TableRefiner {
	return &TableRefiner{
		cfg:     cfg,
		tmplLen: len(tmplAna.Statements()),
		destLen: len(destAna.Statements()),
		tmplAna: tmplAna,
		destAna: destAna,
	}
}

func (r *TableRefiner) Applies(t, d *analysis.Statement) bool {
	return t.MergeType() == mdtype.Table && d.MergeType() == mdtype.Table
}

func (r *TableRefiner) Score(t, d *analysis.Statement) float64 {
	tHeader, _ := t.Block.StringContent()
	dHeader, _ := d.Block.StringContent()
	headerScore := 0.0
	if tHeader != "" && tHeader == dHeader {
		headerScore = 1.0
	}

	tFirstCol := firstColumnText(r.tmplAna, t)
	dFirstCol := firstColumnText(r.destAna, d)
	firstColScore := 0.0
	if tFirstCol != "" && tFirstCol == dFirstCol {
		firstColScore = 1.0
	}

	tTokens := tokenize(r.tmplAna.SourceRange(t.StartLine, t.EndLine))
	dTokens := tokenize(r.destAna.SourceRange(d.StartLine, d.EndLine))
	tokenScore := jaccard(tTokens, dTokens)

	posScore := 0.0
	if r.tmplLen > 1 && r.destLen > 1 {
		tPos := float64(t.StartLine) / float64(r.tmplLen)
		dPos := float64(d.StartLine) / float64(r.destLen)
		diff := tPos - dPos
		if diff < 0 {
			diff = -diff
		}
		posScore = 1.0 - diff
		if posScore < 0 {
			posScore = 0
		}
	}

	return r.cfg.HeaderWeight*headerScore +
		r.cfg.FirstColumnWeight*firstColScore +
		r.cfg.TokenOverlapWeight*tokenScore +
		r.cfg.PositionWeight*posScore
}

// firstColumnText extracts the text of the first cell of a table's first
// data row (the row after the header separator), a best-effort line scan
// since backend.Node doesn't expose per-cell structure generically.
func firstColumnText(a *analysis.Analysis, st *analysis.Statement) string {
	raw := a.SourceRange(st.StartLine, st.EndLine)
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	if len(lines) < 3 {
		return ""
	}
	cells := strings.Split(strings.Trim(lines[2], "|"), "|")
	if len(cells) == 0 {
		return ""
	}
	return strings.TrimSpace(cells[0])
}

func tokenize(s string) map[string]bool {
	out := make(map[string]bool)
	for _, f := range strings.Fields(s) {
		out[strings.ToLower(f)] = true
	}
	return out
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
