// Package builder implements spec.md §4.7: a stateful byte-append buffer
// that assembles merge output from source ranges rather than re-rendering,
// keeping matched content byte-exact.
package builder

import (
	"strings"

	"github.com/eykd/mdmerge/internal/analysis"
	"github.com/eykd/mdmerge/internal/mdtype"
)

// Builder accumulates merge output.
type Builder struct {
	buf         strings.Builder
	autoSpacing bool
	havePrev    bool
	prevType    mdtype.Type
	prevWasGap  bool
}

// New constructs a Builder. autoSpacing enables the needs_blank_between
// pass described in spec.md §4.7.
func New(autoSpacing bool) *Builder {
	return &Builder{autoSpacing: autoSpacing}
}

// AddRaw appends literal bytes with no spacing logic.
func (b *Builder) AddRaw(text string) {
	b.buf.WriteString(text)
}

// AddGapLine appends count newlines, and marks the builder as having just
// emitted gap content (auto-spacing never inserts extra blanks after one).
func (b *Builder) AddGapLine(count int) {
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		b.buf.WriteByte('\n')
	}
	b.prevWasGap = true
}

// AddNodeSource appends st's content from a, applying auto-spacing against
// the previously emitted node's canonical type.
func (b *Builder) AddNodeSource(st *analysis.Statement, a *analysis.Analysis) {
	content := b.renderContent(st, a)
	thisType := st.MergeType()
	thisIsGap := st.Kind == analysis.KindGapLine

	if b.autoSpacing && !b.prevWasGap && !thisIsGap && b.havePrev {
		if mdtype.NeedsBlankBetween(b.prevType, thisType) && !b.endsWithBlankLine() {
			b.buf.WriteByte('\n')
		}
	}

	b.buf.WriteString(content)

	b.havePrev = true
	b.prevType = thisType
	b.prevWasGap = (st.Kind == analysis.KindGapLine)
}

func (b *Builder) renderContent(st *analysis.Statement, a *analysis.Analysis) string {
	switch st.Kind {
	case analysis.KindLinkDefinition:
		s := "[" + st.LinkDef.Label + "]: " + st.LinkDef.URL
		if st.LinkDef.Title != "" {
			s += ` "` + st.LinkDef.Title + `"`
		}
		return s + "\n"
	case analysis.KindGapLine:
		return "\n"
	case analysis.KindFreezeBlock, analysis.KindFrontMatter:
		return st.Content
	default:
		text := a.SourceRange(st.StartLine, st.EndLine)
		if text == "" {
			// Backend position anomaly: fall back to whatever raw content the
			// node itself can produce.
			if s, ok := st.Block.StringContent(); ok {
				return s
			}
		}
		return text
	}
}

// endsWithBlankLine reports whether the buffer already ends with "\n\n".
func (b *Builder) endsWithBlankLine() bool {
	s := b.buf.String()
	return strings.HasSuffix(s, "\n\n")
}

// String returns the accumulated output.
func (b *Builder) String() string {
	return b.buf.String()
}
