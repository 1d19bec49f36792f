// Package zombiebackend adapts zombiezen.com/go/commonmark's block tree onto
// backend.Node. It is the second, "commonmark"-named backend, chosen
// specifically because its node shape (RootBlock/Block, Kind()/Span(),
// ChildCount()/Child(i)/AsNode()) and type vocabulary ("header", "hrule",
// "html", ...) diverge from goldmark's ast.Node ("Heading", "ThematicBreak",
// "HTMLBlock", ...) — real divergence for the node normalizer to reconcile,
// rather than two names for the same library.
package zombiebackend

import (
	"sort"

	cm "zombiezen.com/go/commonmark"

	"github.com/eykd/mdmerge/internal/backend"
)

// Backend implements backend.Parser over zombiezen.com/go/commonmark.
type Backend struct{}

// New constructs a commonmark-backed parser. Stateless and cheap to
// construct per call, per spec.md §9.
func New() *Backend { return &Backend{} }

func (b *Backend) ID() backend.ID { return backend.Commonmark }

func (b *Backend) Parse(source []byte) (*backend.Document, []string) {
	roots := cm.Parse(source, nil)
	lineStarts := computeLineStarts(source)

	blocks := make([]backend.Node, 0, len(roots))
	for _, root := range roots {
		blocks = append(blocks, wrapNode(&root.Block, source, lineStarts))
	}
	return &backend.Document{Source: source, Blocks: blocks}, nil
}

type node struct {
	b          *cm.Block
	source     []byte
	lineStarts []int
}

func wrapNode(b *cm.Block, source []byte, lineStarts []int) *node {
	return &node{b: b, source: source, lineStarts: lineStarts}
}

// kindNames mirrors cm.BlockKind's String() output onto the lowercase,
// underscore-separated vocabulary this backend exposes to the normalizer.
var kindNames = map[cm.BlockKind]string{
	cm.ParagraphKind:               "paragraph",
	cm.ThematicBreakKind:           "hrule",
	cm.ATXHeadingKind:              "header",
	cm.SetextHeadingKind:           "header",
	cm.IndentedCodeBlockKind:       "indented_code",
	cm.FencedCodeBlockKind:         "fenced_code",
	cm.HTMLBlockKind:               "html",
	cm.LinkReferenceDefinitionKind: "link_reference_definition",
	cm.BlockQuoteKind:              "blockquote",
	cm.ListItemKind:                "list_item",
	cm.ListKind:                    "list",
}

func (w *node) Type() string {
	if name, ok := kindNames[w.b.Kind()]; ok {
		return name
	}
	return "unknown"
}

func (w *node) StartLine() int {
	span := w.b.Span()
	return lineForOffset(w.lineStarts, span.Start)
}

func (w *node) EndLine() int {
	span := w.b.Span()
	end := span.End
	if end > span.Start {
		end--
	}
	return lineForOffset(w.lineStarts, end)
}

func (w *node) Children() []backend.Node {
	count := w.b.ChildCount()
	var out []backend.Node
	for i := 0; i < count; i++ {
		if blk := w.b.Child(i).Block(); blk != nil {
			out = append(out, wrapNode(blk, w.source, w.lineStarts))
		}
	}
	return out
}

func (w *node) FirstChild() backend.Node {
	if w.b.ChildCount() == 0 {
		return nil
	}
	blk := w.b.Child(0).Block()
	if blk == nil {
		return nil
	}
	return wrapNode(blk, w.source, w.lineStarts)
}

func (w *node) HeaderLevel() (int, bool) {
	switch w.b.Kind() {
	case cm.ATXHeadingKind, cm.SetextHeadingKind:
		return w.b.HeadingLevel(), true
	default:
		return 0, false
	}
}

func (w *node) FenceInfo() (string, bool) {
	if w.b.Kind() != cm.FencedCodeBlockKind {
		return "", false
	}
	info := w.b.InfoString()
	if info == nil {
		return "", false
	}
	span := info.Span()
	if span.End < span.Start || span.End > len(w.source) {
		return "", false
	}
	return string(w.source[span.Start:span.End]), true
}

func (w *node) StringContent() (string, bool) {
	switch w.b.Kind() {
	case cm.FencedCodeBlockKind, cm.IndentedCodeBlockKind, cm.ParagraphKind, cm.ATXHeadingKind, cm.SetextHeadingKind:
		span := w.b.Span()
		if span.End < span.Start || span.End > len(w.source) {
			return "", false
		}
		return string(w.source[span.Start:span.End]), true
	default:
		return "", false
	}
}

func (w *node) ListType() (string, bool) {
	if w.b.Kind() != cm.ListKind {
		return "", false
	}
	if w.b.IsOrderedList() {
		return "ordered", true
	}
	return "bullet", true
}

func computeLineStarts(source []byte) []int {
	starts := []int{0}
	for i, c := range source {
		if c == '\n' && i+1 < len(source) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineForOffset(lineStarts []int, off int) int {
	i := sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > off })
	return i
}
