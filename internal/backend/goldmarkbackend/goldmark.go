// Package goldmarkbackend adapts github.com/yuin/goldmark's AST onto
// backend.Node, mdmerge's canonical parser-node interface. This is the
// default ("auto") backend.
package goldmarkbackend

import (
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/eykd/mdmerge/internal/backend"
)

// Backend implements backend.Parser over goldmark, with the GFM table
// extension enabled (spec.md's Table canonical type needs a parser that
// actually produces table nodes; goldmark only does that with the
// extension, which other in-pack consumers of goldmark also enable for
// GFM-flavored documents).
type Backend struct {
	md goldmark.Markdown
}

// New constructs a goldmark-backed parser. A fresh instance is cheap and
// carries no mutable shared state, matching spec.md §9's guidance that
// per-call parser instances beat a shared singleton when construction is
// cheap.
func New() *Backend {
	return &Backend{md: goldmark.New(goldmark.WithExtensions(extension.Table))}
}

func (b *Backend) ID() backend.ID { return backend.Goldmark }

func (b *Backend) Parse(source []byte) (*backend.Document, []string) {
	reader := text.NewReader(source)
	doc := b.md.Parser().Parse(reader)
	if doc == nil {
		return nil, []string{"goldmark: parser returned nil document"}
	}

	lineStarts := computeLineStarts(source)

	var blocks []backend.Node
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = append(blocks, wrapNode(n, source, lineStarts))
	}
	return &backend.Document{Source: source, Blocks: blocks}, nil
}

// node wraps a single goldmark ast.Node.
type node struct {
	n          ast.Node
	source     []byte
	lineStarts []int
}

func wrapNode(n ast.Node, source []byte, lineStarts []int) *node {
	return &node{n: n, source: source, lineStarts: lineStarts}
}

func (w *node) Type() string { return w.n.Kind().String() }

func (w *node) StartLine() int {
	start, _, ok := byteRange(w.n)
	if !ok {
		return 0
	}
	return lineForOffset(w.lineStarts, start)
}

func (w *node) EndLine() int {
	_, end, ok := byteRange(w.n)
	if !ok {
		return 0
	}
	// end is an exclusive stop offset; back off one byte so a trailing
	// newline doesn't push us onto the following line.
	if end > 0 {
		end--
	}
	return lineForOffset(w.lineStarts, end)
}

func (w *node) Children() []backend.Node {
	var out []backend.Node
	for c := w.n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, wrapNode(c, w.source, w.lineStarts))
	}
	return out
}

func (w *node) FirstChild() backend.Node {
	c := w.n.FirstChild()
	if c == nil {
		return nil
	}
	return wrapNode(c, w.source, w.lineStarts)
}

func (w *node) HeaderLevel() (int, bool) {
	h, ok := w.n.(*ast.Heading)
	if !ok {
		return 0, false
	}
	return h.Level, true
}

func (w *node) FenceInfo() (string, bool) {
	f, ok := w.n.(*ast.FencedCodeBlock)
	if !ok || f.Info == nil {
		return "", false
	}
	return string(f.Info.Text(w.source)), true
}

func (w *node) StringContent() (string, bool) {
	switch n := w.n.(type) {
	case *ast.FencedCodeBlock:
		return string(linesText(n, w.source)), true
	case *ast.CodeBlock:
		return string(linesText(n, w.source)), true
	case *ast.Heading:
		return string(n.Text(w.source)), true
	case *ast.Paragraph:
		return string(n.Text(w.source)), true
	case *extast.Table:
		return string(headerRowText(n, w.source)), true
	default:
		return "", false
	}
}

func (w *node) ListType() (string, bool) {
	l, ok := w.n.(*ast.List)
	if !ok {
		return "", false
	}
	if l.IsOrdered() {
		return "ordered", true
	}
	return "bullet", true
}

// linesText concatenates every raw source line attributed to n.
func linesText(n ast.Node, source []byte) []byte {
	lines := n.Lines()
	var out []byte
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, seg.Value(source)...)
	}
	return out
}

// headerRowText extracts the text of a GFM table's header row, used for the
// table signature (mdtype.Table's signature includes a hash of this).
func headerRowText(t *extast.Table, source []byte) []byte {
	first := t.FirstChild()
	if first == nil {
		return nil
	}
	header, ok := first.(*extast.TableHeader)
	if !ok {
		return nil
	}
	var out []byte
	for c := header.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c.Text(source)...)
		out = append(out, '\t')
	}
	return out
}

// byteRange returns the [start, end) byte span covered by n, recursing into
// children for container blocks (List, ListItem, Blockquote, Document) that
// carry no Lines() of their own.
func byteRange(n ast.Node) (start, end int, ok bool) {
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		start = lines.At(0).Start
		end = lines.At(lines.Len() - 1).Stop
		return start, end, true
	}
	first := n.FirstChild()
	if first == nil {
		return 0, 0, false
	}
	fs, fe, fok := byteRange(first)
	if !fok {
		return 0, 0, false
	}
	start, end = fs, fe
	for c := first.NextSibling(); c != nil; c = c.NextSibling() {
		cs, ce, cok := byteRange(c)
		if !cok {
			continue
		}
		if cs < start {
			start = cs
		}
		if ce > end {
			end = ce
		}
	}
	return start, end, true
}

// computeLineStarts returns the byte offset of the first byte of each line
// (1-indexed conceptually: lineStarts[0] is line 1's start).
func computeLineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' && i+1 < len(source) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineForOffset returns the 1-based line number containing byte offset off.
func lineForOffset(lineStarts []int, off int) int {
	i := sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > off })
	return i // i is 1-based because lineStarts[0] corresponds to line 1
}
