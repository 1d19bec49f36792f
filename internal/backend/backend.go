// Package backend defines the adapter interface that every concrete
// CommonMark parser (goldmark, zombiezen.com/go/commonmark, …) must satisfy,
// and the node normalizer that maps a backend's own type vocabulary onto
// mdmerge's canonical mdtype.Type set.
//
// This replaces the reflection-based "does this node respond to X" probing
// that a dynamically-typed implementation would otherwise lean on: every
// backend difference is resolved once, here, onto one explicit interface.
package backend

import "github.com/eykd/mdmerge/internal/mdtype"

// ID names a concrete backend implementation.
type ID string

const (
	Goldmark   ID = "goldmark"
	Commonmark ID = "commonmark"
)

// Node is the canonical accessor set every backend's block node must expose.
// Implementations are read-only views over backend-owned data; mdmerge never
// mutates a Node.
type Node interface {
	// Type is the backend's own type name for this node (e.g. "Heading" for
	// goldmark, "header" for zombiezen commonmark).
	Type() string
	// StartLine and EndLine are 1-based, inclusive.
	StartLine() int
	EndLine() int
	// Children returns this node's direct children, in document order.
	Children() []Node
	// FirstChild returns the first child, or nil if there are none.
	FirstChild() Node
	// HeaderLevel returns the heading level (1-6) when Type is a heading.
	HeaderLevel() (int, bool)
	// FenceInfo returns the fence info string (language tag) for a fenced
	// code block.
	FenceInfo() (string, bool)
	// StringContent returns the node's raw text content, when the backend
	// can produce it cheaply (code blocks, paragraphs, headings).
	StringContent() (string, bool)
	// ListType returns "bullet" or "ordered" for a list node.
	ListType() (string, bool)
}

// Document is a parsed document: its ordered top-level block nodes and the
// original source they were parsed from.
type Document struct {
	Source []byte
	Blocks []Node
}

// Parser is implemented by each concrete backend.
type Parser interface {
	ID() ID
	// Parse parses source into a Document, or returns a list of backend
	// parser error messages on failure.
	Parse(source []byte) (*Document, []string)
}

// TypeMap maps a single backend's own type names onto mdtype.Type.
type TypeMap map[string]mdtype.Type

// registry holds the default type map for each known backend ID. Callers
// may register additional backends at program startup; registration must be
// serialized by the caller (spec.md §5) — readers after publication are
// lock-free because registry is only ever replaced wholesale via Register,
// never mutated in place.
var registry = map[ID]TypeMap{
	Goldmark:   goldmarkTypeMap,
	Commonmark: commonmarkTypeMap,
}

// Register installs or replaces the type map for backend id. Must not be
// called concurrently with CanonicalType/Wrap.
func Register(id ID, m TypeMap) {
	next := make(map[ID]TypeMap, len(registry)+1)
	for k, v := range registry {
		next[k] = v
	}
	next[id] = m
	registry = next
}

// CanonicalType maps a backend-specific type name to mdmerge's canonical
// type. It never fails: an unmapped type name is returned unchanged, cast to
// mdtype.Type, so an unrecognized backend construct still round-trips
// losslessly through analysis (it just won't match across documents except
// on the unknown-type signature).
func CanonicalType(backendType string, id ID) mdtype.Type {
	m, ok := registry[id]
	if !ok {
		return mdtype.Type(backendType)
	}
	if ct, ok := m[backendType]; ok {
		return ct
	}
	return mdtype.Type(backendType)
}

// Wrapped is a thin, transparent envelope around a backend Node that adds
// its resolved canonical MergeType. It delegates every read to the
// underlying node and is never mutated.
type Wrapped struct {
	Node
	MergeType mdtype.Type
	Backend   ID
}

// Wrap produces a Wrapped envelope for node under backend id.
func Wrap(node Node, id ID) Wrapped {
	return Wrapped{
		Node:      node,
		MergeType: CanonicalType(node.Type(), id),
		Backend:   id,
	}
}

// goldmarkTypeMap maps goldmark's ast type names (as returned by our
// goldmarkbackend adapter's Type() method, which mirrors ast.Kind.String())
// onto mdtype.Type.
var goldmarkTypeMap = TypeMap{
	"Heading":         mdtype.Heading,
	"Paragraph":       mdtype.Paragraph,
	"CodeBlock":       mdtype.CodeBlock,
	"FencedCodeBlock": mdtype.CodeBlock,
	"List":            mdtype.List,
	"Blockquote":      mdtype.BlockQuote,
	"ThematicBreak":   mdtype.ThematicBreak,
	"HTMLBlock":       mdtype.HTMLBlock,
	"Table":           mdtype.Table,
}

// commonmarkTypeMap maps zombiezen.com/go/commonmark's BlockKind names (as
// returned by our zombiebackend adapter's Type() method) onto mdtype.Type.
// Note the divergent vocabulary from goldmark: "header" vs "Heading",
// "hrule" vs "ThematicBreak", "html" vs "HTMLBlock", "blockquote" vs
// "Blockquote" — exactly the reconciliation this package exists to do.
var commonmarkTypeMap = TypeMap{
	"header":            mdtype.Heading,
	"paragraph":         mdtype.Paragraph,
	"indented_code":     mdtype.CodeBlock,
	"fenced_code":       mdtype.CodeBlock,
	"list":              mdtype.List,
	"blockquote":        mdtype.BlockQuote,
	"hrule":             mdtype.ThematicBreak,
	"html":              mdtype.HTMLBlock,
	"link_reference_definition": mdtype.LinkDefinition,
}
