// Package mdtype defines the canonical block-type vocabulary that the rest
// of mdmerge operates on, independent of which backend parser produced a
// node, plus the static structural tables that govern automatic blank-line
// insertion.
package mdtype

// Type is a canonical block type. Two nodes produced by different backends
// compare equal on Type iff they represent the same kind of Markdown
// construct.
type Type string

// The closed set of canonical block types.
const (
	Heading             Type = "heading"
	Paragraph           Type = "paragraph"
	CodeBlock           Type = "code_block"
	List                Type = "list"
	BlockQuote          Type = "block_quote"
	ThematicBreak       Type = "thematic_break"
	HTMLBlock           Type = "html_block"
	Table               Type = "table"
	FootnoteDefinition  Type = "footnote_definition"
	CustomBlock         Type = "custom_block"
	LinkDefinition      Type = "link_definition"
	GapLine             Type = "gap_line"
	FreezeBlock         Type = "freeze_block"
	FrontMatter         Type = "front_matter"
	Unknown             Type = "unknown"
)

// NeedsBlankBefore is the set of canonical types that must be preceded by a
// blank line when following another block.
var NeedsBlankBefore = map[Type]bool{
	Heading:       true,
	Table:         true,
	CodeBlock:     true,
	ThematicBreak: true,
	List:          true,
	BlockQuote:    true,
}

// NeedsBlankAfter is the set of canonical types that must be followed by a
// blank line when another block follows. It is NeedsBlankBefore plus
// link_definition (a definition must be set off from subsequent prose, but
// definitions may themselves run together — see Contiguous) and
// front_matter.
var NeedsBlankAfter = map[Type]bool{
	Heading:        true,
	Table:          true,
	CodeBlock:      true,
	ThematicBreak:  true,
	List:           true,
	BlockQuote:     true,
	LinkDefinition: true,
	FrontMatter:    true,
}

// Contiguous is the set of canonical types which may immediately abut a
// statement of the same type without an intervening blank line.
var Contiguous = map[Type]bool{
	LinkDefinition: true,
}

// NeedsBlankBetween reports whether the builder must insert a blank line
// between a statement of type prev followed by a statement of type next.
// This is the only source of automatic blank-line insertion in mdmerge.
func NeedsBlankBetween(prev, next Type) bool {
	if prev == next && Contiguous[prev] {
		return false
	}
	return NeedsBlankAfter[prev] || NeedsBlankBefore[next]
}
