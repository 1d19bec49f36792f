package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/eykd/mdmerge/internal/mdtype"
)

var footnoteLabelRE = regexp.MustCompile(`^\[\^([^\]]+)\]:`)

// Signature computes st's signature per the table in spec.md §3, routed
// through a.sigFn first when one was supplied.
func (a *Analysis) Signature(st *Statement) Signature {
	if a.sigFn != nil {
		if sig, ok := a.sigFn(st, a); ok {
			return sig
		}
	}
	return a.defaultSignature(st)
}

func (a *Analysis) defaultSignature(st *Statement) Signature {
	switch st.Kind {
	case KindLinkDefinition:
		return Signature(fmt.Sprintf("(link_definition, %s)", strings.ToLower(st.LinkDef.Label)))
	case KindFreezeBlock:
		return Signature(fmt.Sprintf("(freeze_block, %s, %s)", st.Reason, hashHex(st.Content, 16)))
	case KindFrontMatter:
		return Signature(fmt.Sprintf("(front_matter, %s)", hashHex(st.Content, 16)))
	case KindGapLine:
		if st.Preceding == nil {
			return Signature(fmt.Sprintf("(gap_line, %d, %s)", st.StartLine, st.GapText))
		}
		offset := st.StartLine - st.Preceding.EndLine
		return Signature(fmt.Sprintf("(gap_line_after, %s, %d, %s)",
			st.Preceding.MergeType(), offset, st.GapText))
	case KindBlock:
		return a.blockSignature(st)
	default:
		return Signature(fmt.Sprintf("(unknown, %d)", st.StartLine))
	}
}

func (a *Analysis) blockSignature(st *Statement) Signature {
	n := st.Block
	switch n.MergeType {
	case mdtype.Heading:
		level, _ := n.HeaderLevel()
		text, _ := n.StringContent()
		return Signature(fmt.Sprintf("(heading, %d, %s)", level, text))
	case mdtype.Paragraph:
		text, _ := n.StringContent()
		if text == "" {
			text = a.SourceRange(st.StartLine, st.EndLine)
		}
		return Signature(fmt.Sprintf("(paragraph, %s)", hashHex(text, 32)))
	case mdtype.CodeBlock:
		fence, _ := n.FenceInfo()
		content, _ := n.StringContent()
		return Signature(fmt.Sprintf("(code_block, %s, %s)", fence, hashHex(content, 16)))
	case mdtype.List:
		listType, _ := n.ListType()
		return Signature(fmt.Sprintf("(list, %s, %d)", listType, len(n.Children())))
	case mdtype.BlockQuote:
		text := a.SourceRange(st.StartLine, st.EndLine)
		return Signature(fmt.Sprintf("(block_quote, %s)", hashHex(text, 16)))
	case mdtype.ThematicBreak:
		return Signature("(thematic_break)")
	case mdtype.HTMLBlock:
		content, ok := n.StringContent()
		if !ok {
			content = a.SourceRange(st.StartLine, st.EndLine)
		}
		return Signature(fmt.Sprintf("(html_block, %s)", hashHex(content, 16)))
	case mdtype.Table:
		headerText, _ := n.StringContent()
		return Signature(fmt.Sprintf("(table, %d, %s)", len(n.Children()), hashHex(headerText, 16)))
	case mdtype.FootnoteDefinition:
		raw := a.SourceRange(st.StartLine, st.EndLine)
		label := raw
		if m := footnoteLabelRE.FindStringSubmatch(raw); m != nil {
			label = m[1]
		}
		return Signature(fmt.Sprintf("(footnote_definition, %s)", label))
	default:
		return Signature(fmt.Sprintf("(unknown, %s, %d)", n.MergeType, st.StartLine))
	}
}

func hashHex(s string, n int) string {
	sum := sha256.Sum256([]byte(s))
	h := hex.EncodeToString(sum[:])
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}
