// Package cleanse implements the pre-pass repair utilities spec.md §1/§2
// names as an external collaborator invoked by callers before analysis,
// never by the core itself: splitting condensed link-definition lines,
// normalizing malformed fence spacing, and inserting blank lines the
// structural tables would otherwise require.
package cleanse

import (
	"regexp"
	"strings"

	"github.com/eykd/mdmerge/internal/linkref"
)

var fenceRE = regexp.MustCompile("^(\\s*)(```+|~~~+)\\s*([A-Za-z0-9_+-]*)\\s*$")

// SplitCondensedLinkDefinitions rewrites any line holding two or more
// concatenated `[label]: url` definitions (no blank line or line break
// between them) onto one definition per line, using the strict scanning
// mode to stop a bare URL at the next `[`.
func SplitCondensedLinkDefinitions(content string) string {
	lines := strings.Split(content, "\n")
	var out []string
	for _, line := range lines {
		out = append(out, splitLine(line)...)
	}
	return strings.Join(out, "\n")
}

func splitLine(line string) []string {
	rest := line
	var parts []string
	for {
		def, ok := linkref.ParseDefinitionLine(rest, true)
		if ok {
			parts = append(parts, formatDefinition(def))
			return parts
		}
		// Try to find a second "[label]:" opening further along rest and
		// split there, re-attempting strict parse on the first half.
		idx := findNextDefinitionStart(rest)
		if idx <= 0 {
			break
		}
		first := strings.TrimRight(rest[:idx], " ")
		if d, ok := linkref.ParseDefinitionLine(first, true); ok {
			parts = append(parts, formatDefinition(d))
			rest = rest[idx:]
			continue
		}
		break
	}
	if len(parts) == 0 {
		return []string{line}
	}
	parts = append(parts, rest)
	return parts
}

// findNextDefinitionStart finds the byte offset of a second "[" that could
// begin a new definition after the first one's URL, by scanning for a
// space followed by "[".
func findNextDefinitionStart(s string) int {
	for i := 1; i < len(s)-1; i++ {
		if s[i] == ' ' && s[i+1] == '[' {
			return i + 1
		}
	}
	return -1
}

func formatDefinition(d linkref.Definition) string {
	s := "[" + d.Label + "]: " + d.URL
	if d.Title != "" {
		s += ` "` + d.Title + `"`
	}
	return s
}

// NormalizeFenceSpacing trims trailing whitespace inside a fence marker
// line's info string and removes any spaces between the fence marks and
// the language tag, the malformed-fence-spacing repair spec.md §2 names.
func NormalizeFenceSpacing(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if m := fenceRE.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + m[2] + m[3]
		}
	}
	return strings.Join(lines, "\n")
}

// InsertMissingBlankLines is a conservative repair: it ensures every ATX
// heading line is preceded and followed by a blank line (or document
// boundary), which is the single most common "missing blank line" defect
// that confuses a block parser into folding a heading into the surrounding
// paragraph.
func InsertMissingBlankLines(content string) string {
	lines := strings.Split(content, "\n")
	var out []string
	for i, line := range lines {
		isHeading := strings.HasPrefix(strings.TrimLeft(line, " "), "#")
		if isHeading && len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, line)
		if isHeading && i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			out = append(out, "")
		}
	}
	return strings.Join(out, "\n")
}
