// Package frontmatter detects and validates a leading YAML front matter
// block, the same way the teacher's internal/node package does for
// prosemark node files: a regexp locates the boundary (the closing "---"
// must be unindented, since "---" inside a YAML block scalar is always
// indented), and gopkg.in/yaml.v3 parses the extracted block to confirm it
// is valid YAML. mdmerge never refuses to merge a document over invalid
// front matter — it is carried through as inert content either way — but a
// parse failure is reported as an invalid_front_matter problem.
package frontmatter

import (
	"regexp"

	"gopkg.in/yaml.v3"
)

// blockRE matches a complete front matter block at the very start of a
// document.
var blockRE = regexp.MustCompile(`(?s)^---\n(.*?\n)?---\n`)

// Detect reports whether source begins with a front matter block and, if
// so, returns its byte length (including both "---" delimiters and the
// trailing newline) and whether its YAML content is valid.
func Detect(source []byte) (length int, valid bool, found bool) {
	loc := blockRE.FindIndex(source)
	if loc == nil {
		return 0, false, false
	}
	var doc map[string]any
	err := yaml.Unmarshal(source[:loc[1]], &doc)
	return loc[1], err == nil, true
}
