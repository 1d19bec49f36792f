// Package codemerge defines the pluggable inner code-block merge callback
// spec.md §4.8 calls out as a collaborator the core does not implement:
// language-specific code merging is explicitly out of scope (spec.md §1
// Non-goals), so this package supplies only the callback type and the two
// trivial whole-side policies a caller can fall back to.
package codemerge

// Merger merges the template and destination content of two matched code
// blocks. It returns ok=false to signal "cannot merge, caller should fall
// back to the normal resolver" rather than returning an error: this is a
// pure decision function, not an operation that can fail.
type Merger func(templateContent, destContent string) (merged string, ok bool)

// PreferTemplate always takes the template side verbatim.
func PreferTemplate(templateContent, destContent string) (string, bool) {
	return templateContent, true
}

// PreferDestination always takes the destination side verbatim.
func PreferDestination(templateContent, destContent string) (string, bool) {
	return destContent, true
}
