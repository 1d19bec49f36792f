// Package problem defines the closed set of problem categories mdmerge's
// components can report (spec.md §6 plus the front-matter/freeze additions
// in SPEC_FULL.md §4), shared by every component that can emit one so a
// caller gets one uniform list back from a merge.
package problem

import "github.com/google/uuid"

// Severity is one of the three closed severities.
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Category is one of the closed set of problem categories.
type Category string

const (
	DuplicateLinkDefinition Category = "duplicate_link_definition"
	ExcessiveWhitespace     Category = "excessive_whitespace"
	LinkHasTitle            Category = "link_has_title"
	ImageHasTitle           Category = "image_has_title"
	LinkRefSpacing          Category = "link_ref_spacing"
	InvalidFrontMatter      Category = "invalid_front_matter"
	UnmatchedFreezeMarker   Category = "unmatched_freeze_marker"
)

// Problem is a single recorded, non-fatal finding. ID lets a caller
// reference one specific problem across a round trip even after
// post-processors have added or removed others, since slice position
// otherwise shifts.
type Problem struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`

	Line         int      `json:"line,omitempty"`
	NewlineCount int      `json:"newlineCount,omitempty"`
	CollapsedTo  int      `json:"collapsedTo,omitempty"`
	Labels       []string `json:"labels,omitempty"`
}

// New mints a Problem with a fresh ID.
func New(cat Category, sev Severity, msg string) Problem {
	return Problem{ID: uuid.NewString(), Category: cat, Severity: sev, Message: msg}
}
