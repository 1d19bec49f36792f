// Package mdmerge is the public API for structural Markdown template
// merging: aligning a template and a destination document by statement
// signature, resolving conflicts by a caller-supplied preference, and
// reassembling byte-exact output. See internal/merge for the orchestration
// this package re-exports; mdmerge itself only narrows the surface a
// library consumer needs and names the error types spec.md §7 describes.
package mdmerge

import (
	"errors"

	"github.com/eykd/mdmerge/internal/align"
	"github.com/eykd/mdmerge/internal/backend"
	"github.com/eykd/mdmerge/internal/merge"
	"github.com/eykd/mdmerge/internal/resolve"
	"github.com/eykd/mdmerge/internal/wsnorm"
)

// Re-exported types a caller assembles Options from without reaching into
// internal packages.
type (
	// MergeResult is the outcome of a Merge call.
	MergeResult = merge.Result
	// Conflict records one matched pair where the two sides differed.
	Conflict = merge.Conflict
	// FrozenBlock records one freeze block preserved verbatim in the output.
	FrozenBlock = merge.FrozenBlock
	// Stats summarizes what a merge did.
	Stats = merge.Stats
	// Preference selects which side wins an unresolved conflict, overall
	// or per canonical type.
	Preference = resolve.Preference
	// Side names which document a piece of content came from.
	Side = resolve.Side
	// Backend selects the CommonMark parser implementation.
	Backend = backend.Parser
	// WhitespaceMode selects the whitespace normalization pass.
	WhitespaceMode = wsnorm.Mode
	// AlignEntry is one aligned statement pair or singleton, passed to an
	// AddTemplateOnly callback.
	AlignEntry = align.Entry
)

const (
	Template    = resolve.Template
	Destination = resolve.Destination
)

const (
	WhitespaceBasic    = wsnorm.Basic
	WhitespaceLinkRefs = wsnorm.LinkRefs
	WhitespaceStrict   = wsnorm.Strict
)

// TemplateParseError is returned when the template source fails to parse.
type TemplateParseError struct{ inner *merge.ParseError }

func (e *TemplateParseError) Error() string { return e.inner.Error() }
func (e *TemplateParseError) Unwrap() error { return e.inner }

// DestinationParseError is returned when the destination source fails to parse.
type DestinationParseError struct{ inner *merge.ParseError }

func (e *DestinationParseError) Error() string { return e.inner.Error() }
func (e *DestinationParseError) Unwrap() error { return e.inner }

// ConfigError is returned for an unknown backend or other invalid Options.
type ConfigError = merge.ConfigError

// Options configures a Merge call; see internal/merge.Options for every
// field's meaning.
type Options = merge.Options

// DefaultOptions returns mdmerge's defaults: goldmark backend, destination
// preference, template-only additions disabled, basic whitespace
// normalization, link rehydration enabled, auto-spacing on.
func DefaultOptions() Options { return merge.DefaultOptions() }

// ResolveBackend maps a backend selector name ("auto", "goldmark",
// "commonmark", "markly") onto a concrete Backend.
func ResolveBackend(name string) (Backend, error) { return merge.ResolveBackend(name) }

// Merge runs the full structural merge pipeline: analyze both sources,
// align statements by signature, resolve conflicts per opts.Preference,
// and reassemble output. A malformed template or destination is reported
// as a *TemplateParseError or *DestinationParseError respectively, both
// distinguishable via errors.As. Merge does not validate Options and never
// returns *ConfigError; an unknown backend name is reported as *ConfigError
// by ResolveBackend, before Merge is called.
func Merge(templateContent, destinationContent string, opts Options) (*MergeResult, error) {
	result, err := merge.Merge(templateContent, destinationContent, opts)
	if err != nil {
		var perr *merge.ParseError
		if errors.As(err, &perr) {
			switch perr.Side {
			case "template":
				return nil, &TemplateParseError{inner: perr}
			case "destination":
				return nil, &DestinationParseError{inner: perr}
			}
		}
		return nil, err
	}
	return result, nil
}
