// Package merge implements spec.md §4.8, the orchestrator that ties
// analysis, alignment, resolution, and output building together into one
// merge operation.
package merge

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/eykd/mdmerge/internal/align"
	"github.com/eykd/mdmerge/internal/analysis"
	"github.com/eykd/mdmerge/internal/backend"
	"github.com/eykd/mdmerge/internal/backend/goldmarkbackend"
	"github.com/eykd/mdmerge/internal/backend/zombiebackend"
	"github.com/eykd/mdmerge/internal/builder"
	"github.com/eykd/mdmerge/internal/codemerge"
	"github.com/eykd/mdmerge/internal/mdtype"
	"github.com/eykd/mdmerge/internal/problem"
	"github.com/eykd/mdmerge/internal/rehydrate"
	"github.com/eykd/mdmerge/internal/resolve"
	"github.com/eykd/mdmerge/internal/wsnorm"
)

func newConflictID() string { return uuid.NewString() }

// ParseError is raised when a source fails to parse at all. Side is
// "template" or "destination" (the doctor command uses "file").
type ParseError struct {
	Side    string
	Source  string
	Reasons []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mdmerge: %s failed to parse: %v", e.Side, e.Reasons)
}

// ConfigError is raised for an unknown backend or other invalid argument at
// construction time.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "mdmerge: invalid configuration: " + e.Reason }

// AddTemplateOnlyFunc decides whether a template_only entry is added to the
// output. A constant policy is a func that ignores its argument; a nil func
// in Options adds no template_only entries.
type AddTemplateOnlyFunc func(entry align.Entry) bool

// Options configures one merge operation (spec.md §6 "Merger inputs").
type Options struct {
	Backend                  backend.Parser // defaults to goldmarkbackend.New()
	Preference               resolve.Preference
	AddTemplateOnly          AddTemplateOnlyFunc
	InnerMergeCodeBlocks     codemerge.Merger // nil disables inner code-block merging
	FreezeToken              string
	Refiner                  align.Refiner
	RefinerThreshold         float64
	SignatureFn              analysis.SignatureFunc
	NormalizeWhitespace      wsnorm.Mode // "" disables normalization
	RehydrateLinkReferences  bool
	AutoSpacing              bool
}

// DefaultOptions returns the merger's defaults: goldmark backend, destination
// preference, template_only additions disabled, no inner code merge, the
// default freeze token, no fuzzy refiner, basic whitespace normalization,
// rehydration enabled, and auto-spacing on.
func DefaultOptions() Options {
	return Options{
		Backend:                 goldmarkbackend.New(),
		Preference:              resolve.Preference{Single: resolve.Destination},
		AddTemplateOnly:         func(align.Entry) bool { return false },
		FreezeToken:             "markdown-merge",
		NormalizeWhitespace:     wsnorm.Basic,
		RehydrateLinkReferences: true,
		AutoSpacing:             true,
	}
}

// ResolveBackend maps the opaque selector names spec.md §6 lists
// (commonmarker, markly, auto) onto concrete backends. "auto" and
// "commonmarker" both select goldmark (the default, GFM-complete parser);
// "markly" selects the second backend, zombiezen.com/go/commonmark.
func ResolveBackend(name string) (backend.Parser, error) {
	switch name {
	case "", "auto", "commonmarker", "goldmark":
		return goldmarkbackend.New(), nil
	case "markly", "commonmark":
		return zombiebackend.New(), nil
	default:
		return nil, &ConfigError{Reason: "unknown backend " + name}
	}
}

// Stats reports what a merge did (spec.md §6 MergeResult.stats).
type Stats struct {
	NodesAdded    int     `json:"nodesAdded"`
	NodesModified int     `json:"nodesModified"`
	NodesRemoved  int     `json:"nodesRemoved"`
	InnerMerges   int     `json:"innerMerges"`
	MergeTimeMS   float64 `json:"mergeTimeMs"`
}

// FrozenBlock records one freeze block preserved verbatim in the output.
type FrozenBlock struct {
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Reason    string `json:"reason,omitempty"`
}

// Conflict records a matched pair where the two sides differed and one was
// chosen over the other.
type Conflict struct {
	ID         string           `json:"id"`
	StartLine  int              `json:"startLine"`
	EndLine    int              `json:"endLine"`
	Resolution resolve.Decision `json:"resolution"`
	Source     resolve.Side     `json:"source"`
}

// Result is spec.md §6's MergeResult.
type Result struct {
	Content      string            `json:"content"`
	Conflicts    []Conflict        `json:"conflicts"`
	FrozenBlocks []FrozenBlock     `json:"frozenBlocks"`
	Stats        Stats             `json:"stats"`
	Problems     []problem.Problem `json:"problems"`
}

// Merge runs the full pipeline over templateContent and destinationContent.
func Merge(templateContent, destinationContent string, opts Options) (*Result, error) {
	if opts.Backend == nil {
		opts.Backend = goldmarkbackend.New()
	}
	if opts.AddTemplateOnly == nil {
		opts.AddTemplateOnly = func(align.Entry) bool { return false }
	}

	tmplAna, errs := analysis.New([]byte(templateContent), analysis.Options{
		Backend: opts.Backend, FreezeToken: opts.FreezeToken, SignatureFn: opts.SignatureFn,
	})
	if len(errs) > 0 {
		return nil, &ParseError{Side: "template", Source: templateContent, Reasons: errs}
	}
	destAna, errs := analysis.New([]byte(destinationContent), analysis.Options{
		Backend: opts.Backend, FreezeToken: opts.FreezeToken, SignatureFn: opts.SignatureFn,
	})
	if len(errs) > 0 {
		return nil, &ParseError{Side: "destination", Source: destinationContent, Reasons: errs}
	}

	entries := align.Align(tmplAna.Statements(), tmplAna, destAna.Statements(), destAna, opts.Refiner, opts.RefinerThreshold)

	b := builder.New(opts.AutoSpacing)
	result := &Result{}
	result.Problems = append(result.Problems, tmplAna.Problems...)
	result.Problems = append(result.Problems, destAna.Problems...)

	for _, e := range entries {
		switch e.Type {
		case align.Match:
			mergeMatch(b, tmplAna, destAna, e, opts, result)
		case align.TemplateOnly:
			if opts.AddTemplateOnly(e) {
				b.AddNodeSource(e.TemplateNode, tmplAna)
				result.Stats.NodesAdded++
			}
		case align.DestOnly:
			b.AddNodeSource(e.DestNode, destAna)
			if e.DestNode.Kind == analysis.KindFreezeBlock {
				result.FrozenBlocks = append(result.FrozenBlocks, FrozenBlock{
					StartLine: e.DestNode.StartLine, EndLine: e.DestNode.EndLine, Reason: e.DestNode.Reason,
				})
			}
		}
	}

	content := b.String()

	if opts.NormalizeWhitespace != "" {
		wsResult := wsnorm.Normalize(content, opts.NormalizeWhitespace)
		content = wsResult.Content
		result.Problems = append(result.Problems, wsResult.Problems...)
	}
	if opts.RehydrateLinkReferences {
		rResult := rehydrate.Rehydrate(content)
		content = rResult.Content
		result.Problems = append(result.Problems, rResult.Problems...)
	}

	result.Content = content
	return result, nil
}

func mergeMatch(b *builder.Builder, tmplAna, destAna *analysis.Analysis, e align.Entry, opts Options, result *Result) {
	if opts.InnerMergeCodeBlocks != nil && isCodeBlock(e.TemplateNode) && isCodeBlock(e.DestNode) {
		tContent, _ := e.TemplateNode.Block.StringContent()
		dContent, _ := e.DestNode.Block.StringContent()
		if merged, ok := opts.InnerMergeCodeBlocks(tContent, dContent); ok {
			b.AddRaw(merged)
			result.Stats.InnerMerges++
			return
		}
	}

	res := resolve.Resolve(tmplAna, destAna, e.TemplateNode, e.DestNode, opts.Preference)
	var winner *analysis.Statement
	var winnerAna *analysis.Analysis
	if res.Source == resolve.Template {
		winner, winnerAna = e.TemplateNode, tmplAna
	} else {
		winner, winnerAna = e.DestNode, destAna
	}
	b.AddNodeSource(winner, winnerAna)

	if res.Decision != resolve.Identical {
		result.Stats.NodesModified++
		result.Conflicts = append(result.Conflicts, Conflict{
			ID:         newConflictID(),
			StartLine:  winner.StartLine,
			EndLine:    winner.EndLine,
			Resolution: res.Decision,
			Source:     res.Source,
		})
	}
	if winner.Kind == analysis.KindFreezeBlock {
		result.FrozenBlocks = append(result.FrozenBlocks, FrozenBlock{
			StartLine: winner.StartLine, EndLine: winner.EndLine, Reason: winner.Reason,
		})
	}
}

func isCodeBlock(st *analysis.Statement) bool {
	return st != nil && st.Kind == analysis.KindBlock && st.Block.MergeType == mdtype.CodeBlock
}
