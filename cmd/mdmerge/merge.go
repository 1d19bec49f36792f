package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/mdmerge/internal/align"
	"github.com/eykd/mdmerge/internal/merge"
	"github.com/eykd/mdmerge/internal/mlog"
	"github.com/eykd/mdmerge/internal/resolve"
	"github.com/eykd/mdmerge/internal/wsnorm"
)

// NewMergeCmd creates the merge subcommand.
func NewMergeCmd(io FileIO) *cobra.Command {
	var (
		preference        string
		noAddTemplateOnly bool
		noRehydrate       bool
		whitespace        string
		backendName       string
		freezeToken       string
		jsonOut           bool
		outputPath        string
	)

	cmd := &cobra.Command{
		Use:          "merge <template> <destination>",
		Short:        "Merge a template into a destination document",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mlog.Default(debugFlag(cmd))

			tmplBytes, err := io.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading template %q: %w", sanitizePath(args[0]), err)
			}
			destBytes, err := io.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading destination %q: %w", sanitizePath(args[1]), err)
			}

			opts := merge.DefaultOptions()

			opts.Backend, err = merge.ResolveBackend(backendName)
			if err != nil {
				return err
			}

			switch preference {
			case "", "destination":
				opts.Preference = resolve.Preference{Single: resolve.Destination}
			case "template":
				opts.Preference = resolve.Preference{Single: resolve.Template}
			default:
				return &merge.ConfigError{Reason: "unknown --preference " + preference}
			}

			if !noAddTemplateOnly {
				opts.AddTemplateOnly = func(align.Entry) bool { return true }
			}
			opts.RehydrateLinkReferences = !noRehydrate

			switch whitespace {
			case "", "basic":
				opts.NormalizeWhitespace = wsnorm.Basic
			case "link_refs":
				opts.NormalizeWhitespace = wsnorm.LinkRefs
			case "strict":
				opts.NormalizeWhitespace = wsnorm.Strict
			case "none":
				opts.NormalizeWhitespace = ""
			default:
				return &merge.ConfigError{Reason: "unknown --whitespace " + whitespace}
			}

			if freezeToken != "" {
				opts.FreezeToken = freezeToken
			}

			result, err := merge.Merge(string(tmplBytes), string(destBytes), opts)
			if err != nil {
				return err
			}

			if jsonOut {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding result: %w", err)
				}
				data = append(data, '\n')
				return writeOutput(cmd, io, outputPath, data)
			}
			return writeOutput(cmd, io, outputPath, []byte(result.Content))
		},
	}

	cmd.Flags().StringVar(&preference, "preference", "destination", "Which side wins a conflict: template or destination")
	cmd.Flags().BoolVar(&noAddTemplateOnly, "no-add-template-only", false, "Do not add template content missing from the destination")
	cmd.Flags().BoolVar(&noRehydrate, "no-rehydrate", false, "Skip link reference rehydration after merging")
	cmd.Flags().StringVar(&whitespace, "whitespace", "basic", "Whitespace normalization mode: basic, link_refs, strict, none")
	cmd.Flags().StringVar(&backendName, "backend", "auto", "Parser backend: auto, goldmark, commonmark")
	cmd.Flags().StringVar(&freezeToken, "freeze-token", "", "Override the freeze marker token (default markdown-merge)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the full MergeResult as JSON instead of raw content")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write output to this path instead of stdout")
	return cmd
}
