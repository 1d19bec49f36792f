package main

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/eykd/mdmerge/internal/align"
	"github.com/eykd/mdmerge/internal/mdtype"
	"github.com/eykd/mdmerge/internal/merge"
	"github.com/eykd/mdmerge/internal/partial"
	"github.com/eykd/mdmerge/internal/resolve"
)

// NewPartialMergeCmd creates the partial-merge subcommand.
func NewPartialMergeCmd(io FileIO) *cobra.Command {
	var (
		anchorPattern string
		whenMissing   string
		outputPath    string
	)

	cmd := &cobra.Command{
		Use:          "partial-merge <template> <destination>",
		Short:        "Merge a template into one anchored section of a destination",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if anchorPattern == "" {
				return &merge.ConfigError{Reason: "--anchor is required"}
			}
			pat, err := regexp.Compile(anchorPattern)
			if err != nil {
				return fmt.Errorf("compiling --anchor pattern: %w", err)
			}

			tmplBytes, err := io.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading template %q: %w", sanitizePath(args[0]), err)
			}
			destBytes, err := io.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading destination %q: %w", sanitizePath(args[1]), err)
			}

			var missing partial.WhenMissing
			switch whenMissing {
			case "", "skip":
				missing = partial.Skip
			case "append":
				missing = partial.Append
			case "prepend":
				missing = partial.Prepend
			default:
				return &merge.ConfigError{Reason: "unknown --when-missing " + whenMissing}
			}

			mergeOpts := merge.DefaultOptions()
			mergeOpts.Preference = resolve.Preference{Single: resolve.Template}
			mergeOpts.AddTemplateOnly = func(align.Entry) bool { return true }

			anchor := partial.Anchor{Type: mdtype.Heading, TextPattern: pat}
			out, err := partial.Merge(string(tmplBytes), string(destBytes), anchor, partial.Options{
				MergeOptions: mergeOpts,
				WhenMissing:  missing,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, io, outputPath, []byte(out))
		},
	}

	cmd.Flags().StringVar(&anchorPattern, "anchor", "", "Regexp matching the anchoring heading's text (required)")
	cmd.Flags().StringVar(&whenMissing, "when-missing", "skip", "Fallback when the anchor is not found: skip, append, prepend")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write output to this path instead of stdout")
	return cmd
}
