package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/mdmerge/internal/cleanse"
)

// NewCleanseCmd creates the cleanse subcommand.
func NewCleanseCmd(io FileIO) *cobra.Command {
	var (
		inPlace    bool
		outputPath string
	)

	cmd := &cobra.Command{
		Use:          "cleanse <file>",
		Short:        "Run pre-pass repair utilities over a Markdown file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := io.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading file %q: %w", sanitizePath(args[0]), err)
			}

			content := string(src)
			content = cleanse.SplitCondensedLinkDefinitions(content)
			content = cleanse.NormalizeFenceSpacing(content)
			content = cleanse.InsertMissingBlankLines(content)

			if inPlace {
				return io.WriteFile(args[0], []byte(content), 0o644)
			}
			return writeOutput(cmd, io, outputPath, []byte(content))
		},
	}

	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "Overwrite the input file instead of writing to stdout")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write output to this path instead of stdout")
	return cmd
}
