package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/mdmerge/internal/rehydrate"
)

// NewRehydrateCmd creates the rehydrate subcommand.
func NewRehydrateCmd(io FileIO) *cobra.Command {
	var (
		inPlace    bool
		outputPath string
	)

	cmd := &cobra.Command{
		Use:          "rehydrate <file>",
		Short:        "Collapse inline links back to their reference definitions",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := io.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading file %q: %w", sanitizePath(args[0]), err)
			}

			result := rehydrate.Rehydrate(string(src))

			if inPlace {
				return io.WriteFile(args[0], []byte(result.Content), 0o644)
			}
			return writeOutput(cmd, io, outputPath, []byte(result.Content))
		},
	}

	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "Overwrite the input file instead of writing to stdout")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write output to this path instead of stdout")
	return cmd
}
