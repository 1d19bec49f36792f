package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/mdmerge/internal/analysis"
	"github.com/eykd/mdmerge/internal/merge"
	"github.com/eykd/mdmerge/internal/problem"
	"github.com/eykd/mdmerge/internal/rehydrate"
)

// doctorOutput is the JSON output schema for the doctor command, mirroring
// the teacher's OpResult shape (version + a flat list of findings).
type doctorOutput struct {
	Version  string            `json:"version"`
	Problems []problem.Problem `json:"problems"`
}

// NewDoctorCmd creates the doctor subcommand.
func NewDoctorCmd(io FileIO) *cobra.Command {
	var (
		backendName string
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:          "doctor <file>",
		Short:        "Report structural problems in a Markdown file without merging",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := io.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading file %q: %w", sanitizePath(args[0]), err)
			}

			b, err := merge.ResolveBackend(backendName)
			if err != nil {
				return err
			}

			a, parseErrs := analysis.New(src, analysis.Options{Backend: b})
			if len(parseErrs) > 0 {
				return &merge.ParseError{Side: "file", Source: string(src), Reasons: parseErrs}
			}

			problems := a.Problems
			for _, p := range rehydrate.Rehydrate(string(src)).Problems {
				if p.Category == problem.DuplicateLinkDefinition {
					problems = append(problems, p)
				}
			}

			if jsonOut {
				data, err := json.MarshalIndent(doctorOutput{Version: "1", Problems: problems}, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding output: %w", err)
				}
				data = append(data, '\n')
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", p.Severity, p.Message, p.Category)
			}
			if len(problems) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no problems found")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backendName, "backend", "auto", "Parser backend: auto, goldmark, commonmark")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit findings as JSON instead of human-readable lines")
	return cmd
}
