// Command mdmerge is a structural Markdown template merger.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// FileIO is the I/O seam every subcommand reads sources through and writes
// output through, so commands are testable against an injected fake instead
// of the real filesystem (mirrors the teacher's per-command *IO interfaces).
type FileIO interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
}

// osFileIO implements FileIO against the real filesystem.
type osFileIO struct{}

func (osFileIO) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
func (osFileIO) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func newDefaultFileIO() FileIO { return osFileIO{} }

// NewRootCmd creates the root mdmerge command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mdmerge",
		Short:         "mdmerge - structural Markdown template merging",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}
	io := newDefaultFileIO()
	root.AddCommand(NewMergeCmd(io))
	root.AddCommand(NewPartialMergeCmd(io))
	root.AddCommand(NewCleanseCmd(io))
	root.AddCommand(NewRehydrateCmd(io))
	root.AddCommand(NewDoctorCmd(io))
	root.PersistentFlags().Bool("debug", false, "Enable debug-level tracing to stderr")
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// writeOutput writes data either to the --output path (via io) or to
// cmd's stdout when outputPath is empty.
func writeOutput(cmd *cobra.Command, io FileIO, outputPath string, data []byte) error {
	if outputPath == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return io.WriteFile(outputPath, data, 0o644)
}

// debugFlag reads --debug, which cobra merges in from the root's persistent
// flag set once the command tree has parsed.
func debugFlag(cmd *cobra.Command) bool {
	debug, _ := cmd.Flags().GetBool("debug")
	return debug
}
