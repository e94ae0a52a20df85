package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finfeed-dev/finfeed/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "finfeed",
		Short:   "Convert brokerage export files into canonical portfolio records",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newDetectCommand())
	rootCmd.AddCommand(newConvertCommand())

	return rootCmd
}
