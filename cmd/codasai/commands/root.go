// Package commands implements the codasai CLI's subcommand tree with
// spf13/cobra: init, page new, page save, build, and serve.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codasai",
	Short: "Build and serve narrative guides from a project's history",
	Long: `codasai turns a project's linear version-control history into a guide:
an ordered sequence of narrative pages, each paired with the source tree
as it stood at that point in history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI, printing any surfaced error to stderr as a single
// line and exiting non-zero, per the tool's external error contract.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
