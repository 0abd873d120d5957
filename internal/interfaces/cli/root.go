// Package cli implements the teenfin operator CLI: offline checks for the
// survey catalog and the service configuration.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "teenfin",
		Short:   "teenfin operator tools",
		Long:    "Operator tooling for the teenfin recommendation service:\nvalidate survey catalogs and configuration files before deploying them.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newCatalogCommand())
	cmd.AddCommand(newConfigCommand())
	return cmd
}

// Execute runs the CLI and returns the first command error.
func Execute() error {
	return NewRootCommand().Execute()
}
