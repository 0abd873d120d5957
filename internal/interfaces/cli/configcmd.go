package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtlebank/teenfin/internal/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration tools",
	}
	cmd.AddCommand(newConfigCheckCommand())
	return cmd
}

func newConfigCheckCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a configuration file",
		Long:  "Loads the YAML configuration, applies defaults and environment overrides, and runs full validation without starting the server.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("config check failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config OK: %s\n", path)
			fmt.Fprintf(out, "  server:   :%d (%s)\n", cfg.Server.Port, cfg.Server.Mode)
			fmt.Fprintf(out, "  provider: %s\n", cfg.LLM.Provider)
			fmt.Fprintf(out, "  catalog:  %s\n", cfg.Survey.CatalogPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "configs/config.yaml", "configuration file to validate")
	return cmd
}
