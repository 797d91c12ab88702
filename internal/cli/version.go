package cli

import (
	"fmt"

	"github.com/agentoven/concierge/internal/config"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader(cmd.OutOrStdout(), "Concierge Version")
		fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\n", appCfg.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "Store:   %s\n", appCfg.Store.Backend)
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables the service reads",
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.Usage()
	},
}
