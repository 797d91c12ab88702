// Package cli implements the concierge command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/agentoven/concierge/internal/config"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/agentoven/concierge/internal/cli.version=1.2.3"
	version = "0.1.0"

	verbose bool
	appCfg  *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "concierge",
	Short: "Concierge - agent hierarchy, training and privacy hub",
	Long: color.CyanString("concierge") +
		"\nManage the master agent, its delegates, versioned training content and\nprofile redaction policies.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if os.Getenv(config.Prefix+"_VERSION") == "" {
			cfg.Version = version
		}
		appCfg = cfg
		setupLogging(cmd.ErrOrStderr(), cfg.LogLevel, cmd == serveCmd || verbose)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at the configured level instead of warnings only")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(trainingCmd)
	rootCmd.AddCommand(redactCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogging installs the console logger. One-shot commands only log
// warnings unless loud is set.
func setupLogging(w io.Writer, level string, loud bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if !loud && lvl < zerolog.WarnLevel {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, color.New(color.FgCyan, color.Bold).Sprint(title))
}
