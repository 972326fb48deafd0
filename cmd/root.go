package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/internal/buildinfo"
	"github.com/sigil-dev/sigil/internal/logging"
)

// global flags
var (
	logLevel string
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "sigil",
	Short: fmt.Sprintf("Sigil capability tokens (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `Sigil builds and evaluates offline-verifiable capability tokens:
	hash-linked chains of signed blocks carrying facts, derivation rules
	and checks. Evaluation is fully local; no server is involved.`,
	Version: buildinfo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(logLevel, noColor)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execution failed")
		os.Exit(1)
	}
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color output")

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}
