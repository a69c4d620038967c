// Command ledgerctl is the thin host named in spec.md's PURPOSE section as
// an "external collaborator": a CLI that bootstraps dataset directories and
// drives ProcessEvent for each event kind, without itself being part of the
// core engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvshepherd-labs/ledgerkeep/internal/config"
	"github.com/kvshepherd-labs/ledgerkeep/internal/pkg/logger"
)

// globalFlags holds the persistent flags every subcommand reads through the
// package-level flags value; initGlobals fills any flag left empty from config.
type globalFlags struct {
	storeRoot string
	logLevel  string
	logFormat string
}

var flags globalFlags

func main() {
	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Bootstrap and drive a ledgerkeep dataset event log",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.storeRoot, "store", "", "dataset store root directory (default: config store.root_dir)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default: config log.level)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format: json, console (default: config log.format)")

	rootCmd.AddCommand(
		newDatasetCmd(),
		newOwnerCmd(),
		newObjectCmd(),
		newAnnotateCmd(),
		newReviewCmd(),
		newLogCmd(),
		newImportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// cfg is the process-wide configuration, resolved once in
// PersistentPreRunE and consulted by every subcommand for its defaults.
var cfg *config.Config

func initGlobals(_ *cobra.Command) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded

	if flags.storeRoot == "" {
		flags.storeRoot = cfg.Store.RootDir
	}
	if flags.logLevel == "" {
		flags.logLevel = cfg.Log.Level
	}
	if flags.logFormat == "" {
		flags.logFormat = cfg.Log.Format
	}

	if err := logger.Init(flags.logLevel, flags.logFormat); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}
