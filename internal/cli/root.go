// Package cli implements the cairn command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the cairn release version, stamped at build time.
var Version = "0.1.0"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "cairn" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cairn",
		Short: "Local-first habit tracking storage and sync",
		Long: "Cairn manages habit check-ins, preferences, and cached server data\n" +
			"in local storage, queueing writes for replay when connectivity returns.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .cairn)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .cairn-db)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "log internal activity to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newSyncCmd())
	root.AddCommand(newPrefsCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newStatsCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// newLogger builds the CLI logger. Quiet by default; --verbose enables
// console output on stderr.
func newLogger() *zap.Logger {
	if !flags.verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// exitError prints the error to stderr and terminates with the given code.
func exitError(cmd *cobra.Command, code int, msg string) error {
	fmt.Fprintln(cmd.ErrOrStderr(), msg)
	os.Exit(code)
	return nil // unreachable
}
