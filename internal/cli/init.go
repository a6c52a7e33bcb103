package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cairnapp/cairn/internal/paths"
	"github.com/cairnapp/cairn/pkg/sqlite"
	"github.com/cairnapp/cairn/pkg/types"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize cairn storage",
		Long:  "Create configuration and data directories, then initialize the storage backend.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("resolve config directory: %s", err))
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("load config: %s", err))
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("resolve data directory: %s", err))
	}

	// Initialize the data directory via Attach then Detach.
	cfg := types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}
	if err := cfg.Validate(); err != nil {
		return exitError(cmd, exitUserError, fmt.Sprintf("config: %s", err))
	}

	host := sqlite.NewBackend()
	if err := host.Attach(cfg); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("initialize storage: %s", err))
	}
	if err := host.Detach(); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("finalize storage: %s", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cairn initialized\nconfig: %s\ndata:   %s\n", configDir, dataDir)
	return nil
}
