package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay queued operations against the server",
		Long:  "Drain the pending operation queue if the network is reachable. Offline is a no-op.",
		RunE:  runSync,
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return exitError(cmd, exitSysError, err.Error())
	}
	defer a.close()

	res, err := a.habits.Sync(cmd.Context())
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("sync: %s", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "delivered %d, failed %d, skipped %d, dead-lettered %d\n",
		res.Delivered, res.Failed, res.Skipped, res.Dead)
	return nil
}
