package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cairnapp/cairn/internal/netstate"
)

// statusReport is the JSON shape emitted by "cairn status --json".
type statusReport struct {
	Online      bool   `json:"online"`
	LoggedIn    bool   `json:"logged_in"`
	Nickname    string `json:"nickname,omitempty"`
	Pending     int    `json:"pending"`
	DeadLetters int    `json:"dead_letters"`
	UsedBytes   int64  `json:"used_bytes"`
	LimitBytes  int64  `json:"limit_bytes"`
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connectivity, session, queue, and storage state",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return exitError(cmd, exitSysError, err.Error())
	}
	defer a.close()

	report := statusReport{
		Online:      netstate.NewChecker().Online(),
		LoggedIn:    a.session.Token() != "",
		Pending:     a.queue.Len(),
		DeadLetters: len(a.queue.DeadLetters()),
	}
	if user, ok := a.session.User(); ok {
		report.Nickname = user.Nickname
	}
	if usage, ok := a.store.Usage(); ok {
		report.UsedBytes = usage.UsedBytes
		report.LimitBytes = usage.LimitBytes
	}

	if flags.jsonMode {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "online:       %v\n", report.Online)
	if report.LoggedIn {
		fmt.Fprintf(out, "session:      logged in (%s)\n", report.Nickname)
	} else {
		fmt.Fprintln(out, "session:      logged out")
	}
	fmt.Fprintf(out, "pending ops:  %d\n", report.Pending)
	fmt.Fprintf(out, "dead letters: %d\n", report.DeadLetters)
	fmt.Fprintf(out, "storage:      %d / %d bytes\n", report.UsedBytes, report.LimitBytes)
	return nil
}
