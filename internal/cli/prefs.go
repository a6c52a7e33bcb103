package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect and change user preferences",
	}
	cmd.AddCommand(newPrefsGetCmd())
	cmd.AddCommand(newPrefsSetCmd())
	cmd.AddCommand(newPrefsResetCmd())
	return cmd
}

func newPrefsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print all preferences, or a single value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return exitError(cmd, exitSysError, err.Error())
			}
			defer a.close()

			if len(args) == 1 {
				v, ok := a.prefs.Value(args[0])
				if !ok {
					return exitError(cmd, exitUserError, fmt.Sprintf("unknown preference key %q", args[0]))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%v\n", v)
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a.prefs.Get())
		},
	}
}

func newPrefsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a single preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return exitError(cmd, exitSysError, err.Error())
			}
			defer a.close()

			if !a.prefs.Set(args[0], parsePrefValue(args[1])) {
				return exitError(cmd, exitUserError, fmt.Sprintf("cannot set %q to %q", args[0], args[1]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func newPrefsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore default preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return exitError(cmd, exitSysError, err.Error())
			}
			defer a.close()

			a.prefs.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "preferences reset to defaults")
			return nil
		},
	}
}

// parsePrefValue interprets a CLI argument as JSON when possible, so
// "true" becomes a bool and "2" a number, and falls back to the raw
// string otherwise.
func parsePrefValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}
