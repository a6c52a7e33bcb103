package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/cairnapp/cairn"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cairn version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "cairn v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
