package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eleven-am/bulldoggy/pkg/bulldoggy"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display Bulldoggy version and build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), bulldoggy.FullVersionInfo())
		},
	}
}
