package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/orders/internal/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "orders %s (%s)\n", server.Version, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
