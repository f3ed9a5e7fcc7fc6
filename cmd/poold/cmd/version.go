package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poolescrow/poold/version"
)

var Version = &cobra.Command{
	Use:   "version",
	Short: "Show this node's version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Version)
	},
}
