package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of trend_radar",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(stdout, "trend_radar %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
