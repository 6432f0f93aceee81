package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notterhq/notter"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of notter",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("notter version %s\n", strings.TrimSpace(notter.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
