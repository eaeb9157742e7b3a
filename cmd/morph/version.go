package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/morph"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of morph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("morph version %s\n", strings.TrimSpace(morph.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
