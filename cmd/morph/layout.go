package main

import (
	"os"

	"github.com/aretw0/morph/internal/cli"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Manage stored layouts",
	Long:  `List, inspect, and remove layout registries saved in the configured store.`,
}

var layoutLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored layout keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.LayoutList(cmd.Context(), layoutOptions(cmd))
	},
}

var layoutInspectCmd = &cobra.Command{
	Use:   "inspect [key]",
	Short: "Show the layouts stored under a key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) > 0 {
			key = args[0]
		}
		element, _ := cmd.Flags().GetString("element")
		return cli.LayoutInspect(cmd.Context(), layoutOptions(cmd), key, element)
	},
}

var layoutRmCmd = &cobra.Command{
	Use:   "rm <key>...",
	Short: "Remove one or more layout keys",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.LayoutRemove(cmd.Context(), layoutOptions(cmd), args)
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.AddCommand(layoutLsCmd)
	layoutCmd.AddCommand(layoutInspectCmd)
	layoutCmd.AddCommand(layoutRmCmd)

	layoutCmd.PersistentFlags().Bool("json", false, "Print JSON instead of text")
	layoutInspectCmd.Flags().StringP("element", "e", "", "Show a single element")
}

func layoutOptions(cmd *cobra.Command) cli.LayoutOptions {
	configPath, _ := cmd.Flags().GetString("config")
	jsonOut, _ := cmd.Flags().GetBool("json")
	return cli.LayoutOptions{
		ConfigPath: configPath,
		JSON:       jsonOut,
		Out:        os.Stdout,
	}
}
