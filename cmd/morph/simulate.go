package main

import (
	"os"

	"github.com/aretw0/morph/internal/cli"
	"github.com/aretw0/morph/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <reading>...",
	Short: "Replay a sequence of orientation readings",
	Long: `Replays host orientation readings (portrait, landscape_left, face_up, ...)
against the configured elements and prints every transition and the final geometry.
The first reading is the startup reading.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		interval, _ := cmd.Flags().GetDuration("interval")
		quiet, _ := cmd.Flags().GetBool("quiet")
		restore, _ := cmd.Flags().GetBool("restore")

		if !quiet && tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunSimulate(ctx, cli.SimulateOptions{
			ConfigPath: configPath,
			Readings:   args,
			Interval:   interval,
			Debug:      debug,
			Quiet:      quiet,
			Restore:    restore,
			Out:        os.Stdout,
		})
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Duration("interval", 0, "Delay between readings")
	simulateCmd.Flags().BoolP("quiet", "q", false, "Suppress output")
	simulateCmd.Flags().Bool("restore", false, "Seed layouts from the configured store instead of the config file")
}
