package main

import (
	"fmt"
	"os"

	"github.com/aretw0/morph/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control server",
	Long: `Starts the engine behind a JSON API with an SSE event stream. Readings are
taken from MQTT when a broker is configured, and can always be pushed to POST /orientation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		addr, _ := cmd.Flags().GetString("addr")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err := cli.RunServe(ctx, cli.ServeOptions{
			ConfigPath: configPath,
			Addr:       addr,
			Debug:      debug,
			Out:        os.Stdout,
		})
		if sig := ctx.Signal(); sig != nil {
			fmt.Printf("\nShutdown on signal: %v\n", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides http.addr)")
}
