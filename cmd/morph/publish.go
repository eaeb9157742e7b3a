package main

import (
	"os"

	"github.com/aretw0/morph/internal/cli"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <reading>",
	Short: "Publish an orientation reading to the MQTT broker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		broker, _ := cmd.Flags().GetString("broker")
		topic, _ := cmd.Flags().GetString("topic")

		return cli.RunPublish(cmd.Context(), cli.PublishOptions{
			ConfigPath: configPath,
			Broker:     broker,
			Topic:      topic,
			Reading:    args[0],
			Out:        os.Stdout,
		})
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().String("broker", "", "Broker URL (overrides mqtt.broker)")
	publishCmd.Flags().String("topic", "", "Topic (overrides mqtt.topic)")
}
