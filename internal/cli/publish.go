package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/morph/pkg/adapters/mqtt"
	"github.com/aretw0/morph/pkg/domain"
)

// PublishOptions contains the configuration for the publish command.
type PublishOptions struct {
	ConfigPath string
	Broker     string // overrides mqtt.broker
	Topic      string // overrides mqtt.topic
	Reading    string
	Out        io.Writer
}

// RunPublish classifies a raw reading and sends it to the configured broker,
// where a running serve instance picks it up.
func RunPublish(ctx context.Context, opts PublishOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Broker != "" {
		cfg.MQTT.Broker = opts.Broker
	}
	if opts.Topic != "" {
		cfg.MQTT.Topic = opts.Topic
	}
	if cfg.MQTT.Broker == "" {
		return fmt.Errorf("no broker configured: set mqtt.broker or pass --broker")
	}

	o := domain.Classify(opts.Reading)
	if !o.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidOrientation, opts.Reading)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	client, err := mqtt.Dial(cfg.MQTT.Broker, cfg.MQTT.ClientID+"-publish")
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := mqtt.Publish(client, cfg.MQTT.Topic, cfg.MQTT.QoS, o); err != nil {
		return err
	}
	printSystemMessage(opts.Out, "Published %s to %s", o, cfg.MQTT.Topic)
	return nil
}
