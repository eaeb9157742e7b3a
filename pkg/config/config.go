// Package config loads morph runtime configuration from YAML or JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/morph/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// DefaultKey is the layout store key used when none is configured.
const DefaultKey = "default"

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full runtime configuration.
type Config struct {
	PollInterval       time.Duration      `mapstructure:"poll_interval"`
	DefaultOrientation domain.Orientation `mapstructure:"default_orientation"`
	LogLevel           string             `mapstructure:"log_level"`
	Elements           []Element          `mapstructure:"elements"`
	Layouts            []Layout           `mapstructure:"layouts"`
	Store              Store              `mapstructure:"store"`
	HTTP               HTTP               `mapstructure:"http"`
	MQTT               MQTT               `mapstructure:"mqtt"`
	Metrics            Metrics            `mapstructure:"metrics"`
}

// Element declares a managed element and its starting geometry.
type Element struct {
	ID       string          `mapstructure:"id"`
	Name     string          `mapstructure:"name"`
	Geometry domain.Snapshot `mapstructure:"geometry"`
}

// Layout is a seed registry entry.
type Layout struct {
	ID        string           `mapstructure:"id"`
	Name      string           `mapstructure:"name"`
	Portrait  *domain.Snapshot `mapstructure:"portrait"`
	Landscape *domain.Snapshot `mapstructure:"landscape"`
}

// Store selects the layout persistence backend.
type Store struct {
	Kind  string `mapstructure:"kind"`
	Path  string `mapstructure:"path"`
	Key   string `mapstructure:"key"`
	Redis Redis  `mapstructure:"redis"`
}

// Redis holds connection settings for the redis store.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HTTP configures the control server. serve listens on :8080 when Addr is empty.
type HTTP struct {
	Addr string `mapstructure:"addr"`
}

// MQTT configures the sensor feed. An empty Broker disables it.
type MQTT struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
	QoS      byte   `mapstructure:"qos"`
}

// Metrics configures the prometheus endpoint. An empty Addr disables it.
type Metrics struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		PollInterval: 500 * time.Millisecond,
		LogLevel:     "info",
		Store: Store{
			Kind: StoreMemory,
			Path: ".morph",
			Key:  DefaultKey,
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "morph:layout:",
			},
		},
		MQTT: MQTT{
			Topic:    "morph/orientation",
			ClientID: "morph",
		},
	}
}

// Load reads a configuration file (YAML or JSON, chosen by extension) on top
// of Default. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := Decode(data, filepath.Ext(path), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Decode parses raw config bytes into cfg. ext selects JSON for ".json";
// anything else is treated as YAML.
func Decode(data []byte, ext string, cfg *Config) error {
	raw := map[string]any{}
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: cfg,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Validate checks the configuration for values the runtime cannot use.
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive, got %s", ErrInvalidConfig, c.PollInterval)
	}

	switch c.Store.Kind {
	case StoreMemory:
	case StoreFile:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for the file store", ErrInvalidConfig)
		}
	case StoreRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("%w: store.redis.addr is required for the redis store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store kind %q", ErrInvalidConfig, c.Store.Kind)
	}

	seen := make(map[string]bool, len(c.Elements))
	for i, el := range c.Elements {
		if el.ID == "" {
			return fmt.Errorf("%w: elements[%d] has no id", ErrInvalidConfig, i)
		}
		if seen[el.ID] {
			return fmt.Errorf("%w: duplicate element %q", ErrInvalidConfig, el.ID)
		}
		seen[el.ID] = true
	}

	if c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		return fmt.Errorf("%w: mqtt.topic is required when a broker is set", ErrInvalidConfig)
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("%w: mqtt.qos must be 0, 1 or 2", ErrInvalidConfig)
	}
	return nil
}

// ElementIDs returns the configured element IDs in order.
func (c *Config) ElementIDs() []string {
	ids := make([]string, 0, len(c.Elements))
	for _, el := range c.Elements {
		ids = append(ids, el.ID)
	}
	return ids
}

// Entries converts the seed layouts into registry entries.
func (c *Config) Entries() []domain.Entry {
	if len(c.Layouts) == 0 {
		return nil
	}
	entries := make([]domain.Entry, 0, len(c.Layouts))
	for _, l := range c.Layouts {
		e := domain.Entry{ElementID: l.ID, Name: l.Name}
		if l.Portrait != nil {
			e.Layouts.Set(domain.OrientationPortrait, *l.Portrait)
		}
		if l.Landscape != nil {
			e.Layouts.Set(domain.OrientationLandscape, *l.Landscape)
		}
		entries = append(entries, e)
	}
	return entries
}
