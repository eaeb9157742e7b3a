// Package mqtt feeds orientation readings from an MQTT topic into morph.
//
// A device (or a sensor bridge) publishes its screen orientation to a topic.
// Source subscribes, classifies every payload, remembers the latest reading
// for pollers and forwards each one to an optional push sink.
package mqtt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/morph/internal/logging"
	"github.com/aretw0/morph/pkg/domain"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DefaultTimeout bounds broker round trips (connect, subscribe, publish).
const DefaultTimeout = 5 * time.Second

// Sink receives every classified reading. monitor.Monitor.Observe satisfies it.
type Sink func(ctx context.Context, reading domain.Orientation) bool

// Payload is the JSON form of a reading. Orientation takes precedence over
// the dimensions.
type Payload struct {
	Orientation string  `json:"orientation,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
}

// ParsePayload classifies a message body. Plain text is treated as a host
// orientation name ("portrait", "landscape_left", "face_up"); a JSON object
// is decoded as Payload.
func ParsePayload(data []byte) (domain.Orientation, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return domain.Classify(string(data)), nil
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.OrientationUnknown, fmt.Errorf("invalid orientation payload: %w", err)
	}
	if p.Orientation != "" {
		return domain.Classify(p.Orientation), nil
	}
	return domain.ClassifyDimensions(p.Width, p.Height), nil
}

// Source implements ports.OrientationSource over an MQTT subscription.
type Source struct {
	client  mqtt.Client
	topic   string
	qos     byte
	sink    Sink
	timeout time.Duration
	logger  *slog.Logger

	mu       sync.RWMutex
	ctx      context.Context
	last     domain.Orientation
	received uint64
}

// Option configures the Source.
type Option func(*Source)

// WithQoS sets the subscription quality of service.
func WithQoS(qos byte) Option {
	return func(s *Source) {
		s.qos = qos
	}
}

// WithSink forwards every reading as it arrives.
func WithSink(sink Sink) Option {
	return func(s *Source) {
		s.sink = sink
	}
}

// WithTimeout bounds the subscribe and unsubscribe round trips.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger configures a logger for the Source.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Source reading from topic on an already connected client.
func New(client mqtt.Client, topic string, opts ...Option) *Source {
	s := &Source{
		client:  client,
		topic:   topic,
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "mqtt", "topic", topic)
	return s
}

// Dial connects a new client to broker.
func Dial(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(DefaultTimeout)
	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(DefaultTimeout) {
		return nil, fmt.Errorf("connect to %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}
	return c, nil
}

// Start subscribes to the topic. ctx is handed to the sink for every reading.
func (s *Source) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	token := s.client.Subscribe(s.topic, s.qos, s.Handle)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("subscribe %s: timed out", s.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.topic, err)
	}
	s.logger.Info("Subscribed", "qos", s.qos)
	return nil
}

// Stop unsubscribes from the topic. The client stays connected.
func (s *Source) Stop() error {
	token := s.client.Unsubscribe(s.topic)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("unsubscribe %s: timed out", s.topic)
	}
	return token.Error()
}

// Handle is the mqtt.MessageHandler for the subscription.
func (s *Source) Handle(_ mqtt.Client, msg mqtt.Message) {
	reading, err := ParsePayload(msg.Payload())
	if err != nil {
		s.logger.Warn("Dropping message", "err", err)
		return
	}

	s.mu.Lock()
	s.last = reading
	s.received++
	ctx := s.ctx
	s.mu.Unlock()

	s.logger.Debug("Reading received", "orientation", reading)
	if s.sink != nil {
		s.sink(ctx, reading)
	}
}

// Read returns the most recent reading, or Unknown before the first message.
func (s *Source) Read(ctx context.Context) domain.Orientation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Received returns how many readings have been accepted.
func (s *Source) Received() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.received
}

// Publish sends o to topic as a plain text payload.
func Publish(client mqtt.Client, topic string, qos byte, o domain.Orientation) error {
	token := client.Publish(topic, qos, false, o.String())
	if !token.WaitTimeout(DefaultTimeout) {
		return fmt.Errorf("publish %s: timed out", topic)
	}
	return token.Error()
}
