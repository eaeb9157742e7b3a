package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/morph/internal/logging"
	"github.com/aretw0/morph/pkg/domain"
)

// Stream topics.
const (
	TopicOrientation = "orientation"
	TopicLayout      = "layout"
)

// Message is one server-sent event.
type Message struct {
	Topic string
	Data  string
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Message]struct{} // topic -> set of channels
	logger      *slog.Logger
	done        chan struct{}
	closeOnce   sync.Once
}

// NewStreamManager creates an empty StreamManager. A nil logger discards output.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan Message]struct{}),
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Close ends every open stream. SSE connections never go idle, so servers
// register it with http.Server.RegisterOnShutdown.
func (sm *StreamManager) Close() {
	sm.closeOnce.Do(func() {
		close(sm.done)
		sm.logger.Debug("SSE: Streams closed")
	})
}

// Done is closed once Close has been called.
func (sm *StreamManager) Done() <-chan struct{} {
	return sm.done
}

// Subscribe registers one channel for the given topics.
// The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(topics ...string) (<-chan Message, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Message, 10)
	for _, topic := range topics {
		if _, ok := sm.subscribers[topic]; !ok {
			sm.subscribers[topic] = make(map[chan Message]struct{})
		}
		sm.subscribers[topic][ch] = struct{}{}
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			for _, topic := range topics {
				if subs, ok := sm.subscribers[topic]; ok {
					delete(subs, ch)
					if len(subs) == 0 {
						delete(sm.subscribers, topic)
					}
				}
			}
			close(ch)
		})
	}
}

// Subscribers returns the number of channels listening on topic.
func (sm *StreamManager) Subscribers(topic string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[topic])
}

// Broadcast sends data to every subscriber of topic. Slow clients drop messages.
func (sm *StreamManager) Broadcast(topic, data string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[topic] {
		select {
		case ch <- Message{Topic: topic, Data: data}:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message", "topic", topic)
		}
	}
}

func (sm *StreamManager) publish(topic string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sm.logger.Error("SSE: Failed to encode event", "topic", topic, "err", err)
		return
	}
	sm.Broadcast(topic, string(data))
}

// Hooks returns lifecycle hooks that broadcast orientation changes and
// layout applies and skips.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnOrientationChange: func(_ context.Context, e *domain.OrientationEvent) {
			sm.publish(TopicOrientation, e)
		},
		OnApply: func(_ context.Context, e *domain.LayoutEvent) {
			sm.publish(TopicLayout, e)
		},
		OnSkip: func(_ context.Context, e *domain.LayoutEvent) {
			sm.publish(TopicLayout, e)
		},
	}
}
