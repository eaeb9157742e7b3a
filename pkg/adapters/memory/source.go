package memory

import (
	"context"
	"sync"

	"github.com/aretw0/morph/pkg/domain"
)

// StaticSource is an OrientationSource whose reading is set by the host.
// Safe for concurrent use.
type StaticSource struct {
	mu      sync.RWMutex
	reading domain.Orientation
}

// NewStaticSource creates a source reporting initial.
func NewStaticSource(initial domain.Orientation) *StaticSource {
	return &StaticSource{reading: initial}
}

// Set changes the reported orientation.
func (s *StaticSource) Set(o domain.Orientation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reading = o
}

// Read implements ports.OrientationSource.
func (s *StaticSource) Read(ctx context.Context) domain.Orientation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reading
}

// ScriptedSource replays a fixed sequence of readings, one per Read, and
// keeps reporting the last one once exhausted.
type ScriptedSource struct {
	mu       sync.Mutex
	readings []domain.Orientation
	pos      int
	served   int
}

// NewScriptedSource creates a source replaying readings in order.
func NewScriptedSource(readings ...domain.Orientation) *ScriptedSource {
	return &ScriptedSource{readings: readings}
}

// Read implements ports.OrientationSource.
func (s *ScriptedSource) Read(ctx context.Context) domain.Orientation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.readings) == 0 {
		return domain.OrientationUnknown
	}
	r := s.readings[s.pos]
	s.served++
	if s.pos < len(s.readings)-1 {
		s.pos++
	}
	return r
}

// Done reports whether every scripted reading has been returned at least once.
func (s *ScriptedSource) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.served >= len(s.readings)
}
