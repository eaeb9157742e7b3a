package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/morph/pkg/domain"
	"github.com/aretw0/morph/pkg/ports"
)

// Element is an in-memory UI element holding a geometry value.
// Safe for concurrent use.
type Element struct {
	id   string
	name string

	mu       sync.RWMutex
	geometry domain.Snapshot
	detached bool
}

// NewElement creates an attached element with the given starting geometry.
func NewElement(id, name string, geometry domain.Snapshot) *Element {
	return &Element{id: id, name: name, geometry: geometry}
}

// ID returns the element identity.
func (e *Element) ID() string { return e.id }

// Name returns the display name.
func (e *Element) Name() string { return e.name }

// Snapshot reads the current geometry.
func (e *Element) Snapshot() (domain.Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.detached {
		return domain.Snapshot{}, fmt.Errorf("%s: %w", e.id, domain.ErrElementInvalid)
	}
	return e.geometry, nil
}

// Restore replaces the current geometry.
func (e *Element) Restore(s domain.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.detached {
		return fmt.Errorf("%s: %w", e.id, domain.ErrElementInvalid)
	}
	e.geometry = s
	return nil
}

// Geometry returns the current geometry regardless of attachment, for inspection.
func (e *Element) Geometry() domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.geometry
}

// Detach marks the element destroyed; subsequent reads and writes fail.
func (e *Element) Detach() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.detached = true
}

// Detached reports whether the element was destroyed.
func (e *Element) Detached() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.detached
}

// Scene implements ports.ElementResolver over a set of in-memory elements.
type Scene struct {
	mu       sync.RWMutex
	elements map[string]*Element
}

// NewScene creates a scene holding the given elements.
func NewScene(elements ...*Element) *Scene {
	s := &Scene{elements: make(map[string]*Element)}
	for _, e := range elements {
		s.elements[e.id] = e
	}
	return s
}

// Add inserts or replaces an element.
func (s *Scene) Add(e *Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements[e.id] = e
}

// Element returns the concrete element for inspection.
func (s *Scene) Element(id string) (*Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.elements[id]
	return e, ok
}

// IDs returns all element IDs in lexical order.
func (s *Scene) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.elements))
	for id := range s.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Detach destroys an element, keeping the stale reference so lookups report it invalid.
func (s *Scene) Detach(id string) bool {
	e, ok := s.Element(id)
	if ok {
		e.Detach()
	}
	return ok
}

// Resolve implements ports.ElementResolver.
func (s *Scene) Resolve(id string) (ports.Element, error) {
	e, ok := s.Element(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrElementNotFound)
	}
	if e.Detached() {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrElementInvalid)
	}
	return e, nil
}
