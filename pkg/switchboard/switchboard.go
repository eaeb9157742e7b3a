package switchboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/morph/internal/logging"
	"github.com/aretw0/morph/pkg/domain"
	"github.com/aretw0/morph/pkg/ports"
)

// Switchboard holds the per-element dual-layout registry and applies the
// slot matching an orientation to every registered element.
//
// The registry is only ever mutated through Capture, Clear and Load.
// Element writes happen outside the internal lock, so host callbacks may
// call back into the Switchboard.
type Switchboard struct {
	resolver ports.ElementResolver
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	managed  []string
	registry *registry
	detach   []ports.Unsubscribe
	notifier ports.Notifier // set while active
}

// Option configures the Switchboard.
type Option func(*Switchboard)

// WithElements sets the ordered list of elements to manage.
// Each gets an empty entry so registry order follows this list.
func WithElements(ids ...string) Option {
	return func(s *Switchboard) {
		s.register(ids...)
	}
}

// WithEntries seeds the registry from previously serialized entries.
func WithEntries(entries []domain.Entry) Option {
	return func(s *Switchboard) {
		s.registry.load(entries)
	}
}

// WithLogger configures a logger for the Switchboard.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Switchboard) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Switchboard) {
		s.hooks = hooks
	}
}

// New creates a Switchboard that reaches host elements through resolver.
func New(resolver ports.ElementResolver, opts ...Option) *Switchboard {
	s := &Switchboard{
		resolver: resolver,
		logger:   logging.NewNop(),
		now:      time.Now,
		registry: newRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "switchboard")
	return s
}

// Register adds elements to the managed list. Already managed IDs are ignored.
func (s *Switchboard) Register(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.register(ids...)
}

func (s *Switchboard) register(ids ...string) {
	for _, id := range ids {
		if id == "" || slices.Contains(s.managed, id) {
			continue
		}
		s.managed = append(s.managed, id)
		s.registry.ensure(id, "")
	}
}

// Elements returns the managed element IDs in registration order.
func (s *Switchboard) Elements() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.managed)
}

// Capture reads the element's current geometry and stores it in the slot for o,
// overwriting any previous snapshot. The entry is created if absent.
// The element itself is never modified.
func (s *Switchboard) Capture(ctx context.Context, id string, o domain.Orientation) error {
	if !o.Valid() {
		return fmt.Errorf("capture %s: %w: %s", id, domain.ErrInvalidOrientation, o)
	}

	el, err := s.resolver.Resolve(id)
	if err != nil {
		s.skip(ctx, id, o, err)
		return fmt.Errorf("capture %s: %w", id, err)
	}
	snap, err := el.Snapshot()
	if err != nil {
		s.skip(ctx, id, o, err)
		return fmt.Errorf("capture %s: %w", id, err)
	}

	s.mu.Lock()
	s.register(id)
	s.registry.put(id, nameOf(el), o, snap)
	s.mu.Unlock()

	s.logger.Debug("Captured layout", "element_id", id, "orientation", o, "snapshot", snap)
	if s.hooks.OnCapture != nil {
		s.hooks.OnCapture(ctx, &domain.LayoutEvent{
			Timestamp:   s.now(),
			Type:        domain.EventCapture,
			ElementID:   id,
			Orientation: o,
		})
	}
	return nil
}

// CaptureAll captures every managed element into the slot for o.
// Elements the host no longer has are skipped and reported.
func (s *Switchboard) CaptureAll(ctx context.Context, o domain.Orientation) domain.Report {
	report := domain.Report{Orientation: o}
	if !o.Valid() {
		return report
	}

	for _, id := range s.Elements() {
		if err := s.Capture(ctx, id, o); err != nil {
			report.Skipped = append(report.Skipped, domain.Skip{ElementID: id, Reason: err.Error()})
			continue
		}
		report.Elements = append(report.Elements, id)
	}

	s.logger.Info("Captured layouts", "orientation", o, "captured", len(report.Elements), "skipped", len(report.Skipped))
	return report
}

// Apply writes the stored snapshot for o onto every registered element, in
// registry order. Entries without a snapshot for o are left alone. Elements
// the host has destroyed are logged and skipped; the sweep always completes.
func (s *Switchboard) Apply(ctx context.Context, o domain.Orientation) domain.Report {
	report := domain.Report{Orientation: o}
	if !o.Valid() {
		s.logger.Debug("Apply ignored", "orientation", o)
		return report
	}

	s.mu.Lock()
	entries := s.registry.snapshot()
	s.mu.Unlock()

	for _, e := range entries {
		snap, ok := e.Layouts.Get(o)
		if !ok {
			continue
		}
		if err := s.restore(e.ElementID, snap); err != nil {
			s.skip(ctx, e.ElementID, o, err)
			report.Skipped = append(report.Skipped, domain.Skip{ElementID: e.ElementID, Reason: err.Error()})
			continue
		}
		report.Elements = append(report.Elements, e.ElementID)
		if s.hooks.OnApply != nil {
			s.hooks.OnApply(ctx, &domain.LayoutEvent{
				Timestamp:   s.now(),
				Type:        domain.EventApply,
				ElementID:   e.ElementID,
				Orientation: o,
			})
		}
	}

	s.logger.Info("Applied layouts", "orientation", o, "applied", len(report.Elements), "skipped", len(report.Skipped))
	return report
}

func (s *Switchboard) restore(id string, snap domain.Snapshot) error {
	el, err := s.resolver.Resolve(id)
	if err != nil {
		return err
	}
	return el.Restore(snap)
}

func (s *Switchboard) skip(ctx context.Context, id string, o domain.Orientation, err error) {
	s.logger.Warn("Skipping element", "element_id", id, "orientation", o, "err", err)
	if s.hooks.OnSkip != nil {
		s.hooks.OnSkip(ctx, &domain.LayoutEvent{
			Timestamp:   s.now(),
			Type:        domain.EventSkip,
			ElementID:   id,
			Orientation: o,
			Reason:      err.Error(),
		})
	}
}

// Clear empties the registry for every element and both orientations.
// The managed element list is kept, so CaptureAll still works afterwards.
func (s *Switchboard) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.reset()
	s.logger.Info("Registry cleared")
}

// Entries returns a deep copy of the registry for serialization.
func (s *Switchboard) Entries() []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.snapshot()
}

// Entry returns a copy of the entry for one element.
func (s *Switchboard) Entry(id string) (domain.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.get(id)
}

// Load replaces the registry with previously serialized entries.
func (s *Switchboard) Load(entries []domain.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.load(entries)
	s.logger.Debug("Registry loaded", "entries", s.registry.len())
}

// ErrNoNotifier is returned by Activate when given a nil notifier.
var ErrNoNotifier = errors.New("switchboard: nil notifier")

// ErrAlreadyActive is returned by Activate when the Switchboard is attached
// to a different notifier. Deactivate first to switch notifiers.
var ErrAlreadyActive = errors.New("switchboard: already active on another notifier")

// Activate attaches Apply to the notifier's portrait and landscape events.
// Activating again with the same notifier is a no-op, so repeated enable
// calls never register duplicate listeners.
func (s *Switchboard) Activate(n ports.Notifier) error {
	if n == nil {
		return ErrNoNotifier
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detach != nil {
		if !sameNotifier(s.notifier, n) {
			return ErrAlreadyActive
		}
		return nil
	}

	s.detach = []ports.Unsubscribe{
		n.OnPortrait(func(ctx context.Context, _ domain.OrientationEvent) {
			s.Apply(ctx, domain.OrientationPortrait)
		}),
		n.OnLandscape(func(ctx context.Context, _ domain.OrientationEvent) {
			s.Apply(ctx, domain.OrientationLandscape)
		}),
	}
	s.notifier = n
	s.logger.Debug("Activated")
	return nil
}

// sameNotifier compares notifiers by identity without panicking on
// non-comparable dynamic types.
func sameNotifier(a, b ports.Notifier) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// Deactivate detaches every listener attached by Activate. Safe to call when inactive.
func (s *Switchboard) Deactivate() {
	s.mu.Lock()
	detach := s.detach
	s.detach = nil
	s.notifier = nil
	s.mu.Unlock()

	for _, fn := range detach {
		fn()
	}
	if detach != nil {
		s.logger.Debug("Deactivated")
	}
}

// Active reports whether the Switchboard is attached to a notifier.
func (s *Switchboard) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detach != nil
}

// Bind activates the Switchboard and returns the matching release function,
// for use with defer:
//
//	release, err := board.Bind(mon)
//	if err != nil { ... }
//	defer release()
func (s *Switchboard) Bind(n ports.Notifier) (release func(), err error) {
	if err := s.Activate(n); err != nil {
		return func() {}, err
	}
	return s.Deactivate, nil
}

// named is implemented by host elements that carry a display name.
type named interface {
	Name() string
}

func nameOf(el ports.Element) string {
	if n, ok := el.(named); ok {
		return n.Name()
	}
	return ""
}
