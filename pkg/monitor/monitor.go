package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/morph/internal/logging"
	"github.com/aretw0/morph/pkg/domain"
	"github.com/aretw0/morph/pkg/ports"
)

// DefaultInterval is the poll interval used when none is configured (twice per second).
const DefaultInterval = 500 * time.Millisecond

type listener struct {
	id     uint64
	filter domain.Orientation // Unknown means every class
	fn     ports.Listener
}

// Monitor is the orientation state machine.
// Safe for concurrent use. Readings are processed one at a time: a commit and
// the dispatch of its event finish before the next reading is compared, so
// listeners see transitions in commit order. Listeners run synchronously on
// the goroutine that delivered the reading and must not call Observe, Poll or
// Prime themselves.
type Monitor struct {
	source   ports.OrientationSource
	interval time.Duration
	fallback domain.Orientation
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time

	dispatch sync.Mutex // serializes Prime and Observe, held through listener calls

	mu        sync.RWMutex
	committed domain.Orientation // Unknown until the first commit
	listeners []listener
	nextID    uint64
}

// Option configures the Monitor.
type Option func(*Monitor)

// WithInterval sets the poll interval. Non-positive values keep the default.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithDefault sets the class Current reports before the first commit.
func WithDefault(o domain.Orientation) Option {
	return func(m *Monitor) {
		m.fallback = o
	}
}

// WithLogger configures a logger for the Monitor.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Monitor) {
		m.hooks = hooks
	}
}

// New creates a Monitor reading from source. The source may be nil for
// push-only use through Observe.
func New(source ports.OrientationSource, opts ...Option) *Monitor {
	m := &Monitor{
		source:   source,
		interval: DefaultInterval,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "monitor")
	return m
}

// Interval returns the configured poll interval.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Current returns the last committed class, or the configured default before the first commit.
func (m *Monitor) Current() domain.Orientation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.committed == domain.OrientationUnknown {
		return m.fallback
	}
	return m.committed
}

// IsPortrait reports whether Current is Portrait.
func (m *Monitor) IsPortrait() bool {
	return m.Current() == domain.OrientationPortrait
}

// Initialized reports whether a class has been committed.
func (m *Monitor) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.committed != domain.OrientationUnknown
}

// OnPortrait registers fn for every transition into Portrait.
func (m *Monitor) OnPortrait(fn ports.Listener) ports.Unsubscribe {
	return m.add(domain.OrientationPortrait, fn)
}

// OnLandscape registers fn for every transition into Landscape.
func (m *Monitor) OnLandscape(fn ports.Listener) ports.Unsubscribe {
	return m.add(domain.OrientationLandscape, fn)
}

// Subscribe registers fn for every committed transition, whatever the class.
func (m *Monitor) Subscribe(fn ports.Listener) ports.Unsubscribe {
	return m.add(domain.OrientationUnknown, fn)
}

func (m *Monitor) add(filter domain.Orientation, fn ports.Listener) ports.Unsubscribe {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listener{id: id, filter: filter, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { m.remove(id) })
	}
}

func (m *Monitor) remove(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.listeners {
		if l.id == id {
			m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
			return
		}
	}
}

// Listeners returns the number of attached listeners.
func (m *Monitor) Listeners() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.listeners)
}

// Prime takes the startup reading. A Portrait or Landscape reading is
// committed silently (no event); Unknown leaves the monitor uninitialized.
// Priming an already initialized monitor does nothing.
func (m *Monitor) Prime(ctx context.Context) domain.Orientation {
	if m.source == nil {
		return domain.OrientationUnknown
	}
	reading := m.source.Read(ctx)
	if !reading.Valid() {
		m.logger.Debug("Startup reading indeterminate, waiting for first classification")
		return reading
	}

	m.dispatch.Lock()
	defer m.dispatch.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.committed == domain.OrientationUnknown {
		m.committed = reading
		m.logger.Debug("Initial orientation", "orientation", reading)
	}
	return reading
}

// Poll performs one classify-and-maybe-fire step against the source.
// It returns whether an event fired.
func (m *Monitor) Poll(ctx context.Context) bool {
	if m.source == nil {
		return false
	}
	return m.Observe(ctx, m.source.Read(ctx))
}

// Observe feeds one reading into the state machine. Unknown readings and
// readings equal to the committed class are dropped; anything else is
// committed and announced to the matching listeners exactly once.
func (m *Monitor) Observe(ctx context.Context, reading domain.Orientation) bool {
	if !reading.Valid() {
		if m.hooks.OnReadingIgnored != nil {
			m.hooks.OnReadingIgnored(ctx, &domain.ReadingEvent{Timestamp: m.now(), Reading: reading})
		}
		return false
	}

	m.dispatch.Lock()
	defer m.dispatch.Unlock()

	m.mu.Lock()
	previous := m.committed
	if previous == reading {
		m.mu.Unlock()
		return false
	}
	m.committed = reading

	targets := make([]ports.Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		if l.filter == domain.OrientationUnknown || l.filter == reading {
			targets = append(targets, l.fn)
		}
	}
	m.mu.Unlock()

	event := domain.OrientationEvent{
		Timestamp: m.now(),
		Previous:  previous,
		Current:   reading,
	}

	m.logger.Info("Orientation changed", "previous", previous, "orientation", reading, "listeners", len(targets))

	if m.hooks.OnOrientationChange != nil {
		m.hooks.OnOrientationChange(ctx, &event)
	}
	for _, fn := range targets {
		fn(ctx, event)
	}
	return true
}

// Run primes the monitor and then polls the source on every tick until ctx
// is cancelled. Cancellation is the normal way to stop and returns nil.
func (m *Monitor) Run(ctx context.Context) error {
	if m.source == nil {
		<-ctx.Done()
		return nil
	}

	m.Prime(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Debug("Polling started", "interval", m.interval)
	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("Polling stopped")
			return nil
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}
