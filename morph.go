package morph

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/morph/internal/logging"
	"github.com/aretw0/morph/pkg/domain"
	"github.com/aretw0/morph/pkg/monitor"
	"github.com/aretw0/morph/pkg/ports"
	"github.com/aretw0/morph/pkg/switchboard"
)

// Version is the library release.
const Version = "0.3.0"

// ErrNoResolver is returned by New when no ElementResolver is provided.
var ErrNoResolver = errors.New("morph: element resolver is required")

// Engine is the high-level entry point for the morph library.
// It owns one orientation monitor and one layout switchboard wired to it.
type Engine struct {
	monitor *monitor.Monitor
	board   *switchboard.Switchboard

	interval time.Duration
	fallback domain.Orientation
	elements []string
	entries  []domain.Entry
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks on both the monitor and the switchboard.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPollInterval sets how often the orientation source is polled.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.interval = d
	}
}

// WithDefaultOrientation sets the class reported before the first reading commits.
func WithDefaultOrientation(o domain.Orientation) Option {
	return func(e *Engine) {
		e.fallback = o
	}
}

// WithElements sets the ordered list of managed element IDs.
func WithElements(ids ...string) Option {
	return func(e *Engine) {
		e.elements = append(e.elements, ids...)
	}
}

// WithEntries seeds the layout registry, typically from a LayoutStore.
func WithEntries(entries []domain.Entry) Option {
	return func(e *Engine) {
		e.entries = entries
	}
}

// New initializes an Engine. The source may be nil when readings are pushed
// through Observe; the resolver is required.
func New(source ports.OrientationSource, resolver ports.ElementResolver, opts ...Option) (*Engine, error) {
	if resolver == nil {
		return nil, ErrNoResolver
	}

	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.monitor = monitor.New(source,
		monitor.WithInterval(eng.interval),
		monitor.WithDefault(eng.fallback),
		monitor.WithLogger(eng.logger),
		monitor.WithLifecycleHooks(eng.hooks),
	)

	boardOpts := []switchboard.Option{
		switchboard.WithLogger(eng.logger),
		switchboard.WithLifecycleHooks(eng.hooks),
	}
	if eng.entries != nil {
		boardOpts = append(boardOpts, switchboard.WithEntries(eng.entries))
	}
	boardOpts = append(boardOpts, switchboard.WithElements(eng.elements...))
	eng.board = switchboard.New(resolver, boardOpts...)

	return eng, nil
}

// Run activates the switchboard and polls the orientation source until ctx
// is cancelled. The switchboard is detached on every exit path.
func (e *Engine) Run(ctx context.Context) error {
	release, err := e.board.Bind(e.monitor)
	if err != nil {
		return err
	}
	defer release()

	e.logger.Info("Engine started", "interval", e.monitor.Interval(), "elements", len(e.board.Elements()))
	err = e.monitor.Run(ctx)
	e.logger.Info("Engine stopped")
	return err
}

// Activate attaches the switchboard to the monitor without starting the poll loop.
// Use it when readings are pushed through Observe.
func (e *Engine) Activate() error {
	return e.board.Activate(e.monitor)
}

// Deactivate detaches the switchboard from the monitor.
func (e *Engine) Deactivate() {
	e.board.Deactivate()
}

// Capture stores the element's current geometry for orientation o.
func (e *Engine) Capture(ctx context.Context, id string, o domain.Orientation) error {
	return e.board.Capture(ctx, id, o)
}

// CaptureAll captures every managed element for orientation o.
func (e *Engine) CaptureAll(ctx context.Context, o domain.Orientation) domain.Report {
	return e.board.CaptureAll(ctx, o)
}

// Apply writes the stored layout for o onto every registered element.
func (e *Engine) Apply(ctx context.Context, o domain.Orientation) domain.Report {
	return e.board.Apply(ctx, o)
}

// Clear empties the layout registry.
func (e *Engine) Clear() {
	e.board.Clear()
}

// Entries returns a copy of the layout registry.
func (e *Engine) Entries() []domain.Entry {
	return e.board.Entries()
}

// Current returns the committed orientation class.
func (e *Engine) Current() domain.Orientation {
	return e.monitor.Current()
}

// Observe feeds a pushed reading to the monitor. It reports whether a transition fired.
func (e *Engine) Observe(ctx context.Context, reading domain.Orientation) bool {
	return e.monitor.Observe(ctx, reading)
}

// Monitor returns the underlying orientation monitor.
func (e *Engine) Monitor() *monitor.Monitor {
	return e.monitor
}

// Switchboard returns the underlying layout switchboard.
func (e *Engine) Switchboard() *switchboard.Switchboard {
	return e.board
}
