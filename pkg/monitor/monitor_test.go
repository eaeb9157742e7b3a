package monitor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/morph/pkg/domain"
	"github.com/aretw0/morph/pkg/monitor"
	"github.com/aretw0/morph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	P = domain.OrientationPortrait
	L = domain.OrientationLandscape
	U = domain.OrientationUnknown
)

// recorder counts events per class.
type recorder struct {
	mu     sync.Mutex
	events []domain.OrientationEvent
}

func (r *recorder) listen(_ context.Context, e domain.OrientationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(o domain.Orientation) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Current == o {
			n++
		}
	}
	return n
}

func feed(m *monitor.Monitor, readings ...domain.Orientation) {
	for _, r := range readings {
		m.Observe(context.Background(), r)
	}
}

func TestMonitor_Debounce(t *testing.T) {
	m := monitor.New(nil)
	var portrait, landscape recorder
	m.OnPortrait(portrait.listen)
	m.OnLandscape(landscape.listen)

	feed(m, P, P, P, L)

	assert.Equal(t, 1, landscape.count(L), "exactly one landscape event")
	assert.Equal(t, 1, portrait.count(P), "leaving the uninitialized state fires once")
	assert.Equal(t, L, m.Current())
}

func TestMonitor_DebounceAcrossManyRepeats(t *testing.T) {
	m := monitor.New(nil)
	var all recorder
	m.Subscribe(all.listen)

	feed(m, L, L, P, P, P, P, L, L, L, P)

	require.Len(t, all.events, 4)
	assert.Equal(t, []domain.Orientation{L, P, L, P}, []domain.Orientation{
		all.events[0].Current, all.events[1].Current, all.events[2].Current, all.events[3].Current,
	})
	assert.Equal(t, L, all.events[1].Previous)
}

func TestMonitor_UnknownIsInert(t *testing.T) {
	m := monitor.New(nil)
	var all recorder
	m.Subscribe(all.listen)

	feed(m, P)
	all.events = nil

	feed(m, U, U)
	assert.Empty(t, all.events, "unknown never fires")
	assert.Equal(t, P, m.Current(), "unknown never commits")

	feed(m, L)
	require.Len(t, all.events, 1)
	assert.Equal(t, L, all.events[0].Current)
	assert.Equal(t, P, all.events[0].Previous, "unknown readings do not become the previous class")
}

func TestMonitor_UnknownDoesNotSuppressReturn(t *testing.T) {
	m := monitor.New(nil)
	var all recorder
	m.Subscribe(all.listen)

	// P, U, P must not fire a second portrait event.
	feed(m, P, U, P)
	assert.Len(t, all.events, 1)
}

func TestMonitor_NeverInitialized(t *testing.T) {
	src := ports.SourceFunc(func(context.Context) domain.Orientation { return U })
	m := monitor.New(src, monitor.WithDefault(L))
	var all recorder
	m.Subscribe(all.listen)

	ctx := context.Background()
	assert.Equal(t, U, m.Prime(ctx))
	for i := 0; i < 10; i++ {
		assert.False(t, m.Poll(ctx))
	}

	assert.False(t, m.Initialized())
	assert.Empty(t, all.events)
	assert.Equal(t, L, m.Current(), "default is reported until a commit")
	assert.False(t, m.IsPortrait())
}

func TestMonitor_PrimeIsSilent(t *testing.T) {
	reading := P
	src := ports.SourceFunc(func(context.Context) domain.Orientation { return reading })
	m := monitor.New(src)
	var all recorder
	m.Subscribe(all.listen)

	ctx := context.Background()
	m.Prime(ctx)
	assert.True(t, m.Initialized())
	assert.True(t, m.IsPortrait())
	assert.Empty(t, all.events, "startup reading is committed without an event")

	assert.False(t, m.Poll(ctx))
	reading = L
	assert.True(t, m.Poll(ctx))
	assert.Equal(t, 1, all.count(L))
}

func TestMonitor_PrimeUnknownThenFirstReadingFires(t *testing.T) {
	reading := U
	src := ports.SourceFunc(func(context.Context) domain.Orientation { return reading })
	m := monitor.New(src)
	var portrait recorder
	m.OnPortrait(portrait.listen)

	ctx := context.Background()
	m.Prime(ctx)
	reading = P
	m.Poll(ctx)

	require.Len(t, portrait.events, 1)
	assert.Equal(t, U, portrait.events[0].Previous)
}

func TestMonitor_Unsubscribe(t *testing.T) {
	m := monitor.New(nil)
	var a, b recorder
	unsubA := m.OnLandscape(a.listen)
	m.OnLandscape(b.listen)
	assert.Equal(t, 2, m.Listeners())

	unsubA()
	unsubA() // idempotent
	assert.Equal(t, 1, m.Listeners())

	feed(m, L)
	assert.Empty(t, a.events)
	assert.Len(t, b.events, 1)
}

func TestMonitor_ListenerOrder(t *testing.T) {
	m := monitor.New(nil)
	var order []string
	m.OnPortrait(func(context.Context, domain.OrientationEvent) { order = append(order, "first") })
	m.Subscribe(func(context.Context, domain.OrientationEvent) { order = append(order, "second") })
	m.OnPortrait(func(context.Context, domain.OrientationEvent) { order = append(order, "third") })

	feed(m, P)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestMonitor_Hooks(t *testing.T) {
	var changes, ignored int
	m := monitor.New(nil, monitor.WithLifecycleHooks(domain.LifecycleHooks{
		OnOrientationChange: func(context.Context, *domain.OrientationEvent) { changes++ },
		OnReadingIgnored:    func(context.Context, *domain.ReadingEvent) { ignored++ },
	}))

	feed(m, U, P, U, P, L)
	assert.Equal(t, 2, changes)
	assert.Equal(t, 2, ignored)
}

func TestMonitor_Run(t *testing.T) {
	var mu sync.Mutex
	readings := []domain.Orientation{P, P, U, L, L}
	i := 0
	src := ports.SourceFunc(func(context.Context) domain.Orientation {
		mu.Lock()
		defer mu.Unlock()
		r := readings[i]
		if i < len(readings)-1 {
			i++
		}
		return r
	})

	m := monitor.New(src, monitor.WithInterval(5*time.Millisecond))
	assert.Equal(t, 5*time.Millisecond, m.Interval())

	var all recorder
	m.Subscribe(all.listen)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	assert.Eventually(t, func() bool { return all.count(L) == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	assert.Equal(t, 0, all.count(P), "the primed portrait reading is silent")
	assert.Equal(t, L, m.Current())
}

func TestMonitor_DefaultInterval(t *testing.T) {
	m := monitor.New(nil, monitor.WithInterval(0))
	assert.Equal(t, monitor.DefaultInterval, m.Interval())
}

func TestMonitor_ConcurrentReadingsDispatchInCommitOrder(t *testing.T) {
	ctx := context.Background()
	m := monitor.New(nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var seen []domain.Orientation
	m.OnLandscape(func(context.Context, domain.OrientationEvent) {
		close(entered)
		<-release
		mu.Lock()
		seen = append(seen, L)
		mu.Unlock()
	})
	m.OnPortrait(func(context.Context, domain.OrientationEvent) {
		mu.Lock()
		seen = append(seen, P)
		mu.Unlock()
	})

	first := make(chan bool, 1)
	go func() { first <- m.Observe(ctx, L) }()
	<-entered

	second := make(chan bool, 1)
	go func() { second <- m.Observe(ctx, P) }()

	select {
	case <-second:
		t.Fatal("second reading was processed while the first was still dispatching")
	case <-time.After(30 * time.Millisecond):
	}
	assert.Equal(t, L, m.Current(), "queued reading is not committed yet")

	close(release)
	assert.True(t, <-first)
	assert.True(t, <-second)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.Orientation{L, P}, seen)
	assert.Equal(t, P, m.Current())
}
