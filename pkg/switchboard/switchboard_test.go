package switchboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/morph/pkg/adapters/memory"
	"github.com/aretw0/morph/pkg/domain"
	"github.com/aretw0/morph/pkg/monitor"
	"github.com/aretw0/morph/pkg/switchboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	P = domain.OrientationPortrait
	L = domain.OrientationLandscape
)

func geometry(x, y, scale float64) domain.Snapshot {
	return domain.Snapshot{
		LocalPosition:    domain.Vec3{X: x, Y: y},
		LocalScale:       domain.Vec3{X: scale, Y: scale, Z: 1},
		SizeDelta:        domain.Vec2{X: 100 * scale, Y: 40 * scale},
		AnchorMin:        domain.Vec2{X: 0.5, Y: 0.5},
		AnchorMax:        domain.Vec2{X: 0.5, Y: 0.5},
		AnchoredPosition: domain.Vec2{X: x, Y: y},
		Pivot:            domain.Vec2{X: 0.5, Y: 0.5},
	}
}

func setup(ids ...string) (*memory.Scene, *switchboard.Switchboard) {
	scene := memory.NewScene()
	for _, id := range ids {
		scene.Add(memory.NewElement(id, id, domain.Snapshot{}))
	}
	return scene, switchboard.New(scene, switchboard.WithElements(ids...))
}

func element(t *testing.T, scene *memory.Scene, id string) *memory.Element {
	t.Helper()
	el, ok := scene.Element(id)
	require.True(t, ok, "element %s", id)
	return el
}

func TestCaptureApply_RoundTrip(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("a")
	a := element(t, scene, "a")

	g := geometry(10, 20, 1)
	g.AnchorMin = domain.Vec2{X: 0, Y: 0}
	g.AnchorMax = domain.Vec2{X: 1, Y: 0.25}
	require.NoError(t, a.Restore(g))
	require.NoError(t, board.Capture(ctx, "a", P))

	// Mutate every field so residue would show.
	require.NoError(t, a.Restore(geometry(-500, 300, 3)))

	report := board.Apply(ctx, P)
	assert.Equal(t, []string{"a"}, report.Elements)
	assert.Equal(t, g, a.Geometry(), "all seven fields restored exactly")
}

func TestCapture_DoesNotTouchElement(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("a")
	a := element(t, scene, "a")
	g := geometry(1, 2, 1)
	require.NoError(t, a.Restore(g))

	require.NoError(t, board.Capture(ctx, "a", L))
	assert.Equal(t, g, a.Geometry())
}

func TestApply_PartialCoverage(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("e")
	e := element(t, scene, "e")

	require.NoError(t, e.Restore(geometry(5, 5, 1)))
	require.NoError(t, board.Capture(ctx, "e", P))

	current := geometry(42, 42, 2)
	require.NoError(t, e.Restore(current))

	report := board.Apply(ctx, L)
	assert.Empty(t, report.Elements)
	assert.Empty(t, report.Skipped, "a missing snapshot is not a skip")
	assert.Equal(t, current, e.Geometry(), "element left unchanged, not zeroed")
}

func TestCaptureApply_IndependentElements(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("a", "b")
	a, b := element(t, scene, "a"), element(t, scene, "b")

	gb := geometry(7, 7, 1)
	require.NoError(t, b.Restore(gb))
	require.NoError(t, board.Capture(ctx, "b", P))
	before, _ := board.Entry("b")

	require.NoError(t, a.Restore(geometry(1, 1, 1)))
	require.NoError(t, board.Capture(ctx, "a", P))
	require.NoError(t, board.Capture(ctx, "a", L))

	after, _ := board.Entry("b")
	assert.Equal(t, before, after, "capturing A leaves B's snapshots alone")

	require.NoError(t, b.Restore(geometry(99, 99, 2)))
	require.NoError(t, a.Restore(geometry(3, 3, 1)))
	board.Apply(ctx, L)
	assert.Equal(t, geometry(99, 99, 2), b.Geometry(), "B has no landscape slot, so applying A's leaves B alone")
	assert.Equal(t, geometry(1, 1, 1), a.Geometry())
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("a", "b")
	board.CaptureAll(ctx, P)
	board.CaptureAll(ctx, L)

	board.Clear()
	assert.Empty(t, board.Entries())

	a := element(t, scene, "a")
	moved := geometry(8, 8, 1)
	require.NoError(t, a.Restore(moved))

	assert.Empty(t, board.Apply(ctx, P).Elements)
	assert.Empty(t, board.Apply(ctx, L).Elements)
	assert.Equal(t, moved, a.Geometry())

	// Re-capture works after clear.
	require.NoError(t, board.Capture(ctx, "a", P))
	assert.Len(t, board.Entries(), 1)
}

func TestCapture_UpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("a", "b")

	require.NoError(t, board.Capture(ctx, "b", P))
	require.NoError(t, board.Capture(ctx, "a", P))
	require.NoError(t, element(t, scene, "a").Restore(geometry(2, 2, 1)))
	require.NoError(t, board.Capture(ctx, "a", P))

	entries := board.Entries()
	require.Len(t, entries, 2, "re-capture never duplicates")
	assert.Equal(t, "a", entries[0].ElementID, "order follows the managed list")
	got, _ := entries[0].Layouts.Get(P)
	assert.Equal(t, geometry(2, 2, 1), got)
	assert.Equal(t, "a", entries[0].Name)
}

func TestCapture_UnregisteredElementIsAddedLazily(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("a")
	scene.Add(memory.NewElement("late", "Late", geometry(4, 4, 1)))

	require.NoError(t, board.Capture(ctx, "late", L))

	entries := board.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "late", entries[1].ElementID)
	assert.Equal(t, "Late", entries[1].Name)
	assert.Contains(t, board.Elements(), "late")
}

func TestCapture_Errors(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("a")

	err := board.Capture(ctx, "a", domain.OrientationUnknown)
	assert.ErrorIs(t, err, domain.ErrInvalidOrientation)

	err = board.Capture(ctx, "ghost", P)
	assert.ErrorIs(t, err, domain.ErrElementNotFound)

	scene.Detach("a")
	err = board.Capture(ctx, "a", P)
	assert.ErrorIs(t, err, domain.ErrElementInvalid)

	entry, ok := board.Entry("a")
	require.True(t, ok)
	assert.False(t, entry.Layouts.Has(P), "failed capture stores nothing")
}

func TestApply_SkipsInvalidElements(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("a", "b", "c")
	board.CaptureAll(ctx, P)

	var skipped []string
	board = switchboard.New(scene,
		switchboard.WithEntries(board.Entries()),
		switchboard.WithLifecycleHooks(domain.LifecycleHooks{
			OnSkip: func(_ context.Context, e *domain.LayoutEvent) { skipped = append(skipped, e.ElementID) },
		}),
	)

	scene.Detach("b")
	c := element(t, scene, "c")
	require.NoError(t, c.Restore(geometry(50, 50, 1)))

	report := board.Apply(ctx, P)
	assert.Equal(t, []string{"a", "c"}, report.Elements, "sweep continues past the invalid element")
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "b", report.Skipped[0].ElementID)
	assert.Equal(t, []string{"b"}, skipped)
	assert.Equal(t, domain.Snapshot{}, c.Geometry())
}

func TestCaptureAll_ReportsSkips(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("a", "b")
	scene.Detach("a")

	report := board.CaptureAll(ctx, L)
	assert.Equal(t, []string{"b"}, report.Elements)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "a", report.Skipped[0].ElementID)
}

func TestApply_UnknownIsNoop(t *testing.T) {
	_, board := setup("a")
	board.CaptureAll(context.Background(), P)
	report := board.Apply(context.Background(), domain.OrientationUnknown)
	assert.Empty(t, report.Elements)
}

func TestLoad_Deduplicates(t *testing.T) {
	_, board := setup()
	first := domain.Entry{ElementID: "x"}
	first.Layouts.Set(P, geometry(1, 1, 1))
	second := domain.Entry{ElementID: "x"}
	second.Layouts.Set(L, geometry(2, 2, 1))

	board.Load([]domain.Entry{first, {ElementID: "y"}, second, {}})

	entries := board.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "x", entries[0].ElementID)
	assert.False(t, entries[0].Layouts.Has(P), "last duplicate wins")
	assert.True(t, entries[0].Layouts.Has(L))
}

func TestActivation_Lifecycle(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("a")
	a := element(t, scene, "a")
	mon := monitor.New(nil)

	require.NoError(t, a.Restore(geometry(1, 1, 1)))
	require.NoError(t, board.Capture(ctx, "a", P))
	require.NoError(t, a.Restore(geometry(2, 2, 1)))
	require.NoError(t, board.Capture(ctx, "a", L))

	var applies int
	board = switchboard.New(scene,
		switchboard.WithEntries(board.Entries()),
		switchboard.WithLifecycleHooks(domain.LifecycleHooks{
			OnApply: func(context.Context, *domain.LayoutEvent) { applies++ },
		}),
	)

	require.NoError(t, board.Activate(mon))
	require.NoError(t, board.Activate(mon), "second activate is a no-op")
	assert.True(t, board.Active())
	assert.Equal(t, 2, mon.Listeners(), "no duplicate listeners")

	mon.Observe(ctx, P)
	assert.Equal(t, geometry(1, 1, 1), a.Geometry())
	assert.Equal(t, 1, applies, "one apply per event")

	board.Deactivate()
	board.Deactivate()
	assert.False(t, board.Active())
	assert.Equal(t, 0, mon.Listeners())

	mon.Observe(ctx, L)
	assert.Equal(t, geometry(1, 1, 1), a.Geometry(), "inactive board ignores events")

	// Re-activation cycle works and still attaches exactly once.
	require.NoError(t, board.Activate(mon))
	mon.Observe(ctx, P)
	assert.Equal(t, 2, mon.Listeners())
	assert.Equal(t, geometry(1, 1, 1), a.Geometry())
}

func TestBind_ReleasesOnEveryPath(t *testing.T) {
	_, board := setup("a")
	mon := monitor.New(nil)

	func() {
		release, err := board.Bind(mon)
		require.NoError(t, err)
		defer release()
		assert.True(t, board.Active())
	}()

	assert.False(t, board.Active())
	assert.Equal(t, 0, mon.Listeners())

	_, err := board.Bind(nil)
	assert.ErrorIs(t, err, switchboard.ErrNoNotifier)
}

func TestScenario_RotateAndBack(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("A", "B")
	a, b := element(t, scene, "A"), element(t, scene, "B")
	mon := monitor.New(nil)
	require.NoError(t, board.Activate(mon))
	defer board.Deactivate()

	portraitA, portraitB := geometry(0, 0, 1), geometry(10, 0, 1)
	landscapeA, landscapeB := geometry(0, -200, 0.75), geometry(300, 10, 0.75)

	mon.Observe(ctx, P)
	require.NoError(t, a.Restore(portraitA))
	require.NoError(t, b.Restore(portraitB))
	board.CaptureAll(ctx, P)

	require.NoError(t, a.Restore(landscapeA))
	require.NoError(t, b.Restore(landscapeB))
	board.CaptureAll(ctx, L)

	// Scramble before the simulated rotation.
	require.NoError(t, a.Restore(geometry(-1, -1, 5)))
	require.NoError(t, b.Restore(geometry(-2, -2, 5)))

	mon.Observe(ctx, L)
	assert.Equal(t, landscapeA, a.Geometry())
	assert.Equal(t, landscapeB, b.Geometry())

	mon.Observe(ctx, P)
	assert.Equal(t, portraitA, a.Geometry())
	assert.Equal(t, portraitB, b.Geometry())
}

func TestActivation_SlowListenerKeepsLayoutInStep(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("a")
	a := element(t, scene, "a")
	mon := monitor.New(nil)

	require.NoError(t, a.Restore(geometry(1, 1, 1)))
	require.NoError(t, board.Capture(ctx, "a", P))
	require.NoError(t, a.Restore(geometry(2, 2, 1)))
	require.NoError(t, board.Capture(ctx, "a", L))

	entered := make(chan struct{})
	release := make(chan struct{})
	mon.OnLandscape(func(context.Context, domain.OrientationEvent) {
		close(entered)
		<-release
	})
	require.NoError(t, board.Activate(mon))

	done := make(chan struct{})
	go func() {
		defer close(done)
		mon.Observe(ctx, L)
	}()
	<-entered

	rotated := make(chan struct{})
	go func() {
		defer close(rotated)
		mon.Observe(ctx, P)
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	<-done
	<-rotated

	assert.Equal(t, P, mon.Current())
	assert.Equal(t, geometry(1, 1, 1), a.Geometry(), "element holds the layout of the committed orientation")
}

func TestActivate_DifferentNotifierIsRejected(t *testing.T) {
	ctx := context.Background()
	scene, board := setup("a")
	a := element(t, scene, "a")
	first, second := monitor.New(nil), monitor.New(nil)

	require.NoError(t, a.Restore(geometry(3, 3, 1)))
	require.NoError(t, board.Capture(ctx, "a", L))
	require.NoError(t, a.Restore(geometry(0, 0, 1)))

	require.NoError(t, board.Activate(first))
	assert.ErrorIs(t, board.Activate(second), switchboard.ErrAlreadyActive)
	assert.Equal(t, 0, second.Listeners(), "nothing attached to the rejected notifier")

	_, err := board.Bind(second)
	assert.ErrorIs(t, err, switchboard.ErrAlreadyActive)

	second.Observe(ctx, L)
	assert.Equal(t, geometry(0, 0, 1), a.Geometry())

	board.Deactivate()
	require.NoError(t, board.Activate(second), "switching works after deactivation")
	second.Observe(ctx, P)
	second.Observe(ctx, L)
	assert.Equal(t, geometry(3, 3, 1), a.Geometry())
}
