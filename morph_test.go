package morph_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/morph"
	"github.com/aretw0/morph/pkg/adapters/memory"
	"github.com/aretw0/morph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresResolver(t *testing.T) {
	_, err := morph.New(nil, nil)
	assert.ErrorIs(t, err, morph.ErrNoResolver)
}

func TestEngine_Defaults(t *testing.T) {
	eng, err := morph.New(nil, memory.NewScene(), morph.WithDefaultOrientation(domain.OrientationLandscape))
	require.NoError(t, err)

	assert.Equal(t, domain.OrientationLandscape, eng.Current())
	assert.False(t, eng.Monitor().Initialized())
	assert.Equal(t, 500*time.Millisecond, eng.Monitor().Interval())
	assert.Empty(t, eng.Entries())
}

func TestEngine_SeededEntriesKeepOrder(t *testing.T) {
	seed := domain.Entry{ElementID: "footer"}
	seed.Layouts.Set(domain.OrientationPortrait, domain.Snapshot{Pivot: domain.Vec2{X: 1}})

	eng, err := morph.New(nil, memory.NewScene(),
		morph.WithEntries([]domain.Entry{seed}),
		morph.WithElements("header", "footer"),
	)
	require.NoError(t, err)

	entries := eng.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "footer", entries[0].ElementID)
	assert.True(t, entries[0].Layouts.Has(domain.OrientationPortrait))
	assert.Equal(t, "header", entries[1].ElementID)
}

func TestEngine_ObserveDrivesApply(t *testing.T) {
	ctx := context.Background()
	header := memory.NewElement("header", "Header", domain.Snapshot{})
	scene := memory.NewScene(header)

	var transitions []domain.Orientation
	eng, err := morph.New(nil, scene,
		morph.WithElements("header"),
		morph.WithLifecycleHooks(domain.LifecycleHooks{
			OnOrientationChange: func(_ context.Context, e *domain.OrientationEvent) {
				transitions = append(transitions, e.Current)
			},
		}),
	)
	require.NoError(t, err)
	require.NoError(t, eng.Activate())
	defer eng.Deactivate()

	tall := domain.Snapshot{SizeDelta: domain.Vec2{X: 320, Y: 80}}
	wide := domain.Snapshot{SizeDelta: domain.Vec2{X: 800, Y: 40}}

	require.NoError(t, header.Restore(tall))
	require.NoError(t, eng.Capture(ctx, "header", domain.OrientationPortrait))
	require.NoError(t, header.Restore(wide))
	require.NoError(t, eng.Capture(ctx, "header", domain.OrientationLandscape))

	assert.True(t, eng.Observe(ctx, domain.OrientationPortrait))
	assert.Equal(t, tall, header.Geometry())
	assert.False(t, eng.Observe(ctx, domain.OrientationPortrait))
	assert.False(t, eng.Observe(ctx, domain.OrientationUnknown))

	assert.True(t, eng.Observe(ctx, domain.OrientationLandscape))
	assert.Equal(t, wide, header.Geometry())
	assert.Equal(t, []domain.Orientation{domain.OrientationPortrait, domain.OrientationLandscape}, transitions)

	eng.Clear()
	assert.Empty(t, eng.Entries())
}

func TestEngine_RunPollsAndDetaches(t *testing.T) {
	header := memory.NewElement("header", "Header", domain.Snapshot{})
	scene := memory.NewScene(header)
	source := memory.NewStaticSource(domain.OrientationPortrait)

	eng, err := morph.New(source, scene,
		morph.WithElements("header"),
		morph.WithPollInterval(5*time.Millisecond),
	)
	require.NoError(t, err)

	wide := domain.Snapshot{LocalScale: domain.Vec3{X: 2, Y: 2, Z: 1}}
	require.NoError(t, header.Restore(wide))
	report := eng.CaptureAll(context.Background(), domain.OrientationLandscape)
	require.Equal(t, []string{"header"}, report.Elements)
	require.NoError(t, header.Restore(domain.Snapshot{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	require.Eventually(t, func() bool { return eng.Monitor().Initialized() }, time.Second, time.Millisecond)
	assert.Equal(t, domain.Snapshot{}, header.Geometry(), "initial reading commits silently")

	source.Set(domain.OrientationLandscape)
	require.Eventually(t, func() bool { return header.Geometry() == wide }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, eng.Switchboard().Active())
	assert.Equal(t, 0, eng.Monitor().Listeners())
}
