package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/morph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLayoutStoreContract runs a suite of tests to verify that a LayoutStore implementation
// adheres to the defined interface contract.
func RunLayoutStoreContract(t *testing.T, store LayoutStore) {
	ctx := context.Background()
	key := "contract-test-layout-" + time.Now().Format("20060102150405")

	sample := func() []domain.Entry {
		header := domain.Entry{ElementID: "header", Name: "Header"}
		header.Layouts.Set(domain.OrientationPortrait, domain.Snapshot{
			LocalPosition: domain.Vec3{X: 0, Y: 120},
			LocalScale:    domain.Vec3{X: 1, Y: 1, Z: 1},
			SizeDelta:     domain.Vec2{X: 1080, Y: 200},
			AnchorMin:     domain.Vec2{X: 0, Y: 1},
			AnchorMax:     domain.Vec2{X: 1, Y: 1},
			Pivot:         domain.Vec2{X: 0.5, Y: 1},
		})
		footer := domain.Entry{ElementID: "footer"}
		footer.Layouts.Set(domain.OrientationLandscape, domain.Snapshot{
			LocalScale: domain.Vec3{X: 0.5, Y: 0.5, Z: 1},
			Pivot:      domain.Vec2{X: 0.5, Y: 0},
		})
		return []domain.Entry{header, footer}
	}

	t.Run("Save and Load", func(t *testing.T) {
		entries := sample()

		err := store.Save(ctx, key, entries)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded, 2)
		assert.Equal(t, "header", loaded[0].ElementID, "order must be preserved")
		assert.Equal(t, entries[0], loaded[0])
		assert.Equal(t, entries[1], loaded[1])
		assert.False(t, loaded[1].Layouts.Has(domain.OrientationPortrait), "empty slots stay empty")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, sample()))
		require.NoError(t, store.Save(ctx, key, sample()[:1]))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Len(t, loaded, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrLayoutNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, key, sample())
		require.NoError(t, err)

		err = store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrLayoutNotFound, "Load after Delete should return ErrLayoutNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		_ = store.Save(ctx, id1, sample())
		_ = store.Save(ctx, id2, sample())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}
