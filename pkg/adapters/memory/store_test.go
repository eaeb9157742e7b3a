package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/morph/pkg/adapters/memory"
	"github.com/aretw0/morph/pkg/domain"
	"github.com/aretw0/morph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunLayoutStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	e := domain.Entry{ElementID: "a"}
	e.Layouts.Set(domain.OrientationPortrait, domain.Snapshot{Pivot: domain.Vec2{X: 0.5}})
	entries := []domain.Entry{e}
	require.NoError(t, store.Save(ctx, "k", entries))

	// Mutating the caller's copy must not leak into the store.
	entries[0].Layouts[0].Pivot.X = 9

	loaded, err := store.Load(ctx, "k")
	require.NoError(t, err)
	got, _ := loaded[0].Layouts.Get(domain.OrientationPortrait)
	assert.Equal(t, 0.5, got.Pivot.X)
}
