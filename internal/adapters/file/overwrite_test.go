package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/morph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareOverwrite_KeepsFileOutsideWindows(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "lobby.json")
	require.NoError(t, os.WriteFile(dest, []byte(`{}`), 0644))

	for _, goos := range []string{"linux", "darwin", "freebsd"} {
		require.NoError(t, prepareOverwrite(goos, dest))
		_, err := os.Stat(dest)
		assert.NoError(t, err, "%s: existing layout file must survive until the rename", goos)
	}

	require.NoError(t, prepareOverwrite("windows", dest))
	_, err := os.Stat(dest)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, prepareOverwrite("windows", dest), "missing destination is fine")
}

func TestSave_OverwriteReplacesContent(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	first := domain.Entry{ElementID: "hud"}
	first.Layouts.Set(domain.OrientationPortrait, domain.Snapshot{Pivot: domain.Vec2{X: 1}})
	second := domain.Entry{ElementID: "hud"}
	second.Layouts.Set(domain.OrientationLandscape, domain.Snapshot{Pivot: domain.Vec2{Y: 1}})

	require.NoError(t, store.Save(ctx, "lobby", []domain.Entry{first}))
	require.NoError(t, store.Save(ctx, "lobby", []domain.Entry{second}))

	got, err := store.Load(ctx, "lobby")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Layouts.Has(domain.OrientationPortrait))
	assert.True(t, got[0].Layouts.Has(domain.OrientationLandscape))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1, "no temp files left behind")
}
