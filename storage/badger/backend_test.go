package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
	assert.False(t, backend.ReadOnly())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := OpenBackend(file, false)
	assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
}

func TestOpenBackend_ReadOnlyMissingStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	_, err := OpenBackend(dir, false, WithReadOnly())
	require.ErrorIs(t, err, storage.ErrStoreUnavailable)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "read-only open must not create the store")
}

func TestOpenBackend_ReadOnlyExistingStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewRepository(dir)
	require.NoError(t, err)
	_, err = repo.AddRecipes(ctx, &core.Recipe{Title: "Rice", Ingredients: []core.Ingredient{{Name: "rice"}}})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	ro, err := NewRepository(dir, WithReadOnly())
	require.NoError(t, err)
	defer ro.Close()

	count, err := ro.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = ro.AddRecipes(ctx, &core.Recipe{Title: "Beans"})
	assert.ErrorIs(t, err, storage.ErrReadOnly)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	// Closing twice is harmless
	require.NoError(t, backend.Close())
}

func TestWithTx_ClosedBackend(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	require.NoError(t, backend.Close())
	defer repo.Close()

	_, err = repo.AllIDs(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
