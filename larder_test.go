package larder

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/search"
	"github.com/poiesic/larder/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = `{"name":"Garlic Noodles","ingredient_parts":["noodles","garlic","butter"],"total_time":"PT15M"}
{"name":"Tomato Salad","ingredient_parts":["tomato","basil"],"instructions":["Slice.","Dress."]}
`

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NotNil(t, db.RecipeRepository())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
		assert.Nil(t, db)
	})

	t.Run("read-only requires existing store", func(t *testing.T) {
		db, err := NewDatabase(filepath.Join(t.TempDir(), "missing"), WithReadOnly())
		assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, db.Close())
}

func TestDatabase_CloseReportsRepositoryError(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	_, err = db.RecipeRepository().AddRecipes(context.Background(), &core.Recipe{
		Title:       "Garlic Noodles",
		Ingredients: []core.Ingredient{{Name: "noodles"}},
	})
	require.NoError(t, err)

	// Releasing the ID sequence needs an open store
	require.NoError(t, db.backend.Close())
	assert.Error(t, db.Close())
	assert.True(t, db.backend.IsClosed())
}

func TestDatabase_LoadThenSearch(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "store")

	db, err := NewDatabase(dir)
	require.NoError(t, err)

	loader, err := db.NewLoader()
	require.NoError(t, err)
	stats, err := loader.Load(ctx, strings.NewReader(source))
	loader.Release()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Stored)
	require.NoError(t, db.Close())

	ro, err := NewDatabase(dir, WithReadOnly())
	require.NoError(t, err)
	defer ro.Close()

	_, err = ro.NewLoader()
	assert.ErrorIs(t, err, storage.ErrReadOnly)

	searcher, err := ro.NewSearcher()
	require.NoError(t, err)
	result, err := searcher.Search(ctx, &search.Request{Keyword: "garlic"})
	require.NoError(t, err)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "Garlic Noodles", result.Recipes[0].Title)
}

func TestDatabase_InMemory(t *testing.T) {
	db, err := NewDatabase("", WithInMemory(), WithLogger(nil))
	require.NoError(t, err)
	defer db.Close()

	count, err := db.RecipeRepository().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
