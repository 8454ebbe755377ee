package search

import (
	"context"
	"testing"

	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/storage/badger"
	"github.com/stretchr/testify/require"
)

// curry and rice are the two-recipe corpus used across the ranking tests.
func curry() core.Recipe {
	return core.Recipe{
		ID:          1,
		Title:       "Spicy Chicken Curry",
		Ingredients: []core.Ingredient{{Name: "chicken"}, {Name: "chili"}},
		CuisineTags: []string{"indian"},
		Rating:      4.5,
		TimeMinutes: 40,
		Budget:      core.BudgetMedium,
	}
}

func rice() core.Recipe {
	return core.Recipe{
		ID:          2,
		Title:       "Plain Rice",
		Ingredients: []core.Ingredient{{Name: "rice"}},
		CuisineTags: []string{},
		Rating:      3.0,
		TimeMinutes: 20,
		Budget:      core.BudgetLow,
	}
}

func corpus() []core.Recipe {
	return []core.Recipe{curry(), rice()}
}

func ids(recipes []core.Recipe) []core.ID {
	out := make([]core.ID, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID
	}
	return out
}

// newSeededRepo loads recipes into an in-memory repository. IDs are
// reassigned by the store in input order, starting at 1.
func newSeededRepo(t *testing.T, recipes ...core.Recipe) *badger.RecipeRepository {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	ptrs := make([]*core.Recipe, len(recipes))
	for i := range recipes {
		r := recipes[i]
		r.ID = 0
		ptrs[i] = &r
	}
	added, err := repo.AddRecipes(context.Background(), ptrs...)
	require.NoError(t, err)
	require.Len(t, added, len(recipes))
	for i, r := range added {
		require.Equal(t, core.ID(i+1), r.ID, "fixture relies on sequential IDs")
	}
	return repo
}
