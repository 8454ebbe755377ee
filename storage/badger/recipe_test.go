package badger

import (
	"context"
	"testing"

	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *RecipeRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func seedRecipes() []*core.Recipe {
	return []*core.Recipe{
		{
			Title:        "Chicken Tikka Masala",
			CuisineTags:  []string{"indian"},
			AllergenTags: []string{"milk"},
			TimeMinutes:  45,
			SpiceLevel:   core.SpiceMild,
			Budget:       core.BudgetMedium,
			Rating:       4.6,
			Ingredients:  []core.Ingredient{{Name: "Chicken Thighs", Amount: "500 g"}, {Name: "yogurt"}},
			Steps:        []string{"marinate", "grill"},
		},
		{
			Title:       "Garlic Chicken Stir Fry",
			CuisineTags: []string{"chinese", "Middle Eastern"},
			TimeMinutes: 20,
			Budget:      core.BudgetLow,
			Rating:      4.2,
			Ingredients: []core.Ingredient{{Name: "chicken breast"}, {Name: "garlic"}},
		},
		{
			Title:       "Lentil Soup",
			CuisineTags: []string{"middle eastern"},
			SpiceLevel:  core.SpiceHot,
			Ingredients: []core.Ingredient{{Name: "red lentils"}, {Name: "cumin"}},
		},
	}
}

func TestRecipeRepository_AddAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	added, err := repo.AddRecipes(ctx, seedRecipes()...)
	require.NoError(t, err)
	require.Len(t, added, 3)
	for _, r := range added {
		assert.NotZero(t, r.ID)
	}

	row, err := repo.GetRecipe(ctx, added[0].ID)
	require.NoError(t, err)
	got := core.Normalize(row)
	assert.Equal(t, "Chicken Tikka Masala", got.Title)
	assert.Equal(t, []string{"indian"}, got.CuisineTags)
	assert.Equal(t, core.Ingredient{Name: "Chicken Thighs", Amount: "500 g"}, got.Ingredients[0])

	_, err = repo.GetRecipe(ctx, core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRecipeRepository_AddSkipsDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := &core.Recipe{Title: "Rice", Ingredients: []core.Ingredient{{Name: "rice"}}}
	again := &core.Recipe{Title: "rice ", Ingredients: []core.Ingredient{{Name: "Rice", Amount: "1 cup"}}}

	added, err := repo.AddRecipes(ctx, first, again)
	require.NoError(t, err)
	assert.Len(t, added, 1)

	added, err = repo.AddRecipes(ctx, &core.Recipe{Title: "Rice", Ingredients: []core.Ingredient{{Name: "rice"}}})
	require.NoError(t, err)
	assert.Empty(t, added)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecipeRepository_AddRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.AddRecipes(context.Background(), &core.Recipe{Title: ""})
	assert.ErrorIs(t, err, core.ErrInvalidRecipe)
}

func TestRecipeRepository_IDsWithTerm(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	added, err := repo.AddRecipes(ctx, seedRecipes()...)
	require.NoError(t, err)
	tikka, stirFry, soup := added[0].ID, added[1].ID, added[2].ID

	tests := []struct {
		name string
		term string
		want []core.ID
	}{
		{name: "substring across names", term: "chicken", want: []core.ID{tikka, stirFry}},
		{name: "case-insensitive", term: "LENTIL", want: []core.ID{soup}},
		{name: "inner substring", term: "east", want: []core.ID{stirFry}},
		{name: "partial word", term: "yog", want: []core.ID{tikka}},
		{name: "empty term", term: "  ", want: nil},
		{name: "no match", term: "tofu", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := repo.IDsWithTerm(ctx, tt.term)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids.Sorted())
		})
	}
}

func TestRecipeRepository_IDsInIndex(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	added, err := repo.AddRecipes(ctx, seedRecipes()...)
	require.NoError(t, err)
	tikka, stirFry, soup := added[0].ID, added[1].ID, added[2].ID

	tests := []struct {
		name string
		dim  core.Dimension
		tag  string
		want []core.ID
	}{
		{name: "cuisine", dim: core.DimensionCuisine, tag: "indian", want: []core.ID{tikka}},
		{name: "tag forms fold together", dim: core.DimensionCuisine, tag: "Middle  Eastern", want: []core.ID{stirFry, soup}},
		{name: "allergen", dim: core.DimensionAllergen, tag: "milk", want: []core.ID{tikka}},
		{name: "spice none", dim: core.DimensionSpice, tag: "0", want: []core.ID{stirFry}},
		{name: "spice hot", dim: core.DimensionSpice, tag: "2", want: []core.ID{soup}},
		{name: "budget", dim: core.DimensionBudget, tag: "low", want: []core.ID{stirFry}},
		{name: "unknown tag", dim: core.DimensionCuisine, tag: "french", want: nil},
		{name: "tag prefix is not a match", dim: core.DimensionCuisine, tag: "ind", want: nil},
		{name: "empty tag", dim: core.DimensionCuisine, tag: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := repo.IDsInIndex(ctx, tt.dim, tt.tag)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids.Sorted())
		})
	}
}

func TestRecipeRepository_AllIDsAndRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	added, err := repo.AddRecipes(ctx, seedRecipes()...)
	require.NoError(t, err)

	all, err := repo.AllIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Len())

	// Unknown IDs are omitted, duplicates collapse, output is ID ascending
	rows, err := repo.RowsByIDs(ctx, added[2].ID, core.ID(9999), added[0].ID, added[2].ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, added[0].ID, rows[0].ID)
	assert.Equal(t, added[2].ID, rows[1].ID)

	rows, err = repo.RowsByIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRecipeRepository_Tags(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.AddRecipes(ctx, seedRecipes()...)
	require.NoError(t, err)

	cuisines, err := repo.Tags(ctx, core.DimensionCuisine)
	require.NoError(t, err)
	assert.Equal(t, []string{"chinese", "indian", "middle_eastern"}, cuisines)

	spice, err := repo.Tags(ctx, core.DimensionSpice)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, spice)

	empty, err := repo.Tags(ctx, core.Dimension("nope"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRecipeRepository_CanceledContext(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.AddRecipes(context.Background(), seedRecipes()...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.AllIDs(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
