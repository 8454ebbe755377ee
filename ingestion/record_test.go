package ingestion

import (
	"testing"

	"github.com/poiesic/larder/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"PT1H30M", 90, true},
		{"PT45M", 45, true},
		{"PT2H", 120, true},
		{"pt10m", 10, true},
		{"", 0, false},
		{"NA", 0, false},
		{"PT0M", 0, false},
		{"soon", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseDuration(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordMinutes(t *testing.T) {
	assert.Equal(t, 90, (&Record{TotalTime: "PT1H30M"}).minutes())
	assert.Equal(t, 25, (&Record{CookTime: "PT15M", PrepTime: "PT10M"}).minutes())
	assert.Equal(t, DefaultTimeMinutes, (&Record{}).minutes())
	assert.Equal(t, MinTimeMinutes, (&Record{TotalTime: "PT1M"}).minutes())
	assert.Equal(t, MaxTimeMinutes, (&Record{TotalTime: "PT24H"}).minutes())
}

func TestRecordSkipped(t *testing.T) {
	assert.True(t, (&Record{}).skipped())
	assert.True(t, (&Record{Name: "   "}).skipped())
	assert.True(t, (&Record{Name: "Boiling Water"}).skipped())
	assert.True(t, (&Record{Name: "AIR"}).skipped())
	assert.False(t, (&Record{Name: "Water Chestnut Salad"}).skipped())
}

func TestRecordToRecipe(t *testing.T) {
	rec := &Record{
		Name:                 "  Peanut Noodles ",
		Category:             "Asian",
		Keywords:             []string{"Spicy", "Vegan"},
		Images:               []string{"not-a-url", "https://img.example/noodles.jpg"},
		IngredientParts:      []string{"noodles", "peanut butter", "chili oil"},
		IngredientQuantities: []string{"200 g", " 2 tbsp "},
		Instructions:         []string{"Boil noodles.", "", "Toss with sauce."},
		TotalTime:            "PT20M",
		Calories:             floatPtr(612.7),
		Rating:               floatPtr(4.66),
		ReviewCount:          core.IntPtr(12),
	}

	recipe := rec.toRecipe()
	require.NoError(t, core.ValidateRecipe(recipe))

	assert.Equal(t, "Peanut Noodles", recipe.Title)
	assert.Equal(t, "https://img.example/noodles.jpg", recipe.Image)
	assert.Equal(t, "20-min recipe", recipe.Description)
	assert.Equal(t, []string{"asian"}, recipe.CuisineTags)
	assert.Equal(t, []string{"vegan"}, recipe.DietTags)
	assert.Equal(t, []string{"peanuts", "milk", "wheat"}, recipe.AllergenTags)
	assert.Equal(t, 20, recipe.TimeMinutes)
	assert.Equal(t, core.SpiceMild, recipe.SpiceLevel)
	assert.Equal(t, core.DifficultyEasy, recipe.Difficulty)
	assert.Equal(t, core.BudgetHigh, recipe.Budget)
	require.NotNil(t, recipe.Calories)
	assert.Equal(t, 612, *recipe.Calories)
	assert.Equal(t, 4.7, recipe.Rating)
	require.NotNil(t, recipe.ReviewCount)
	assert.Equal(t, 12, *recipe.ReviewCount)
	assert.Equal(t, []core.Ingredient{
		{Name: "noodles", Amount: "200 g"},
		{Name: "peanut butter", Amount: "2 tbsp"},
		{Name: "chili oil", Amount: ""},
	}, recipe.Ingredients)
	assert.Equal(t, []string{"Boil noodles.", "Toss with sauce."}, recipe.Steps)
	assert.Equal(t, DefaultServings, recipe.Servings)
	assert.Equal(t, float64(94+2), recipe.Popularity)
}

func TestRecordToRecipeDefaults(t *testing.T) {
	recipe := (&Record{Name: "Plain Rice", Description: "Fluffy rice.", Servings: core.IntPtr(4)}).toRecipe()

	assert.Equal(t, DefaultRating, recipe.Rating)
	assert.Nil(t, recipe.Calories)
	assert.Nil(t, recipe.ReviewCount)
	assert.Equal(t, "Fluffy rice.", recipe.Description)
	assert.Equal(t, DefaultTimeMinutes, recipe.TimeMinutes)
	assert.Equal(t, 4, recipe.Servings)
	assert.Equal(t, core.BudgetLow, recipe.Budget)
	assert.Equal(t, float64(80), recipe.Popularity)
	assert.NotNil(t, recipe.Ingredients)
	assert.NotNil(t, recipe.Steps)
}

func TestRecordToRecipeClamps(t *testing.T) {
	parts := make([]string, 50)
	steps := make([]string, 30)
	for i := range parts {
		parts[i] = "item"
	}
	for i := range steps {
		steps[i] = "stir"
	}
	rec := &Record{
		Name:            "Everything Stew",
		IngredientParts: parts,
		Instructions:    steps,
		Rating:          floatPtr(7),
		Calories:        floatPtr(-5),
	}
	recipe := rec.toRecipe()

	assert.Len(t, recipe.Ingredients, MaxIngredients)
	assert.Len(t, recipe.Steps, MaxSteps)
	assert.Equal(t, 5.0, recipe.Rating)
	assert.Nil(t, recipe.Calories)
	assert.Equal(t, core.DifficultyHard, recipe.Difficulty)
	assert.Equal(t, float64(100+MaxSteps), recipe.Popularity)
}
