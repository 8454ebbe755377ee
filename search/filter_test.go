package search

import (
	"testing"

	"github.com/poiesic/larder/core"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	untimed := core.Recipe{ID: 3, Title: "Mystery Stew", Ingredients: []core.Ingredient{{Name: "beef"}}}
	vegan := core.Recipe{
		ID:          4,
		Title:       "Tofu Bowl",
		DietTags:    []string{"Vegan"},
		CuisineTags: []string{"Japanese"},
		Difficulty:  core.DifficultyEasy,
		SpiceLevel:  core.SpiceHot,
		Calories:    core.IntPtr(450),
		Ingredients: []core.Ingredient{{Name: "Firm Tofu"}, {Name: "rice"}},
	}
	recipes := append(corpus(), untimed, vegan)

	tests := []struct {
		name    string
		filters Filters
		prefs   Preferences
		want    []core.ID
	}{
		{name: "no filters keeps everything in order", want: []core.ID{1, 2, 3, 4}},
		{name: "quick keeps short and untimed recipes", filters: Filters{Time: core.TimeQuick}, want: []core.ID{2, 3, 4}},
		{name: "medium ceiling", filters: Filters{Time: core.TimeMedium}, want: []core.ID{1, 2, 3, 4}},
		{name: "unknown time tier is unbounded", filters: Filters{Time: "weekend"}, want: []core.ID{1, 2, 3, 4}},
		{name: "budget exact", filters: Filters{Budget: core.BudgetLow}, want: []core.ID{2}},
		{name: "cuisine passes untagged recipes", filters: Filters{Cuisines: []string{"INDIAN"}}, want: []core.ID{1, 2, 3}},
		{name: "diet rejects untagged recipes", filters: Filters{Diets: []string{" vegan "}}, want: []core.ID{4}},
		{name: "blank diet entries are inactive", filters: Filters{Diets: []string{" "}}, want: []core.ID{1, 2, 3, 4}},
		{name: "difficulty", filters: Filters{Difficulty: core.DifficultyEasy}, want: []core.ID{4}},
		{name: "calories min treats missing as zero", filters: Filters{CaloriesMin: core.IntPtr(1)}, want: []core.ID{4}},
		{name: "calories max treats missing as ceiling", filters: Filters{CaloriesMax: core.IntPtr(500)}, want: []core.ID{4}},
		{name: "calories max above ceiling", filters: Filters{CaloriesMax: core.IntPtr(10000)}, want: []core.ID{1, 2, 3, 4}},
		{name: "include ingredient substring", filters: Filters{IncludeIngredient: " TOFU"}, want: []core.ID{4}},
		{name: "exclude chicken", filters: Filters{ExcludeIngredients: []string{"chicken"}}, want: []core.ID{2, 3, 4}},
		{name: "disliked ingredients exclude", prefs: Preferences{DislikedIngredients: []string{"Rice"}}, want: []core.ID{1, 3}},
		{
			name:    "exclusions and dislikes combine",
			filters: Filters{ExcludeIngredients: []string{"beef"}},
			prefs:   Preferences{DislikedIngredients: []string{"chick"}},
			want:    []core.ID{2, 4},
		},
		{
			name:    "include and exclude ingredients together",
			filters: Filters{IncludeIngredient: "rice", ExcludeIngredients: []string{"TOFU"}},
			want:    []core.ID{2},
		},
		{name: "max spice", filters: Filters{MaxSpice: core.IntPtr(core.SpiceMild)}, want: []core.ID{1, 2, 3}},
		{
			name:    "filters combine",
			filters: Filters{Time: core.TimeQuick, IncludeIngredient: "rice"},
			want:    []core.ID{2, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(recipes, tt.filters, tt.prefs, nil)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	recipes := corpus()
	_ = Filter(recipes, Filters{ExcludeIngredients: []string{"chicken"}}, Preferences{}, nil)
	assert.Equal(t, []core.ID{1, 2}, ids(recipes))
}

func TestFilter_CustomCeilings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeCeilings[core.TimeQuick] = 45
	got := Filter(corpus(), Filters{Time: core.TimeQuick}, Preferences{}, &cfg)
	assert.Equal(t, []core.ID{1, 2}, ids(got))
}

func TestFilter_TagForms(t *testing.T) {
	falafel := core.Recipe{ID: 1, Title: "Falafel", CuisineTags: []string{"Middle Eastern"}, DietTags: []string{"gluten_free"}}
	toast := core.Recipe{ID: 2, Title: "Toast"}
	recipes := []core.Recipe{falafel, toast}

	for _, c := range []string{"middle eastern", "middle_eastern", "Middle  Eastern", " MIDDLE_EASTERN "} {
		t.Run("cuisine "+c, func(t *testing.T) {
			got := Filter(recipes, Filters{Cuisines: []string{c}}, Preferences{}, nil)
			assert.Equal(t, []core.ID{1, 2}, ids(got))
		})
	}
	for _, d := range []string{"gluten free", "gluten_free", "Gluten  Free"} {
		t.Run("diet "+d, func(t *testing.T) {
			got := Filter(recipes, Filters{Diets: []string{d}}, Preferences{}, nil)
			assert.Equal(t, []core.ID{1}, ids(got))
		})
	}
}
