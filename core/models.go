// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

// ID is the unique, stable identifier of a recipe.
// It is the only join key between the recipe rows and every index.
type ID uint64

// TimeTier is a coarse cooking-time bucket.
type TimeTier string

const (
	TimeQuick  TimeTier = "quick"
	TimeMedium TimeTier = "medium"
	TimeLong   TimeTier = "long"
)

// BudgetTier is a coarse cost bucket.
type BudgetTier string

const (
	BudgetLow    BudgetTier = "low"
	BudgetMedium BudgetTier = "medium"
	BudgetHigh   BudgetTier = "high"
)

// Difficulty is a coarse effort bucket.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Spice tiers as stored in the spice index.
const (
	SpiceNone = 0
	SpiceMild = 1
	SpiceHot  = 2
)

// Dimension names one family of membership indexes.
type Dimension string

const (
	DimensionAllergen Dimension = "allergen"
	DimensionCuisine  Dimension = "cuisine"
	DimensionSpice    Dimension = "spice"
	DimensionBudget   Dimension = "budget"
)

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Recipe is the canonical in-memory shape produced by Normalize.
// Ingredients and Steps are never nil once normalized.
type Recipe struct {
	ID           ID           `json:"id"`
	Title        string       `json:"title"`
	Image        string       `json:"image"`
	Description  string       `json:"description_hook"`
	CuisineTags  []string     `json:"cuisine_tags"`
	DietTags     []string     `json:"diet_tags"`
	AllergenTags []string     `json:"allergen_tags"`
	TimeMinutes  int          `json:"time_minutes"` // 0 when not recorded
	SpiceLevel   int          `json:"spicy_level"`
	Difficulty   Difficulty   `json:"difficulty"`
	Budget       BudgetTier   `json:"budget_level"`
	Calories     *int         `json:"calories"`
	Rating       float64      `json:"rating"`
	ReviewCount  *int         `json:"review_count,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	Steps        []string     `json:"steps"`
	Servings     int          `json:"servings"`
	Popularity   float64      `json:"popularity_score"`
}

// RawRecipe is a recipe row as it sits in storage: tag lists are
// comma-delimited and structured payloads are serialized JSON text.
type RawRecipe struct {
	ID              ID
	Title           string
	Image           string
	DescriptionHook string
	CuisineTags     string
	DietTags        string
	AllergenTags    string
	TimeMinutes     int
	SpiceLevel      int
	Difficulty      string
	BudgetLevel     string
	Calories        *int
	Rating          float64
	ReviewCount     *int
	IngredientsJSON string
	StepsJSON       string
	Servings        int
	Popularity      float64
}

// IngredientNames returns the ingredient names of a recipe in list order.
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}
