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

package search

import (
	"fmt"

	"github.com/poiesic/larder/core"
)

// Request is one search: a keyword, hard filters, soft preferences and a
// result limit. The zero value matches every recipe.
type Request struct {
	Keyword     string      `json:"keyword"`
	Filters     Filters     `json:"filters"`
	Preferences Preferences `json:"preferences"`

	// Limit truncates the ranked list. Zero or less means no limit.
	Limit int `json:"limit"`
}

// Filters are hard constraints; every active filter must pass.
type Filters struct {
	Time               core.TimeTier   `json:"time,omitempty"`
	Budget             core.BudgetTier `json:"budget,omitempty"`
	Cuisines           []string        `json:"cuisines,omitempty"`
	Diets              []string        `json:"diets,omitempty"`
	Difficulty         core.Difficulty `json:"difficulty,omitempty"`
	CaloriesMin        *int            `json:"calories_min,omitempty"`
	CaloriesMax        *int            `json:"calories_max,omitempty"`
	IncludeIngredient  string          `json:"include_ingredient,omitempty"`
	ExcludeIngredients []string        `json:"exclude_ingredients,omitempty"`
	ExcludeAllergens   []string        `json:"exclude_allergens,omitempty"`
	MaxSpice           *int            `json:"max_spice,omitempty"`
}

// Preferences are soft signals that only affect ordering, except
// DislikedIngredients which excludes like Filters.ExcludeIngredients.
type Preferences struct {
	CuisineWeights      core.FoldMap[float64] `json:"cuisine_weights"`
	DietToggles         core.FoldMap[bool]    `json:"diet_toggles"`
	BudgetDefault       core.BudgetTier       `json:"budget_default,omitempty"`
	TimeDefault         core.TimeTier         `json:"time_default,omitempty"`
	DislikedIngredients []string              `json:"disliked_ingredients,omitempty"`
}

// HasPreferred reports whether any cuisine weight is positive.
func (p *Preferences) HasPreferred() bool {
	for _, w := range p.CuisineWeights.All() {
		if w > 0 {
			return true
		}
	}
	return false
}

// Validate checks the request shape. Unknown tier names are not errors:
// an unknown time tier is unbounded and an unknown budget matches nothing.
//
// Validation rules:
//   - Limit must not be negative
//   - Calorie bounds must not be negative, and min must not exceed max
//   - MaxSpice must be within 0-2
func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}
	if r.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidRequest)
	}
	f := &r.Filters
	if f.CaloriesMin != nil && *f.CaloriesMin < 0 {
		return fmt.Errorf("%w: calories_min must not be negative", ErrInvalidRequest)
	}
	if f.CaloriesMax != nil && *f.CaloriesMax < 0 {
		return fmt.Errorf("%w: calories_max must not be negative", ErrInvalidRequest)
	}
	if f.CaloriesMin != nil && f.CaloriesMax != nil && *f.CaloriesMin > *f.CaloriesMax {
		return fmt.Errorf("%w: calories_min exceeds calories_max", ErrInvalidRequest)
	}
	if f.MaxSpice != nil && (*f.MaxSpice < core.SpiceNone || *f.MaxSpice > core.SpiceHot) {
		return fmt.Errorf("%w: max_spice must be between %d and %d", ErrInvalidRequest, core.SpiceNone, core.SpiceHot)
	}
	return nil
}

// excludedIngredients is the union of explicit exclusions and dislikes.
func (r *Request) excludedIngredients() []string {
	return append(normalizeTerms(r.Filters.ExcludeIngredients), normalizeTerms(r.Preferences.DislikedIngredients)...)
}
