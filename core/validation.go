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

import "fmt"

// ValidateRecipe validates a canonical Recipe according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - TimeMinutes must not be negative (0 means not recorded)
//   - SpiceLevel must be 0, 1 or 2
//   - Rating must be within 0-5
//   - Budget and Difficulty must be a known tier when set
//   - Calories, when present, must not be negative
//
// NOT validated:
//   - ID (assigned by the repository on insert)
//   - Tags (free vocabulary, unknown tags are legal)
func ValidateRecipe(recipe *Recipe) error {
	if recipe == nil {
		return fmt.Errorf("%w: recipe is nil", ErrInvalidRecipe)
	}
	if recipe.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecipe, ErrEmptyTitle)
	}
	if recipe.TimeMinutes < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecipe, ErrInvalidTime)
	}
	if recipe.SpiceLevel < SpiceNone || recipe.SpiceLevel > SpiceHot {
		return fmt.Errorf("%w: %w: value %d", ErrInvalidRecipe, ErrInvalidSpiceLevel, recipe.SpiceLevel)
	}
	if recipe.Rating < 0 || recipe.Rating > 5 {
		return fmt.Errorf("%w: %w", ErrInvalidRecipe, ErrInvalidRating)
	}
	if recipe.Budget != "" && !recipe.Budget.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidRecipe, ErrInvalidBudget, recipe.Budget)
	}
	if recipe.Difficulty != "" && !recipe.Difficulty.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidRecipe, ErrInvalidDifficulty, recipe.Difficulty)
	}
	if recipe.Calories != nil && *recipe.Calories < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecipe, ErrInvalidCalories)
	}
	return nil
}

// Valid reports whether b is one of the known budget tiers.
func (b BudgetTier) Valid() bool {
	switch b {
	case BudgetLow, BudgetMedium, BudgetHigh:
		return true
	}
	return false
}

// Valid reports whether d is one of the known difficulty tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Valid reports whether t is one of the known time tiers.
func (t TimeTier) Valid() bool {
	switch t {
	case TimeQuick, TimeMedium, TimeLong:
		return true
	}
	return false
}
