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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecipe indicates a Recipe failed validation.
	ErrInvalidRecipe = errors.New("invalid recipe")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidTime indicates a negative time-to-make.
	ErrInvalidTime = errors.New("time in minutes cannot be negative")

	// ErrInvalidSpiceLevel indicates a spice tier outside 0-2.
	ErrInvalidSpiceLevel = errors.New("invalid spice level")

	// ErrInvalidRating indicates a rating outside 0-5.
	ErrInvalidRating = errors.New("rating must be between 0 and 5")

	// ErrInvalidBudget indicates an unknown budget tier.
	ErrInvalidBudget = errors.New("invalid budget tier")

	// ErrInvalidDifficulty indicates an unknown difficulty tier.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrInvalidCalories indicates a negative calorie count.
	ErrInvalidCalories = errors.New("calories cannot be negative")
)
