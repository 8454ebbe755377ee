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

package storage

import (
	"context"

	"github.com/poiesic/larder/core"
)

// RecipeReader is the read side of the recipe store used by search.
// Implementations must be safe for concurrent readers.
type RecipeReader interface {
	// IDsWithTerm returns the IDs of recipes having at least one ingredient
	// whose lowercase name contains term as a substring.
	IDsWithTerm(ctx context.Context, term string) (core.IDSet, error)

	// IDsInIndex returns the members of the (dimension, tag) membership index.
	// Unknown tags yield an empty set.
	IDsInIndex(ctx context.Context, dim core.Dimension, tag string) (core.IDSet, error)

	// AllIDs returns the IDs of every stored recipe.
	AllIDs(ctx context.Context) (core.IDSet, error)

	// RowsByIDs returns the stored rows for ids in ascending ID order.
	// IDs with no stored row are omitted (no error for missing rows).
	RowsByIDs(ctx context.Context, ids ...core.ID) ([]*core.RawRecipe, error)

	// Tags returns the distinct index-normalized tags of a dimension, sorted.
	Tags(ctx context.Context, dim core.Dimension) ([]string, error)

	// GetRecipe retrieves a single row by ID.
	// Returns ErrNotFound if the row doesn't exist.
	GetRecipe(ctx context.Context, id core.ID) (*core.RawRecipe, error)

	// Count returns the number of stored recipes.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the reader.
	Close() error
}

// RecipeRepository adds the load-time write path to RecipeReader.
type RecipeRepository interface {
	RecipeReader

	// AddRecipes stores recipes with fresh sequence IDs and writes their
	// membership and ingredient index entries in one transaction.
	// Recipes whose content fingerprint is already stored, or repeats an
	// earlier recipe in the same call, are skipped.
	// Returns the stored recipes with IDs populated.
	AddRecipes(ctx context.Context, recipes ...*core.Recipe) ([]*core.Recipe, error)
}
