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

package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/storage"
)

// RecipeRepository implements storage.RecipeRepository for BadgerDB.
type RecipeRepository struct {
	backend     *Backend
	ownsBackend bool

	mu    sync.Mutex
	idSeq *badger.Sequence
}

var _ storage.RecipeRepository = (*RecipeRepository)(nil)

// NewRecipeRepository creates a new RecipeRepository on an open backend.
// The ID sequence is leased on first write, so read-only backends work.
func NewRecipeRepository(backend *Backend) (*RecipeRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is nil", storage.ErrStoreUnavailable)
	}
	return &RecipeRepository{backend: backend}, nil
}

// NewRepository opens the store at path and returns a repository that owns
// it; closing the repository closes the store.
func NewRepository(path string, opts ...BackendOption) (storage.RecipeRepository, error) {
	backend, err := OpenBackend(path, false, opts...)
	if err != nil {
		return nil, err
	}
	repo, err := NewRecipeRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repo.ownsBackend = true
	return repo, nil
}

// Close releases the ID sequence, and the backend when the repository owns it.
func (r *RecipeRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	if r.idSeq != nil {
		errs = append(errs, r.idSeq.Release())
		r.idSeq = nil
	}
	if r.ownsBackend {
		errs = append(errs, r.backend.Close())
	}
	return errors.Join(errs...)
}

// AddRecipes stores recipes and their index entries in one transaction.
func (r *RecipeRepository) AddRecipes(ctx context.Context, recipes ...*core.Recipe) ([]*core.Recipe, error) {
	for _, recipe := range recipes {
		if err := core.ValidateRecipe(recipe); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.idSeq == nil {
		seq, err := r.backend.GetSequence(recipeIDSeq)
		if err != nil {
			return nil, err
		}
		r.idSeq = seq
	}

	var stored []*core.Recipe
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, recipe := range recipes {
			fpKey := makeFingerprintKey(core.Fingerprint(recipe))
			if _, err := tx.Get(fpKey); err == nil {
				r.backend.logger.Debug("skipping duplicate recipe", "title", recipe.Title)
				continue
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			recipe.ID = core.ID(nextID)

			if err := tx.Set(makeRecipeKey(recipe.ID), storage.MarshalRawRecipe(recipe.Raw())); err != nil {
				return err
			}
			if err := tx.Set(fpKey, storage.MarshalID(recipe.ID)); err != nil {
				return err
			}
			if err := writeIndexes(tx, recipe); err != nil {
				return err
			}
			stored = append(stored, recipe)
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// IDsWithTerm scans ingredient index keys for names containing term.
func (r *RecipeRepository) IDsWithTerm(ctx context.Context, term string) (core.IDSet, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	ids := core.NewIDSet()
	if term == "" {
		return ids, nil
	}
	prefix := ingredientKeyPrefix()
	err := r.scanKeys(ctx, prefix, func(rest []byte) {
		name, id, ok := splitIndexKey(rest)
		if ok && strings.Contains(name, term) {
			ids.Add(id)
		}
	})
	return ids, err
}

// IDsInIndex returns the members of one membership index.
func (r *RecipeRepository) IDsInIndex(ctx context.Context, dim core.Dimension, tag string) (core.IDSet, error) {
	ids := core.NewIDSet()
	if core.IndexTag(tag) == "" {
		return ids, nil
	}
	err := r.scanKeys(ctx, makePartialIndexKey(dim, tag), func(rest []byte) {
		if len(rest) == 8 {
			ids.Add(idFromSuffix(rest))
		}
	})
	return ids, err
}

// AllIDs returns the IDs of every stored recipe.
func (r *RecipeRepository) AllIDs(ctx context.Context) (core.IDSet, error) {
	ids := core.NewIDSet()
	err := r.scanKeys(ctx, recipeKeyPrefix(), func(rest []byte) {
		if len(rest) == 8 {
			ids.Add(idFromSuffix(rest))
		}
	})
	return ids, err
}

// Count returns the number of stored recipes.
func (r *RecipeRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.scanKeys(ctx, recipeKeyPrefix(), func([]byte) {
		count++
	})
	return count, err
}

// Tags returns the distinct tags indexed under dim.
func (r *RecipeRepository) Tags(ctx context.Context, dim core.Dimension) ([]string, error) {
	var tags []string
	err := r.scanKeys(ctx, makeDimensionPrefix(dim), func(rest []byte) {
		tag, _, ok := splitIndexKey(rest)
		// Keys are sorted, so repeats of a tag are adjacent
		if ok && (len(tags) == 0 || tags[len(tags)-1] != tag) {
			tags = append(tags, tag)
		}
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// RowsByIDs hydrates rows for ids in ascending ID order.
func (r *RecipeRepository) RowsByIDs(ctx context.Context, ids ...core.ID) ([]*core.RawRecipe, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var rows []*core.RawRecipe
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range sorted {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := readRecipe(tx, id)
			if err != nil {
				return err
			}
			if row != nil {
				rows = append(rows, row)
			}
		}
		return nil
	}, false)
	return rows, err
}

// GetRecipe retrieves a single row by ID.
func (r *RecipeRepository) GetRecipe(ctx context.Context, id core.ID) (*core.RawRecipe, error) {
	var result *core.RawRecipe
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecipe(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// Helper methods

// scanKeys calls fn with the remainder of every key under prefix.
// Values are never fetched.
func (r *RecipeRepository) scanKeys(ctx context.Context, prefix []byte, fn func(rest []byte)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}
			fn(key[len(prefix):])
		}
		return nil
	}, false)
}

// readRecipe reads a recipe row from the transaction.
// Returns nil, nil if no row exists.
func readRecipe(tx *badger.Txn, id core.ID) (*core.RawRecipe, error) {
	item, err := tx.Get(makeRecipeKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var row *core.RawRecipe
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		row, unmarshalErr = storage.UnmarshalRawRecipe(val)
		return unmarshalErr
	})
	return row, err
}

// writeIndexes adds membership and ingredient index entries for a recipe.
func writeIndexes(tx *badger.Txn, recipe *core.Recipe) error {
	value := storage.MarshalID(recipe.ID)
	set := func(key []byte) error {
		return tx.Set(key, value)
	}

	for _, tag := range recipe.AllergenTags {
		if err := set(makeIndexKey(core.DimensionAllergen, tag, recipe.ID)); err != nil {
			return err
		}
	}
	for _, tag := range recipe.CuisineTags {
		if err := set(makeIndexKey(core.DimensionCuisine, tag, recipe.ID)); err != nil {
			return err
		}
	}
	if err := set(makeIndexKey(core.DimensionSpice, strconv.Itoa(recipe.SpiceLevel), recipe.ID)); err != nil {
		return err
	}
	if recipe.Budget != "" {
		if err := set(makeIndexKey(core.DimensionBudget, string(recipe.Budget), recipe.ID)); err != nil {
			return err
		}
	}
	for _, name := range recipe.IngredientNames() {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if err := set(makeIngredientKey(name, recipe.ID)); err != nil {
			return err
		}
	}
	return nil
}
