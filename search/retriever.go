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
	"context"
	"strconv"
	"strings"

	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/storage"
)

// retriever narrows the corpus to candidate IDs using index lookups only.
type retriever struct {
	repo      storage.RecipeReader
	minRelax  int
	allergens map[string]bool
}

func newRetriever(repo storage.RecipeReader, cfg *Config) *retriever {
	return &retriever{
		repo:      repo,
		minRelax:  cfg.MinRelaxedLength,
		allergens: cfg.allergenSet(),
	}
}

// retrieve returns the candidate IDs for req and, when keyword relaxation
// changed a term, the keyword actually matched.
//
// Narrowing order: keyword, allergens, cuisines, required ingredient,
// budget, spice. Every step is an intersection or subtraction, so the order
// does not change the result; later steps are skipped once the set is empty.
func (r *retriever) retrieve(ctx context.Context, req *Request) (core.IDSet, string, error) {
	candidates, suggested, err := r.keywordCandidates(ctx, req.Keyword)
	if err != nil {
		return nil, "", err
	}

	steps := []func(context.Context, core.IDSet, *Filters) (core.IDSet, error){
		r.excludeAllergens,
		r.requireCuisines,
		r.requireIngredient,
		r.requireBudget,
		r.limitSpice,
	}
	for _, step := range steps {
		if candidates.Len() == 0 {
			break
		}
		candidates, err = step(ctx, candidates, &req.Filters)
		if err != nil {
			return nil, "", err
		}
	}
	return candidates, suggested, nil
}

func (r *retriever) keywordCandidates(ctx context.Context, keyword string) (core.IDSet, string, error) {
	terms := queryTerms(keyword)
	if len(terms) == 0 {
		ids, err := r.repo.AllIDs(ctx)
		return ids, "", err
	}

	var candidates core.IDSet
	used := make([]string, 0, len(terms))
	relaxed := false
	for _, term := range terms {
		ids, matched, err := r.relaxedMatch(ctx, term)
		if err != nil {
			return nil, "", err
		}
		used = append(used, matched)
		relaxed = relaxed || matched != term
		if candidates == nil {
			candidates = ids
		} else {
			candidates = candidates.Intersect(ids)
		}
	}

	suggested := ""
	if relaxed {
		suggested = strings.Join(used, " ")
	}
	return candidates, suggested, nil
}

// relaxedMatch looks term up in the ingredient index. When nothing matches
// and term is longer than the relaxation floor, successively shorter
// prefixes are tried down to the floor; the first non-empty one wins.
func (r *retriever) relaxedMatch(ctx context.Context, term string) (core.IDSet, string, error) {
	ids, err := r.repo.IDsWithTerm(ctx, term)
	if err != nil {
		return nil, "", err
	}
	runes := []rune(term)
	if ids.Len() > 0 || len(runes) <= r.minRelax {
		return ids, term, nil
	}
	for n := len(runes) - 1; n >= r.minRelax; n-- {
		prefix := string(runes[:n])
		ids, err := r.repo.IDsWithTerm(ctx, prefix)
		if err != nil {
			return nil, "", err
		}
		if ids.Len() > 0 {
			return ids, prefix, nil
		}
	}
	return core.NewIDSet(), term, nil
}

// excludeAllergens subtracts members of every requested allergen index.
// Tags outside the allergen vocabulary are ignored.
func (r *retriever) excludeAllergens(ctx context.Context, candidates core.IDSet, f *Filters) (core.IDSet, error) {
	for _, tag := range f.ExcludeAllergens {
		tag = core.IndexTag(tag)
		if !r.allergens[tag] {
			continue
		}
		ids, err := r.repo.IDsInIndex(ctx, core.DimensionAllergen, tag)
		if err != nil {
			return nil, err
		}
		candidates = candidates.Subtract(ids)
	}
	return candidates, nil
}

// requireCuisines intersects with the union of the requested cuisine
// indexes, but only when that union is non-empty.
func (r *retriever) requireCuisines(ctx context.Context, candidates core.IDSet, f *Filters) (core.IDSet, error) {
	union, err := r.unionOf(ctx, core.DimensionCuisine, f.Cuisines)
	if err != nil {
		return nil, err
	}
	if union.Len() == 0 {
		return candidates, nil
	}
	return candidates.Intersect(union), nil
}

// requireIngredient intersects with recipes containing the required
// ingredient, but only when that lookup is non-empty.
func (r *retriever) requireIngredient(ctx context.Context, candidates core.IDSet, f *Filters) (core.IDSet, error) {
	term := strings.ToLower(strings.TrimSpace(f.IncludeIngredient))
	if term == "" {
		return candidates, nil
	}
	ids, err := r.repo.IDsWithTerm(ctx, term)
	if err != nil {
		return nil, err
	}
	if ids.Len() == 0 {
		return candidates, nil
	}
	return candidates.Intersect(ids), nil
}

func (r *retriever) requireBudget(ctx context.Context, candidates core.IDSet, f *Filters) (core.IDSet, error) {
	if f.Budget == "" {
		return candidates, nil
	}
	ids, err := r.repo.IDsInIndex(ctx, core.DimensionBudget, string(f.Budget))
	if err != nil {
		return nil, err
	}
	return candidates.Intersect(ids), nil
}

// limitSpice intersects with the union of spice tiers 0 through MaxSpice.
func (r *retriever) limitSpice(ctx context.Context, candidates core.IDSet, f *Filters) (core.IDSet, error) {
	if f.MaxSpice == nil {
		return candidates, nil
	}
	tiers := make([]string, 0, core.SpiceHot+1)
	for level := core.SpiceNone; level <= min(*f.MaxSpice, core.SpiceHot); level++ {
		tiers = append(tiers, strconv.Itoa(level))
	}
	union, err := r.unionOf(ctx, core.DimensionSpice, tiers)
	if err != nil {
		return nil, err
	}
	return candidates.Intersect(union), nil
}

func (r *retriever) unionOf(ctx context.Context, dim core.Dimension, tags []string) (core.IDSet, error) {
	union := core.NewIDSet()
	for _, tag := range tags {
		if core.IndexTag(tag) == "" {
			continue
		}
		ids, err := r.repo.IDsInIndex(ctx, dim, tag)
		if err != nil {
			return nil, err
		}
		union = union.Union(ids)
	}
	return union, nil
}
