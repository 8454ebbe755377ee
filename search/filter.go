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
	"strings"

	"github.com/poiesic/larder/core"
)

// predicate reports whether a recipe passes one filter.
type predicate func(r *core.Recipe) bool

// Filter keeps the recipes passing every active filter, preserving order.
// Disliked ingredients from prefs exclude like explicit exclusions.
// A nil cfg uses DefaultConfig.
func Filter(recipes []core.Recipe, filters Filters, prefs Preferences, cfg *Config) []core.Recipe {
	req := &Request{Filters: filters, Preferences: prefs}
	return filterRecipes(recipes, buildPredicates(req, orDefault(cfg)))
}

func filterRecipes(recipes []core.Recipe, preds []predicate) []core.Recipe {
	out := make([]core.Recipe, 0, len(recipes))
next:
	for i := range recipes {
		for _, keep := range preds {
			if !keep(&recipes[i]) {
				continue next
			}
		}
		out = append(out, recipes[i])
	}
	return out
}

// buildPredicates returns the active predicates of req; inactive filters
// contribute nothing.
func buildPredicates(req *Request, cfg *Config) []predicate {
	f := &req.Filters
	var preds []predicate

	if f.Time != "" {
		// Unrecorded time counts as 0 minutes and so always passes
		if ceiling, bounded := cfg.timeCeiling(f.Time); bounded {
			preds = append(preds, func(r *core.Recipe) bool {
				return r.TimeMinutes <= ceiling
			})
		}
	}

	if f.Budget != "" {
		budget := f.Budget
		preds = append(preds, func(r *core.Recipe) bool {
			return r.Budget == budget
		})
	}

	// Untagged recipes pass the cuisine filter
	if cuisines := indexTagSet(f.Cuisines); len(cuisines) > 0 {
		preds = append(preds, func(r *core.Recipe) bool {
			return len(r.CuisineTags) == 0 || anyTagIn(r.CuisineTags, cuisines)
		})
	}

	// Untagged recipes fail the diet filter
	if diets := indexTagSet(f.Diets); len(diets) > 0 {
		preds = append(preds, func(r *core.Recipe) bool {
			return anyTagIn(r.DietTags, diets)
		})
	}

	if f.Difficulty != "" {
		difficulty := f.Difficulty
		preds = append(preds, func(r *core.Recipe) bool {
			return r.Difficulty == difficulty
		})
	}

	if f.CaloriesMin != nil {
		lo := *f.CaloriesMin
		preds = append(preds, func(r *core.Recipe) bool {
			return caloriesOr(r, 0) >= lo
		})
	}

	if f.CaloriesMax != nil {
		hi, missing := *f.CaloriesMax, cfg.MissingCaloriesCeiling
		preds = append(preds, func(r *core.Recipe) bool {
			return caloriesOr(r, missing) <= hi
		})
	}

	include := strings.ToLower(strings.TrimSpace(f.IncludeIngredient))
	excluded := req.excludedIngredients()
	if include != "" || len(excluded) > 0 {
		preds = append(preds, func(r *core.Recipe) bool {
			names := lowerNames(r.IngredientNames())
			if include != "" && !anyContains(names, include) {
				return false
			}
			for _, e := range excluded {
				if anyContains(names, e) {
					return false
				}
			}
			return true
		})
	}

	if f.MaxSpice != nil {
		maxSpice := *f.MaxSpice
		preds = append(preds, func(r *core.Recipe) bool {
			return r.SpiceLevel <= maxSpice
		})
	}

	return preds
}

// indexTagSet returns the index forms of the non-blank tags in.
func indexTagSet(in []string) map[string]bool {
	set := make(map[string]bool, len(in))
	for _, t := range in {
		if tag := core.IndexTag(t); tag != "" {
			set[tag] = true
		}
	}
	return set
}

// anyTagIn compares tags in index form, so "Middle  Eastern" and
// "middle_eastern" are the same tag.
func anyTagIn(tags []string, set map[string]bool) bool {
	for _, t := range tags {
		if set[core.IndexTag(t)] {
			return true
		}
	}
	return false
}

func caloriesOr(r *core.Recipe, missing int) int {
	if r.Calories == nil {
		return missing
	}
	return *r.Calories
}
