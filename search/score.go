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
	"math"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/larder/core"
)

// IDF maps ingredient terms to inverse document frequency over one
// candidate set.
type IDF map[string]float64

// Lookup returns the IDF of term, or 1.0 when the term is unknown.
func (idf IDF) Lookup(term string) float64 {
	if v, ok := idf[term]; ok {
		return v
	}
	return 1.0
}

// BuildIDF computes idf = ln((N+1)/(df+1)) + 1 over recipes, where df counts
// the recipes whose term set holds the term. A recipe's term set is every
// distinct lowercase ingredient name plus each whitespace token of at least
// two runes ("olive oil" yields "olive oil", "olive" and "oil").
func BuildIDF(recipes []core.Recipe) IDF {
	df := make(map[string]int)
	for i := range recipes {
		terms := make(map[string]struct{})
		for _, ing := range recipes[i].Ingredients {
			name := strings.ToLower(strings.TrimSpace(ing.Name))
			if name == "" {
				continue
			}
			terms[name] = struct{}{}
			for _, tok := range strings.Fields(name) {
				if utf8.RuneCountInString(tok) >= minTermLength {
					terms[tok] = struct{}{}
				}
			}
		}
		for t := range terms {
			df[t]++
		}
	}

	n := float64(len(recipes))
	idf := make(IDF, len(df))
	for term, count := range df {
		idf[term] = math.Log((n+1)/(float64(count)+1)) + 1
	}
	return idf
}

// Relevance scores how well recipe matches keyword. Each query term adds
// the title weight when the title contains it, the ingredient weight times
// the term's IDF when any ingredient name contains it, and the description
// and steps weights likewise. An empty keyword scores 0.
func Relevance(recipe *core.Recipe, keyword string, idf IDF, w FieldWeights) float64 {
	terms := queryTerms(keyword)
	if len(terms) == 0 {
		return 0
	}
	title := strings.ToLower(recipe.Title)
	desc := strings.ToLower(recipe.Description)
	steps := strings.ToLower(strings.Join(recipe.Steps, " "))
	names := lowerNames(recipe.IngredientNames())

	var score float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += w.Title
		}
		if anyContains(names, term) {
			score += w.Ingredient * idf.Lookup(term)
		}
		if strings.Contains(desc, term) {
			score += w.Description
		}
		if strings.Contains(steps, term) {
			score += w.Steps
		}
	}
	return score
}

// Preference scores recipe against stored preferences. A recipe with no
// recorded time earns the time bonus only when the default tier is unbounded.
// A nil cfg uses DefaultConfig.
func Preference(recipe *core.Recipe, prefs *Preferences, cfg *Config) float64 {
	cfg = orDefault(cfg)
	w := cfg.Preference
	var score float64

	for _, tag := range recipe.CuisineTags {
		if weight, _ := prefs.CuisineWeights.Get(tag); weight > 0 {
			score += weight * w.CuisineMultiplier
		}
	}
	for _, tag := range recipe.DietTags {
		if on, _ := prefs.DietToggles.Get(tag); on {
			score += w.DietBonus
		}
	}
	if prefs.BudgetDefault != "" && recipe.Budget == prefs.BudgetDefault {
		score += w.BudgetBonus
	}
	if prefs.TimeDefault != "" {
		ceiling, bounded := cfg.timeCeiling(prefs.TimeDefault)
		if !bounded || (recipe.TimeMinutes > 0 && recipe.TimeMinutes <= ceiling) {
			score += w.TimeBonus
		}
	}
	return score
}

// Quality scores a recipe from its rating plus an engagement signal: the
// log of recorded review counts, else a fraction of popularity.
// A nil cfg uses DefaultConfig.
func Quality(recipe *core.Recipe, cfg *Config) float64 {
	w := orDefault(cfg).Quality
	score := recipe.Rating * w.RatingMultiplier
	if recipe.ReviewCount != nil {
		return score + math.Log1p(float64(max(*recipe.ReviewCount, 0)))
	}
	return score + recipe.Popularity*w.PopularityMultiplier
}
