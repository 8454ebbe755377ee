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
	"maps"
	"slices"

	"github.com/poiesic/larder/core"
)

// FieldWeights are the per-field relevance weights.
type FieldWeights struct {
	Title       float64 `yaml:"title" json:"title"`
	Ingredient  float64 `yaml:"ingredient" json:"ingredient"`
	Description float64 `yaml:"description" json:"description"`
	Steps       float64 `yaml:"steps" json:"steps"`
}

// PreferenceWeights scale the preference score.
type PreferenceWeights struct {
	CuisineMultiplier float64 `yaml:"cuisine_multiplier" json:"cuisine_multiplier"`
	DietBonus         float64 `yaml:"diet_bonus" json:"diet_bonus"`
	BudgetBonus       float64 `yaml:"budget_bonus" json:"budget_bonus"`
	TimeBonus         float64 `yaml:"time_bonus" json:"time_bonus"`
}

// QualityWeights scale the quality score.
type QualityWeights struct {
	RatingMultiplier     float64 `yaml:"rating_multiplier" json:"rating_multiplier"`
	PopularityMultiplier float64 `yaml:"popularity_multiplier" json:"popularity_multiplier"`
}

// Config holds the scoring constants and vocabularies of a search.
// A Searcher copies its Config at construction; it is never mutated while
// searches run.
type Config struct {
	Fields FieldWeights `yaml:"fields" json:"fields"`

	// TimeCeilings maps a time tier to its maximum minutes.
	// A ceiling of 0, or a tier missing from the map, means unbounded.
	TimeCeilings map[core.TimeTier]int `yaml:"time_ceilings" json:"time_ceilings"`

	// Allergens is the allergen vocabulary recognised by ExcludeAllergens.
	Allergens []string `yaml:"allergens" json:"allergens"`

	// MinRelaxedLength is the shortest prefix tried when relaxing a keyword term.
	MinRelaxedLength int `yaml:"min_relaxed_length" json:"min_relaxed_length"`

	Preference PreferenceWeights `yaml:"preference" json:"preference"`
	Quality    QualityWeights    `yaml:"quality" json:"quality"`

	// MissingCaloriesCeiling stands in for unrecorded calories when a
	// maximum-calorie filter is applied.
	MissingCaloriesCeiling int `yaml:"missing_calories_ceiling" json:"missing_calories_ceiling"`

	// MaxCandidates caps how many rows are hydrated per search, lowest IDs
	// first. Zero disables the cap.
	MaxCandidates int `yaml:"max_candidates" json:"max_candidates"`
}

// DefaultAllergens is the allergen vocabulary written by the loader.
var DefaultAllergens = []string{
	"peanuts", "tree_nuts", "milk", "eggs", "soy", "wheat",
	"shellfish", "fish", "sesame",
}

// DefaultConfig returns the standard scoring configuration.
func DefaultConfig() Config {
	return Config{
		Fields: FieldWeights{
			Title:       20,
			Ingredient:  12,
			Description: 5,
			Steps:       2,
		},
		TimeCeilings: map[core.TimeTier]int{
			core.TimeQuick:  30,
			core.TimeMedium: 60,
			core.TimeLong:   0,
		},
		Allergens:        slices.Clone(DefaultAllergens),
		MinRelaxedLength: 4,
		Preference: PreferenceWeights{
			CuisineMultiplier: 100,
			DietBonus:         200,
			BudgetBonus:       50,
			TimeBonus:         30,
		},
		Quality: QualityWeights{
			RatingMultiplier:     2,
			PopularityMultiplier: 0.1,
		},
		MissingCaloriesCeiling: 9999,
		MaxCandidates:          5000,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	weights := []float64{
		c.Fields.Title, c.Fields.Ingredient, c.Fields.Description, c.Fields.Steps,
		c.Preference.CuisineMultiplier, c.Preference.DietBonus,
		c.Preference.BudgetBonus, c.Preference.TimeBonus,
		c.Quality.RatingMultiplier, c.Quality.PopularityMultiplier,
	}
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: weights must not be negative", ErrInvalidConfig)
		}
	}
	for tier, minutes := range c.TimeCeilings {
		if minutes < 0 {
			return fmt.Errorf("%w: time ceiling for %q is negative", ErrInvalidConfig, tier)
		}
	}
	if c.MinRelaxedLength < minTermLength {
		return fmt.Errorf("%w: min_relaxed_length must be at least %d", ErrInvalidConfig, minTermLength)
	}
	if c.MissingCaloriesCeiling <= 0 {
		return fmt.Errorf("%w: missing_calories_ceiling must be positive", ErrInvalidConfig)
	}
	if c.MaxCandidates < 0 {
		return fmt.Errorf("%w: max_candidates must not be negative", ErrInvalidConfig)
	}
	return nil
}

// clone returns a deep copy so callers cannot mutate a Searcher's config.
func (c *Config) clone() Config {
	out := *c
	out.TimeCeilings = maps.Clone(c.TimeCeilings)
	out.Allergens = slices.Clone(c.Allergens)
	return out
}

// timeCeiling returns the minute ceiling of tier and whether it is bounded.
func (c *Config) timeCeiling(tier core.TimeTier) (int, bool) {
	minutes, ok := c.TimeCeilings[tier]
	if !ok || minutes <= 0 {
		return 0, false
	}
	return minutes, true
}

// allergenSet returns the index forms of the allergen vocabulary.
func (c *Config) allergenSet() map[string]bool {
	set := make(map[string]bool, len(c.Allergens))
	for _, a := range c.Allergens {
		if tag := core.IndexTag(a); tag != "" {
			set[tag] = true
		}
	}
	return set
}

// orDefault returns cfg, or the default configuration when cfg is nil.
func orDefault(cfg *Config) *Config {
	if cfg != nil {
		return cfg
	}
	d := DefaultConfig()
	return &d
}
