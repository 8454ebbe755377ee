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

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Row is anything Normalize accepts: a stored *RawRecipe or a Recipe that is
// already in canonical shape.
type Row interface {
	canonical() Recipe
}

var (
	_ Row = (*RawRecipe)(nil)
	_ Row = Recipe{}
)

// Normalize converts a row into the canonical recipe shape. It never fails:
// tag columns are split, malformed ingredient and step payloads decode to
// empty sequences. The input is not modified and the result shares no
// memory with it, so Normalize(Normalize(r)) equals Normalize(r).
func Normalize(row Row) Recipe {
	if row == nil {
		return emptyRecipe()
	}
	return row.canonical()
}

func emptyRecipe() Recipe {
	return Recipe{
		CuisineTags:  []string{},
		DietTags:     []string{},
		AllergenTags: []string{},
		Ingredients:  []Ingredient{},
		Steps:        []string{},
	}
}

func (r *RawRecipe) canonical() Recipe {
	if r == nil {
		return emptyRecipe()
	}
	return Recipe{
		ID:           r.ID,
		Title:        r.Title,
		Image:        r.Image,
		Description:  r.DescriptionHook,
		CuisineTags:  SplitTags(r.CuisineTags),
		DietTags:     SplitTags(r.DietTags),
		AllergenTags: SplitTags(r.AllergenTags),
		TimeMinutes:  r.TimeMinutes,
		SpiceLevel:   r.SpiceLevel,
		Difficulty:   Difficulty(r.Difficulty),
		Budget:       BudgetTier(r.BudgetLevel),
		Calories:     copyInt(r.Calories),
		Rating:       r.Rating,
		ReviewCount:  copyInt(r.ReviewCount),
		Ingredients:  DecodeIngredients(r.IngredientsJSON),
		Steps:        DecodeSteps(r.StepsJSON),
		Servings:     r.Servings,
		Popularity:   r.Popularity,
	}
}

func (r Recipe) canonical() Recipe {
	out := r
	out.CuisineTags = cleanTags(r.CuisineTags)
	out.DietTags = cleanTags(r.DietTags)
	out.AllergenTags = cleanTags(r.AllergenTags)
	out.Calories = copyInt(r.Calories)
	out.ReviewCount = copyInt(r.ReviewCount)
	out.Ingredients = make([]Ingredient, len(r.Ingredients))
	copy(out.Ingredients, r.Ingredients)
	out.Steps = make([]string, len(r.Steps))
	copy(out.Steps, r.Steps)
	return out
}

// Raw converts a canonical recipe back into its storage row.
func (r *Recipe) Raw() *RawRecipe {
	ings := r.Ingredients
	if ings == nil {
		ings = []Ingredient{}
	}
	steps := r.Steps
	if steps == nil {
		steps = []string{}
	}
	ingJSON, _ := json.Marshal(ings)
	stepsJSON, _ := json.Marshal(steps)
	return &RawRecipe{
		ID:              r.ID,
		Title:           r.Title,
		Image:           r.Image,
		DescriptionHook: r.Description,
		CuisineTags:     JoinTags(r.CuisineTags),
		DietTags:        JoinTags(r.DietTags),
		AllergenTags:    JoinTags(r.AllergenTags),
		TimeMinutes:     r.TimeMinutes,
		SpiceLevel:      r.SpiceLevel,
		Difficulty:      string(r.Difficulty),
		BudgetLevel:     string(r.Budget),
		Calories:        copyInt(r.Calories),
		Rating:          r.Rating,
		ReviewCount:     copyInt(r.ReviewCount),
		IngredientsJSON: string(ingJSON),
		StepsJSON:       string(stepsJSON),
		Servings:        r.Servings,
		Popularity:      r.Popularity,
	}
}

// DecodeIngredients parses a serialized ingredient list. Elements may be
// {"name", "amount"} objects or bare names; null elements are dropped.
// Any malformed payload yields an empty list.
func DecodeIngredients(payload string) []Ingredient {
	out := []Ingredient{}
	if strings.TrimSpace(payload) == "" {
		return out
	}
	var items []any
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return out
	}
	for _, item := range items {
		switch v := item.(type) {
		case nil:
			continue
		case map[string]any:
			out = append(out, Ingredient{
				Name:   stringify(v["name"]),
				Amount: stringify(v["amount"]),
			})
		default:
			out = append(out, Ingredient{Name: stringify(v)})
		}
	}
	return out
}

// DecodeSteps parses a serialized step list, keeping only string elements.
// Any malformed payload yields an empty list.
func DecodeSteps(payload string) []string {
	out := []string{}
	if strings.TrimSpace(payload) == "" {
		return out
	}
	var items []any
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
