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

package ingestion

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/larder/core"
)

// Limits applied while mapping a source record.
const (
	MaxIngredients     = 40
	MaxSteps           = 20
	MinTimeMinutes     = 5
	MaxTimeMinutes     = 300
	DefaultTimeMinutes = 30
	DefaultRating      = 4.0
	DefaultServings    = 2
)

// skipTitles are placeholder recipes that never make it into the store.
var skipTitles = map[string]struct{}{
	"salt water for boiling": {},
	"water":                  {},
	"air":                    {},
	"boiling water":          {},
}

// Record is one line of a JSON-lines recipe source.
// Durations use the ISO-8601 form found in recipe exports ("PT1H30M").
type Record struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	Category             string   `json:"category"`
	Keywords             []string `json:"keywords"`
	Images               []string `json:"images"`
	IngredientParts      []string `json:"ingredient_parts"`
	IngredientQuantities []string `json:"ingredient_quantities"`
	Instructions         []string `json:"instructions"`
	TotalTime            string   `json:"total_time"`
	CookTime             string   `json:"cook_time"`
	PrepTime             string   `json:"prep_time"`
	Calories             *float64 `json:"calories"`
	Rating               *float64 `json:"rating"`
	ReviewCount          *int     `json:"review_count"`
	Servings             *int     `json:"servings"`
}

// skipped reports whether the record is untitled or a known placeholder.
func (rec *Record) skipped() bool {
	title := strings.ToLower(strings.TrimSpace(rec.Name))
	if title == "" {
		return true
	}
	_, skip := skipTitles[title]
	return skip
}

// toRecipe maps a source record into a canonical recipe with inferred tags.
func (rec *Record) toRecipe() *core.Recipe {
	minutes := rec.minutes()

	ingredients := make([]core.Ingredient, 0, min(len(rec.IngredientParts), MaxIngredients))
	for i, name := range rec.IngredientParts {
		if i == MaxIngredients {
			break
		}
		amount := ""
		if i < len(rec.IngredientQuantities) {
			amount = strings.TrimSpace(rec.IngredientQuantities[i])
		}
		ingredients = append(ingredients, core.Ingredient{Name: strings.TrimSpace(name), Amount: amount})
	}

	steps := make([]string, 0, min(len(rec.Instructions), MaxSteps))
	for _, step := range rec.Instructions {
		if step = strings.TrimSpace(step); step == "" {
			continue
		}
		if len(steps) == MaxSteps {
			break
		}
		steps = append(steps, step)
	}

	rating := DefaultRating
	if rec.Rating != nil && !math.IsNaN(*rec.Rating) {
		rating = *rec.Rating
	}
	rating = math.Round(max(0, min(5, rating))*10) / 10

	var calories *int
	if rec.Calories != nil && *rec.Calories > 0 && !math.IsInf(*rec.Calories, 0) {
		calories = core.IntPtr(int(*rec.Calories))
	}

	var reviews *int
	if rec.ReviewCount != nil && *rec.ReviewCount >= 0 {
		reviews = core.IntPtr(*rec.ReviewCount)
	}

	servings := DefaultServings
	if rec.Servings != nil && *rec.Servings > 0 {
		servings = *rec.Servings
	}

	description := strings.TrimSpace(rec.Description)
	if description == "" {
		description = strconv.Itoa(minutes) + "-min recipe"
	}

	recipe := &core.Recipe{
		Title:        strings.TrimSpace(rec.Name),
		Image:        firstImage(rec.Images),
		Description:  description,
		CuisineTags:  inferCuisines(rec.Category, rec.Keywords),
		DietTags:     inferDiets(rec.Keywords),
		TimeMinutes:  minutes,
		SpiceLevel:   inferSpice(rec.Keywords, rec.Description),
		Difficulty:   inferDifficulty(len(ingredients)),
		Budget:       inferBudget(calories, len(ingredients)),
		Calories:     calories,
		Rating:       rating,
		ReviewCount:  reviews,
		Ingredients:  ingredients,
		Steps:        steps,
		Servings:     servings,
		Popularity:   float64(int(rating*20) + len(steps)),
	}
	recipe.AllergenTags = inferAllergens(recipe.IngredientNames())
	return recipe
}

// minutes resolves the total time, falling back to cook plus prep time and
// then to the default. The result is clamped to the accepted range.
func (rec *Record) minutes() int {
	total, ok := parseDuration(rec.TotalTime)
	if !ok {
		cook, _ := parseDuration(rec.CookTime)
		prep, _ := parseDuration(rec.PrepTime)
		total = cook + prep
		if total == 0 {
			total = DefaultTimeMinutes
		}
	}
	return max(MinTimeMinutes, min(MaxTimeMinutes, total))
}

var (
	durationHours   = regexp.MustCompile(`(?i)(\d+)H`)
	durationMinutes = regexp.MustCompile(`(?i)(\d+)M`)
)

// parseDuration reads the hour and minute components of an ISO-8601
// duration. A zero or unparseable duration reports false.
func parseDuration(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "NA") {
		return 0, false
	}
	total := 0
	if m := durationHours.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		total += h * 60
	}
	if m := durationMinutes.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += mins
	}
	return total, total > 0
}

func firstImage(images []string) string {
	for _, u := range images {
		u = strings.Trim(strings.TrimSpace(u), `"'`)
		if strings.HasPrefix(u, "http") {
			return u
		}
	}
	return ""
}
