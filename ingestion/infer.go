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
	"slices"
	"strings"

	"github.com/poiesic/larder/core"
)

const (
	maxCuisineTags = 3
	maxDietTags    = 5
)

var cuisineKeywords = []string{
	"italian", "french", "mexican", "american", "asian", "indian", "japanese",
	"korean", "thai", "chinese", "mediterranean", "greek", "moroccan", "middle eastern",
	"vietnamese", "spanish", "german", "cajun", "creole", "british", "irish",
}

var dietKeywords = []string{
	"vegan", "vegetarian", "pescatarian", "dairy free", "gluten-free",
	"kosher", "halal", "paleo", "low fat", "healthy",
}

// allergenKeywords maps each allergen tag to the ingredient words that imply it.
// Matching is by substring, so "wheat" also tags "buckwheat".
var allergenKeywords = []struct {
	tag      string
	keywords []string
}{
	{"peanuts", []string{"peanut", "peanuts"}},
	{"tree_nuts", []string{"almond", "walnut", "cashew", "pecan", "pistachio", "hazelnut", "macadamia", "brazil nut", "pine nut", "chestnut"}},
	{"milk", []string{"milk", "cream", "butter", "cheese", "yogurt", "yoghurt", "whey", "dairy"}},
	{"eggs", []string{"egg", "eggs"}},
	{"soy", []string{"soy", "soya", "tofu", "edamame", "miso", "tempeh"}},
	{"wheat", []string{"wheat", "flour", "bread", "pasta", "noodle", "couscous", "bulgur"}},
	{"shellfish", []string{"shrimp", "prawn", "crab", "lobster", "scallop", "clam", "mussel", "oyster", "shellfish", "crayfish"}},
	{"fish", []string{"fish", "salmon", "tuna", "cod", "halibut", "sardine", "anchovy", "mackerel", "tilapia", "trout"}},
	{"sesame", []string{"sesame", "tahini"}},
}

var (
	spicyWords    = []string{"spicy", "hot", "chili", "chilli", "jalapeño", "jalapeno", "cayenne", "habanero"}
	veryHotPhrase = []string{"very spicy", "extra hot", "fiery"}
)

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func joinLower(parts []string) string {
	return strings.ToLower(strings.Join(parts, " "))
}

// inferCuisines matches known cuisines against the category and keywords.
func inferCuisines(category string, keywords []string) []string {
	text := strings.ToLower(category) + " " + joinLower(keywords)
	out := []string{}
	for _, c := range cuisineKeywords {
		if len(out) == maxCuisineTags {
			break
		}
		if strings.Contains(text, c) {
			out = append(out, c)
		}
	}
	return out
}

// inferDiets matches keywords against the diet vocabulary in either
// direction. Multi-word diets are hyphenated.
func inferDiets(keywords []string) []string {
	out := []string{}
	for _, kw := range keywords {
		kl := strings.ToLower(strings.TrimSpace(kw))
		if kl == "" {
			continue
		}
		for _, d := range dietKeywords {
			if !strings.Contains(kl, d) && !strings.Contains(d, kl) {
				continue
			}
			tag := strings.ReplaceAll(d, " ", "-")
			if !slices.Contains(out, tag) {
				out = append(out, tag)
			}
		}
	}
	if len(out) > maxDietTags {
		out = out[:maxDietTags]
	}
	return out
}

// inferAllergens returns the allergen tags implied by the ingredient names.
func inferAllergens(names []string) []string {
	out := []string{}
	if len(names) == 0 {
		return out
	}
	text := joinLower(names)
	for _, a := range allergenKeywords {
		if containsAny(text, a.keywords) {
			out = append(out, a.tag)
		}
	}
	return out
}

// inferSpice scores heat from keywords and description: mentions of chili
// and the like make a dish mild, emphatic phrases make it hot.
func inferSpice(keywords []string, description string) int {
	text := joinLower(keywords) + " " + strings.ToLower(description)
	if !containsAny(text, spicyWords) {
		return core.SpiceNone
	}
	if containsAny(text, veryHotPhrase) {
		return core.SpiceHot
	}
	return core.SpiceMild
}

// inferBudget uses calories when they are decisive and falls back to the
// number of ingredients.
func inferBudget(calories *int, ingredients int) core.BudgetTier {
	if calories != nil {
		switch {
		case *calories <= 300:
			return core.BudgetLow
		case *calories > 500:
			return core.BudgetHigh
		}
	}
	switch {
	case ingredients <= 6:
		return core.BudgetLow
	case ingredients > 12:
		return core.BudgetHigh
	}
	return core.BudgetMedium
}

func inferDifficulty(ingredients int) core.Difficulty {
	switch {
	case ingredients <= 8:
		return core.DifficultyEasy
	case ingredients <= 15:
		return core.DifficultyMedium
	}
	return core.DifficultyHard
}
