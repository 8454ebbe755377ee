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
	"cmp"
	"slices"

	"github.com/poiesic/larder/core"
)

// Scored is a recipe with its three component scores.
type Scored struct {
	Recipe     core.Recipe
	Relevance  float64
	Preference float64
	Quality    float64
}

// Total is relevance + preference + quality.
func (s *Scored) Total() float64 {
	return s.Relevance + s.Preference + s.Quality
}

func (s *Scored) relevancePlusQuality() float64 {
	return s.Relevance + s.Quality
}

// Rank orders scored recipes best first.
//
// With hasPreferred, recipes with a positive preference score come first,
// by preference then relevance+quality, followed by the rest by
// relevance+quality. Otherwise all recipes are ordered by total. Sorting is
// stable, so equal keys keep input order.
func Rank(scored []Scored, hasPreferred bool) []core.Recipe {
	var ordered []Scored
	if hasPreferred {
		var preferred, rest []Scored
		for _, s := range scored {
			if s.Preference > 0 {
				preferred = append(preferred, s)
			} else {
				rest = append(rest, s)
			}
		}
		slices.SortStableFunc(preferred, func(a, b Scored) int {
			if c := cmp.Compare(b.Preference, a.Preference); c != 0 {
				return c
			}
			return cmp.Compare(b.relevancePlusQuality(), a.relevancePlusQuality())
		})
		slices.SortStableFunc(rest, func(a, b Scored) int {
			return cmp.Compare(b.relevancePlusQuality(), a.relevancePlusQuality())
		})
		ordered = append(preferred, rest...)
	} else {
		ordered = slices.Clone(scored)
		slices.SortStableFunc(ordered, func(a, b Scored) int {
			return cmp.Compare(b.Total(), a.Total())
		})
	}

	out := make([]core.Recipe, len(ordered))
	for i := range ordered {
		out[i] = ordered[i].Recipe
	}
	return out
}
