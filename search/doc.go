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

// Package search ranks recipes against a keyword, hard filters and soft
// preferences.
//
// A search runs in five stages:
//   - Retrieve: candidate IDs from the ingredient and membership indexes,
//     with prefix relaxation for keyword terms that match nothing
//   - Hydrate: rows for the candidates, normalized
//   - Filter: independent hard predicates, all of which must pass
//   - Score: relevance (field weighted, ingredient IDF boosted), preference
//     and quality
//   - Rank: a preferred-cuisine bucket first when any cuisine weight is
//     positive, otherwise a single ordering by total score
//
// Filter, BuildIDF, Relevance, Preference, Quality and Rank are pure and
// usable on their own.
package search
