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
	"iter"
	"maps"
	"slices"
	"strings"
)

// FoldMap is a read-only string-keyed map whose lookups fall back to a
// case-insensitive match when the exact key is absent. Tag vocabularies
// arrive from clients with arbitrary casing ("Indian", "indian").
type FoldMap[V any] struct {
	exact  map[string]V
	folded map[string]V
}

// NewFoldMap copies m into a FoldMap. Keys are trimmed; when two keys fold
// to the same lowercase form the lexically smallest original key wins the
// fallback slot.
func NewFoldMap[V any](m map[string]V) FoldMap[V] {
	f := FoldMap[V]{
		exact:  make(map[string]V, len(m)),
		folded: make(map[string]V, len(m)),
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		f.exact[key] = m[k]
		lower := strings.ToLower(key)
		if _, ok := f.folded[lower]; !ok {
			f.folded[lower] = m[k]
		}
	}
	return f
}

// Get returns the value for key, trying an exact match first.
func (f FoldMap[V]) Get(key string) (V, bool) {
	key = strings.TrimSpace(key)
	if v, ok := f.exact[key]; ok {
		return v, true
	}
	v, ok := f.folded[strings.ToLower(key)]
	return v, ok
}

// Len returns the number of distinct keys.
func (f FoldMap[V]) Len() int {
	return len(f.exact)
}

// All iterates over the original keys and values.
func (f FoldMap[V]) All() iter.Seq2[string, V] {
	return maps.All(f.exact)
}

func (f FoldMap[V]) MarshalJSON() ([]byte, error) {
	if f.exact == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f.exact)
}

func (f *FoldMap[V]) UnmarshalJSON(data []byte) error {
	var m map[string]V
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*f = NewFoldMap(m)
	return nil
}

// IndexTag returns the form under which a tag is stored in a membership
// index: lowercase, trimmed, inner whitespace collapsed to underscores.
func IndexTag(tag string) string {
	return strings.Join(strings.Fields(strings.ToLower(tag)), "_")
}

// SplitTags splits a comma-delimited tag column into a clean tag list.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return cleanTags(strings.Split(s, ","))
}

// JoinTags is the inverse of SplitTags.
func JoinTags(tags []string) string {
	return strings.Join(cleanTags(tags), ",")
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
