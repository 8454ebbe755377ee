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

package badger

import (
	"encoding/binary"
	"strings"

	"github.com/poiesic/larder/core"
)

// Key prefixes for different data types
const (
	recipePrefix            = "recrec"
	recipeIndexPrefix       = "recidx"
	recipeIngredientPrefix  = "recing"
	recipeFingerprintPrefix = "recfp"
	recipeIDSeq             = "recseq"
)

// Index keys end with a separator byte followed by the big-endian recipe ID.
const (
	keySeparator = 0x00
	idSuffixLen  = 9
)

// makeRecipeKey generates a key for a recipe row by ID.
// Format: prefix:id (8 bytes, big-endian so rows iterate in ID order)
func makeRecipeKey(id core.ID) []byte {
	prefix := []byte(recipePrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// recipeKeyPrefix is the shared prefix of every recipe row key.
func recipeKeyPrefix() []byte {
	return []byte(recipePrefix + ":")
}

// makeIndexKey generates a composite key for the membership index.
// Format: prefix:dimension:tag\x00id
func makeIndexKey(dim core.Dimension, tag string, id core.ID) []byte {
	return appendID(makePartialIndexKey(dim, tag), id)
}

// makePartialIndexKey generates the prefix shared by all members of one
// (dimension, tag) index. Format: prefix:dimension:tag\x00
func makePartialIndexKey(dim core.Dimension, tag string) []byte {
	buf := makeDimensionPrefix(dim)
	buf = append(buf, core.IndexTag(tag)...)
	return append(buf, keySeparator)
}

// makeDimensionPrefix generates the prefix shared by every tag of a dimension.
// Format: prefix:dimension:
func makeDimensionPrefix(dim core.Dimension) []byte {
	return []byte(recipeIndexPrefix + ":" + string(dim) + ":")
}

// makeIngredientKey generates a composite key for the ingredient index.
// Format: prefix:name\x00id
func makeIngredientKey(name string, id core.ID) []byte {
	buf := ingredientKeyPrefix()
	buf = append(buf, strings.ToLower(strings.TrimSpace(name))...)
	buf = append(buf, keySeparator)
	return appendID(buf, id)
}

// ingredientKeyPrefix is the shared prefix of every ingredient index key.
func ingredientKeyPrefix() []byte {
	return []byte(recipeIngredientPrefix + ":")
}

// makeFingerprintKey generates a key recording that content was loaded.
func makeFingerprintKey(fp core.ID) []byte {
	prefix := []byte(recipeFingerprintPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(fp))
	return buf
}

func appendID(buf []byte, id core.ID) []byte {
	return binary.BigEndian.AppendUint64(buf, uint64(id))
}

// splitIndexKey splits the part of an index key after its prefix into the
// indexed text and the recipe ID.
func splitIndexKey(rest []byte) (string, core.ID, bool) {
	if len(rest) < idSuffixLen || rest[len(rest)-idSuffixLen] != keySeparator {
		return "", 0, false
	}
	return string(rest[:len(rest)-idSuffixLen]), idFromSuffix(rest), true
}

// idFromSuffix decodes the big-endian ID in the last 8 bytes of a key.
func idFromSuffix(key []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}
