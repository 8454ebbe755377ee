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
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// IDFromContent generates a deterministic 64-bit fingerprint from text
// content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Fingerprint identifies a recipe by its content: title and ingredient
// names, case-folded. Two rows with the same fingerprint are duplicates.
func Fingerprint(r *Recipe) ID {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(r.Title)))
	for _, ing := range r.Ingredients {
		b.WriteByte('|')
		b.WriteString(strings.ToLower(strings.TrimSpace(ing.Name)))
	}
	return IDFromContent(b.String())
}
