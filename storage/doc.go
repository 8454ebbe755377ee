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

// Package storage defines the Storage Gateway for larder.
//
// Search sees the recipe corpus only through RecipeReader: a handful of
// index lookups returning ID sets, and row hydration by ID. Rows are kept in
// their raw, comma-delimited/JSON-text shape and normalized by the caller.
//
// # Indexes
//
// Two kinds of secondary index are written at load time:
//
//   - Membership index: (dimension, tag) -> IDs, one mapping for the
//     allergen, cuisine, spice and budget dimensions
//   - Ingredient index: lowercase ingredient name -> IDs, probed by substring
//
// Indexes are written once per recipe and never patched.
//
// # Usage
//
//	repo, err := badger.NewRepository("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// All implementations must support concurrent readers. The store is treated
// as read-only while searches run.
package storage
