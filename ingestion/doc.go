// Package ingestion loads source recipe records into a recipe repository.
//
// The Loader reads JSON-lines records, maps each one into a canonical
// recipe and writes them in batches:
//   - Trivial and untitled records are skipped
//   - Allergen, spice, budget, difficulty, cuisine and diet tags are inferred
//   - Times, ratings and list lengths are clamped to sane ranges
//
// Mapping is performed concurrently on a worker pool. Batches are written in
// source order, so identifiers follow the order of the input.
package ingestion
