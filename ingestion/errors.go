package ingestion

import "errors"

var (
	// ErrRecipeRepositoryRequired is returned when a recipe repository is not provided.
	ErrRecipeRepositoryRequired = errors.New("recipe repository required")

	// ErrMalformedRecord is returned when a source line cannot be decoded.
	ErrMalformedRecord = errors.New("malformed source record")

	// ErrSourceRead is returned when the source stream fails.
	ErrSourceRead = errors.New("error reading source")
)
