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

// Package larder opens a recipe store and builds the searchers and loaders
// that work against it.
package larder

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/larder/ingestion"
	"github.com/poiesic/larder/search"
	"github.com/poiesic/larder/storage"
	"github.com/poiesic/larder/storage/badger"
)

type Database struct {
	backend  *badger.Backend
	repo     *badger.RecipeRepository
	readOnly bool
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	readOnly bool
	inMemory bool
	logger   *slog.Logger
}

// WithReadOnly opens an existing store for searching only.
func WithReadOnly() DatabaseOption {
	return func(o *databaseOptions) {
		o.readOnly = true
	}
}

// WithInMemory keeps the store in memory; the path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the logger used by the database and its backend.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	backendOpts := []badger.BackendOption{badger.WithBackendLogger(options.logger)}
	if options.readOnly {
		backendOpts = append(backendOpts, badger.WithReadOnly())
	}
	backend, err := badger.OpenBackend(filePath, options.inMemory, backendOpts...)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewRecipeRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		repo:     repo,
		readOnly: options.readOnly,
		logger:   options.logger,
	}, nil
}

// Close releases the repository and closes the backend, even when the
// repository fails to close.
func (db *Database) Close() error {
	repoErr := db.repo.Close()
	if repoErr != nil {
		db.logger.Error("error closing recipe repository", "err", repoErr)
	}
	backendErr := db.backend.Close()
	if backendErr != nil {
		db.logger.Error("error closing backend storage", "err", backendErr)
	}
	return errors.Join(repoErr, backendErr)
}

func (db *Database) RecipeRepository() storage.RecipeRepository {
	return db.repo
}

// NewSearcher returns a searcher over the store. The database logger is
// used unless opts set another.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.repo, append([]search.Option{search.WithLogger(db.logger)}, opts...)...)
}

// NewLoader returns a loader writing to the store. A read-only database
// cannot load.
func (db *Database) NewLoader(opts ...ingestion.Option) (*ingestion.Loader, error) {
	if db.readOnly {
		return nil, fmt.Errorf("%w: cannot load into a read-only store", storage.ErrReadOnly)
	}
	return ingestion.NewLoader(db.repo, append([]ingestion.Option{ingestion.WithLogger(db.logger)}, opts...)...)
}
