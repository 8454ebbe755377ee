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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/storage"
)

const (
	defaultBatchSize = 500
	maxLineBytes     = 4 * 1024 * 1024
)

// Stats summarizes a completed load.
type Stats struct {
	Read       int // Lines read from the source
	Skipped    int // Untitled or placeholder records
	Malformed  int // Lines that could not be decoded or failed validation
	Duplicates int // Records whose content was already stored
	Stored     int // Recipes written
}

// Loader maps source records into recipes and writes them to a repository.
type Loader struct {
	repository storage.RecipeRepository
	pool       *ants.Pool
	batchSize  int
	limit      int
	logger     *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithPoolSize sets the worker pool size used to map records.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		if l.pool != nil {
			l.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		l.pool = pool
		return nil
	}
}

// WithBatchSize sets how many recipes are written per transaction.
// Default is 500.
func WithBatchSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		l.batchSize = size
		return nil
	}
}

// WithLimit stops the load once this many records have been accepted.
// Zero means no limit.
func WithLimit(limit int) Option {
	return func(l *Loader) error {
		if limit < 0 {
			limit = 0
		}
		l.limit = limit
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a loader writing to repository.
func NewLoader(repository storage.RecipeRepository, opts ...Option) (*Loader, error) {
	if repository == nil {
		return nil, ErrRecipeRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	l := &Loader{
		repository: repository,
		pool:       pool,
		batchSize:  defaultBatchSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(l); optErr != nil {
			l.Release()
			return nil, optErr
		}
	}
	return l, nil
}

// Load reads JSON-lines records from src until EOF, the limit, or
// cancellation. Stats reflect everything written before an error.
func (l *Loader) Load(ctx context.Context, src io.Reader) (*Stats, error) {
	stats := &Stats{}
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	batch := make([]*Record, 0, l.batchSize)
	accepted := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		stats.Read++

		rec := &Record{}
		if err := json.Unmarshal(line, rec); err != nil {
			stats.Malformed++
			l.logger.Warn("skipping source line", "line", stats.Read, "err", fmt.Errorf("%w: %w", ErrMalformedRecord, err))
			continue
		}
		if rec.skipped() {
			stats.Skipped++
			continue
		}

		batch = append(batch, rec)
		accepted++
		if len(batch) == l.batchSize {
			if err := l.flush(ctx, batch, stats); err != nil {
				return stats, err
			}
			batch = batch[:0]
		}
		if l.limit > 0 && accepted >= l.limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	if err := l.flush(ctx, batch, stats); err != nil {
		return stats, err
	}

	l.logger.Info("load complete",
		"read", stats.Read,
		"stored", stats.Stored,
		"skipped", stats.Skipped,
		"malformed", stats.Malformed,
		"duplicates", stats.Duplicates)
	return stats, nil
}

// flush maps a batch on the worker pool and writes the results in source order.
func (l *Loader) flush(ctx context.Context, batch []*Record, stats *Stats) error {
	if len(batch) == 0 {
		return nil
	}

	recipes := make([]*core.Recipe, len(batch))
	var wg sync.WaitGroup
	for i, rec := range batch {
		wg.Add(1)
		if err := l.pool.Submit(func() {
			defer wg.Done()
			recipes[i] = rec.toRecipe()
		}); err != nil {
			wg.Done()
			wg.Wait()
			return err
		}
	}
	wg.Wait()

	valid := make([]*core.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if err := core.ValidateRecipe(recipe); err != nil {
			stats.Malformed++
			l.logger.Warn("skipping invalid recipe", "title", recipe.Title, "err", err)
			continue
		}
		valid = append(valid, recipe)
	}
	if len(valid) == 0 {
		return nil
	}

	stored, err := l.repository.AddRecipes(ctx, valid...)
	if err != nil {
		return err
	}
	stats.Stored += len(stored)
	stats.Duplicates += len(valid) - len(stored)
	l.logger.Debug("wrote batch", "size", len(valid), "stored", len(stored))
	return nil
}

// Release releases the worker pool.
// The loader should not be used after calling Release.
func (l *Loader) Release() {
	if l.pool != nil {
		l.pool.Release()
	}
}
