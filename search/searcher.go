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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/storage"
)

// Result is the outcome of one search.
type Result struct {
	// Recipes are ranked best first and truncated to the request limit.
	Recipes []core.Recipe `json:"recipes"`

	// SuggestedKeyword is set when keyword relaxation changed a term.
	SuggestedKeyword string `json:"suggestedKeyword,omitempty"`

	// Candidates is the number of IDs the retriever produced.
	Candidates int `json:"-"`

	// Matched is the number of recipes that passed every filter.
	Matched int `json:"-"`
}

// Searcher ranks recipes from a RecipeReader against search requests.
// A Searcher is safe for concurrent use.
type Searcher struct {
	repo      storage.RecipeReader
	cfg       Config
	retriever *retriever
	monitor   SearchMonitor
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithConfig replaces the default scoring configuration.
// The config is validated and copied.
func WithConfig(cfg Config) Option {
	return func(s *Searcher) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.cfg = cfg.clone()
		return nil
	}
}

// WithMonitor sets the monitor used by Search.
func WithMonitor(monitor SearchMonitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repo storage.RecipeReader, opts ...Option) (*Searcher, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	s := &Searcher{
		repo:    repo,
		cfg:     DefaultConfig(),
		monitor: &noopMonitor{},
		logger:  slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.retriever = newRetriever(repo, &s.cfg)

	return s, nil
}

// Config returns a copy of the searcher's configuration.
func (s *Searcher) Config() Config {
	return s.cfg.clone()
}

// Search runs req through retrieval, filtering, scoring and ranking.
// A nil request matches everything. Storage failures yield an empty result
// and an error wrapping storage.ErrStoreUnavailable.
func (s *Searcher) Search(ctx context.Context, req *Request) (*Result, error) {
	return s.SearchWithMonitor(ctx, req, s.monitor)
}

// SearchWithMonitor is Search reporting to monitor instead of the
// searcher's own monitor.
func (s *Searcher) SearchWithMonitor(ctx context.Context, req *Request, monitor SearchMonitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if req == nil {
		req = &Request{}
	}
	began := time.Now()
	monitor.Start(req)

	// 1. Candidate IDs from the indexes
	stageStart := time.Now()
	ids, suggested, err := s.retriever.retrieve(ctx, req)
	if err != nil {
		return s.fail(monitor, StageRetrieve, err, "error retrieving candidates", "keyword", req.Keyword)
	}
	monitor.AfterRetrieval(ids, suggested, time.Since(stageStart))

	// 2. Hydrate and normalize, lowest IDs first
	stageStart = time.Now()
	sorted := ids.Sorted()
	if s.cfg.MaxCandidates > 0 && len(sorted) > s.cfg.MaxCandidates {
		s.logger.Debug("capping candidates", "candidates", len(sorted), "max", s.cfg.MaxCandidates)
		sorted = sorted[:s.cfg.MaxCandidates]
	}
	var recipes []core.Recipe
	if len(sorted) > 0 {
		rows, err := s.repo.RowsByIDs(ctx, sorted...)
		if err != nil {
			return s.fail(monitor, StageHydrate, err, "error hydrating recipes", "count", len(sorted))
		}
		recipes = make([]core.Recipe, 0, len(rows))
		for _, row := range rows {
			recipes = append(recipes, core.Normalize(row))
		}
	}
	monitor.AfterHydration(recipes, time.Since(stageStart))

	// 3. Hard filters
	stageStart = time.Now()
	filtered := filterRecipes(recipes, buildPredicates(req, &s.cfg))
	monitor.AfterFilter(filtered, time.Since(stageStart))

	// 4. Score against an IDF table over the filtered set
	stageStart = time.Now()
	idf := BuildIDF(filtered)
	scored := make([]Scored, len(filtered))
	for i := range filtered {
		r := &filtered[i]
		scored[i] = Scored{
			Recipe:     *r,
			Relevance:  Relevance(r, req.Keyword, idf, s.cfg.Fields),
			Preference: Preference(r, &req.Preferences, &s.cfg),
			Quality:    Quality(r, &s.cfg),
		}
	}
	monitor.AfterScoring(scored, time.Since(stageStart))

	// 5. Rank and truncate
	stageStart = time.Now()
	ranked := Rank(scored, req.Preferences.HasPreferred())
	if req.Limit > 0 && len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}
	monitor.AfterRanking(ranked, time.Since(stageStart))

	result := &Result{
		Recipes:          ranked,
		SuggestedKeyword: suggested,
		Candidates:       ids.Len(),
		Matched:          len(filtered),
	}
	monitor.Finish(result, time.Since(began))
	return result, nil
}

func (s *Searcher) fail(monitor SearchMonitor, stage Stage, err error, msg string, args ...any) (*Result, error) {
	s.logger.Error(msg, append(args, "err", err)...)
	if !errors.Is(err, storage.ErrStoreUnavailable) {
		err = fmt.Errorf("%w: %w", storage.ErrStoreUnavailable, err)
	}
	monitor.Failed(stage, err)
	return &Result{Recipes: []core.Recipe{}}, err
}
