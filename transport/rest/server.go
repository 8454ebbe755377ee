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

package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/larder/metrics"
	"github.com/poiesic/larder/search"
	"github.com/poiesic/larder/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultLimit = 200
	maxLimit     = 500
)

var (
	// ErrSearcherRequired is returned when a searcher is not provided.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrRepositoryRequired is returned when a recipe reader is not provided.
	ErrRepositoryRequired = errors.New("recipe repository required")

	// ErrInvalidLimits is returned when the default limit exceeds the maximum.
	ErrInvalidLimits = errors.New("default limit exceeds max limit")
)

// Server holds the HTTP handlers for the search API.
type Server struct {
	searcher     *search.Searcher
	repo         storage.RecipeReader
	logger       *slog.Logger
	metrics      *metrics.Metrics
	gatherer     prometheus.Gatherer
	defaultLimit int
	maxLimit     int
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithLimits sets the result limit used when a request names none and the
// largest limit a request may ask for. Defaults are 200 and 500.
func WithLimits(def, ceiling int) Option {
	return func(s *Server) error {
		if def < 1 || def > ceiling {
			return ErrInvalidLimits
		}
		s.defaultLimit = def
		s.maxLimit = ceiling
		return nil
	}
}

// WithMetrics records request metrics on m and exposes gatherer on /metrics.
// A nil gatherer uses prometheus.DefaultGatherer.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) error {
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		s.metrics = m
		s.gatherer = gatherer
		return nil
	}
}

// NewServer creates an API server answering searches with searcher and
// recipe lookups with repo.
func NewServer(searcher *search.Searcher, repo storage.RecipeReader, opts ...Option) (*Server, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	s := &Server{
		searcher:     searcher,
		repo:         repo,
		logger:       slog.Default(),
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Handler returns the router serving all API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(cors)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.searchGet)
		r.Post("/search", s.searchPost)
		r.Get("/cuisines", s.cuisines)
		r.Get("/recipes/{id}", s.recipe)
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}
