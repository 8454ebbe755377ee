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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/search"
	"github.com/poiesic/larder/storage"
)

const maxBodyBytes = 1 << 20

type searchResponse struct {
	Recipes          []core.Recipe `json:"recipes"`
	Count            int           `json:"count"`
	SuggestedKeyword string        `json:"suggestedKeyword,omitempty"`
}

type cuisinesResponse struct {
	Cuisines []string `json:"cuisines"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// searchBody is the POST /api/search payload. Calorie bounds are accepted
// as numbers or numeric strings; anything else leaves the bound unset.
type searchBody struct {
	Keyword     string             `json:"keyword"`
	Filters     filtersBody        `json:"filters"`
	Preferences search.Preferences `json:"preferences"`
	Limit       *int               `json:"limit"`
}

type filtersBody struct {
	search.Filters
	CaloriesMin json.RawMessage `json:"calories_min"`
	CaloriesMax json.RawMessage `json:"calories_max"`
}

// searchGet handles GET /api/search.
func (s *Server) searchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := s.defaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > s.maxLimit {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and "+strconv.Itoa(s.maxLimit))
			return
		}
		limit = n
	}

	req := &search.Request{
		Keyword: strings.TrimSpace(q.Get("q")),
		Filters: search.Filters{
			Time:              core.TimeTier(q.Get("time")),
			Budget:            core.BudgetTier(q.Get("budget")),
			Cuisines:          splitList(q.Get("cuisines")),
			ExcludeAllergens:  splitList(q.Get("exclude_allergens")),
			IncludeIngredient: q.Get("include_ingredient"),
		},
		Limit: limit,
	}
	s.runSearch(w, r, req)
}

// searchPost handles POST /api/search.
func (s *Server) searchPost(w http.ResponseWriter, r *http.Request) {
	var body searchBody
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	limit := s.defaultLimit
	if body.Limit != nil && *body.Limit > 0 {
		limit = min(*body.Limit, s.maxLimit)
	}

	filters := body.Filters.Filters
	filters.CaloriesMin = lenientInt(body.Filters.CaloriesMin)
	filters.CaloriesMax = lenientInt(body.Filters.CaloriesMax)

	req := &search.Request{
		Keyword:     strings.TrimSpace(body.Keyword),
		Filters:     filters,
		Preferences: body.Preferences,
		Limit:       limit,
	}
	s.runSearch(w, r, req)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, req *search.Request) {
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.searcher.Search(r.Context(), req)
	if err != nil {
		s.handleError(w, err)
		return
	}

	recipes := result.Recipes
	if recipes == nil {
		recipes = []core.Recipe{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Recipes:          recipes,
		Count:            len(recipes),
		SuggestedKeyword: result.SuggestedKeyword,
	})
}

// cuisines handles GET /api/cuisines.
func (s *Server) cuisines(w http.ResponseWriter, r *http.Request) {
	tags, err := s.repo.Tags(r.Context(), core.DimensionCuisine)
	if err != nil {
		s.handleError(w, err)
		return
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, strings.ReplaceAll(tag, "_", " "))
	}
	writeJSON(w, http.StatusOK, cuisinesResponse{Cuisines: out})
}

// recipe handles GET /api/recipes/{id}.
func (s *Server) recipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}
	row, err := s.repo.GetRecipe(r.Context(), core.ID(id))
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, core.Normalize(row))
}

func (s *Server) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, search.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrStoreUnavailable), errors.Is(err, storage.ErrStorageClosed):
		s.logger.Error("store unavailable", "err", err)
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		s.logger.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// splitList splits a comma-separated query value, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// lenientInt reads an integer from a JSON number or numeric string.
func lenientInt(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if v, err := strconv.Atoi(n.String()); err == nil {
			return &v
		}
		if f, err := n.Float64(); err == nil {
			v := int(f)
			return &v
		}
		return nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return nil
	}
	if v, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
		return &v
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
