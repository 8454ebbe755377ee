package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/search"
	"github.com/poiesic/larder/storage/badger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	return m, reg
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.ErrorIs(t, err, ErrRegistration)
}

func TestMonitorRecordsStages(t *testing.T) {
	m, _ := newTestMetrics(t)
	mon := m.Monitor()

	mon.Start(&search.Request{Keyword: "curr"})
	mon.AfterRetrieval(core.NewIDSet(1, 2, 3), "cur", time.Millisecond)
	mon.AfterHydration(nil, time.Millisecond)
	mon.AfterFilter(nil, time.Millisecond)
	mon.AfterScoring(nil, time.Millisecond)
	mon.AfterRanking(nil, time.Millisecond)
	mon.Finish(&search.Result{Recipes: []core.Recipe{{ID: 1}}}, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.searchesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relaxedTotal))
	assert.Equal(t, 5, testutil.CollectAndCount(m.stageDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.searchDuration))

	mon.Failed(search.StageHydrate, errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failuresTotal.WithLabelValues("hydrate")))
}

func TestMonitorWithSearcher(t *testing.T) {
	ctx := context.Background()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	_, err = repo.AddRecipes(ctx, &core.Recipe{
		Title:       "Chicken Curry",
		Ingredients: []core.Ingredient{{Name: "chicken"}, {Name: "curry paste"}},
		Rating:      4.5,
	})
	require.NoError(t, err)

	m, _ := newTestMetrics(t)
	searcher, err := search.NewSearcher(repo, search.WithMonitor(m.Monitor()))
	require.NoError(t, err)

	result, err := searcher.Search(ctx, &search.Request{Keyword: "curry"})
	require.NoError(t, err)
	require.Len(t, result.Recipes, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.searchesTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.relaxedTotal))
	assert.Equal(t, 5, testutil.CollectAndCount(m.stageDuration))
}

func TestMiddlewareRecordsDurationAndCount(t *testing.T) {
	m, _ := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/api/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/recipes/1", "/api/recipes/2", "/missing"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/recipes/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/missing", "404")))
	assert.Positive(t, testutil.CollectAndCount(m.httpRequestDuration))
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "unknown", normalizePath(""))
	assert.Equal(t, "/api/search", normalizePath("/api/search"))
}
