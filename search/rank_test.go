package search

import (
	"testing"

	"github.com/poiesic/larder/core"
	"github.com/stretchr/testify/assert"
)

func scoredFor(id core.ID, rel, pref, qual float64) Scored {
	return Scored{Recipe: core.Recipe{ID: id}, Relevance: rel, Preference: pref, Quality: qual}
}

func TestRank(t *testing.T) {
	tests := []struct {
		name         string
		scored       []Scored
		hasPreferred bool
		want         []core.ID
	}{
		{
			name:   "single bucket by total",
			scored: []Scored{scoredFor(1, 1, 0, 1), scoredFor(2, 10, 0, 0), scoredFor(3, 0, 5, 0)},
			want:   []core.ID{2, 3, 1},
		},
		{
			name:         "preferred bucket outranks relevance",
			scored:       []Scored{scoredFor(1, 100, 0, 9), scoredFor(2, 0, 10, 0), scoredFor(3, 5, 10, 1), scoredFor(4, 0, 200, 0)},
			hasPreferred: true,
			want:         []core.ID{4, 3, 2, 1},
		},
		{
			name:         "rest ordered by relevance plus quality",
			scored:       []Scored{scoredFor(1, 1, 0, 1), scoredFor(2, 3, 0, 0), scoredFor(3, 0, 0, 2)},
			hasPreferred: true,
			want:         []core.ID{2, 1, 3},
		},
		{
			name:   "ties keep input order",
			scored: []Scored{scoredFor(5, 1, 0, 0), scoredFor(6, 0, 1, 0), scoredFor(7, 0, 0, 1)},
			want:   []core.ID{5, 6, 7},
		},
		{
			name: "empty",
			want: []core.ID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Rank(tt.scored, tt.hasPreferred)))
		})
	}
}

func TestRank_Deterministic(t *testing.T) {
	scored := make([]Scored, 0, 50)
	for i := range 50 {
		scored = append(scored, scoredFor(core.ID(i+1), float64(i%3), float64(i%2), 0))
	}
	first := ids(Rank(scored, true))
	for range 10 {
		assert.Equal(t, first, ids(Rank(scored, true)))
	}
}

// Scenario pipeline over the shared two-recipe corpus, without storage.
func rankCorpus(keyword string, filters Filters, prefs Preferences) []core.ID {
	cfg := DefaultConfig()
	filtered := Filter(corpus(), filters, prefs, &cfg)
	idf := BuildIDF(filtered)
	scored := make([]Scored, len(filtered))
	for i := range filtered {
		r := &filtered[i]
		scored[i] = Scored{
			Recipe:     *r,
			Relevance:  Relevance(r, keyword, idf, cfg.Fields),
			Preference: Preference(r, &prefs, &cfg),
			Quality:    Quality(r, &cfg),
		}
	}
	return ids(Rank(scored, prefs.HasPreferred()))
}

func TestRankingScenarios(t *testing.T) {
	t.Run("keyword match ranks first", func(t *testing.T) {
		assert.Equal(t, []core.ID{1, 2}, rankCorpus("chicken", Filters{}, Preferences{}))
	})

	t.Run("quick filter leaves the short recipe", func(t *testing.T) {
		assert.Equal(t, []core.ID{2}, rankCorpus("", Filters{Time: core.TimeQuick}, Preferences{}))
	})

	t.Run("cuisine preference ranks first", func(t *testing.T) {
		prefs := Preferences{CuisineWeights: core.NewFoldMap(map[string]float64{"indian": 1})}
		assert.Equal(t, []core.ID{1, 2}, rankCorpus("", Filters{}, prefs))
	})

	t.Run("preference beats a stronger keyword match", func(t *testing.T) {
		prefs := Preferences{CuisineWeights: core.NewFoldMap(map[string]float64{"indian": 0.01})}
		assert.Equal(t, []core.ID{1, 2}, rankCorpus("rice", Filters{}, prefs))
	})

	t.Run("excluded ingredient removes recipe", func(t *testing.T) {
		assert.Equal(t, []core.ID{2}, rankCorpus("", Filters{ExcludeIngredients: []string{"chicken"}}, Preferences{}))
	})
}
