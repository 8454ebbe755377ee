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

package metrics

import (
	"time"

	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/search"
)

// Monitor returns a search.SearchMonitor backed by m. It is safe to share
// between searchers.
func (m *Metrics) Monitor() search.SearchMonitor {
	return &searchMonitor{m: m}
}

type searchMonitor struct {
	m *Metrics
}

var _ search.SearchMonitor = (*searchMonitor)(nil)

func (s *searchMonitor) observe(stage search.Stage, elapsed time.Duration) {
	s.m.stageDuration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
}

func (s *searchMonitor) Start(_ *search.Request) {
	s.m.searchesTotal.Inc()
}

func (s *searchMonitor) AfterRetrieval(candidates core.IDSet, suggested string, elapsed time.Duration) {
	s.observe(search.StageRetrieve, elapsed)
	s.m.candidates.Observe(float64(candidates.Len()))
	if suggested != "" {
		s.m.relaxedTotal.Inc()
	}
}

func (s *searchMonitor) AfterHydration(_ []core.Recipe, elapsed time.Duration) {
	s.observe(search.StageHydrate, elapsed)
}

func (s *searchMonitor) AfterFilter(_ []core.Recipe, elapsed time.Duration) {
	s.observe(search.StageFilter, elapsed)
}

func (s *searchMonitor) AfterScoring(_ []search.Scored, elapsed time.Duration) {
	s.observe(search.StageScore, elapsed)
}

func (s *searchMonitor) AfterRanking(_ []core.Recipe, elapsed time.Duration) {
	s.observe(search.StageRank, elapsed)
}

func (s *searchMonitor) Failed(stage search.Stage, _ error) {
	s.m.failuresTotal.WithLabelValues(string(stage)).Inc()
}

func (s *searchMonitor) Finish(result *search.Result, elapsed time.Duration) {
	s.m.searchDuration.Observe(elapsed.Seconds())
	if result != nil {
		s.m.recipesReturned.Observe(float64(len(result.Recipes)))
	}
}
