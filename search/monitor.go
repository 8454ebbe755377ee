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
	"time"

	"github.com/poiesic/larder/core"
)

// Stage names one step of the search pipeline.
type Stage string

const (
	StageRetrieve Stage = "retrieve"
	StageHydrate  Stage = "hydrate"
	StageFilter   Stage = "filter"
	StageScore    Stage = "score"
	StageRank     Stage = "rank"
)

// SearchMonitor provides hooks to observe the search process.
// Implementations shared between Searchers must be safe for concurrent use;
// each hook receives the time spent in the stage it reports on.
type SearchMonitor interface {
	Start(req *Request)
	AfterRetrieval(candidates core.IDSet, suggested string, elapsed time.Duration)
	AfterHydration(recipes []core.Recipe, elapsed time.Duration)
	AfterFilter(recipes []core.Recipe, elapsed time.Duration)
	AfterScoring(scored []Scored, elapsed time.Duration)
	AfterRanking(ranked []core.Recipe, elapsed time.Duration)
	Failed(stage Stage, err error)
	Finish(result *Result, elapsed time.Duration)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *Request)                                     {}
func (n *noopMonitor) AfterRetrieval(_ core.IDSet, _ string, _ time.Duration) {}
func (n *noopMonitor) AfterHydration(_ []core.Recipe, _ time.Duration)      {}
func (n *noopMonitor) AfterFilter(_ []core.Recipe, _ time.Duration)         {}
func (n *noopMonitor) AfterScoring(_ []Scored, _ time.Duration)             {}
func (n *noopMonitor) AfterRanking(_ []core.Recipe, _ time.Duration)        {}
func (n *noopMonitor) Failed(_ Stage, _ error)                              {}
func (n *noopMonitor) Finish(_ *Result, _ time.Duration)                    {}
