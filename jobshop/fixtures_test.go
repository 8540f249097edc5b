// Copyright 2010-2024 Google LLC
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

package jobshop

import (
	"testing"

	"github.com/google/or-tools/scheduling/cpmodel"
)

// classic3x3 is a small job-shop instance with an optimal makespan of 11.
func classic3x3() *Dataset {
	return NewClassic("3x3", [][]ClassicTask{
		{{Machine: 0, Duration: 3}, {Machine: 1, Duration: 2}, {Machine: 2, Duration: 2}},
		{{Machine: 0, Duration: 2}, {Machine: 2, Duration: 1}, {Machine: 1, Duration: 4}},
		{{Machine: 1, Duration: 4}, {Machine: 2, Duration: 3}},
	})
}

// classic3x3Optimum places classic3x3 with makespan 11.
var classic3x3Optimum = [][]placement{
	{{0, 0}, {0, 4}, {0, 6}},
	{{0, 3}, {0, 5}, {0, 7}},
	{{0, 0}, {0, 8}},
}

func alts(d0, d1, d2 int64) []Alternative {
	return []Alternative{{Machine: 0, Duration: d0}, {Machine: 1, Duration: d1}, {Machine: 2, Duration: d2}}
}

// flexible3x3 lets every task run on any of three machines.
func flexible3x3() *Dataset {
	return NewFlexible("flexible", [][][]Alternative{
		{alts(3, 1, 5), alts(2, 4, 6), alts(2, 3, 1)},
		{alts(2, 3, 4), alts(1, 5, 4), alts(2, 1, 4)},
		{alts(2, 1, 4), alts(2, 1, 4), alts(7, 3, 5)},
	})
}

// flexible3x3Schedule places flexible3x3 with makespan 7.
var flexible3x3Schedule = [][]placement{
	{{1, 0}, {0, 2}, {2, 4}},
	{{0, 0}, {0, 4}, {0, 5}},
	{{1, 1}, {1, 2}, {1, 3}},
}

// placement selects an alternative of a task and its start time.
type placement struct {
	alt   int
	start int64
}

// assignment builds a complete solution of p from the placement of every task. The
// makespan is set to the last end.
func assignment(t *testing.T, p *Problem, placements [][]placement) []int64 {
	t.Helper()
	values := make([]int64, len(p.Model.Variables))
	for i, v := range p.Model.Variables {
		if len(v.Domain) == 2 && v.Domain[0] == v.Domain[1] {
			values[i] = v.Domain[0]
		}
	}
	var makespan int64
	for j, tasks := range p.Tasks {
		for k, tv := range tasks {
			pl := placements[j][k]
			end := pl.start + tv.Alternatives[pl.alt].Alternative.Duration
			values[tv.Start.Index()] = pl.start
			values[tv.End.Index()] = end
			values[tv.Duration.Index()] = end - pl.start
			for a, av := range tv.Alternatives {
				if av.Start.Index() == tv.Start.Index() {
					continue
				}
				if a == pl.alt {
					values[av.Presence.Index()] = 1
					values[av.Start.Index()] = pl.start
					values[av.End.Index()] = end
				} else {
					values[av.Presence.Index()] = 0
					values[av.Start.Index()] = 0
					values[av.End.Index()] = 0
				}
			}
			makespan = max(makespan, end)
		}
	}
	values[p.Makespan.Index()] = makespan
	return values
}

// response wraps assignment in a solver response with the given status.
func response(t *testing.T, p *Problem, status cpmodel.CpSolverStatus, placements [][]placement) *cpmodel.CpSolverResponse {
	t.Helper()
	values := assignment(t, p, placements)
	obj := float64(values[p.Makespan.Index()])
	return &cpmodel.CpSolverResponse{Status: status, Solution: values, ObjectiveValue: obj, BestObjectiveBound: obj}
}

func mustBuild(t *testing.T, ds *Dataset) *Problem {
	t.Helper()
	p, err := Build(ds)
	if err != nil {
		t.Fatalf("Build(%q) returned with unexpected error %v", ds.Name, err)
	}
	return p
}
