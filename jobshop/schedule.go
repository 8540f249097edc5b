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
	"cmp"
	"fmt"
	"slices"

	"github.com/google/or-tools/scheduling/cpmodel"
)

// AssignedTask is a task placed in a solved schedule.
type AssignedTask struct {
	Job  int
	Task int
	// Alternative is the index of the selected alternative in the task.
	Alternative int
	Machine     int
	Start       int64
	Duration    int64
}

// End returns the first instant after the task.
func (a AssignedTask) End() int64 {
	return a.Start + a.Duration
}

// Label names the task, e.g. "job_1_task_0".
func (a AssignedTask) Label() string {
	return fmt.Sprintf("job_%d_task_%d", a.Job, a.Task)
}

// Span is the half-open time range [Start, End).
type Span struct {
	Start int64
	End   int64
}

// Schedule is a solved problem grouped by machine. Each machine lists its tasks by
// increasing start time.
type Schedule struct {
	Makespan int64
	Machines [][]AssignedTask
}

// Sequences returns the task labels of each machine in execution order.
func (s *Schedule) Sequences() [][]string {
	out := make([][]string, len(s.Machines))
	for m, tasks := range s.Machines {
		out[m] = make([]string, len(tasks))
		for i, a := range tasks {
			out[m][i] = a.Label()
		}
	}
	return out
}

// Intervals returns the busy time ranges of each machine in execution order.
func (s *Schedule) Intervals() [][]Span {
	out := make([][]Span, len(s.Machines))
	for m, tasks := range s.Machines {
		out[m] = make([]Span, len(tasks))
		for i, a := range tasks {
			out[m][i] = Span{Start: a.Start, End: a.End()}
		}
	}
	return out
}

// Reconstruct reads a solution back into a Schedule. The response must carry a
// solution for p.Model.
func Reconstruct(p *Problem, r *cpmodel.CpSolverResponse) (*Schedule, error) {
	if !r.GetStatus().HasSolution() {
		return nil, fmt.Errorf("cannot reconstruct a schedule from status %v", r.GetStatus())
	}
	if len(r.Solution) != len(p.Model.Variables) {
		return nil, fmt.Errorf("solution has %d values for %d variables", len(r.Solution), len(p.Model.Variables))
	}

	s := &Schedule{
		Makespan: cpmodel.SolutionIntegerValue(r, p.Makespan),
		Machines: make([][]AssignedTask, len(p.MachineIntervals)),
	}
	for j, tasks := range p.Tasks {
		for t, tv := range tasks {
			a := selected(r, tv)
			if a < 0 {
				return nil, fmt.Errorf("%w: no alternative selected for job %d task %d", ErrModelDefect, j, t)
			}
			alt := tv.Alternatives[a].Alternative
			s.Machines[alt.Machine] = append(s.Machines[alt.Machine], AssignedTask{
				Job:         j,
				Task:        t,
				Alternative: a,
				Machine:     alt.Machine,
				Start:       cpmodel.SolutionIntegerValue(r, tv.Start),
				Duration:    alt.Duration,
			})
		}
	}
	for _, tasks := range s.Machines {
		slices.SortStableFunc(tasks, func(a, b AssignedTask) int { return cmp.Compare(a.Start, b.Start) })
	}
	return s, nil
}

// selected returns the index of the alternative whose presence literal is true, or -1.
func selected(r *cpmodel.CpSolverResponse, tv *TaskVars) int {
	for a, av := range tv.Alternatives {
		if cpmodel.SolutionBooleanValue(r, av.Presence) {
			return a
		}
	}
	return -1
}

// Verify checks the schedule against ds: every task placed once on one of its
// alternatives, jobs in sequence, machines free of overlaps, and the makespan equal to
// the last end.
func (s *Schedule) Verify(ds *Dataset) error {
	placed := make([][]*AssignedTask, len(ds.Jobs))
	for j, job := range ds.Jobs {
		placed[j] = make([]*AssignedTask, len(job.Tasks))
	}
	var last int64
	for m, tasks := range s.Machines {
		for i := range tasks {
			a := &tasks[i]
			if a.Job < 0 || a.Job >= len(placed) || a.Task < 0 || a.Task >= len(placed[a.Job]) {
				return fmt.Errorf("%w: machine %d runs unknown %s", ErrInvalidSchedule, m, a.Label())
			}
			if placed[a.Job][a.Task] != nil {
				return fmt.Errorf("%w: %s is placed twice", ErrInvalidSchedule, a.Label())
			}
			placed[a.Job][a.Task] = a
			alts := ds.Jobs[a.Job].Tasks[a.Task].Alternatives
			if a.Alternative < 0 || a.Alternative >= len(alts) || alts[a.Alternative] != (Alternative{Machine: m, Duration: a.Duration}) {
				return fmt.Errorf("%w: %s on machine %d for %d does not match any alternative", ErrInvalidSchedule, a.Label(), m, a.Duration)
			}
			if a.Start < 0 {
				return fmt.Errorf("%w: %s starts at %d", ErrInvalidSchedule, a.Label(), a.Start)
			}
			if i > 0 && tasks[i-1].End() > a.Start {
				return fmt.Errorf("%w: %s and %s overlap on machine %d", ErrInvalidSchedule, tasks[i-1].Label(), a.Label(), m)
			}
			last = max(last, a.End())
		}
	}
	for j, tasks := range placed {
		for t, a := range tasks {
			if a == nil {
				return fmt.Errorf("%w: job_%d_task_%d is not placed", ErrInvalidSchedule, j, t)
			}
			if t > 0 && tasks[t-1].End() > a.Start {
				return fmt.Errorf("%w: %s starts before %s ends", ErrInvalidSchedule, a.Label(), tasks[t-1].Label())
			}
		}
	}
	if s.Makespan != last {
		return fmt.Errorf("%w: makespan %d but last task ends at %d", ErrInvalidSchedule, s.Makespan, last)
	}
	return nil
}
