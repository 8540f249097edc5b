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

// Package jobshop formulates job-shop and flexible job-shop scheduling problems as
// constraint models, hands them to a cpmodel.Solver and turns the solution back into
// per-machine timelines.
//
// A Dataset lists jobs, each an ordered sequence of tasks. A task owns one or more
// alternatives, each a (machine, duration) pair. A classic job-shop task has exactly one
// alternative; a flexible one lets the solver pick among several.
package jobshop

import (
	"fmt"
	"math"
)

// MaxMachine is the largest machine id a dataset may reference.
const MaxMachine = 1<<16 - 1

// Alternative is one way to process a task: on Machine, for Duration time units.
type Alternative struct {
	Machine  int   `yaml:"machine"`
	Duration int64 `yaml:"duration"`
}

// Task is a step of a job. Exactly one of its alternatives is selected in a schedule.
type Task struct {
	Alternatives []Alternative
}

// MinDuration returns the smallest duration among the alternatives.
func (t Task) MinDuration() int64 {
	var d int64
	for i, a := range t.Alternatives {
		if i == 0 || a.Duration < d {
			d = a.Duration
		}
	}
	return d
}

// MaxDuration returns the largest duration among the alternatives.
func (t Task) MaxDuration() int64 {
	var d int64
	for _, a := range t.Alternatives {
		d = max(d, a.Duration)
	}
	return d
}

// Job is a sequence of tasks that must run in order, each one starting after the
// previous one ends.
type Job struct {
	Tasks []Task
}

// Dataset is the static description of a scheduling problem. It is never modified by
// this package.
type Dataset struct {
	Name string
	Jobs []Job
}

// ClassicTask is a task bound to a single machine.
type ClassicTask struct {
	Machine  int
	Duration int64
}

// NewClassic returns a job-shop dataset where every task runs on one fixed machine.
func NewClassic(name string, jobs [][]ClassicTask) *Dataset {
	ds := &Dataset{Name: name, Jobs: make([]Job, len(jobs))}
	for j, tasks := range jobs {
		for _, t := range tasks {
			ds.Jobs[j].Tasks = append(ds.Jobs[j].Tasks, Task{Alternatives: []Alternative{{Machine: t.Machine, Duration: t.Duration}}})
		}
	}
	return ds
}

// NewFlexible returns a flexible job-shop dataset from job × task × alternative lists.
func NewFlexible(name string, jobs [][][]Alternative) *Dataset {
	ds := &Dataset{Name: name, Jobs: make([]Job, len(jobs))}
	for j, tasks := range jobs {
		for _, alts := range tasks {
			ds.Jobs[j].Tasks = append(ds.Jobs[j].Tasks, Task{Alternatives: append([]Alternative(nil), alts...)})
		}
	}
	return ds
}

// Validate rejects datasets that cannot be turned into a meaningful model. The returned
// error is a *DatasetError. Machine ids range over [0, MaxMachine] and the horizon must
// fit in an int64.
func (d *Dataset) Validate() error {
	if len(d.Jobs) == 0 {
		return &DatasetError{Job: -1, Task: -1, Alternative: -1, Reason: "no jobs"}
	}
	var horizon int64
	for j, job := range d.Jobs {
		if len(job.Tasks) == 0 {
			return &DatasetError{Job: j, Task: -1, Alternative: -1, Reason: "job has no tasks"}
		}
		for t, task := range job.Tasks {
			if len(task.Alternatives) == 0 {
				return &DatasetError{Job: j, Task: t, Alternative: -1, Reason: "task has no alternatives"}
			}
			for a, alt := range task.Alternatives {
				if alt.Duration <= 0 {
					return &DatasetError{Job: j, Task: t, Alternative: a, Reason: fmt.Sprintf("duration must be > 0 (got %d)", alt.Duration)}
				}
				if alt.Machine < 0 {
					return &DatasetError{Job: j, Task: t, Alternative: a, Reason: fmt.Sprintf("machine must be >= 0 (got %d)", alt.Machine)}
				}
				if alt.Machine > MaxMachine {
					return &DatasetError{Job: j, Task: t, Alternative: a, Reason: fmt.Sprintf("machine must be <= %d (got %d)", MaxMachine, alt.Machine)}
				}
			}
			longest := task.MaxDuration()
			if horizon > math.MaxInt64-longest {
				return &DatasetError{Job: j, Task: t, Alternative: -1, Reason: "total duration overflows int64"}
			}
			horizon += longest
		}
	}
	return nil
}

// NumMachines returns one plus the largest machine id referenced by any alternative.
func (d *Dataset) NumMachines() int {
	n := 0
	for _, job := range d.Jobs {
		for _, task := range job.Tasks {
			for _, alt := range task.Alternatives {
				n = max(n, alt.Machine+1)
			}
		}
	}
	return n
}

// NumTasks returns the number of tasks over all jobs.
func (d *Dataset) NumTasks() int {
	n := 0
	for _, job := range d.Jobs {
		n += len(job.Tasks)
	}
	return n
}

// Flexible reports whether some task has more than one alternative.
func (d *Dataset) Flexible() bool {
	for _, job := range d.Jobs {
		for _, task := range job.Tasks {
			if len(task.Alternatives) > 1 {
				return true
			}
		}
	}
	return false
}

// Horizon returns an upper bound on every time value of any schedule: the sum over all
// tasks of their longest alternative, as if everything ran back to back.
func (d *Dataset) Horizon() int64 {
	var h int64
	for _, job := range d.Jobs {
		for _, task := range job.Tasks {
			h += task.MaxDuration()
		}
	}
	return h
}

// LowerBound returns a makespan no schedule can beat: the longest job when every task
// takes its shortest alternative, the busiest machine counting only tasks that cannot
// run elsewhere, and the total shortest work spread evenly over all machines.
func (d *Dataset) LowerBound() int64 {
	var lb, work int64
	load := make([]int64, d.NumMachines())
	for _, job := range d.Jobs {
		var chain int64
		for _, task := range job.Tasks {
			chain += task.MinDuration()
			work += task.MinDuration()
			if len(task.Alternatives) == 1 {
				load[task.Alternatives[0].Machine] += task.Alternatives[0].Duration
			}
		}
		lb = max(lb, chain)
	}
	for _, l := range load {
		lb = max(lb, l)
	}
	if n := int64(len(load)); n > 0 {
		lb = max(lb, (work+n-1)/n)
	}
	return lb
}
