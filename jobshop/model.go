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
	"fmt"

	log "github.com/golang/glog"
	"github.com/google/or-tools/scheduling/cpmodel"
)

// AlternativeVars are the model elements of one alternative of a task.
type AlternativeVars struct {
	Alternative Alternative
	// Presence holds when the alternative is selected. It is the true literal for
	// tasks built with the classic encoding.
	Presence cpmodel.BoolVar
	Start    cpmodel.IntVar
	End      cpmodel.IntVar
	// Interval is the interval placed on the alternative's machine.
	Interval cpmodel.IntervalVar
}

// TaskVars are the model elements of one task.
type TaskVars struct {
	Start    cpmodel.IntVar
	Duration cpmodel.IntVar
	End      cpmodel.IntVar
	// Interval ties Start, Duration and End. For classic tasks it is also the machine
	// interval.
	Interval     cpmodel.IntervalVar
	Alternatives []AlternativeVars
}

// Problem is a dataset turned into a constraint model, together with the handles needed
// to read a solution back.
type Problem struct {
	Dataset *Dataset
	Horizon int64
	Model   *cpmodel.CpModel
	// Tasks is indexed by job, then by task.
	Tasks    [][]*TaskVars
	Makespan cpmodel.IntVar
	// MachineIntervals lists, per machine, every interval that may run on it. Machines
	// used by no task have an empty list.
	MachineIntervals [][]cpmodel.IntervalVar
}

// modelBuilder walks a dataset once and emits the model.
type modelBuilder struct {
	ds       *Dataset
	cp       *cpmodel.Builder
	horizon  int64
	flexible bool
	machines [][]cpmodel.IntervalVar
}

// Build validates ds and translates it into a makespan minimization model. Building the
// same dataset twice yields structurally identical models.
func Build(ds *Dataset) (*Problem, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	b := &modelBuilder{
		ds:       ds,
		cp:       cpmodel.NewCpModelBuilder(),
		horizon:  ds.Horizon(),
		flexible: ds.Flexible(),
		machines: make([][]cpmodel.IntervalVar, ds.NumMachines()),
	}
	b.cp.SetName(ds.Name)
	p := &Problem{Dataset: ds, Horizon: b.horizon, Tasks: make([][]*TaskVars, len(ds.Jobs))}

	var ends []cpmodel.LinearArgument
	for j, job := range ds.Jobs {
		for t, task := range job.Tasks {
			tv := b.addTask(j, t, task)
			p.Tasks[j] = append(p.Tasks[j], tv)
			ends = append(ends, tv.End)
		}
	}

	// Resource contention: one no-overlap per machine.
	for m, intervals := range b.machines {
		b.cp.AddNoOverlap(intervals...).WithName(fmt.Sprintf("machine_%d", m))
	}

	// Job sequencing: a task starts after its predecessor ends.
	for j, tasks := range p.Tasks {
		for t := 1; t < len(tasks); t++ {
			b.cp.AddLessOrEqual(tasks[t-1].End, tasks[t].Start).WithName(fmt.Sprintf("precedence_%d_%d", j, t))
		}
	}

	p.Makespan = b.cp.NewIntVar(0, b.horizon).WithName("makespan")
	b.cp.AddMaxEquality(p.Makespan, ends...).WithName("makespan")
	b.cp.Minimize(p.Makespan)

	m, err := b.cp.Model()
	if err != nil {
		log.Errorf("jobshop: building %q: %v", ds.Name, err)
		return nil, fmt.Errorf("%w: %v", ErrModelDefect, err)
	}
	p.Model = m
	p.MachineIntervals = b.machines
	if log.V(1) {
		s := m.Stats()
		log.Infof("jobshop: model %q: %d jobs, %d machines, horizon %d, %d variables, constraints %v",
			ds.Name, len(ds.Jobs), len(b.machines), b.horizon, s.Variables, s.Constraints)
	}
	return p, nil
}

func (b *modelBuilder) addTask(j, t int, task Task) *TaskVars {
	suffix := fmt.Sprintf("_%d_%d", j, t)
	tv := &TaskVars{
		Start: b.cp.NewIntVar(0, b.horizon).WithName("start" + suffix),
		End:   b.cp.NewIntVar(0, b.horizon).WithName("end" + suffix),
	}
	if b.flexible {
		tv.Duration = b.cp.NewIntVar(task.MinDuration(), task.MaxDuration()).WithName("duration" + suffix)
	} else {
		tv.Duration = b.cp.NewConstant(task.Alternatives[0].Duration)
	}
	tv.Interval = b.cp.NewIntervalVar(tv.Start, tv.Duration, tv.End).WithName("interval" + suffix)
	tv.Alternatives = b.addAlternatives(tv, task.Alternatives, suffix)
	return tv
}

// addAlternatives attaches the alternatives of a task to its master variables and
// registers their intervals on the machines.
//
// With the classic encoding the single alternative is selected by construction: it
// reuses the master variables and interval. Otherwise each alternative gets a presence
// literal, its own start and end, an optional interval, and equalities to the master
// variables that only hold when it is present. Exactly one presence literal is true.
func (b *modelBuilder) addAlternatives(tv *TaskVars, alts []Alternative, suffix string) []AlternativeVars {
	if !b.flexible {
		av := AlternativeVars{
			Alternative: alts[0],
			Presence:    b.cp.TrueVar(),
			Start:       tv.Start,
			End:         tv.End,
			Interval:    tv.Interval,
		}
		b.machines[alts[0].Machine] = append(b.machines[alts[0].Machine], av.Interval)
		return []AlternativeVars{av}
	}

	avs := make([]AlternativeVars, len(alts))
	presences := make([]cpmodel.BoolVar, len(alts))
	for a, alt := range alts {
		altSuffix := fmt.Sprintf("%s_%d", suffix, a)
		presence := b.cp.NewBoolVar().WithName("presence" + altSuffix)
		start := b.cp.NewIntVar(0, b.horizon).WithName("start" + altSuffix)
		end := b.cp.NewIntVar(0, b.horizon).WithName("end" + altSuffix)
		duration := cpmodel.NewConstant(alt.Duration)
		interval := b.cp.NewOptionalIntervalVar(start, duration, end, presence).WithName("interval" + altSuffix)

		b.cp.AddEquality(tv.Start, start).OnlyEnforceIf(presence)
		b.cp.AddEquality(tv.Duration, duration).OnlyEnforceIf(presence)
		b.cp.AddEquality(tv.End, end).OnlyEnforceIf(presence)

		avs[a] = AlternativeVars{Alternative: alt, Presence: presence, Start: start, End: end, Interval: interval}
		presences[a] = presence
		b.machines[alt.Machine] = append(b.machines[alt.Machine], interval)
	}
	b.cp.AddExactlyOne(presences...).WithName("select" + suffix)
	return avs
}
