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

// The jobshop_sat command solves a small job-shop problem: three jobs share three
// machines, and the goal is to finish all of them as early as possible.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	log "github.com/golang/glog"
	"github.com/google/or-tools/scheduling/cpmodel"
	"github.com/google/or-tools/scheduling/jobshop"
)

var (
	solverBinary = flag.String("solver_binary", "sat_runner", "CP-SAT solver binary")
	timeLimit    = flag.Duration("time_limit", 10*time.Second, "maximum search time")
)

func jobshopSat(ctx context.Context) error {
	// Each task is (machine, duration).
	ds := jobshop.NewClassic("jobshop_sat", [][]jobshop.ClassicTask{
		{{Machine: 0, Duration: 3}, {Machine: 1, Duration: 2}, {Machine: 2, Duration: 2}}, // Job 0
		{{Machine: 0, Duration: 2}, {Machine: 2, Duration: 1}, {Machine: 1, Duration: 4}}, // Job 1
		{{Machine: 1, Duration: 4}, {Machine: 2, Duration: 3}},                            // Job 2
	})

	p, err := jobshop.Build(ds)
	if err != nil {
		return fmt.Errorf("failed to build the model: %w", err)
	}
	solver := &cpmodel.RunnerSolver{Binary: *solverBinary}
	res, err := p.Solve(ctx, solver, jobshop.Options{
		Parameters:     cpmodel.SolverParameters{MaxTime: *timeLimit},
		VerifySolution: true,
	})
	if err != nil {
		return fmt.Errorf("failed to solve the model: %w", err)
	}

	fmt.Println("Optimal Schedule Length:", res.Makespan)
	intervals := res.Schedule.Intervals()
	for m, seq := range res.Schedule.Sequences() {
		fmt.Printf("Machine %d: ", m)
		for i, label := range seq {
			fmt.Printf("%s [%d,%d) ", label, intervals[m][i].Start, intervals[m][i].End)
		}
		fmt.Println()
	}
	return nil
}

func main() {
	flag.Parse()
	defer log.Flush()
	if err := jobshopSat(context.Background()); err != nil {
		log.Exitf("jobshopSat returned with error: %v", err)
	}
}
