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

// The flexible_job_shop_sat command solves a flexible job-shop problem where every
// task may run on any of three machines, each with its own duration.
package main

import (
	"context"
	"flag"
	"fmt"

	log "github.com/golang/glog"
	"github.com/google/or-tools/scheduling/cpmodel"
	"github.com/google/or-tools/scheduling/jobshop"
)

var (
	solverBinary = flag.String("solver_binary", "sat_runner", "CP-SAT solver binary")
	workers      = flag.Int("num_workers", 8, "number of search workers")
)

// alts builds the alternatives of a task from durations on machines 0, 1 and 2.
func alts(d0, d1, d2 int64) []jobshop.Alternative {
	return []jobshop.Alternative{{Machine: 0, Duration: d0}, {Machine: 1, Duration: d1}, {Machine: 2, Duration: d2}}
}

func flexibleJobShopSat(ctx context.Context) error {
	ds := jobshop.NewFlexible("flexible_job_shop_sat", [][][]jobshop.Alternative{
		{alts(3, 1, 5), alts(2, 4, 6), alts(2, 3, 1)}, // Job 0
		{alts(2, 3, 4), alts(1, 5, 4), alts(2, 1, 4)}, // Job 1
		{alts(2, 1, 4), alts(2, 1, 4), alts(7, 3, 5)}, // Job 2
	})

	p, err := jobshop.Build(ds)
	if err != nil {
		return fmt.Errorf("failed to build the model: %w", err)
	}
	res, err := p.Solve(ctx, &cpmodel.RunnerSolver{Binary: *solverBinary}, jobshop.Options{
		Parameters: cpmodel.SolverParameters{NumWorkers: *workers},
	})
	if err != nil {
		return fmt.Errorf("failed to solve the model: %w", err)
	}

	fmt.Println("Solution")
	fmt.Println("  - makespan:", res.Makespan)
	for m, tasks := range res.Schedule.Machines {
		for _, a := range tasks {
			fmt.Printf("  job %d task %d starts at %d (alt %d, machine %d, duration %d)\n",
				a.Job, a.Task, a.Start, a.Alternative, m, a.Duration)
		}
	}
	return nil
}

func main() {
	flag.Parse()
	defer log.Flush()
	if err := flexibleJobShopSat(context.Background()); err != nil {
		log.Exitf("flexibleJobShopSat returned with error: %v", err)
	}
}
