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

// The maintenance_window_sat command schedules three tasks on a single machine that is
// down for maintenance at fixed times, and minimizes the end of the last task.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	log "github.com/golang/glog"
	"github.com/google/or-tools/scheduling/cpmodel"
)

var (
	solverBinary = flag.String("solver_binary", "sat_runner", "CP-SAT solver binary")
	timeLimit    = flag.Duration("time_limit", 10*time.Second, "maximum search time")
)

const horizon = 21 // 3 weeks

func maintenanceWindowSat(ctx context.Context) error {
	model := cpmodel.NewCpModelBuilder()
	domain := cpmodel.NewDomain(0, horizon)

	var starts, ends []cpmodel.IntVar
	var tasks []cpmodel.IntervalVar
	for i, d := range []int64{2, 4, 3} {
		start := model.NewIntVarFromDomain(domain).WithName(fmt.Sprintf("start_%d", i))
		end := model.NewIntVarFromDomain(domain).WithName(fmt.Sprintf("end_%d", i))
		tasks = append(tasks, model.NewIntervalVar(start, cpmodel.NewConstant(d), end))
		starts = append(starts, start)
		ends = append(ends, end)
	}

	// Two days of maintenance every week.
	windows := append([]cpmodel.IntervalVar(nil), tasks...)
	for _, day := range []int64{5, 12, 19} {
		windows = append(windows, model.NewFixedSizeIntervalVar(cpmodel.NewConstant(day), 2))
	}
	model.AddNoOverlap(windows...).WithName("machine")

	makespan := model.NewIntVarFromDomain(domain).WithName("makespan")
	for _, end := range ends {
		model.AddLessOrEqual(end, makespan)
	}
	model.Minimize(makespan)

	m, err := model.Model()
	if err != nil {
		return fmt.Errorf("failed to instantiate the CP model: %w", err)
	}
	solver := &cpmodel.RunnerSolver{Binary: *solverBinary}
	response, err := solver.Solve(ctx, m, &cpmodel.SolverParameters{MaxTime: *timeLimit})
	if err != nil {
		return fmt.Errorf("failed to solve the model: %w", err)
	}
	if !response.GetStatus().HasSolution() {
		return fmt.Errorf("no schedule found: %v", response.GetStatus())
	}
	if err := cpmodel.CheckSolution(m, response.Solution); err != nil {
		return err
	}

	fmt.Println(response.GetStatus())
	fmt.Println("Schedule length:", cpmodel.SolutionIntegerValue(response, makespan))
	for i, s := range starts {
		fmt.Printf("Task %d starts at %d\n", i, cpmodel.SolutionIntegerValue(response, s))
	}
	return nil
}

func main() {
	flag.Parse()
	defer log.Flush()
	if err := maintenanceWindowSat(context.Background()); err != nil {
		log.Exitf("maintenanceWindowSat returned with error: %v", err)
	}
}
