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
	"context"
	"fmt"
	"time"

	log "github.com/golang/glog"
	"github.com/google/or-tools/scheduling/cpmodel"
	"github.com/google/uuid"
)

// Options tune a solve.
type Options struct {
	Parameters cpmodel.SolverParameters `yaml:"parameters"`
	// AcceptFeasible reconstructs schedules from FEASIBLE responses instead of failing
	// with ErrNotProvenOptimal.
	AcceptFeasible bool `yaml:"accept_feasible"`
	// VerifySolution checks the solver's assignment against the model and the schedule
	// against the dataset before returning it.
	VerifySolution bool `yaml:"verify_solution"`
}

// Result is the outcome of a solve. Schedule is only set when a solution was accepted.
type Result struct {
	RunID  uuid.UUID
	Status cpmodel.CpSolverStatus
	// Optimal is true when the makespan is proven minimal.
	Optimal   bool
	Makespan  int64
	BestBound float64
	Schedule  *Schedule
	WallTime  time.Duration
}

// Solve hands the model to solver, waits for a terminal status and reconstructs the
// schedule. Statuses without an accepted solution are reported as errors:
// ErrInfeasible, ErrModelInvalid, ErrNoSolution, or ErrNotProvenOptimal. The Result is
// returned alongside those errors so callers can inspect the status. Nothing is retried.
func (p *Problem) Solve(ctx context.Context, solver cpmodel.Solver, opts Options) (*Result, error) {
	res := &Result{RunID: uuid.New()}
	log.Infof("jobshop[%s]: solving %q (%d jobs, %d tasks, horizon %d, lower bound %d)",
		res.RunID, p.Dataset.Name, len(p.Dataset.Jobs), p.Dataset.NumTasks(), p.Horizon, p.Dataset.LowerBound())

	start := time.Now()
	resp, err := solver.Solve(ctx, p.Model, &opts.Parameters)
	if err != nil {
		return nil, fmt.Errorf("jobshop[%s]: solver failed: %w", res.RunID, err)
	}
	res.Status = resp.GetStatus()
	res.BestBound = resp.BestObjectiveBound
	res.WallTime = resp.WallTime
	if res.WallTime == 0 {
		res.WallTime = time.Since(start)
	}
	log.Infof("jobshop[%s]: status %v, objective %v, bound %v, wall time %v", res.RunID, res.Status, resp.ObjectiveValue, resp.BestObjectiveBound, res.WallTime)

	switch res.Status {
	case cpmodel.CpSolverStatus_OPTIMAL:
		res.Optimal = true
	case cpmodel.CpSolverStatus_FEASIBLE:
		if !opts.AcceptFeasible {
			return res, fmt.Errorf("jobshop[%s]: objective %v, bound %v: %w", res.RunID, resp.ObjectiveValue, resp.BestObjectiveBound, ErrNotProvenOptimal)
		}
	case cpmodel.CpSolverStatus_INFEASIBLE:
		return res, fmt.Errorf("jobshop[%s]: %w", res.RunID, ErrInfeasible)
	case cpmodel.CpSolverStatus_MODEL_INVALID:
		return res, fmt.Errorf("jobshop[%s]: %s: %w", res.RunID, resp.SolutionInfo, ErrModelInvalid)
	default:
		return res, fmt.Errorf("jobshop[%s]: status %v: %w", res.RunID, res.Status, ErrNoSolution)
	}

	if opts.VerifySolution {
		if err := cpmodel.CheckSolution(p.Model, resp.Solution); err != nil {
			return res, fmt.Errorf("jobshop[%s]: %w", res.RunID, err)
		}
	}
	sched, err := Reconstruct(p, resp)
	if err != nil {
		return res, fmt.Errorf("jobshop[%s]: %w", res.RunID, err)
	}
	if opts.VerifySolution {
		if err := sched.Verify(p.Dataset); err != nil {
			return res, fmt.Errorf("jobshop[%s]: %w", res.RunID, err)
		}
	}
	res.Schedule = sched
	res.Makespan = sched.Makespan
	return res, nil
}

// Run builds the model of ds and solves it.
func Run(ctx context.Context, ds *Dataset, solver cpmodel.Solver, opts Options) (*Result, error) {
	p, err := Build(ds)
	if err != nil {
		return nil, err
	}
	return p.Solve(ctx, solver, opts)
}
