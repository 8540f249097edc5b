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

package cpmodel

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNativeUnavailable is returned by NewNativeSolver in builds without the native engine.
var ErrNativeUnavailable = errors.New("native CP-SAT engine not linked")

// CpSolverStatus is the terminal status reported by a solver. Values match the CP-SAT
// CpSolverStatus enum.
type CpSolverStatus int32

const (
	// CpSolverStatus_UNKNOWN means the search stopped on a limit before proving anything.
	CpSolverStatus_UNKNOWN CpSolverStatus = 0
	// CpSolverStatus_MODEL_INVALID means the solver rejected the model.
	CpSolverStatus_MODEL_INVALID CpSolverStatus = 1
	// CpSolverStatus_FEASIBLE means a solution was found but not proven optimal.
	CpSolverStatus_FEASIBLE CpSolverStatus = 2
	// CpSolverStatus_INFEASIBLE means the model has no solution.
	CpSolverStatus_INFEASIBLE CpSolverStatus = 3
	// CpSolverStatus_OPTIMAL means the solution is proven optimal.
	CpSolverStatus_OPTIMAL CpSolverStatus = 4
)

var statusNames = map[CpSolverStatus]string{
	CpSolverStatus_UNKNOWN:       "UNKNOWN",
	CpSolverStatus_MODEL_INVALID: "MODEL_INVALID",
	CpSolverStatus_FEASIBLE:      "FEASIBLE",
	CpSolverStatus_INFEASIBLE:    "INFEASIBLE",
	CpSolverStatus_OPTIMAL:       "OPTIMAL",
}

func (s CpSolverStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("CpSolverStatus(%d)", int32(s))
}

// HasSolution reports whether a response with this status carries a solution.
func (s CpSolverStatus) HasSolution() bool {
	return s == CpSolverStatus_OPTIMAL || s == CpSolverStatus_FEASIBLE
}

// CpSolverResponse is the result of a solve. Solution holds one value per model variable
// and is only set when Status.HasSolution().
type CpSolverResponse struct {
	Status             CpSolverStatus
	Solution           []int64
	ObjectiveValue     float64
	BestObjectiveBound float64
	WallTime           time.Duration
	SolutionInfo       string
}

// GetStatus returns the status, or UNKNOWN for a nil response.
func (r *CpSolverResponse) GetStatus() CpSolverStatus {
	if r == nil {
		return CpSolverStatus_UNKNOWN
	}
	return r.Status
}

// SolverParameters are the knobs passed along with a model. Zero values leave the
// engine defaults in place.
type SolverParameters struct {
	// MaxTime bounds the wall time of the search.
	MaxTime           time.Duration `yaml:"max_time"`
	NumWorkers        int           `yaml:"num_workers"`
	LogSearchProgress bool          `yaml:"log_search_progress"`
	RandomSeed        int           `yaml:"random_seed"`
}

// Solver is an engine able to solve a CpModel. Solve blocks until the engine reaches a
// terminal status, a parameter limit expires, or ctx is done. Engines that cannot be
// interrupted may ignore ctx.
//
// A nil error with a status that has a solution promises that the solution satisfies
// every constraint of m.
type Solver interface {
	Solve(ctx context.Context, m *CpModel, params *SolverParameters) (*CpSolverResponse, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, m *CpModel, params *SolverParameters) (*CpSolverResponse, error)

// Solve calls f.
func (f SolverFunc) Solve(ctx context.Context, m *CpModel, params *SolverParameters) (*CpSolverResponse, error) {
	return f(ctx, m, params)
}

// SolutionBooleanValue returns the value of bv in the response.
func SolutionBooleanValue(r *CpSolverResponse, bv BoolVar) bool {
	return bv.evaluate(r.Solution) != 0
}

// SolutionIntegerValue returns the value of la in the response.
func SolutionIntegerValue(r *CpSolverResponse, la LinearArgument) int64 {
	return la.evaluate(r.Solution)
}
