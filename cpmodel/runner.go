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
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/golang/glog"
)

// DefaultRunnerArgs are the arguments given to the CP-SAT `sat_runner` binary.
var DefaultRunnerArgs = []string{"--input={model}", "--output={response}", "--params={params_text}"}

// RunnerSolver solves models by running an external solver binary. The model and the
// parameters are written to a scratch directory in wire format, and the binary is
// expected to write a CpSolverResponse in wire format.
//
// The following placeholders are expanded in Args:
//
//	{model}        path of the encoded CpModelProto
//	{params}       path of the encoded SatParameters
//	{params_text}  parameters in protobuf text format
//	{response}     path where the binary writes the CpSolverResponse
type RunnerSolver struct {
	Binary string
	// Args defaults to DefaultRunnerArgs.
	Args []string
	// Env is appended to the environment of the current process.
	Env []string
	// WorkDir holds the scratch directories. The system temporary directory is used when empty.
	WorkDir string
}

// TextFormat renders the parameters in protobuf text format, omitting defaults.
func (p *SolverParameters) TextFormat() string {
	if p == nil {
		return ""
	}
	var fields []string
	if p.MaxTime > 0 {
		fields = append(fields, fmt.Sprintf("max_time_in_seconds:%g", p.MaxTime.Seconds()))
	}
	if p.NumWorkers > 0 {
		fields = append(fields, fmt.Sprintf("num_workers:%d", p.NumWorkers))
	}
	if p.LogSearchProgress {
		fields = append(fields, "log_search_progress:true")
	}
	if p.RandomSeed != 0 {
		fields = append(fields, fmt.Sprintf("random_seed:%d", p.RandomSeed))
	}
	return strings.Join(fields, " ")
}

// Solve implements Solver.
func (s *RunnerSolver) Solve(ctx context.Context, m *CpModel, params *SolverParameters) (*CpSolverResponse, error) {
	if s.Binary == "" {
		return nil, fmt.Errorf("RunnerSolver.Binary is not set: %w", ErrInvalidArgument)
	}
	bModel, err := MarshalCpModel(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling model failed: %w", err)
	}

	dir, err := os.MkdirTemp(s.WorkDir, "cpsat-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	paths := map[string]string{
		"{model}":    filepath.Join(dir, "model.pb"),
		"{params}":   filepath.Join(dir, "params.pb"),
		"{response}": filepath.Join(dir, "response.pb"),
	}
	if err := os.WriteFile(paths["{model}"], bModel, 0o600); err != nil {
		return nil, fmt.Errorf("writing model: %w", err)
	}
	if err := os.WriteFile(paths["{params}"], MarshalSolverParameters(params), 0o600); err != nil {
		return nil, fmt.Errorf("writing parameters: %w", err)
	}

	args := s.Args
	if len(args) == 0 {
		args = DefaultRunnerArgs
	}
	expanded := make([]string, len(args))
	for i, a := range args {
		for k, v := range paths {
			a = strings.ReplaceAll(a, k, v)
		}
		expanded[i] = strings.ReplaceAll(a, "{params_text}", params.TextFormat())
	}

	cmd := exec.CommandContext(ctx, s.Binary, expanded...)
	cmd.Env = append(os.Environ(), s.Env...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	log.V(1).Infof("cpmodel: running %s %s", s.Binary, strings.Join(expanded, " "))
	runErr := cmd.Run()
	if log.V(2) {
		log.Infof("cpmodel: solver output:\n%s", output.String())
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("solver %s interrupted: %w", s.Binary, ctx.Err())
	}
	if runErr != nil {
		return nil, fmt.Errorf("solver %s failed: %w\n%s", s.Binary, runErr, tail(output.String(), 20))
	}

	bRes, err := os.ReadFile(paths["{response}"])
	if err != nil {
		return nil, fmt.Errorf("reading solver response: %w", err)
	}
	return UnmarshalCpSolverResponse(bRes)
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
