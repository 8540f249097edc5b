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

// Package cli implements the jobshop command line.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/or-tools/scheduling/cpmodel"
	"github.com/google/or-tools/scheduling/jobshop"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Exit codes. Solver outcomes get distinct codes so scripts can decide whether to
// retry with a larger budget.
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitInvalidDataset   = 2
	ExitInfeasible       = 3
	ExitNoSolution       = 4
	ExitNotProvenOptimal = 5
	ExitModelInvalid     = 6
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, jobshop.ErrInvalidDataset):
		return ExitInvalidDataset
	case errors.Is(err, jobshop.ErrInfeasible):
		return ExitInfeasible
	case errors.Is(err, jobshop.ErrNoSolution):
		return ExitNoSolution
	case errors.Is(err, jobshop.ErrNotProvenOptimal):
		return ExitNotProvenOptimal
	case errors.Is(err, jobshop.ErrModelInvalid):
		return ExitModelInvalid
	}
	return ExitGeneralError
}

// SolverConfig selects the engine.
type SolverConfig struct {
	// Binary is an external solver run through cpmodel.RunnerSolver.
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args"`
	// Native selects the in-process engine; it needs a build with the ortools_native tag.
	Native bool `yaml:"native"`
}

// Config is the content of the --config file. Flags override it.
type Config struct {
	Solver  SolverConfig    `yaml:"solver"`
	Options jobshop.Options `yaml:",inline"`
}

// LoadConfig reads a YAML configuration file. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// newSolver builds the engine selected by cfg. Tests replace it.
var newSolver = func(cfg *Config) (cpmodel.Solver, error) {
	switch {
	case cfg.Solver.Native:
		return cpmodel.NewNativeSolver()
	case cfg.Solver.Binary != "":
		return &cpmodel.RunnerSolver{Binary: cfg.Solver.Binary, Args: cfg.Solver.Args}, nil
	}
	return nil, errors.New("no solver configured: pass --solver or --native, or set solver.binary in --config")
}

// NewRootCmd returns the jobshop command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jobshop",
		Short: "Solve job-shop scheduling problems with a constraint solver",
		Long: `jobshop turns job-shop and flexible job-shop datasets into constraint models,
solves them with an external CP-SAT engine and prints the per-machine schedule.

Datasets are read from YAML/JSON (.yaml, .yml, .json), Brandimarte flexible
job-shop files (.fjs) or OR-Library job-shop files (any other extension).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog reads its flags from the standard flag set.
			return flag.CommandLine.Parse(nil)
		},
	}
	root.PersistentFlags().String("config", "", "YAML configuration file")
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	root.AddCommand(newSolveCmd(), newExportCmd(), newValidateCmd())
	return root
}
