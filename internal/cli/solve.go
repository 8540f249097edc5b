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

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/or-tools/scheduling/jobshop"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type solveFlags struct {
	solver         string
	solverArgs     []string
	native         bool
	timeLimit      time.Duration
	workers        int
	seed           int
	logSearch      bool
	acceptFeasible bool
	verify         bool
	output         string
}

func newSolveCmd() *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve <dataset>",
		Short: "Solve a dataset and print the schedule",
		Example: `  jobshop solve --solver=sat_runner testdata/ft06.txt
  jobshop solve --config=jobshop.yaml --time-limit=30s --accept-feasible data/mk01.fjs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.solver, "solver", "", "path of the CP-SAT solver binary")
	cmd.Flags().StringArrayVar(&f.solverArgs, "solver-arg", nil, "argument passed to the solver binary; may be repeated (default: sat_runner arguments)")
	cmd.Flags().BoolVar(&f.native, "native", false, "use the in-process solver")
	cmd.Flags().DurationVar(&f.timeLimit, "time-limit", 0, "maximum search time (0 = no limit)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "number of search workers (0 = solver default)")
	cmd.Flags().IntVar(&f.seed, "seed", 0, "random seed")
	cmd.Flags().BoolVar(&f.logSearch, "log-search", false, "make the solver log its search")
	cmd.Flags().BoolVar(&f.acceptFeasible, "accept-feasible", false, "print the best schedule even if it is not proven optimal")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "check the solution against the model and the dataset")
	cmd.Flags().StringVarP(&f.output, "output", "o", "text", "output format: text or yaml")
	return cmd
}

// merge applies the flags the user set on top of cfg.
func (f *solveFlags) merge(cmd *cobra.Command, cfg *Config) {
	changed := cmd.Flags().Changed
	if changed("solver") {
		cfg.Solver.Binary = f.solver
	}
	if changed("solver-arg") {
		cfg.Solver.Args = f.solverArgs
	}
	if changed("native") {
		cfg.Solver.Native = f.native
	}
	if changed("time-limit") {
		cfg.Options.Parameters.MaxTime = f.timeLimit
	}
	if changed("workers") {
		cfg.Options.Parameters.NumWorkers = f.workers
	}
	if changed("seed") {
		cfg.Options.Parameters.RandomSeed = f.seed
	}
	if changed("log-search") {
		cfg.Options.Parameters.LogSearchProgress = f.logSearch
	}
	if changed("accept-feasible") {
		cfg.Options.AcceptFeasible = f.acceptFeasible
	}
	if changed("verify") {
		cfg.Options.VerifySolution = f.verify
	}
}

func runSolve(cmd *cobra.Command, path string, f *solveFlags) error {
	if f.output != "text" && f.output != "yaml" {
		return fmt.Errorf("unknown output format %q", f.output)
	}
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	f.merge(cmd, cfg)

	ds, err := jobshop.Load(path)
	if err != nil {
		return err
	}
	solver, err := newSolver(cfg)
	if err != nil {
		return err
	}
	res, err := jobshop.Run(cmd.Context(), ds, solver, cfg.Options)
	if err != nil {
		var dsErr *jobshop.DatasetError
		if res != nil && !errors.As(err, &dsErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "run %s: status %v\n", res.RunID, res.Status)
		}
		return err
	}
	if f.output == "yaml" {
		return writeYAML(cmd.OutOrStdout(), ds, res)
	}
	writeText(cmd.OutOrStdout(), ds, res)
	return nil
}

var (
	boldGreen  = color.New(color.Bold, color.FgGreen).SprintFunc()
	boldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
	dim        = color.New(color.Faint).SprintFunc()
)

// writeText prints the schedule one machine per line, first the task order, then the
// busy intervals.
func writeText(w io.Writer, ds *jobshop.Dataset, res *jobshop.Result) {
	quality := boldGreen("optimal")
	if !res.Optimal {
		quality = boldYellow(fmt.Sprintf("feasible, bound %g", res.BestBound))
	}
	fmt.Fprintf(w, "%s: makespan %d (%s)\n", ds.Name, res.Makespan, quality)
	for m, seq := range res.Schedule.Sequences() {
		fmt.Fprintf(w, "Machine %d: %s\n", m, strings.Join(seq, " "))
		var spans []string
		for _, s := range res.Schedule.Intervals()[m] {
			spans = append(spans, fmt.Sprintf("[%d,%d)", s.Start, s.End))
		}
		fmt.Fprintf(w, "           %s\n", dim(strings.Join(spans, " ")))
	}
}

type yamlTask struct {
	Job         int   `yaml:"job"`
	Task        int   `yaml:"task"`
	Alternative int   `yaml:"alternative"`
	Start       int64 `yaml:"start"`
	End         int64 `yaml:"end"`
}

type yamlMachine struct {
	Machine int        `yaml:"machine"`
	Tasks   []yamlTask `yaml:"tasks"`
}

type yamlReport struct {
	Dataset  string        `yaml:"dataset"`
	RunID    string        `yaml:"run_id"`
	Status   string        `yaml:"status"`
	Makespan int64         `yaml:"makespan"`
	Bound    float64       `yaml:"best_bound"`
	WallTime string        `yaml:"wall_time"`
	Machines []yamlMachine `yaml:"machines"`
}

func writeYAML(w io.Writer, ds *jobshop.Dataset, res *jobshop.Result) error {
	rep := yamlReport{
		Dataset:  ds.Name,
		RunID:    res.RunID.String(),
		Status:   res.Status.String(),
		Makespan: res.Makespan,
		Bound:    res.BestBound,
		WallTime: res.WallTime.String(),
	}
	for m, tasks := range res.Schedule.Machines {
		ym := yamlMachine{Machine: m, Tasks: []yamlTask{}}
		for _, a := range tasks {
			ym.Tasks = append(ym.Tasks, yamlTask{Job: a.Job, Task: a.Task, Alternative: a.Alternative, Start: a.Start, End: a.End()})
		}
		rep.Machines = append(rep.Machines, ym)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
