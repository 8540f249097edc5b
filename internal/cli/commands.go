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
	"fmt"
	"os"

	log "github.com/golang/glog"
	"github.com/google/or-tools/scheduling/cpmodel"
	"github.com/google/or-tools/scheduling/jobshop"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <dataset>",
		Short: "Write the constraint model of a dataset in CpModelProto wire format",
		Long: `export builds the model of a dataset and writes it as a binary CpModelProto,
ready to be fed to any CP-SAT front end.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := jobshop.Load(args[0])
			if err != nil {
				return err
			}
			p, err := jobshop.Build(ds)
			if err != nil {
				return err
			}
			b, err := cpmodel.MarshalCpModel(p.Model)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return fmt.Errorf("writing model: %w", err)
			}
			s := p.Model.Stats()
			log.Infof("jobshop: wrote %s (%d bytes)", out, len(b))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d variables, %d constraint kinds, horizon %d\n", out, s.Variables, len(s.Constraints), p.Horizon)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "model.pb", "output file")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dataset>",
		Short: "Check a dataset and print its dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := jobshop.Load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "name:     %s\n", ds.Name)
			fmt.Fprintf(w, "jobs:     %d\n", len(ds.Jobs))
			fmt.Fprintf(w, "tasks:    %d\n", ds.NumTasks())
			fmt.Fprintf(w, "machines: %d\n", ds.NumMachines())
			fmt.Fprintf(w, "flexible: %t\n", ds.Flexible())
			fmt.Fprintf(w, "horizon:  %d\n", ds.Horizon())
			fmt.Fprintf(w, "bound:    %d\n", ds.LowerBound())
			return nil
		},
	}
}
