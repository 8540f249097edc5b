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
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewClassic(t *testing.T) {
	got := NewClassic("tiny", [][]ClassicTask{{{Machine: 1, Duration: 4}}, {{Machine: 0, Duration: 2}, {Machine: 1, Duration: 3}}})
	want := &Dataset{
		Name: "tiny",
		Jobs: []Job{
			{Tasks: []Task{{Alternatives: []Alternative{{Machine: 1, Duration: 4}}}}},
			{Tasks: []Task{
				{Alternatives: []Alternative{{Machine: 0, Duration: 2}}},
				{Alternatives: []Alternative{{Machine: 1, Duration: 3}}},
			}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewClassic() returned with unexpected diff (-want+got);\n%s", diff)
	}
}

func TestDataset_Validate(t *testing.T) {
	testCases := []struct {
		name string
		ds   *Dataset
		want *DatasetError
	}{
		{
			name: "classic",
			ds:   classic3x3(),
		},
		{
			name: "flexible",
			ds:   flexible3x3(),
		},
		{
			name: "no jobs",
			ds:   &Dataset{},
			want: &DatasetError{Job: -1, Task: -1, Alternative: -1, Reason: "no jobs"},
		},
		{
			name: "job without tasks",
			ds:   &Dataset{Jobs: []Job{{Tasks: []Task{{Alternatives: alts(1, 1, 1)}}}, {}}},
			want: &DatasetError{Job: 1, Task: -1, Alternative: -1, Reason: "job has no tasks"},
		},
		{
			name: "task without alternatives",
			ds:   &Dataset{Jobs: []Job{{Tasks: []Task{{Alternatives: alts(1, 1, 1)}, {}}}}},
			want: &DatasetError{Job: 0, Task: 1, Alternative: -1, Reason: "task has no alternatives"},
		},
		{
			name: "zero duration",
			ds:   NewFlexible("zero", [][][]Alternative{{alts(1, 0, 1)}}),
			want: &DatasetError{Job: 0, Task: 0, Alternative: 1, Reason: "duration must be > 0 (got 0)"},
		},
		{
			name: "negative machine",
			ds:   NewClassic("negative", [][]ClassicTask{{{Machine: -1, Duration: 2}}}),
			want: &DatasetError{Job: 0, Task: 0, Alternative: 0, Reason: "machine must be >= 0 (got -1)"},
		},
		{
			name: "machine too large",
			ds:   NewClassic("huge", [][]ClassicTask{{{Machine: 0, Duration: 2}, {Machine: MaxMachine + 1, Duration: 2}}}),
			want: &DatasetError{Job: 0, Task: 1, Alternative: 0, Reason: "machine must be <= 65535 (got 65536)"},
		},
		{
			name: "largest machine",
			ds:   NewClassic("edge", [][]ClassicTask{{{Machine: MaxMachine, Duration: 2}}}),
		},
		{
			name: "horizon overflow",
			ds: NewFlexible("overflow", [][][]Alternative{
				{{{Machine: 0, Duration: math.MaxInt64 / 2}}, {{Machine: 1, Duration: 1}, {Machine: 0, Duration: math.MaxInt64 / 2}}},
				{{{Machine: 1, Duration: 4}}},
			}),
			want: &DatasetError{Job: 1, Task: 0, Alternative: -1, Reason: "total duration overflows int64"},
		},
		{
			name: "horizon at int64 limit",
			ds: NewClassic("limit", [][]ClassicTask{
				{{Machine: 0, Duration: math.MaxInt64 / 2}, {Machine: 1, Duration: math.MaxInt64/2 + 1}},
			}),
		},
	}
	for _, test := range testCases {
		err := test.ds.Validate()
		if test.want == nil {
			if err != nil {
				t.Errorf("%s: Validate() returned unexpected error %v", test.name, err)
			}
			continue
		}
		var got *DatasetError
		if !errors.As(err, &got) {
			t.Fatalf("%s: Validate() returned %v, want a *DatasetError", test.name, err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: Validate() returned with unexpected diff (-want+got);\n%s", test.name, diff)
		}
		if !errors.Is(err, ErrInvalidDataset) {
			t.Errorf("%s: errors.Is(%v, ErrInvalidDataset) = false", test.name, err)
		}
	}
}

func TestDatasetError_Error(t *testing.T) {
	testCases := []struct {
		err  *DatasetError
		want string
	}{
		{
			err:  &DatasetError{Job: -1, Task: -1, Alternative: -1, Reason: "no jobs"},
			want: "invalid dataset: no jobs",
		},
		{
			err:  &DatasetError{Job: 2, Task: -1, Alternative: -1, Reason: "job has no tasks"},
			want: "invalid dataset: job 2: job has no tasks",
		},
		{
			err:  &DatasetError{Job: 0, Task: 1, Alternative: 2, Reason: "duration must be > 0 (got -3)"},
			want: "invalid dataset: job 0, task 1, alternative 2: duration must be > 0 (got -3)",
		},
	}
	for _, test := range testCases {
		if got := test.err.Error(); got != test.want {
			t.Errorf("Error() = %q, want %q", got, test.want)
		}
	}
}

func TestDataset_Dimensions(t *testing.T) {
	testCases := []struct {
		name         string
		ds           *Dataset
		wantMachines int
		wantTasks    int
		wantFlexible bool
		wantHorizon  int64
		wantBound    int64
	}{
		{
			name:         "classic",
			ds:           classic3x3(),
			wantMachines: 3,
			wantTasks:    8,
			wantHorizon:  21,
			wantBound:    10,
		},
		{
			name:         "flexible",
			ds:           flexible3x3(),
			wantMachines: 3,
			wantTasks:    9,
			wantFlexible: true,
			wantHorizon:  42,
			wantBound:    5,
		},
		{
			name:         "unused machine",
			ds:           NewClassic("sparse", [][]ClassicTask{{{Machine: 3, Duration: 4}}, {{Machine: 0, Duration: 1}, {Machine: 3, Duration: 2}}}),
			wantMachines: 4,
			wantTasks:    3,
			wantHorizon:  7,
			wantBound:    6,
		},
	}
	for _, test := range testCases {
		if got := test.ds.NumMachines(); got != test.wantMachines {
			t.Errorf("%s: NumMachines() = %v, want %v", test.name, got, test.wantMachines)
		}
		if got := test.ds.NumTasks(); got != test.wantTasks {
			t.Errorf("%s: NumTasks() = %v, want %v", test.name, got, test.wantTasks)
		}
		if got := test.ds.Flexible(); got != test.wantFlexible {
			t.Errorf("%s: Flexible() = %v, want %v", test.name, got, test.wantFlexible)
		}
		if got := test.ds.Horizon(); got != test.wantHorizon {
			t.Errorf("%s: Horizon() = %v, want %v", test.name, got, test.wantHorizon)
		}
		if got := test.ds.LowerBound(); got != test.wantBound {
			t.Errorf("%s: LowerBound() = %v, want %v", test.name, got, test.wantBound)
		}
	}
}

func TestTask_Durations(t *testing.T) {
	task := Task{Alternatives: alts(4, 2, 7)}
	if got := task.MinDuration(); got != 2 {
		t.Errorf("MinDuration() = %v, want 2", got)
	}
	if got := task.MaxDuration(); got != 7 {
		t.Errorf("MaxDuration() = %v, want 7", got)
	}
}
