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
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatOf(t *testing.T) {
	testCases := []struct {
		path string
		want Format
	}{
		{path: "data/ft06.txt", want: FormatJSSP},
		{path: "ft06", want: FormatJSSP},
		{path: "mk01.fjs", want: FormatFJS},
		{path: "mk01.FJS", want: FormatFJS},
		{path: "shop.yaml", want: FormatYAML},
		{path: "shop.yml", want: FormatYAML},
		{path: "shop.json", want: FormatYAML},
	}
	for _, test := range testCases {
		if got := FormatOf(test.path); got != test.want {
			t.Errorf("FormatOf(%q) = %v, want %v", test.path, got, test.want)
		}
	}
}

func TestLoad_FT06(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "ft06.txt"))
	if err != nil {
		t.Fatalf("Load() returned with unexpected error %v", err)
	}
	if ds.Name != "ft06" {
		t.Errorf("Name = %q, want ft06", ds.Name)
	}
	if len(ds.Jobs) != 6 || ds.NumMachines() != 6 || ds.NumTasks() != 36 {
		t.Errorf("Load() returned %d jobs, %d machines, %d tasks, want 6, 6, 36", len(ds.Jobs), ds.NumMachines(), ds.NumTasks())
	}
	if got := ds.Horizon(); got != 197 {
		t.Errorf("Horizon() = %v, want 197", got)
	}
	want := Task{Alternatives: []Alternative{{Machine: 2, Duration: 1}}}
	if diff := cmp.Diff(want, ds.Jobs[0].Tasks[0]); diff != "" {
		t.Errorf("first task returned with unexpected diff (-want+got);\n%s", diff)
	}
	if ds.Flexible() {
		t.Errorf("Flexible() = true, want false")
	}
}

func TestLoad_FJS(t *testing.T) {
	got, err := Load(filepath.Join("testdata", "flexible.fjs"))
	if err != nil {
		t.Fatalf("Load() returned with unexpected error %v", err)
	}
	if diff := cmp.Diff(flexible3x3(), got); diff != "" {
		t.Errorf("Load() returned with unexpected diff (-want+got);\n%s", diff)
	}
}

func TestLoad_YAML(t *testing.T) {
	got, err := Load(filepath.Join("testdata", "small.yaml"))
	if err != nil {
		t.Fatalf("Load() returned with unexpected error %v", err)
	}
	want := &Dataset{
		Name: "small",
		Jobs: []Job{
			{Tasks: []Task{
				{Alternatives: []Alternative{{Machine: 0, Duration: 3}}},
				{Alternatives: []Alternative{{Machine: 1, Duration: 2}}},
				{Alternatives: []Alternative{{Machine: 2, Duration: 2}}},
			}},
			{Tasks: []Task{
				{Alternatives: []Alternative{{Machine: 0, Duration: 2}}},
				{Alternatives: []Alternative{{Machine: 2, Duration: 1}}},
				{Alternatives: []Alternative{{Machine: 1, Duration: 4}}},
			}},
			{Tasks: []Task{
				{Alternatives: []Alternative{{Machine: 1, Duration: 4}}},
				{Alternatives: []Alternative{{Machine: 2, Duration: 3}, {Machine: 0, Duration: 5}}},
			}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() returned with unexpected diff (-want+got);\n%s", diff)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "missing.txt")); err == nil {
		t.Errorf("Load() returned no error for a missing file")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name   string
		format Format
		input  string
		want   *Dataset
	}{
		{
			name:   "jssp with comments",
			format: FormatJSSP,
			input: `# instance tiny
2 2

0 3 1 2
# second job
1 4 0 1
`,
			want: NewClassic("fallback", [][]ClassicTask{
				{{Machine: 0, Duration: 3}, {Machine: 1, Duration: 2}},
				{{Machine: 1, Duration: 4}, {Machine: 0, Duration: 1}},
			}),
		},
		{
			name:   "fjs with fractional header",
			format: FormatFJS,
			input: `2 2 1.5
1 2 1 3 2 4
2 1 2 2 2 1 1 2 5
`,
			want: NewFlexible("fallback", [][][]Alternative{
				{{{Machine: 0, Duration: 3}, {Machine: 1, Duration: 4}}},
				{{{Machine: 1, Duration: 2}}, {{Machine: 0, Duration: 1}, {Machine: 1, Duration: 5}}},
			}),
		},
		{
			name:   "yaml without name",
			format: FormatYAML,
			input:  `jobs: [{tasks: [{machine: 0, duration: 2}]}]`,
			want:   NewClassic("fallback", [][]ClassicTask{{{Machine: 0, Duration: 2}}}),
		},
		{
			name:   "json",
			format: FormatYAML,
			input:  `{"name": "j", "jobs": [{"tasks": [{"alternatives": [{"machine": 1, "duration": 2}]}]}]}`,
			want:   NewFlexible("j", [][][]Alternative{{{{Machine: 1, Duration: 2}}}}),
		},
	}
	for _, test := range testCases {
		got, err := Parse(strings.NewReader(test.input), test.format, "fallback")
		if err != nil {
			t.Errorf("%s: Parse() returned with unexpected error %v", test.name, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: Parse() returned with unexpected diff (-want+got);\n%s", test.name, diff)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		format  Format
		input   string
		wantErr string
	}{
		{name: "empty", format: FormatJSSP, input: "", wantErr: "reading header"},
		{name: "bad header", format: FormatJSSP, input: "2\n", wantErr: "header must hold"},
		{name: "not a number", format: FormatJSSP, input: "1 2\n0 x\n", wantErr: "line 2"},
		{name: "odd pairs", format: FormatJSSP, input: "1 2\n0 3 1\n", wantErr: "odd number of values"},
		{name: "machine out of range", format: FormatJSSP, input: "1 2\n0 3 2 1\n", wantErr: "machine 2 out of range"},
		{name: "missing job", format: FormatJSSP, input: "2 2\n0 3 1 1\n", wantErr: "reading job 1"},
		{name: "zero duration", format: FormatJSSP, input: "1 1\n0 0\n", wantErr: "duration must be > 0"},
		{name: "fjs machine 0", format: FormatFJS, input: "1 2\n1 1 0 3\n", wantErr: "machine 0 out of range"},
		{name: "fjs truncated", format: FormatFJS, input: "1 2\n2 1 1 3 2 1\n", wantErr: "truncated job description"},
		{name: "fjs trailing values", format: FormatFJS, input: "1 2\n1 1 1 3 9\n", wantErr: "1 trailing values"},
		{name: "fjs task without alternatives", format: FormatFJS, input: "1 2\n1 0\n", wantErr: "task has no alternatives"},
		{name: "yaml unknown field", format: FormatYAML, input: "jobs: [{tasks: [{machine: 0, duration: 2, speed: 3}]}]", wantErr: "field speed not found"},
		{name: "yaml both forms", format: FormatYAML, input: "jobs: [{tasks: [{machine: 0, duration: 2, alternatives: [{machine: 1, duration: 1}]}]}]", wantErr: "both machine/duration and alternatives are set"},
		{name: "yaml half task", format: FormatYAML, input: "jobs: [{tasks: [{machine: 0}]}]", wantErr: "machine and duration must be set together"},
		{name: "yaml huge machine", format: FormatYAML, input: "jobs: [{tasks: [{machine: 4000000000000, duration: 2}]}]", wantErr: "machine must be <= 65535"},
		{name: "horizon overflow", format: FormatJSSP, input: "1 1\n0 9223372036854775807 0 1\n", wantErr: "total duration overflows int64"},
		{name: "yaml no jobs", format: FormatYAML, input: "name: empty", wantErr: "no jobs"},
		{name: "unsupported format", format: Format(7), input: "", wantErr: "unsupported format Format(7)"},
	}
	for _, test := range testCases {
		_, err := Parse(strings.NewReader(test.input), test.format, "t")
		if err == nil {
			t.Errorf("%s: Parse() returned no error", test.name)
			continue
		}
		if !strings.Contains(err.Error(), test.wantErr) {
			t.Errorf("%s: Parse() returned error %q, want it to contain %q", test.name, err, test.wantErr)
		}
		if test.format != Format(7) && !errors.Is(err, ErrInvalidDataset) {
			t.Errorf("%s: errors.Is(%v, ErrInvalidDataset) = false", test.name, err)
		}
	}
}
