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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a dataset file format.
type Format int

const (
	// FormatYAML is a YAML (or JSON) document, see yamlDataset.
	FormatYAML Format = iota
	// FormatJSSP is the OR-Library job-shop format: a "jobs machines" header, then one
	// line per job of "machine duration" pairs. Lines starting with '#' are comments.
	FormatJSSP
	// FormatFJS is the flexible job-shop format of Brandimarte. Machines are numbered
	// from 1 in the file.
	FormatFJS
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSSP:
		return "jssp"
	case FormatFJS:
		return "fjs"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatOf guesses the format from a file extension. Unknown extensions map to FormatJSSP.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML
	case ".fjs":
		return FormatFJS
	}
	return FormatJSSP
}

// Load reads and validates a dataset file.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ds, err := Parse(f, FormatOf(path), name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse reads and validates a dataset. name is used when the document does not carry one.
// Every error it returns wraps ErrInvalidDataset.
func Parse(r io.Reader, format Format, name string) (*Dataset, error) {
	var (
		ds  *Dataset
		err error
	)
	switch format {
	case FormatYAML:
		ds, err = parseYAML(r)
	case FormatJSSP:
		ds, err = parseJSSP(r)
	case FormatFJS:
		ds, err = parseFJS(r)
	default:
		return nil, fmt.Errorf("unsupported format %v", format)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidDataset) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	if ds.Name == "" {
		ds.Name = name
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// yamlDataset is the document layout of FormatYAML:
//
//	name: example
//	jobs:
//	  - tasks:
//	      - {machine: 0, duration: 3}
//	      - alternatives: [{machine: 1, duration: 2}, {machine: 2, duration: 4}]
type yamlDataset struct {
	Name string `yaml:"name"`
	Jobs []struct {
		Tasks []struct {
			Machine      *int          `yaml:"machine"`
			Duration     *int64        `yaml:"duration"`
			Alternatives []Alternative `yaml:"alternatives"`
		} `yaml:"tasks"`
	} `yaml:"jobs"`
}

func parseYAML(r io.Reader) (*Dataset, error) {
	var doc yamlDataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	ds := &Dataset{Name: doc.Name, Jobs: make([]Job, len(doc.Jobs))}
	for j, job := range doc.Jobs {
		for t, task := range job.Tasks {
			single := task.Machine != nil || task.Duration != nil
			switch {
			case single && len(task.Alternatives) > 0:
				return nil, &DatasetError{Job: j, Task: t, Alternative: -1, Reason: "both machine/duration and alternatives are set"}
			case single && (task.Machine == nil || task.Duration == nil):
				return nil, &DatasetError{Job: j, Task: t, Alternative: -1, Reason: "machine and duration must be set together"}
			case single:
				ds.Jobs[j].Tasks = append(ds.Jobs[j].Tasks, Task{Alternatives: []Alternative{{Machine: *task.Machine, Duration: *task.Duration}}})
			default:
				ds.Jobs[j].Tasks = append(ds.Jobs[j].Tasks, Task{Alternatives: task.Alternatives})
			}
		}
	}
	return ds, nil
}

// numberReader yields the integers of a text file, skipping '#' comment lines.
type numberReader struct {
	sc   *bufio.Scanner
	line int
}

// nextLine returns the integers of the next non-empty, non-comment line.
func (nr *numberReader) nextLine() ([]int64, error) {
	for nr.sc.Scan() {
		nr.line++
		text := strings.TrimSpace(nr.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		nums := make([]int64, len(fields))
		for i, f := range fields {
			// Some FJS files carry a fractional average in the header.
			if i == 2 && strings.Contains(f, ".") {
				nums = nums[:i]
				break
			}
			v, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", nr.line, err)
			}
			nums[i] = v
		}
		return nums, nil
	}
	if err := nr.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}

func header(nr *numberReader) (jobs, machines int64, err error) {
	h, err := nr.nextLine()
	if err != nil {
		return 0, 0, fmt.Errorf("reading header: %w", err)
	}
	if len(h) < 2 || h[0] <= 0 || h[1] <= 0 {
		return 0, 0, fmt.Errorf("line %d: header must hold positive job and machine counts", nr.line)
	}
	return h[0], h[1], nil
}

func parseJSSP(r io.Reader) (*Dataset, error) {
	nr := &numberReader{sc: bufio.NewScanner(r)}
	jobs, machines, err := header(nr)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{Jobs: make([]Job, jobs)}
	for j := range ds.Jobs {
		nums, err := nr.nextLine()
		if err != nil {
			return nil, fmt.Errorf("reading job %d: %w", j, err)
		}
		if len(nums)%2 != 0 {
			return nil, fmt.Errorf("line %d: odd number of values for machine/duration pairs", nr.line)
		}
		for i := 0; i < len(nums); i += 2 {
			if nums[i] >= machines {
				return nil, fmt.Errorf("line %d: machine %d out of range [0,%d)", nr.line, nums[i], machines)
			}
			ds.Jobs[j].Tasks = append(ds.Jobs[j].Tasks, Task{Alternatives: []Alternative{{Machine: int(nums[i]), Duration: nums[i+1]}}})
		}
	}
	return ds, nil
}

func parseFJS(r io.Reader) (*Dataset, error) {
	nr := &numberReader{sc: bufio.NewScanner(r)}
	jobs, machines, err := header(nr)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{Jobs: make([]Job, jobs)}
	for j := range ds.Jobs {
		nums, err := nr.nextLine()
		if err != nil {
			return nil, fmt.Errorf("reading job %d: %w", j, err)
		}
		pos := 0
		next := func() (int64, error) {
			if pos >= len(nums) {
				return 0, fmt.Errorf("line %d: truncated job description", nr.line)
			}
			pos++
			return nums[pos-1], nil
		}
		ops, err := next()
		if err != nil {
			return nil, err
		}
		for o := int64(0); o < ops; o++ {
			k, err := next()
			if err != nil {
				return nil, err
			}
			var task Task
			for a := int64(0); a < k; a++ {
				m, err := next()
				if err != nil {
					return nil, err
				}
				d, err := next()
				if err != nil {
					return nil, err
				}
				if m < 1 || m > machines {
					return nil, fmt.Errorf("line %d: machine %d out of range [1,%d]", nr.line, m, machines)
				}
				task.Alternatives = append(task.Alternatives, Alternative{Machine: int(m - 1), Duration: d})
			}
			ds.Jobs[j].Tasks = append(ds.Jobs[j].Tasks, task)
		}
		if pos != len(nums) {
			return nil, fmt.Errorf("line %d: %d trailing values", nr.line, len(nums)-pos)
		}
	}
	return ds, nil
}
