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

package jobshop_test

import (
	"fmt"
	"strings"

	log "github.com/golang/glog"
	"github.com/google/or-tools/scheduling/jobshop"
)

func ExampleBuild() {
	ds := jobshop.NewClassic("3x3", [][]jobshop.ClassicTask{
		{{Machine: 0, Duration: 3}, {Machine: 1, Duration: 2}, {Machine: 2, Duration: 2}},
		{{Machine: 0, Duration: 2}, {Machine: 2, Duration: 1}, {Machine: 1, Duration: 4}},
		{{Machine: 1, Duration: 4}, {Machine: 2, Duration: 3}},
	})
	p, err := jobshop.Build(ds)
	if err != nil {
		log.Fatalf("Build returned with error %v", err)
	}
	stats := p.Model.Stats()
	fmt.Println("horizon:", p.Horizon)
	fmt.Println("lower bound:", ds.LowerBound())
	fmt.Println("variables:", stats.Variables)
	fmt.Println("no_overlap:", stats.Constraints["no_overlap"])
	// Output:
	// horizon: 21
	// lower bound: 10
	// variables: 21
	// no_overlap: 3
}

func ExampleParse() {
	const fjs = `# two jobs, two machines
2 2
2 2 1 3 2 4 2 1 2 2 5
1 1 2 6
`
	ds, err := jobshop.Parse(strings.NewReader(fjs), jobshop.FormatFJS, "tiny")
	if err != nil {
		log.Fatalf("Parse returned with error %v", err)
	}
	for j, job := range ds.Jobs {
		for t, task := range job.Tasks {
			fmt.Printf("job %d task %d: %v\n", j, t, task.Alternatives)
		}
	}
	// Output:
	// job 0 task 0: [{0 3} {1 4}]
	// job 0 task 1: [{0 2} {1 5}]
	// job 1 task 0: [{1 6}]
}
