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
	"fmt"
	"strings"
)

var (
	// ErrInvalidDataset is wrapped by every dataset validation error.
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrModelDefect reports a model that could not be built from a valid dataset.
	ErrModelDefect = errors.New("model building defect")
	// ErrInvalidSchedule is wrapped by schedule verification errors.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrInfeasible is returned when the solver proves that no schedule exists.
	ErrInfeasible = errors.New("no schedule exists")
	// ErrModelInvalid is returned when the solver rejects the model as malformed.
	ErrModelInvalid = errors.New("malformed model")
	// ErrNoSolution is returned when the solver stops on a limit with neither a solution
	// nor a proof of infeasibility. Retrying with a larger budget may help.
	ErrNoSolution = errors.New("no solution found within the solver limits")
	// ErrNotProvenOptimal is returned for a FEASIBLE status when Options.AcceptFeasible is off.
	ErrNotProvenOptimal = errors.New("solution not proven optimal")
)

// DatasetError locates a validation failure. Job, Task and Alternative are -1 when the
// failure is not tied to that level.
type DatasetError struct {
	Job         int
	Task        int
	Alternative int
	Reason      string
}

func (e *DatasetError) Error() string {
	var where []string
	if e.Job >= 0 {
		where = append(where, fmt.Sprintf("job %d", e.Job))
	}
	if e.Task >= 0 {
		where = append(where, fmt.Sprintf("task %d", e.Task))
	}
	if e.Alternative >= 0 {
		where = append(where, fmt.Sprintf("alternative %d", e.Alternative))
	}
	if len(where) == 0 {
		return fmt.Sprintf("%v: %s", ErrInvalidDataset, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrInvalidDataset, strings.Join(where, ", "), e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidDataset) hold.
func (e *DatasetError) Unwrap() error {
	return ErrInvalidDataset
}
