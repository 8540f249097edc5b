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
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrConstraintViolated is returned by CheckSolution when an assignment breaks the model.
var ErrConstraintViolated = errors.New("solution violates the model")

func literalValue(values []int64, lit int32) bool {
	if lit < 0 {
		return values[-lit-1] == 0
	}
	return values[lit] != 0
}

func (e LinearExpression) value(values []int64) int64 {
	v := e.Offset
	for i, ind := range e.Vars {
		v += e.Coeffs[i] * values[ind]
	}
	return v
}

func countTrue(values []int64, lits []int32) int {
	n := 0
	for _, l := range lits {
		if literalValue(values, l) {
			n++
		}
	}
	return n
}

func enforced(values []int64, ct *ModelConstraint) bool {
	for _, l := range ct.EnforcementLiteral {
		if !literalValue(values, l) {
			return false
		}
	}
	return true
}

// CheckSolution verifies that values assigns every variable of m inside its domain and
// satisfies every enforced constraint. It returns an error wrapping ErrConstraintViolated
// that names the first broken variable or constraint.
func CheckSolution(m *CpModel, values []int64) error {
	if len(values) != len(m.Variables) {
		return fmt.Errorf("got %d values for %d variables: %w", len(values), len(m.Variables), ErrConstraintViolated)
	}
	for i, v := range m.Variables {
		d, err := FromFlatIntervals(v.Domain)
		if err != nil {
			return fmt.Errorf("variable #%d %q: %w", i, v.Name, err)
		}
		if !d.Contains(values[i]) {
			return fmt.Errorf("variable #%d %q = %d is outside %v: %w", i, v.Name, values[i], d, ErrConstraintViolated)
		}
	}
	for i, ct := range m.Constraints {
		if !enforced(values, ct) {
			continue
		}
		if reason := violation(m, values, ct); reason != "" {
			return fmt.Errorf("constraint #%d %s %q: %s: %w", i, constraintKind(ct.Body), ct.Name, reason, ErrConstraintViolated)
		}
	}
	return nil
}

// violation describes why an enforced constraint does not hold, or returns "".
func violation(m *CpModel, values []int64, ct *ModelConstraint) string {
	switch b := ct.Body.(type) {
	case *BoolOrConstraint:
		if countTrue(values, b.Literals) == 0 {
			return "no literal is true"
		}
	case *BoolAndConstraint:
		if n := countTrue(values, b.Literals); n != len(b.Literals) {
			return fmt.Sprintf("%d of %d literals are true", n, len(b.Literals))
		}
	case *AtMostOneConstraint:
		if n := countTrue(values, b.Literals); n > 1 {
			return fmt.Sprintf("%d literals are true", n)
		}
	case *ExactlyOneConstraint:
		if n := countTrue(values, b.Literals); n != 1 {
			return fmt.Sprintf("%d literals are true", n)
		}
	case *LinearConstraint:
		sum := LinearExpression{Vars: b.Vars, Coeffs: b.Coeffs}.value(values)
		d, err := FromFlatIntervals(b.Domain)
		if err != nil {
			return err.Error()
		}
		if !d.Contains(sum) {
			return fmt.Sprintf("sum %d is outside %v", sum, d)
		}
	case *LinMaxConstraint:
		if len(b.Exprs) == 0 {
			return "empty max"
		}
		best := b.Exprs[0].value(values)
		for _, e := range b.Exprs[1:] {
			best = max(best, e.value(values))
		}
		if t := b.Target.value(values); t != best {
			return fmt.Sprintf("target %d != max %d", t, best)
		}
	case *IntervalConstraint:
		start, size, end := b.Start.value(values), b.Size.value(values), b.End.value(values)
		if size < 0 {
			return fmt.Sprintf("negative size %d", size)
		}
		if start+size != end {
			return fmt.Sprintf("%d + %d != %d", start, size, end)
		}
	case *NoOverlapConstraint:
		return overlap(m, values, b)
	default:
		return fmt.Sprintf("unsupported constraint %T", ct.Body)
	}
	return ""
}

type span struct {
	start, end int64
	ind        int32
}

func overlap(m *CpModel, values []int64, b *NoOverlapConstraint) string {
	var spans []span
	for _, ind := range b.Intervals {
		if ind < 0 || int(ind) >= len(m.Constraints) {
			return fmt.Sprintf("interval index %d out of range", ind)
		}
		ct := m.Constraints[ind]
		itv, ok := ct.Body.(*IntervalConstraint)
		if !ok {
			return fmt.Sprintf("constraint #%d is not an interval", ind)
		}
		if !enforced(values, ct) {
			continue
		}
		s := span{start: itv.Start.value(values), end: itv.End.value(values), ind: ind}
		if s.end > s.start {
			spans = append(spans, s)
		}
	}
	slices.SortStableFunc(spans, func(a, b span) int { return cmp.Compare(a.start, b.start) })
	for i := 1; i < len(spans); i++ {
		if prev, cur := spans[i-1], spans[i]; prev.end > cur.start {
			return fmt.Sprintf("intervals #%d [%d,%d) and #%d [%d,%d) overlap", prev.ind, prev.start, prev.end, cur.ind, cur.start, cur.end)
		}
	}
	return ""
}
