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

// CpModel is the in-memory form of a constraint model. Its layout follows the CP-SAT
// CpModelProto message field for field, so it can be handed to any engine either
// directly or through MarshalCpModel.
type CpModel struct {
	Name        string
	Variables   []*IntegerVariable
	Constraints []*ModelConstraint
	// Objective is nil for pure satisfaction models.
	Objective *Objective
}

// IntegerVariable is a variable with a domain given as a flattened list of closed
// intervals `[lb0, ub0, lb1, ub1, ...]`.
type IntegerVariable struct {
	Name   string
	Domain []int64
}

// LinearExpression is `sum(Coeffs[i] * Vars[i]) + Offset`. Vars only hold
// non-negative variable indices.
type LinearExpression struct {
	Vars   []int32
	Coeffs []int64
	Offset int64
}

// ModelConstraint is a constraint of the model. It is only enforced when all the
// literals of EnforcementLiteral are true. A negative literal `l` stands for the
// negation of variable `-l-1`.
type ModelConstraint struct {
	Name               string
	EnforcementLiteral []int32
	Body               ConstraintBody
}

// ConstraintBody is implemented by every constraint payload.
type ConstraintBody interface {
	isConstraintBody()
}

// BoolOrConstraint requires at least one literal to be true.
type BoolOrConstraint struct {
	Literals []int32
}

// BoolAndConstraint requires all literals to be true.
type BoolAndConstraint struct {
	Literals []int32
}

// AtMostOneConstraint requires at most one literal to be true.
type AtMostOneConstraint struct {
	Literals []int32
}

// ExactlyOneConstraint requires exactly one literal to be true.
type ExactlyOneConstraint struct {
	Literals []int32
}

// LinearConstraint requires `sum(Coeffs[i] * Vars[i])` to lie in Domain.
type LinearConstraint struct {
	Vars   []int32
	Coeffs []int64
	Domain []int64
}

// LinMaxConstraint requires `Target == max(Exprs)`.
type LinMaxConstraint struct {
	Target LinearExpression
	Exprs  []LinearExpression
}

// IntervalConstraint declares an interval. When enforced, `Start + Size == End` and
// `Size >= 0`. The enforcement literal doubles as the presence of the interval.
type IntervalConstraint struct {
	Start LinearExpression
	Size  LinearExpression
	End   LinearExpression
}

// NoOverlapConstraint references interval constraints by index. No two present
// intervals may overlap.
type NoOverlapConstraint struct {
	Intervals []int32
}

func (*BoolOrConstraint) isConstraintBody()     {}
func (*BoolAndConstraint) isConstraintBody()    {}
func (*AtMostOneConstraint) isConstraintBody()  {}
func (*ExactlyOneConstraint) isConstraintBody() {}
func (*LinearConstraint) isConstraintBody()     {}
func (*LinMaxConstraint) isConstraintBody()     {}
func (*IntervalConstraint) isConstraintBody()   {}
func (*NoOverlapConstraint) isConstraintBody()  {}

// Objective is `ScalingFactor * (sum(Coeffs[i] * Vars[i]) + Offset)`, always minimized.
// A ScalingFactor of 0 is read as 1.
type Objective struct {
	Vars          []int32
	Coeffs        []int64
	Offset        float64
	ScalingFactor float64
}

// Stats summarizes the size of a model.
type Stats struct {
	Variables   int
	Constraints map[string]int
}

// Stats counts the variables and the constraints of each kind.
func (m *CpModel) Stats() Stats {
	s := Stats{Variables: len(m.Variables), Constraints: make(map[string]int)}
	for _, ct := range m.Constraints {
		s.Constraints[constraintKind(ct.Body)]++
	}
	return s
}

func constraintKind(b ConstraintBody) string {
	switch b.(type) {
	case *BoolOrConstraint:
		return "bool_or"
	case *BoolAndConstraint:
		return "bool_and"
	case *AtMostOneConstraint:
		return "at_most_one"
	case *ExactlyOneConstraint:
		return "exactly_one"
	case *LinearConstraint:
		return "linear"
	case *LinMaxConstraint:
		return "lin_max"
	case *IntervalConstraint:
		return "interval"
	case *NoOverlapConstraint:
		return "no_overlap"
	default:
		return "unknown"
	}
}
