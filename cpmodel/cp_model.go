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

// Package cpmodel builds constraint models for scheduling problems and hands them to an
// external constraint solver.
//
// The `Builder` struct owns a `CpModel` and offers helpers to declare variables and post
// constraints. `IntVar`, `BoolVar` and `IntervalVar` are handles on variables of that model.
// `LinearExpr` combines handles and coefficients into constraints and objectives.
// Solving is delegated to a `Solver`; see cp_solver.go.
package cpmodel

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
)

// ErrMixedModels holds the error when elements added to a model come from another Builder.
var ErrMixedModels = errors.New("elements are not part of the same model")

// ErrInvalidArgument holds the error when a builder method is called with inconsistent arguments.
var ErrInvalidArgument = errors.New("invalid argument")

type (
	// VarIndex is the index of a variable in the model. A negative value `v` stands for the
	// negation of the Boolean variable at `-v-1`.
	VarIndex int32
	// ConstrIndex is the index of a constraint in the model.
	ConstrIndex int32
)

func (v VarIndex) positiveIndex() VarIndex {
	if v >= 0 {
		return v
	}
	return -v - 1
}

// LinearArgument is implemented by BoolVar, IntVar and LinearExpr.
type LinearArgument interface {
	addToLinearExpr(e *LinearExpr, c int64)
	asLinearExpression() LinearExpression
	// evaluate returns the value of the argument under a full assignment.
	evaluate(values []int64) int64
}

// LinearExpr accumulates weighted variables and a constant offset.
type LinearExpr struct {
	varCoeffs []varCoeff
	offset    int64
}

type varCoeff struct {
	ind   VarIndex
	coeff int64
}

// NewLinearExpr returns an empty expression.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// NewConstant returns an expression equal to c.
func NewConstant(c int64) *LinearExpr {
	return &LinearExpr{offset: c}
}

// Add adds la with coefficient 1 and returns the expression.
func (l *LinearExpr) Add(la LinearArgument) *LinearExpr {
	return l.AddTerm(la, 1)
}

// AddConstant adds c to the offset and returns the expression.
func (l *LinearExpr) AddConstant(c int64) *LinearExpr {
	l.offset += c
	return l
}

// AddTerm adds `coeff * la` and returns the expression.
func (l *LinearExpr) AddTerm(la LinearArgument, coeff int64) *LinearExpr {
	la.addToLinearExpr(l, coeff)
	return l
}

// AddSum adds every argument with coefficient 1 and returns the expression.
func (l *LinearExpr) AddSum(las ...LinearArgument) *LinearExpr {
	for _, la := range las {
		l.Add(la)
	}
	return l
}

func (l *LinearExpr) addToLinearExpr(e *LinearExpr, c int64) {
	for _, vc := range l.varCoeffs {
		e.varCoeffs = append(e.varCoeffs, varCoeff{ind: vc.ind, coeff: vc.coeff * c})
	}
	e.offset += l.offset * c
}

func (l *LinearExpr) asLinearExpression() LinearExpression {
	var expr LinearExpression
	for _, vc := range l.varCoeffs {
		expr.Vars = append(expr.Vars, int32(vc.ind))
		expr.Coeffs = append(expr.Coeffs, vc.coeff)
	}
	expr.Offset = l.offset
	return expr
}

func (l *LinearExpr) evaluate(values []int64) int64 {
	result := l.offset
	for _, vc := range l.varCoeffs {
		result += values[vc.ind] * vc.coeff
	}
	return result
}

// IntVar is a handle on an integer variable.
type IntVar struct {
	ind VarIndex
	cpb *Builder
}

// Name returns the name of the variable.
func (i IntVar) Name() string {
	return i.cpb.model.Variables[i.ind].Name
}

// Domain returns the domain of the variable.
func (i IntVar) Domain() (Domain, error) {
	return FromFlatIntervals(i.cpb.model.Variables[i.ind].Domain)
}

// Index returns the index of the variable.
func (i IntVar) Index() VarIndex {
	return i.ind
}

// WithName names the variable and returns it.
func (i IntVar) WithName(s string) IntVar {
	i.cpb.model.Variables[i.ind].Name = s
	return i
}

func (i IntVar) addToLinearExpr(e *LinearExpr, c int64) {
	e.varCoeffs = append(e.varCoeffs, varCoeff{ind: i.ind, coeff: c})
}

func (i IntVar) asLinearExpression() LinearExpression {
	return LinearExpression{Vars: []int32{int32(i.ind)}, Coeffs: []int64{1}}
}

func (i IntVar) evaluate(values []int64) int64 {
	return values[i.ind]
}

// BoolVar is a handle on a Boolean variable or on its negation.
type BoolVar struct {
	ind VarIndex
	cpb *Builder
}

// Not returns the negation of the literal.
func (b BoolVar) Not() BoolVar {
	return BoolVar{ind: -b.ind - 1, cpb: b.cpb}
}

// Name returns the name of the underlying variable.
func (b BoolVar) Name() string {
	return b.cpb.model.Variables[b.ind.positiveIndex()].Name
}

// Index returns the literal index, negative for a negated variable.
func (b BoolVar) Index() VarIndex {
	return b.ind
}

// WithName names the underlying variable and returns the literal.
func (b BoolVar) WithName(s string) BoolVar {
	b.cpb.model.Variables[b.ind.positiveIndex()].Name = s
	return b
}

func (b BoolVar) addToLinearExpr(e *LinearExpr, c int64) {
	if b.ind < 0 {
		// not(x) == 1 - x
		e.varCoeffs = append(e.varCoeffs, varCoeff{ind: b.ind.positiveIndex(), coeff: -c})
		e.offset += c
		return
	}
	e.varCoeffs = append(e.varCoeffs, varCoeff{ind: b.ind, coeff: c})
}

func (b BoolVar) asLinearExpression() LinearExpression {
	if b.ind < 0 {
		return LinearExpression{Vars: []int32{int32(b.ind.positiveIndex())}, Coeffs: []int64{-1}, Offset: 1}
	}
	return LinearExpression{Vars: []int32{int32(b.ind)}, Coeffs: []int64{1}}
}

func (b BoolVar) evaluate(values []int64) int64 {
	if b.ind < 0 {
		return 1 - values[b.ind.positiveIndex()]
	}
	return values[b.ind]
}

// IntervalVar is a handle on an interval. An interval is both a variable and a constraint:
// it ties (start, size, end) with `start + size == end`, and is only active when its
// presence literal holds.
type IntervalVar struct {
	ind ConstrIndex
	cpb *Builder
}

// Name returns the name of the interval.
func (iv IntervalVar) Name() string {
	return iv.cpb.model.Constraints[iv.ind].Name
}

// Index returns the index of the interval constraint.
func (iv IntervalVar) Index() ConstrIndex {
	return iv.ind
}

// WithName names the interval and returns it.
func (iv IntervalVar) WithName(s string) IntervalVar {
	iv.cpb.model.Constraints[iv.ind].Name = s
	return iv
}

// Constraint is a handle on a posted constraint.
type Constraint struct {
	ind ConstrIndex
	cpb *Builder
}

// WithName names the constraint and returns it.
func (c Constraint) WithName(s string) Constraint {
	c.cpb.model.Constraints[c.ind].Name = s
	return c
}

// Name returns the name of the constraint.
func (c Constraint) Name() string {
	return c.cpb.model.Constraints[c.ind].Name
}

// Index returns the index of the constraint.
func (c Constraint) Index() ConstrIndex {
	return c.ind
}

// OnlyEnforceIf makes the constraint conditional: it only holds when all bvs are true.
func (c Constraint) OnlyEnforceIf(bvs ...BoolVar) Constraint {
	ct := c.cpb.model.Constraints[c.ind]
	for _, bv := range bvs {
		if !c.cpb.checkSameModelAndSetErrorf(bv.cpb, "enforcement literal %v added to constraint %v", bv.Index(), c.Index()) {
			return c
		}
		ct.EnforcementLiteral = append(ct.EnforcementLiteral, int32(bv.ind))
	}
	return c
}

// Builder accumulates variables and constraints into a CpModel.
type Builder struct {
	model     *CpModel
	constants map[int64]VarIndex
	// Only the first error is kept; Model() reports it.
	err error
}

// NewCpModelBuilder returns a Builder over an empty model.
func NewCpModelBuilder() *Builder {
	return &Builder{model: &CpModel{}, constants: make(map[int64]VarIndex)}
}

// checkSameModelAndSetErrorf returns true if cp and cp2 are the same Builder. Otherwise it
// latches an error built from format and returns false.
func (cp *Builder) checkSameModelAndSetErrorf(cp2 *Builder, format string, a ...any) bool {
	if cp == cp2 {
		return true
	}
	cp.setError(fmt.Errorf(format+": %w", append(a, ErrMixedModels)...))
	return false
}

func (cp *Builder) setError(err error) {
	log.Errorf("cpmodel: %v", err)
	if cp.err == nil {
		cp.err = err
	}
}

// SetName names the model.
func (cp *Builder) SetName(name string) {
	cp.model.Name = name
}

func (cp *Builder) appendVariable(domain []int64) VarIndex {
	ind := VarIndex(len(cp.model.Variables))
	cp.model.Variables = append(cp.model.Variables, &IntegerVariable{Domain: domain})
	return ind
}

// NewIntVar declares an integer variable in `[lb,ub]`.
func (cp *Builder) NewIntVar(lb, ub int64) IntVar {
	return IntVar{cpb: cp, ind: cp.appendVariable([]int64{lb, ub})}
}

// NewIntVarFromDomain declares an integer variable with the given domain.
func (cp *Builder) NewIntVarFromDomain(d Domain) IntVar {
	return IntVar{cpb: cp, ind: cp.appendVariable(d.FlattenedIntervals())}
}

// NewBoolVar declares a Boolean variable.
func (cp *Builder) NewBoolVar() BoolVar {
	return BoolVar{cpb: cp, ind: cp.appendVariable([]int64{0, 1})}
}

// NewConstant returns a variable fixed to v. Repeated calls with the same value share
// a single variable.
func (cp *Builder) NewConstant(v int64) IntVar {
	if i, ok := cp.constants[v]; ok {
		return IntVar{cpb: cp, ind: i}
	}
	ind := cp.appendVariable([]int64{v, v})
	cp.constants[v] = ind
	return IntVar{cpb: cp, ind: ind}
}

// TrueVar returns a literal that is always true.
func (cp *Builder) TrueVar() BoolVar {
	return BoolVar{cpb: cp, ind: cp.NewConstant(1).ind}
}

// FalseVar returns a literal that is always false.
func (cp *Builder) FalseVar() BoolVar {
	return BoolVar{cpb: cp, ind: cp.NewConstant(0).ind}
}

// NewIntervalVar declares an always present interval `start + size == end`.
func (cp *Builder) NewIntervalVar(start, size, end LinearArgument) IntervalVar {
	return cp.NewOptionalIntervalVar(start, size, end, cp.TrueVar())
}

// NewFixedSizeIntervalVar declares an always present interval of the given size.
func (cp *Builder) NewFixedSizeIntervalVar(start LinearArgument, size int64) IntervalVar {
	return cp.NewOptionalFixedSizeIntervalVar(start, size, cp.TrueVar())
}

// NewOptionalIntervalVar declares an interval that only exists when presence is true.
// The relation `start + size == end` is only enforced in that case.
func (cp *Builder) NewOptionalIntervalVar(start, size, end LinearArgument, presence BoolVar) IntervalVar {
	if !cp.checkSameModelAndSetErrorf(presence.cpb, "presence literal %v of interval %v", presence.Index(), len(cp.model.Constraints)) {
		return IntervalVar{cpb: cp, ind: -1}
	}
	cp.AddEquality(NewLinearExpr().Add(start).Add(size), end).OnlyEnforceIf(presence)

	ct := cp.appendConstraint(&ModelConstraint{
		EnforcementLiteral: []int32{int32(presence.ind)},
		Body: &IntervalConstraint{
			Start: start.asLinearExpression(),
			Size:  size.asLinearExpression(),
			End:   end.asLinearExpression(),
		},
	})
	return IntervalVar{cpb: cp, ind: ct.ind}
}

// NewOptionalFixedSizeIntervalVar declares an optional interval of the given size.
func (cp *Builder) NewOptionalFixedSizeIntervalVar(start LinearArgument, size int64, presence BoolVar) IntervalVar {
	sizeExpr := NewConstant(size)
	end := NewLinearExpr().Add(start).Add(sizeExpr)
	return cp.NewOptionalIntervalVar(start, sizeExpr, end, presence)
}

func (cp *Builder) appendConstraint(ct *ModelConstraint) Constraint {
	i := ConstrIndex(len(cp.model.Constraints))
	cp.model.Constraints = append(cp.model.Constraints, ct)
	return Constraint{cpb: cp, ind: i}
}

func (cp *Builder) literals(bvs []BoolVar) []int32 {
	lits := make([]int32, 0, len(bvs))
	for _, b := range bvs {
		cp.checkSameModelAndSetErrorf(b.cpb, "BoolVar %v added to constraint %v", b.Index(), len(cp.model.Constraints))
		lits = append(lits, int32(b.ind))
	}
	return lits
}

// AddBoolOr posts that at least one literal is true.
func (cp *Builder) AddBoolOr(bvs ...BoolVar) Constraint {
	return cp.appendConstraint(&ModelConstraint{Body: &BoolOrConstraint{Literals: cp.literals(bvs)}})
}

// AddBoolAnd posts that all literals are true.
func (cp *Builder) AddBoolAnd(bvs ...BoolVar) Constraint {
	return cp.appendConstraint(&ModelConstraint{Body: &BoolAndConstraint{Literals: cp.literals(bvs)}})
}

// AddAtMostOne posts that at most one literal is true.
func (cp *Builder) AddAtMostOne(bvs ...BoolVar) Constraint {
	return cp.appendConstraint(&ModelConstraint{Body: &AtMostOneConstraint{Literals: cp.literals(bvs)}})
}

// AddExactlyOne posts that exactly one literal is true.
func (cp *Builder) AddExactlyOne(bvs ...BoolVar) Constraint {
	return cp.appendConstraint(&ModelConstraint{Body: &ExactlyOneConstraint{Literals: cp.literals(bvs)}})
}

// AddImplication posts a => b.
func (cp *Builder) AddImplication(a, b BoolVar) Constraint {
	return cp.AddBoolOr(a.Not(), b)
}

// addLinearConstraint posts that le lies in the union of intervals. The offset of le is
// moved to the right hand side. intervals must be disjoint, non-empty and sorted.
func (cp *Builder) addLinearConstraint(le *LinearExpr, intervals ...ClosedInterval) Constraint {
	lin := &LinearConstraint{}
	for _, vc := range le.varCoeffs {
		lin.Vars = append(lin.Vars, int32(vc.ind))
		lin.Coeffs = append(lin.Coeffs, vc.coeff)
	}
	for _, i := range intervals {
		shifted := i.Offset(-le.offset)
		lin.Domain = append(lin.Domain, shifted.Start, shifted.End)
	}
	return cp.appendConstraint(&ModelConstraint{Body: lin})
}

// AddLinearConstraintForDomain posts `expr in domain`.
func (cp *Builder) AddLinearConstraintForDomain(expr LinearArgument, domain Domain) Constraint {
	return cp.addLinearConstraint(NewLinearExpr().Add(expr), domain.intervals...)
}

// AddLinearConstraint posts `lb <= expr <= ub`.
func (cp *Builder) AddLinearConstraint(expr LinearArgument, lb, ub int64) Constraint {
	return cp.addLinearConstraint(NewLinearExpr().Add(expr), ClosedInterval{lb, ub})
}

// AddEquality posts `lhs == rhs`.
func (cp *Builder) AddEquality(lhs, rhs LinearArgument) Constraint {
	return cp.addLinearConstraint(NewLinearExpr().Add(lhs).AddTerm(rhs, -1), ClosedInterval{0, 0})
}

// AddLessOrEqual posts `lhs <= rhs`.
func (cp *Builder) AddLessOrEqual(lhs, rhs LinearArgument) Constraint {
	return cp.addLinearConstraint(NewLinearExpr().Add(lhs).AddTerm(rhs, -1), ClosedInterval{math.MinInt64, 0})
}

// AddGreaterOrEqual posts `lhs >= rhs`.
func (cp *Builder) AddGreaterOrEqual(lhs, rhs LinearArgument) Constraint {
	return cp.addLinearConstraint(NewLinearExpr().Add(lhs).AddTerm(rhs, -1), ClosedInterval{0, math.MaxInt64})
}

// AddNotEqual posts `lhs != rhs`.
func (cp *Builder) AddNotEqual(lhs, rhs LinearArgument) Constraint {
	return cp.addLinearConstraint(NewLinearExpr().Add(lhs).AddTerm(rhs, -1),
		ClosedInterval{math.MinInt64, -1}, ClosedInterval{1, math.MaxInt64})
}

// AddMaxEquality posts `target == max(exprs)`. exprs must not be empty.
func (cp *Builder) AddMaxEquality(target LinearArgument, exprs ...LinearArgument) Constraint {
	if len(exprs) == 0 {
		cp.setError(fmt.Errorf("AddMaxEquality needs at least one expression: %w", ErrInvalidArgument))
	}
	lm := &LinMaxConstraint{Target: target.asLinearExpression()}
	for _, e := range exprs {
		lm.Exprs = append(lm.Exprs, e.asLinearExpression())
	}
	return cp.appendConstraint(&ModelConstraint{Body: lm})
}

// AddNoOverlap posts that no two present intervals overlap in time. An empty set of
// intervals is accepted and constrains nothing.
func (cp *Builder) AddNoOverlap(vars ...IntervalVar) Constraint {
	intervals := make([]int32, 0, len(vars))
	for _, v := range vars {
		cp.checkSameModelAndSetErrorf(v.cpb, "interval %v added to NoOverlap constraint %v", v.Index(), len(cp.model.Constraints))
		intervals = append(intervals, int32(v.ind))
	}
	return cp.appendConstraint(&ModelConstraint{Body: &NoOverlapConstraint{Intervals: intervals}})
}

func objectiveOf(obj LinearArgument, sign int64) *Objective {
	o := NewLinearExpr().AddTerm(obj, sign)
	opb := &Objective{Offset: float64(o.offset), ScalingFactor: float64(sign)}
	for _, vc := range o.varCoeffs {
		opb.Vars = append(opb.Vars, int32(vc.ind))
		opb.Coeffs = append(opb.Coeffs, vc.coeff)
	}
	return opb
}

// Minimize sets a linear minimization objective.
func (cp *Builder) Minimize(obj LinearArgument) {
	cp.model.Objective = objectiveOf(obj, 1)
}

// Maximize sets a linear maximization objective. It is stored as the minimization of
// the negated expression with a scaling factor of -1.
func (cp *Builder) Maximize(obj LinearArgument) {
	cp.model.Objective = objectiveOf(obj, -1)
}

// Model returns the model built so far, or the first error met while building it.
// The returned model is shared with the Builder: later calls keep extending it.
func (cp *Builder) Model() (*CpModel, error) {
	if cp.err != nil {
		return nil, cp.err
	}
	return cp.model, nil
}
