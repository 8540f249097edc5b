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
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of ortools/sat/cp_model.proto and ortools/sat/sat_parameters.proto.
const (
	fieldModelName        = 1
	fieldModelVariables   = 2
	fieldModelConstraints = 3
	fieldModelObjective   = 4

	fieldVarName   = 1
	fieldVarDomain = 2

	fieldCtName        = 1
	fieldCtEnforcement = 2
	fieldCtBoolOr      = 3
	fieldCtBoolAnd     = 4
	fieldCtLinear      = 12
	fieldCtInterval    = 19
	fieldCtNoOverlap   = 20
	fieldCtAtMostOne   = 26
	fieldCtLinMax      = 27
	fieldCtExactlyOne  = 29

	fieldExprVars   = 1
	fieldExprCoeffs = 2
	fieldExprOffset = 3

	fieldLinArgTarget = 1
	fieldLinArgExprs  = 2

	fieldIntervalStart = 4
	fieldIntervalEnd   = 5
	fieldIntervalSize  = 6

	fieldObjVars    = 1
	fieldObjOffset  = 2
	fieldObjScaling = 3
	fieldObjCoeffs  = 4

	fieldRespStatus         = 1
	fieldRespSolution       = 2
	fieldRespObjectiveValue = 3
	fieldRespBestBound      = 4
	fieldRespWallTime       = 15
	fieldRespSolutionInfo   = 20

	fieldParamsRandomSeed        = 31
	fieldParamsMaxTimeInSeconds  = 36
	fieldParamsLogSearchProgress = 41
	fieldParamsNumWorkers        = 206
)

func appendPackedInt32(b []byte, num protowire.Number, vs []int32) []byte {
	if len(vs) == 0 {
		return b
	}
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, uint64(int64(v)))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

func appendPackedInt64(b []byte, num protowire.Number, vs []int64) []byte {
	if len(vs) == 0 {
		return b
	}
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, uint64(v))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func marshalExpression(e LinearExpression) []byte {
	var b []byte
	b = appendPackedInt32(b, fieldExprVars, e.Vars)
	b = appendPackedInt64(b, fieldExprCoeffs, e.Coeffs)
	return appendVarint(b, fieldExprOffset, uint64(e.Offset))
}

func marshalConstraint(ct *ModelConstraint) ([]byte, error) {
	var b []byte
	b = appendString(b, fieldCtName, ct.Name)
	b = appendPackedInt32(b, fieldCtEnforcement, ct.EnforcementLiteral)
	switch body := ct.Body.(type) {
	case *BoolOrConstraint:
		b = appendMessage(b, fieldCtBoolOr, appendPackedInt32(nil, 1, body.Literals))
	case *BoolAndConstraint:
		b = appendMessage(b, fieldCtBoolAnd, appendPackedInt32(nil, 1, body.Literals))
	case *AtMostOneConstraint:
		b = appendMessage(b, fieldCtAtMostOne, appendPackedInt32(nil, 1, body.Literals))
	case *ExactlyOneConstraint:
		b = appendMessage(b, fieldCtExactlyOne, appendPackedInt32(nil, 1, body.Literals))
	case *LinearConstraint:
		var lin []byte
		lin = appendPackedInt32(lin, 1, body.Vars)
		lin = appendPackedInt64(lin, 2, body.Coeffs)
		lin = appendPackedInt64(lin, 3, body.Domain)
		b = appendMessage(b, fieldCtLinear, lin)
	case *LinMaxConstraint:
		lm := appendMessage(nil, fieldLinArgTarget, marshalExpression(body.Target))
		for _, e := range body.Exprs {
			lm = appendMessage(lm, fieldLinArgExprs, marshalExpression(e))
		}
		b = appendMessage(b, fieldCtLinMax, lm)
	case *IntervalConstraint:
		var itv []byte
		itv = appendMessage(itv, fieldIntervalStart, marshalExpression(body.Start))
		itv = appendMessage(itv, fieldIntervalEnd, marshalExpression(body.End))
		itv = appendMessage(itv, fieldIntervalSize, marshalExpression(body.Size))
		b = appendMessage(b, fieldCtInterval, itv)
	case *NoOverlapConstraint:
		b = appendMessage(b, fieldCtNoOverlap, appendPackedInt32(nil, 1, body.Intervals))
	default:
		return nil, fmt.Errorf("cannot encode constraint %q of type %T", ct.Name, ct.Body)
	}
	return b, nil
}

// MarshalCpModel encodes m in the binary wire format of CpModelProto.
func MarshalCpModel(m *CpModel) ([]byte, error) {
	var b []byte
	b = appendString(b, fieldModelName, m.Name)
	for _, v := range m.Variables {
		var vb []byte
		vb = appendString(vb, fieldVarName, v.Name)
		vb = appendPackedInt64(vb, fieldVarDomain, v.Domain)
		b = appendMessage(b, fieldModelVariables, vb)
	}
	for i, ct := range m.Constraints {
		cb, err := marshalConstraint(ct)
		if err != nil {
			return nil, fmt.Errorf("constraint #%d: %w", i, err)
		}
		b = appendMessage(b, fieldModelConstraints, cb)
	}
	if o := m.Objective; o != nil {
		var ob []byte
		ob = appendPackedInt32(ob, fieldObjVars, o.Vars)
		ob = appendDouble(ob, fieldObjOffset, o.Offset)
		ob = appendDouble(ob, fieldObjScaling, o.ScalingFactor)
		ob = appendPackedInt64(ob, fieldObjCoeffs, o.Coeffs)
		b = appendMessage(b, fieldModelObjective, ob)
	}
	return b, nil
}

// MarshalSolverParameters encodes p in the binary wire format of SatParameters. A nil
// p encodes to an empty message.
func MarshalSolverParameters(p *SolverParameters) []byte {
	if p == nil {
		return nil
	}
	var b []byte
	b = appendVarint(b, fieldParamsRandomSeed, uint64(int64(p.RandomSeed)))
	b = appendDouble(b, fieldParamsMaxTimeInSeconds, p.MaxTime.Seconds())
	if p.LogSearchProgress {
		b = appendVarint(b, fieldParamsLogSearchProgress, 1)
	}
	return appendVarint(b, fieldParamsNumWorkers, uint64(int64(p.NumWorkers)))
}

// consumeInt64s decodes a repeated int64 field, packed or not.
func consumeInt64s(dst []int64, typ protowire.Type, b []byte) ([]int64, int) {
	if typ == protowire.VarintType {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return dst, n
		}
		return append(dst, int64(v)), n
	}
	packed, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return dst, n
	}
	for len(packed) > 0 {
		v, m := protowire.ConsumeVarint(packed)
		if m < 0 {
			return dst, m
		}
		dst = append(dst, int64(v))
		packed = packed[m:]
	}
	return dst, n
}

// UnmarshalCpSolverResponse decodes a CpSolverResponse from its binary wire format.
// Fields this package does not model are skipped.
func UnmarshalCpSolverResponse(b []byte) (*CpSolverResponse, error) {
	r := &CpSolverResponse{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("reading CpSolverResponse tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == fieldRespStatus && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			r.Status = CpSolverStatus(int32(v))
		case num == fieldRespSolution && (typ == protowire.BytesType || typ == protowire.VarintType):
			r.Solution, n = consumeInt64s(r.Solution, typ, b)
		case num == fieldRespObjectiveValue && typ == protowire.Fixed64Type:
			var v uint64
			v, n = protowire.ConsumeFixed64(b)
			r.ObjectiveValue = math.Float64frombits(v)
		case num == fieldRespBestBound && typ == protowire.Fixed64Type:
			var v uint64
			v, n = protowire.ConsumeFixed64(b)
			r.BestObjectiveBound = math.Float64frombits(v)
		case num == fieldRespWallTime && typ == protowire.Fixed64Type:
			var v uint64
			v, n = protowire.ConsumeFixed64(b)
			r.WallTime = time.Duration(math.Float64frombits(v) * float64(time.Second))
		case num == fieldRespSolutionInfo && typ == protowire.BytesType:
			r.SolutionInfo, n = protowire.ConsumeString(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, fmt.Errorf("reading CpSolverResponse field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return r, nil
}
