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
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protowire"
)

func packed(vs ...int64) []byte {
	var b []byte
	for _, v := range vs {
		b = protowire.AppendVarint(b, uint64(v))
	}
	return b
}

func field(b []byte, num protowire.Number, payload []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}

func double(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func varint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func TestMarshalCpModel(t *testing.T) {
	model := NewCpModelBuilder()
	model.SetName("m")
	x := model.NewIntVar(0, 5).WithName("x")
	b := model.NewBoolVar()
	model.AddLessOrEqual(x, NewConstant(3)).OnlyEnforceIf(b).WithName("le")
	model.Minimize(x)

	got, err := MarshalCpModel(mustModel(t, model))
	if err != nil {
		t.Fatalf("MarshalCpModel() returned with unexpected error %v", err)
	}

	var want []byte
	want = field(want, 1, []byte("m"))
	want = field(want, 2, field(field(nil, 1, []byte("x")), 2, packed(0, 5)))
	want = field(want, 2, field(nil, 2, packed(0, 1)))
	var ct []byte
	ct = field(ct, 1, []byte("le"))
	ct = field(ct, 2, packed(1))
	ct = field(ct, 12, field(field(field(nil, 1, packed(0)), 2, packed(1)), 3, packed(math.MinInt64, 3)))
	want = field(want, 3, ct)
	var obj []byte
	obj = field(obj, 1, packed(0))
	obj = double(obj, 3, 1)
	obj = field(obj, 4, packed(1))
	want = field(want, 4, obj)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MarshalCpModel() returned with unexpected diff (-want+got);\n%s", diff)
	}
}

func TestMarshalCpModel_Scheduling(t *testing.T) {
	model := NewCpModelBuilder()
	start := model.NewIntVar(0, 10)
	end := model.NewIntVar(0, 10)
	itv := model.NewIntervalVar(start, NewConstant(2), end)
	model.AddNoOverlap(itv)
	model.AddMaxEquality(end, start)
	model.AddExactlyOne(model.TrueVar())

	got, err := MarshalCpModel(mustModel(t, model))
	if err != nil {
		t.Fatalf("MarshalCpModel() returned with unexpected error %v", err)
	}

	var want []byte
	want = field(want, 2, field(nil, 2, packed(0, 10)))
	want = field(want, 2, field(nil, 2, packed(0, 10)))
	want = field(want, 2, field(nil, 2, packed(1, 1)))
	// start + 2 - end == 0, enforced by the true literal.
	lin := field(field(field(nil, 1, packed(0, 1)), 2, packed(1, -1)), 3, packed(-2, -2))
	want = field(want, 3, field(field(nil, 2, packed(2)), 12, lin))
	startExpr := field(field(nil, 1, packed(0)), 2, packed(1))
	endExpr := field(field(nil, 1, packed(1)), 2, packed(1))
	sizeExpr := varint(nil, 3, 2)
	itvb := field(field(field(nil, 4, startExpr), 5, endExpr), 6, sizeExpr)
	want = field(want, 3, field(field(nil, 2, packed(2)), 19, itvb))
	want = field(want, 3, field(nil, 20, field(nil, 1, packed(1))))
	want = field(want, 3, field(nil, 27, field(field(nil, 1, endExpr), 2, startExpr)))
	want = field(want, 3, field(nil, 29, field(nil, 1, packed(2))))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MarshalCpModel() returned with unexpected diff (-want+got);\n%s", diff)
	}
}

func TestMarshalCpModel_UnknownConstraint(t *testing.T) {
	type bogus struct{ ConstraintBody }
	m := &CpModel{Constraints: []*ModelConstraint{{Name: "bad", Body: bogus{}}}}
	if _, err := MarshalCpModel(m); err == nil {
		t.Errorf("MarshalCpModel() returned no error for an unknown constraint")
	}
}

func TestMarshalSolverParameters(t *testing.T) {
	testCases := []struct {
		name   string
		params *SolverParameters
		want   []byte
	}{
		{
			name:   "nil",
			params: nil,
			want:   nil,
		},
		{
			name:   "defaults",
			params: &SolverParameters{},
			want:   nil,
		},
		{
			name:   "all set",
			params: &SolverParameters{MaxTime: 1500 * time.Millisecond, NumWorkers: 8, LogSearchProgress: true, RandomSeed: 3},
			want:   varint(varint(double(varint(nil, 31, 3), 36, 1.5), 41, 1), 206, 8),
		},
	}
	for _, test := range testCases {
		got := MarshalSolverParameters(test.params)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: MarshalSolverParameters() returned with unexpected diff (-want+got);\n%s", test.name, diff)
		}
	}
}

func TestUnmarshalCpSolverResponse(t *testing.T) {
	var packedResp []byte
	packedResp = varint(packedResp, 1, 4)
	packedResp = field(packedResp, 2, packed(3, 0, -2))
	packedResp = double(packedResp, 3, 7)
	packedResp = double(packedResp, 4, 6)
	packedResp = varint(packedResp, 10, 99)
	packedResp = double(packedResp, 15, 0.25)
	packedResp = field(packedResp, 20, []byte("done"))

	var unpackedResp []byte
	unpackedResp = varint(unpackedResp, 1, 2)
	unpackedResp = varint(unpackedResp, 2, 5)
	unpackedResp = field(unpackedResp, 7, []byte("skipped"))
	unpackedResp = varint(unpackedResp, 2, 1)

	testCases := []struct {
		name string
		b    []byte
		want *CpSolverResponse
	}{
		{
			name: "empty",
			b:    nil,
			want: &CpSolverResponse{},
		},
		{
			name: "packed",
			b:    packedResp,
			want: &CpSolverResponse{
				Status:             CpSolverStatus_OPTIMAL,
				Solution:           []int64{3, 0, -2},
				ObjectiveValue:     7,
				BestObjectiveBound: 6,
				WallTime:           250 * time.Millisecond,
				SolutionInfo:       "done",
			},
		},
		{
			name: "unpacked",
			b:    unpackedResp,
			want: &CpSolverResponse{
				Status:   CpSolverStatus_FEASIBLE,
				Solution: []int64{5, 1},
			},
		},
	}
	for _, test := range testCases {
		got, err := UnmarshalCpSolverResponse(test.b)
		if err != nil {
			t.Fatalf("%s: UnmarshalCpSolverResponse() returned with unexpected error %v", test.name, err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: UnmarshalCpSolverResponse() returned with unexpected diff (-want+got);\n%s", test.name, diff)
		}
	}
}

func TestUnmarshalCpSolverResponse_Truncated(t *testing.T) {
	b := field(varint(nil, 1, 4), 20, []byte("done"))
	if _, err := UnmarshalCpSolverResponse(b[:len(b)-2]); err == nil {
		t.Errorf("UnmarshalCpSolverResponse() returned no error on a truncated message")
	}
}
