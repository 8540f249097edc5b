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
	"fmt"
	"math"
	"slices"
)

// ClosedInterval is the set of integers in `[Start,End]`. It is empty when Start > End.
type ClosedInterval struct {
	Start int64
	End   int64
}

// saturatingAdd returns `i + delta`, clamped to the int64 range. MinInt64 and MaxInt64
// stand for unbounded ends and are left untouched.
func saturatingAdd(i, delta int64) int64 {
	if i == math.MinInt64 || i == math.MaxInt64 {
		return i
	}
	s := i + delta
	switch {
	case delta < 0 && s > i:
		return math.MinInt64
	case delta > 0 && s < i:
		return math.MaxInt64
	}
	return s
}

// Offset shifts both bounds of the interval by delta.
func (c ClosedInterval) Offset(delta int64) ClosedInterval {
	return ClosedInterval{saturatingAdd(c.Start, delta), saturatingAdd(c.End, delta)}
}

// Domain is a set of integers stored as sorted, disjoint and non-adjacent closed intervals.
type Domain struct {
	intervals []ClosedInterval
}

// normalize drops empty intervals, sorts the rest and merges the ones that touch.
func (d *Domain) normalize() {
	itvs := slices.DeleteFunc(d.intervals, func(c ClosedInterval) bool { return c.Start > c.End })
	if len(itvs) == 0 {
		d.intervals = nil
		return
	}
	slices.SortFunc(itvs, func(a, b ClosedInterval) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})
	merged := itvs[:1]
	for _, c := range itvs[1:] {
		last := &merged[len(merged)-1]
		if c.Start <= last.End || c.Start-last.End == 1 {
			last.End = max(last.End, c.End)
			continue
		}
		merged = append(merged, c)
	}
	d.intervals = merged
}

// NewEmptyDomain returns the empty set.
func NewEmptyDomain() Domain {
	return Domain{}
}

// NewSingleDomain returns `{val}`.
func NewSingleDomain(val int64) Domain {
	return Domain{[]ClosedInterval{{val, val}}}
}

// NewDomain returns `[left,right]`, or the empty domain when left > right.
func NewDomain(left, right int64) Domain {
	if left > right {
		return NewEmptyDomain()
	}
	return Domain{[]ClosedInterval{{left, right}}}
}

// FromValues builds a domain from unsorted, possibly repeated values.
func FromValues(values []int64) Domain {
	d := Domain{make([]ClosedInterval, 0, len(values))}
	for _, v := range values {
		d.intervals = append(d.intervals, ClosedInterval{v, v})
	}
	d.normalize()
	return d
}

// FromFlatIntervals builds a domain from `[lb0, ub0, lb1, ub1, ...]`. It fails when
// the number of values is odd.
func FromFlatIntervals(values []int64) (Domain, error) {
	if len(values)%2 != 0 {
		return NewEmptyDomain(), fmt.Errorf("len(values)=%v must be a multiple of 2", len(values))
	}
	d := Domain{make([]ClosedInterval, 0, len(values)/2)}
	for i := 0; i < len(values); i += 2 {
		d.intervals = append(d.intervals, ClosedInterval{values[i], values[i+1]})
	}
	d.normalize()
	return d, nil
}

// FlattenedIntervals returns `[lb0, ub0, lb1, ub1, ...]`.
func (d Domain) FlattenedIntervals() []int64 {
	result := make([]int64, 0, 2*len(d.intervals))
	for _, c := range d.intervals {
		result = append(result, c.Start, c.End)
	}
	return result
}

// Min returns the smallest value, and false if the domain is empty.
func (d Domain) Min() (int64, bool) {
	if len(d.intervals) == 0 {
		return 0, false
	}
	return d.intervals[0].Start, true
}

// Max returns the largest value, and false if the domain is empty.
func (d Domain) Max() (int64, bool) {
	if len(d.intervals) == 0 {
		return 0, false
	}
	return d.intervals[len(d.intervals)-1].End, true
}

// Contains reports whether v belongs to the domain.
func (d Domain) Contains(v int64) bool {
	i, found := slices.BinarySearchFunc(d.intervals, v, func(c ClosedInterval, t int64) int {
		return cmp.Compare(c.Start, t)
	})
	if found {
		return true
	}
	return i > 0 && d.intervals[i-1].End >= v
}

func (d Domain) String() string {
	if len(d.intervals) == 0 {
		return "[]"
	}
	s := ""
	for _, c := range d.intervals {
		if c.Start == c.End {
			s += fmt.Sprintf("[%d]", c.Start)
		} else {
			s += fmt.Sprintf("[%d,%d]", c.Start, c.End)
		}
	}
	return s
}
