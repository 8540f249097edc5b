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

//go:build cgo && ortools_native

package cpmodel

import (
	"context"
	"fmt"
	"sync"
	"unsafe"
)

/*
#cgo LDFLAGS: -lortools
#include <stdlib.h> // for free
#include <stdint.h>
#include "ortools/sat/go/cpmodel/cp_solver_c.h"
*/
import "C"

// NativeSolver solves models in-process with the CP-SAT library. It is only available
// when building with cgo and the `ortools_native` tag.
type NativeSolver struct{}

// Solve implements Solver. Cancelling ctx stops the search; the engine then returns its
// best response so far.
func (NativeSolver) Solve(ctx context.Context, m *CpModel, params *SolverParameters) (*CpSolverResponse, error) {
	bReq, err := MarshalCpModel(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling model failed: %w", err)
	}
	cReq := C.CBytes(bReq)
	defer C.free(cReq)

	bParams := MarshalSolverParameters(params)
	cParams := C.CBytes(bParams)
	defer C.free(cParams)

	limitReached := newAtomicBoolWrapper()
	defer limitReached.delete()

	solveDone := make(chan struct{})
	defer close(solveDone)
	go func() {
		select {
		case <-ctx.Done():
			limitReached.trigger()
		case <-solveDone:
		}
	}()
	// The goroutine above may not be scheduled before the solve starts.
	if ctx.Err() != nil {
		limitReached.trigger()
	}

	var cRes unsafe.Pointer
	var cResLen C.int
	C.SolveCpInterruptible(limitReached.ptr, cReq, C.int(len(bReq)), cParams, C.int(len(bParams)), &cRes, &cResLen)
	defer C.free(cRes)

	res, err := UnmarshalCpSolverResponse(C.GoBytes(cRes, cResLen))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling response failed: %w", err)
	}
	return res, nil
}

// atomicBoolWrapper owns a native AtomicBool used to stop a running solve.
type atomicBoolWrapper struct {
	mutex sync.Mutex
	ptr   unsafe.Pointer // Guarded by mutex.
}

// newAtomicBoolWrapper allocates the native flag. delete() must be called to free it.
func newAtomicBoolWrapper() *atomicBoolWrapper {
	return &atomicBoolWrapper{ptr: C.SolveCpNewAtomicBool()}
}

// trigger raises the flag. It is a no-op once the flag is deleted.
func (intr *atomicBoolWrapper) trigger() {
	intr.mutex.Lock()
	defer intr.mutex.Unlock()
	if uintptr(intr.ptr) != 0 {
		C.SolveCpStopSolve(intr.ptr)
	}
}

// delete frees the native flag. Repeated calls are harmless.
func (intr *atomicBoolWrapper) delete() {
	intr.mutex.Lock()
	defer intr.mutex.Unlock()
	if uintptr(intr.ptr) == 0 {
		return
	}
	C.SolveCpDestroyAtomicBool(intr.ptr)
	intr.ptr = unsafe.Pointer(uintptr(0))
}

// NewNativeSolver returns the in-process CP-SAT engine.
func NewNativeSolver() (Solver, error) {
	return NativeSolver{}, nil
}
