// Copyright 2026 Galerkin ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/galerkin-ml/galerkin/internal/backend/cpu"
	"github.com/galerkin-ml/galerkin/tensor"
)

// TestBackendInterface verifies that cpu.CPUBackend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.CPUBackend)(nil)
}

// TestTensorAPI verifies the Tensor alias exposes the expected API.
func TestTensorAPI(t *testing.T) {
	x, err := tensor.New(tensor.Shape{2, 3}, tensor.Float64)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !x.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", x.Shape())
	}
	if x.DType() != tensor.Float64 {
		t.Errorf("DType() = %v, want Float64", x.DType())
	}
	if x.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", x.NumElements())
	}
	if x.ByteSize() != 6*8 {
		t.Errorf("ByteSize() = %d, want 48", x.ByteSize())
	}

	data := x.AsFloat64()
	data[0] = 1.5
	clone := x.Clone()
	clone.AsFloat64()[0] = -1
	if x.AsFloat64()[0] != 1.5 {
		t.Error("Clone() shares the buffer with its source")
	}
}

func TestCreationFunctions(t *testing.T) {
	z := tensor.Zeros(tensor.Shape{4}, tensor.Complex128)
	for i, v := range z.AsComplex128() {
		if v != 0 {
			t.Errorf("Zeros element %d = %v, want 0", i, v)
		}
	}

	f := tensor.Full(tensor.Shape{3}, 2.5)
	for i, v := range f.AsFloat64() {
		if v != 2.5 {
			t.Errorf("Full element %d = %v, want 2.5", i, v)
		}
	}

	s, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if s.AsFloat64()[3] != 4 {
		t.Errorf("FromSlice element 3 = %v, want 4", s.AsFloat64()[3])
	}

	rng := rand.New(rand.NewSource(1))
	r := tensor.Randn(tensor.Shape{8}, rng)
	if r.DType() != tensor.Float64 {
		t.Errorf("Randn dtype = %v, want Float64", r.DType())
	}
}

func TestBroadcastShapes(t *testing.T) {
	result, needs, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{3, 4})
	if err != nil {
		t.Fatalf("BroadcastShapes failed: %v", err)
	}
	if !result.Equal(tensor.Shape{3, 4}) {
		t.Errorf("result = %v, want [3 4]", result)
	}
	if !needs {
		t.Error("needsBroadcast = false, want true")
	}
}
