// Copyright 2026 Galerkin ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/galerkin-ml/galerkin/internal/backend/cpu"
	"github.com/galerkin-ml/galerkin/tensor"
)

// Backend is the pure Go CPU backend.
//
// Beyond the tensor.Backend core it carries the activation and real-FFT
// capabilities the operator layers assert for.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend.
//
// Example:
//
//	import (
//	    "github.com/galerkin-ml/galerkin/backend/cpu"
//	    "github.com/galerkin-ml/galerkin/operator"
//	)
//
//	func main() {
//	    b := cpu.New()
//	    fno, err := operator.NewFNO(b, operator.FNOConfig{
//	        Channels: []int{2, 64, 64, 128, 1},
//	        Modes:    []int{16},
//	    })
//	    _, _ = fno, err
//	}
func New() *Backend {
	return internalcpu.New()
}
