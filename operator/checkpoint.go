// Copyright 2026 Galerkin ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package operator

import (
	"github.com/galerkin-ml/galerkin/internal/nn"
	"github.com/galerkin-ml/galerkin/internal/serialization"
)

// SnapshotHeader describes a saved parameter snapshot: format and library
// versions, the model type, tensor metadata and free-form key/value pairs.
type SnapshotHeader = serialization.Header

// SaveRecord writes a parameter record to a .gkn snapshot file. modelType
// names the architecture (for example "FourierNeuralOperator") and metadata
// carries optional key/value pairs.
func SaveRecord(path string, params *Record, modelType string, metadata map[string]string) error {
	return nn.SaveRecord(path, params, modelType, metadata)
}

// LoadRecord reads a .gkn snapshot back into a parameter record, verifying
// the embedded checksum.
func LoadRecord(path string) (*Record, *SnapshotHeader, error) {
	return nn.LoadRecord(path)
}
