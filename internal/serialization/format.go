// Package serialization reads and writes parameter records in the .gkn
// binary format: a 64-byte fixed header carrying a SHA-256 checksum of the
// data section, a JSON header describing every tensor, padding to a 64-byte
// boundary, and the raw tensor buffers laid out in sorted name order so
// identical records always produce identical bytes.
package serialization

import (
	"time"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// Format constants.
const (
	MagicBytes      = "GKRN"
	FormatVersion   = 1
	FixedHeaderSize = 64   // magic, version, flags, header size, data size, checksum
	HeaderAlignment = 64   // tensor data starts on a 64-byte boundary
	ChecksumOffset  = 0x20 // SHA-256 of the data section inside the fixed header
	ChecksumSize    = 32

	// maxHeaderSize bounds the JSON header so a corrupted length field
	// cannot trigger a huge allocation.
	maxHeaderSize = 100 * 1024 * 1024
)

// Data type names used in the JSON header.
const (
	DTypeFloat64    = "float64"
	DTypeComplex128 = "complex128"
)

// Header is the JSON header of a .gkn file.
type Header struct {
	FormatVersion   int               `json:"format_version"`
	GalerkinVersion string            `json:"galerkin_version"`
	ModelType       string            `json:"model_type"`
	CreatedAt       time.Time         `json:"created_at"`
	Tensors         []TensorMeta      `json:"tensors"`
	Metadata        map[string]string `json:"metadata"`
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`   // dotted record path, e.g. "mapping.0.spectral.weight"
	DType  string `json:"dtype"`  // "float64" or "complex128"
	Shape  []int  `json:"shape"`  // tensor shape
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`   // size in bytes
}

const galerkinVersion = "0.1.0"

func dtypeToString(dt tensor.DataType) string {
	switch dt {
	case tensor.Float64:
		return DTypeFloat64
	case tensor.Complex128:
		return DTypeComplex128
	default:
		return "unknown"
	}
}

func stringToDtype(s string) (tensor.DataType, bool) {
	switch s {
	case DTypeFloat64:
		return tensor.Float64, true
	case DTypeComplex128:
		return tensor.Complex128, true
	default:
		return 0, false
	}
}
