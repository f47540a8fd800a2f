// Package tensor provides the core tensor types and operations for the
// Galerkin operator-learning framework.
package tensor

// DType is a constraint for supported tensor element types.
// Operator-learning pipelines run in double precision: real fields are
// float64 and frequency-domain spectra are complex128.
type DType interface {
	~float64 | ~complex128
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float64 DataType = iota
	Complex128
)

// Size returns the byte size of one element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float64:
		return 8
	case Complex128:
		return 16
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float64:
		return "float64"
	case Complex128:
		return "complex128"
	default:
		return "unknown"
	}
}

// inferDataType infers DataType from a generic element type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float64:
		return Float64
	case complex128:
		return Complex128
	default:
		panic("unsupported element type")
	}
}
