package tensor

import (
	"fmt"
	"unsafe"
)

// Tensor is a dense, contiguous, row-major tensor.
//
// A Tensor owns its buffer and is never mutated by the layers in this
// module: every forward pass allocates fresh outputs, which keeps the whole
// core reentrant. The only writers of an existing buffer are the creation
// helpers and the external training collaborator that owns parameter values.
type Tensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
}

// New creates a new Tensor with the given shape and element type.
// The buffer is allocated and zero-initialized.
func New(shape Shape, dtype DataType) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	byteSize := shape.NumElements() * dtype.Size()

	return &Tensor{
		data:   make([]byte, byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}, nil
}

// MustNew is New for shapes already validated by the caller.
// It panics on invalid shapes; compute kernels use it for result allocation.
func MustNew(shape Shape, dtype DataType) *Tensor {
	t, err := New(shape, dtype)
	if err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return t
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's row-major memory strides.
func (t *Tensor) Strides() []int {
	return t.stride
}

// DType returns the tensor's element type.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// ByteSize returns the total buffer size in bytes.
func (t *Tensor) ByteSize() int {
	return t.NumElements() * t.dtype.Size()
}

// Data returns the raw byte buffer.
// WARNING: direct access to underlying memory. Use with caution.
func (t *Tensor) Data() []byte {
	return t.data
}

// AsFloat64 interprets the buffer as []float64.
// Panics if the tensor's dtype is not Float64.
func (t *Tensor) AsFloat64() []float64 {
	if t.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", t.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsComplex128 interprets the buffer as []complex128.
// Panics if the tensor's dtype is not Complex128.
func (t *Tensor) AsComplex128() []complex128 {
	if t.dtype != Complex128 {
		panic(fmt.Sprintf("tensor dtype is %s, not complex128", t.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*complex128)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// sliceOf interprets the buffer as []T. Callers guarantee that T matches the
// tensor's dtype; the creation helpers establish that invariant.
func sliceOf[T DType](t *Tensor) []T {
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	c := MustNew(t.shape, t.dtype)
	copy(c.data, t.data)
	return c
}

// WithShape returns a view-copy of the tensor with a new shape.
// The element count must match; data is copied, not aliased.
func (t *Tensor) WithShape(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != t.NumElements() {
		return nil, fmt.Errorf("incompatible shapes: %v -> %v (different number of elements)", t.shape, shape)
	}
	c := MustNew(shape, t.dtype)
	copy(c.data, t.data)
	return c, nil
}

// String returns a short description of the tensor (dtype and shape, not data).
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(%s, shape=%v)", t.dtype, t.shape)
}
