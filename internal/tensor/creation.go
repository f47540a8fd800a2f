package tensor

import (
	"fmt"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, dtype DataType) *Tensor {
	return MustNew(shape, dtype)
}

// Full creates a float64 tensor filled with a specific value.
func Full(shape Shape, value float64) *Tensor {
	t := MustNew(shape, Float64)
	data := t.AsFloat64()
	for i := range data {
		data[i] = value
	}
	return t
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's buffer; its length must match the
// shape's element count.
func FromSlice[T DType](data []T, shape Shape) (*Tensor, error) {
	var zero T
	dtype := inferDataType(zero)

	t, err := New(shape, dtype)
	if err != nil {
		return nil, err
	}
	if len(data) != t.NumElements() {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d",
			shape, t.NumElements(), len(data))
	}

	copy(sliceOf[T](t), data)
	return t, nil
}

// Randn creates a float64 tensor with values drawn from N(0, 1) using rng.
// The random source is supplied explicitly so that initialization is
// reproducible under the caller's seeding policy.
func Randn(shape Shape, rng *rand.Rand) *Tensor {
	t := MustNew(shape, Float64)
	data := t.AsFloat64()
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return t
}

// Uniform creates a float64 tensor with values drawn from U(-bound, bound).
func Uniform(shape Shape, bound float64, rng *rand.Rand) *Tensor {
	t := MustNew(shape, Float64)
	data := t.AsFloat64()
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * bound
	}
	return t
}

// UniformComplex creates a complex128 tensor whose real and imaginary parts
// are drawn independently from U(-bound, bound).
func UniformComplex(shape Shape, bound float64, rng *rand.Rand) *Tensor {
	t := MustNew(shape, Complex128)
	data := t.AsComplex128()
	for i := range data {
		re := (rng.Float64()*2 - 1) * bound
		im := (rng.Float64()*2 - 1) * bound
		data[i] = complex(re, im)
	}
	return t
}
