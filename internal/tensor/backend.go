package tensor

// Backend defines the interface that compute backends implement.
// Backends own the actual computation — and any parallelism — for tensor
// operations; the operator layers above them are pure shape and composition
// logic.
//
// Optional capabilities (activations, Fourier transforms) are expressed as
// separate single-method interfaces asserted at the point of use, so a
// backend advertises exactly what it can do.
type Backend interface {
	// Add performs element-wise addition with NumPy-style broadcasting.
	Add(a, b *Tensor) *Tensor

	// MatMul multiplies two 2-D matrices: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *Tensor) *Tensor

	// BatchMatMul performs batched matrix multiplication over 3-D or higher
	// tensors: [..., M, K] @ [..., K, N] -> [..., M, N], with all leading
	// dimensions treated as batch and required to match.
	BatchMatMul(a, b *Tensor) *Tensor

	// Conv applies an N-D local convolution in channel-last layout:
	// x (n_1..n_d, C_in, B), kernel (k_1..k_d, C_in, C_out), bias (C_out)
	// -> (n_1..n_d, C_out, B), stride 1, zero same-padding for odd kernels.
	// A nil bias skips the bias add.
	Conv(x, kernel, bias *Tensor) *Tensor

	// Reshape returns a tensor with the same data and a different shape.
	Reshape(t *Tensor, shape Shape) *Tensor

	// Transpose permutes the tensor's dimensions. With no axes given, the
	// dimension order is reversed.
	Transpose(t *Tensor, axes ...int) *Tensor

	// Name returns the backend name.
	Name() string
}
