package nn

import (
	"fmt"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// Activation selects the element-wise nonlinearity applied by a layer after
// its affine transform.
type Activation int

const (
	// Identity applies no nonlinearity.
	Identity Activation = iota
	// ReLU is max(0, x).
	ReLU
	// GELU is the Gaussian Error Linear Unit (tanh approximation).
	GELU
	// Tanh is the hyperbolic tangent.
	Tanh
	// Sigmoid is the logistic function.
	Sigmoid
)

func (a Activation) String() string {
	switch a {
	case Identity:
		return "identity"
	case ReLU:
		return "relu"
	case GELU:
		return "gelu"
	case Tanh:
		return "tanh"
	case Sigmoid:
		return "sigmoid"
	default:
		return fmt.Sprintf("activation(%d)", int(a))
	}
}

// ParseActivation is the inverse of String.
func ParseActivation(s string) (Activation, error) {
	switch s {
	case "identity":
		return Identity, nil
	case "relu":
		return ReLU, nil
	case "gelu":
		return GELU, nil
	case "tanh":
		return Tanh, nil
	case "sigmoid":
		return Sigmoid, nil
	default:
		return Identity, fmt.Errorf("nn: unknown activation %q", s)
	}
}

// Apply runs the activation on the backend. Identity is free; everything
// else requires the backend to implement ActivationBackend.
func (a Activation) Apply(b tensor.Backend, x *tensor.Tensor) (*tensor.Tensor, error) {
	if a == Identity {
		return x, nil
	}
	ab, ok := b.(ActivationBackend)
	if !ok {
		return nil, fmt.Errorf("nn: backend %q does not support activations", b.Name())
	}
	switch a {
	case ReLU:
		return ab.ReLU(x), nil
	case GELU:
		return ab.GELU(x), nil
	case Tanh:
		return ab.Tanh(x), nil
	case Sigmoid:
		return ab.Sigmoid(x), nil
	default:
		return nil, fmt.Errorf("nn: unknown activation %s", a)
	}
}
