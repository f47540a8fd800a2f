package nn

import (
	"math"
	"math/rand"

	"github.com/galerkin-ml/galerkin/internal/tensor"
)

// glorotUniform draws weights from U(-b, b) with b = sqrt(6/(fanIn+fanOut)),
// keeping the activation variance roughly constant across layers.
func glorotUniform(shape tensor.Shape, fanIn, fanOut int, rng *rand.Rand) *tensor.Tensor {
	bound := math.Sqrt(6 / float64(fanIn+fanOut))
	return tensor.Uniform(shape, bound, rng)
}
