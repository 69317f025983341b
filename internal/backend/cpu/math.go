package cpu

import (
	"fmt"
	"math"

	"github.com/linnet-ml/linnet/internal/tensor"
)

// Exp applies e^x element-wise. Float tensors only.
func (c *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryFloat("exp", x, math.Exp)
}

// Log applies the natural logarithm element-wise. Float tensors only.
func (c *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryFloat("log", x, math.Log)
}

// Sqrt applies the square root element-wise. Float tensors only.
func (c *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryFloat("sqrt", x, math.Sqrt)
}

func (c *CPUBackend) unaryFloat(name string, x *tensor.RawTensor, fn func(float64) float64) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(fn(float64(v)))
		}
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		for i, v := range src {
			dst[i] = fn(v)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (float32/float64 only)", name, x.DType()))
	}

	return result
}

// Softmax applies softmax along the given dimension.
//
// Each slice along dim has its maximum subtracted before exponentiating.
// Skipping that step overflows exp for logits beyond ~709 (float64) or ~88
// (float32), so it is a correctness requirement, not an optimization.
func (c *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	dim = normalizeDim("softmax", dim, len(x.Shape()))

	result, err := tensor.NewRaw(x.Shape(), x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("softmax: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		softmaxKernel(result.AsFloat32(), x.AsFloat32(), x.Shape(), dim)
	case tensor.Float64:
		softmaxKernel(result.AsFloat64(), x.AsFloat64(), x.Shape(), dim)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s (float32/float64 only)", x.DType()))
	}

	return result
}

func softmaxKernel[T tensor.Float](dst, src []T, shape tensor.Shape, dim int) {
	outer, n, inner := dimSplit(shape, dim)

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o*n*inner + i

			maxV := src[base]
			for k := 1; k < n; k++ {
				if v := src[base+k*inner]; v > maxV {
					maxV = v
				}
			}

			var sum T
			for k := 0; k < n; k++ {
				e := T(math.Exp(float64(src[base+k*inner] - maxV)))
				dst[base+k*inner] = e
				sum += e
			}

			for k := 0; k < n; k++ {
				dst[base+k*inner] /= sum
			}
		}
	}
}
