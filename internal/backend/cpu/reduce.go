package cpu

import (
	"fmt"

	"github.com/linnet-ml/linnet/internal/tensor"
)

// normalizeDim resolves negative dims and validates range.
func normalizeDim(name string, dim, ndim int) int {
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: dimension %d out of range for %dD tensor", name, dim, ndim))
	}
	return dim
}

// dimSplit decomposes a row-major shape around dim into (outer, n, inner)
// so that element [o, k, i] of the decomposition lives at o*n*inner + k*inner + i.
func dimSplit(shape tensor.Shape, dim int) (outer, n, inner int) {
	outer, inner = 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, shape[dim], inner
}

// reducedShape drops or keeps dim per keepDim.
func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for i, d := range shape {
		if i != dim {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}

// Sum reduces the whole tensor to a single-element tensor.
func (c *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{1}, x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("sum: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sumKernel(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sumKernel(x.AsFloat64())
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s (float32/float64 only)", x.DType()))
	}

	return result
}

func sumKernel[T tensor.Float](src []T) T {
	var sum T
	for _, v := range src {
		sum += v
	}
	return sum
}

// SumDim sums along dim, keeping it with size 1 when keepDim is set.
func (c *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return c.reduce("sumdim", x, dim, keepDim, false, false)
}

// MeanDim averages along dim.
func (c *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return c.reduce("meandim", x, dim, keepDim, true, false)
}

// MaxDim takes the maximum along dim.
func (c *CPUBackend) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return c.reduce("maxdim", x, dim, keepDim, false, true)
}

func (c *CPUBackend) reduce(name string, x *tensor.RawTensor, dim int, keepDim, mean, maximum bool) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim(name, dim, len(shape))

	result, err := tensor.NewRaw(reducedShape(shape, dim, keepDim), x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		reduceKernel(result.AsFloat32(), x.AsFloat32(), shape, dim, mean, maximum)
	case tensor.Float64:
		reduceKernel(result.AsFloat64(), x.AsFloat64(), shape, dim, mean, maximum)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (float32/float64 only)", name, x.DType()))
	}

	return result
}

func reduceKernel[T tensor.Float](dst, src []T, shape tensor.Shape, dim int, mean, maximum bool) {
	outer, n, inner := dimSplit(shape, dim)

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o*n*inner + i
			acc := src[base]
			for k := 1; k < n; k++ {
				v := src[base+k*inner]
				if maximum {
					if v > acc {
						acc = v
					}
				} else {
					acc += v
				}
			}
			if mean {
				acc /= T(n)
			}
			dst[o*inner+i] = acc
		}
	}
}

// Argmax returns int32 indices of the maximum along dim. Ties resolve to the
// lowest index.
func (c *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim("argmax", dim, len(shape))

	result, err := tensor.NewRaw(reducedShape(shape, dim, false), tensor.Int32, c.device)
	if err != nil {
		panic(fmt.Sprintf("argmax: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		argmaxKernel(result.AsInt32(), x.AsFloat32(), shape, dim)
	case tensor.Float64:
		argmaxKernel(result.AsInt32(), x.AsFloat64(), shape, dim)
	default:
		panic(fmt.Sprintf("argmax: unsupported dtype %s (float32/float64 only)", x.DType()))
	}

	return result
}

func argmaxKernel[T tensor.Float](dst []int32, src []T, shape tensor.Shape, dim int) {
	outer, n, inner := dimSplit(shape, dim)

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o*n*inner + i
			best := src[base]
			bestIdx := int32(0)
			for k := 1; k < n; k++ {
				if v := src[base+k*inner]; v > best {
					best = v
					bestIdx = int32(k)
				}
			}
			dst[o*inner+i] = bestIdx
		}
	}
}
