package cpu

import (
	"fmt"

	"github.com/linnet-ml/linnet/internal/tensor"
)

// Reshape returns a view of the same buffer under a new shape.
func (c *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result, err := t.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return result
}

// Transpose permutes the tensor's dimensions into a freshly materialized
// tensor. With no axes, all dimensions are reversed.
func (c *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: got %d axes for %dD tensor", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes %v for %dD tensor", axes, ndim))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(outShape, t.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	// Element moves are dtype-agnostic byte block copies.
	srcStrides := shape.ComputeStrides()
	permStrides := make([]int, ndim)
	for i, ax := range axes {
		permStrides[i] = srcStrides[ax]
	}

	size := t.DType().Size()
	srcData := t.Data()
	dstData := result.Data()
	idx := make([]int, ndim)
	si := 0

	for di := 0; di < t.NumElements(); di++ {
		copy(dstData[di*size:(di+1)*size], srcData[si*size:(si+1)*size])

		for d := ndim - 1; d >= 0; d-- {
			idx[d]++
			si += permStrides[d]
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
			si -= outShape[d] * permStrides[d]
		}
	}

	return result
}
