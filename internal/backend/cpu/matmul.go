package cpu

import (
	"fmt"

	"github.com/linnet-ml/linnet/internal/parallel"
	"github.com/linnet-ml/linnet/internal/tensor"
)

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) → (M, N).
func (c *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result, err := tensor.NewRaw(tensor.Shape{m, n}, a.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("matmul: failed to create result tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		matmulKernel(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	case tensor.Float64:
		matmulKernel(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n)
	case tensor.Int32:
		matmulKernel(result.AsInt32(), a.AsInt32(), b.AsInt32(), m, k, n)
	case tensor.Int64:
		matmulKernel(result.AsInt64(), a.AsInt64(), b.AsInt64(), m, k, n)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// matmulKernel computes C[i,j] = sum_k A[i,k] * B[k,j].
//
// The inner loops run over a row of A and a row of B (ikj order), which keeps
// both reads sequential instead of striding down B's columns. Row blocks are
// spread across workers; each block writes a disjoint slice of C.
func matmulKernel[T tensor.DType](c, a, b []T, m, k, n int) {
	parallel.ForRange(m, func(start, end int) {
		for i := start; i < end; i++ {
			cRow := c[i*n : (i+1)*n]
			for kIdx := 0; kIdx < k; kIdx++ {
				av := a[i*k+kIdx]
				if av == 0 {
					continue
				}
				bRow := b[kIdx*n : (kIdx+1)*n]
				for j, bv := range bRow {
					cRow[j] += av * bv
				}
			}
		}
	}, parallel.DefaultConfig())
}
