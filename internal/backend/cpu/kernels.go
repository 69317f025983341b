package cpu

import (
	"github.com/linnet-ml/linnet/internal/tensor"
)

// binOp identifies an element-wise binary operation.
type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
)

// opFunc returns the typed function implementing op.
func opFunc[T tensor.DType](op binOp) func(x, y T) T {
	switch op {
	case opAdd:
		return func(x, y T) T { return x + y }
	case opSub:
		return func(x, y T) T { return x - y }
	case opMul:
		return func(x, y T) T { return x * y }
	case opDiv:
		return func(x, y T) T { return x / y }
	default:
		panic("unknown binary op")
	}
}

// binaryKernel applies op element-wise into dst. Same-shape inputs take the
// flat fast path; otherwise operands are read through zero strides along
// their broadcast dimensions.
func binaryKernel[T tensor.DType](dst, a, b []T, aShape, bShape, outShape tensor.Shape, op func(x, y T) T) {
	if aShape.Equal(bShape) {
		for i := range dst {
			dst[i] = op(a[i], b[i])
		}
		return
	}

	aStrides := tensor.BroadcastStrides(aShape, outShape)
	bStrides := tensor.BroadcastStrides(bShape, outShape)
	idx := make([]int, len(outShape))
	ai, bi := 0, 0

	for i := range dst {
		dst[i] = op(a[ai], b[bi])

		// Odometer increment over the output index space.
		for d := len(outShape) - 1; d >= 0; d-- {
			idx[d]++
			ai += aStrides[d]
			bi += bStrides[d]
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
			ai -= outShape[d] * aStrides[d]
			bi -= outShape[d] * bStrides[d]
		}
	}
}

// scalarAs converts a boxed scalar to the kernel's element type.
func scalarAs[T tensor.DType](v any) T {
	switch s := v.(type) {
	case float32:
		return T(s)
	case float64:
		return T(s)
	case int:
		return T(s)
	case int32:
		return T(s)
	case int64:
		return T(s)
	case uint8:
		return T(s)
	default:
		panic("unsupported scalar type")
	}
}

// scalarKernel applies op with a fixed right operand.
func scalarKernel[T tensor.DType](dst, a []T, scalar T, op func(x, y T) T) {
	for i := range dst {
		dst[i] = op(a[i], scalar)
	}
}
