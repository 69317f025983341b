package cpu

import (
	"fmt"

	"github.com/linnet-ml/linnet/internal/tensor"
)

// AddScalar adds a scalar to every element.
func (c *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return c.scalarOp("addscalar", opAdd, x, scalar)
}

// SubScalar subtracts a scalar from every element.
func (c *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return c.scalarOp("subscalar", opSub, x, scalar)
}

// MulScalar multiplies every element by a scalar.
func (c *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return c.scalarOp("mulscalar", opMul, x, scalar)
}

// DivScalar divides every element by a scalar.
func (c *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return c.scalarOp("divscalar", opDiv, x, scalar)
}

func (c *CPUBackend) scalarOp(name string, op binOp, x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		scalarKernel(result.AsFloat32(), x.AsFloat32(), scalarAs[float32](scalar), opFunc[float32](op))
	case tensor.Float64:
		scalarKernel(result.AsFloat64(), x.AsFloat64(), scalarAs[float64](scalar), opFunc[float64](op))
	case tensor.Int32:
		scalarKernel(result.AsInt32(), x.AsInt32(), scalarAs[int32](scalar), opFunc[int32](op))
	case tensor.Int64:
		scalarKernel(result.AsInt64(), x.AsInt64(), scalarAs[int64](scalar), opFunc[int64](op))
	case tensor.Uint8:
		scalarKernel(result.AsUint8(), x.AsUint8(), scalarAs[uint8](scalar), opFunc[uint8](op))
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}
