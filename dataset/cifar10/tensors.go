// Copyright 2025 The Linnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cifar10

import (
	"fmt"

	"github.com/linnet-ml/linnet/tensor"
)

// Tensors converts loaded data into an (N, D) feature tensor and a length-N
// label tensor on the given backend.
func Tensors[T tensor.Float, B tensor.Backend](d *Data, b B) (*tensor.Tensor[T, B], *tensor.Tensor[int32, B], error) {
	n := len(d.Images)
	if n == 0 {
		return nil, nil, fmt.Errorf("cifar10: empty dataset")
	}
	dim := d.Dim()

	flat := make([]T, 0, n*dim)
	for i, img := range d.Images {
		if len(img) != dim {
			return nil, nil, fmt.Errorf("cifar10: image %d has %d features, want %d", i, len(img), dim)
		}
		for _, v := range img {
			flat = append(flat, T(v))
		}
	}

	x, err := tensor.FromSlice(flat, tensor.Shape{n, dim}, b)
	if err != nil {
		return nil, nil, err
	}

	y, err := tensor.FromSlice(append([]int32(nil), d.Labels...), tensor.Shape{n}, b)
	if err != nil {
		return nil, nil, err
	}

	return x, y, nil
}
