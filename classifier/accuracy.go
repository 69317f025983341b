// Copyright 2025 The Linnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package classifier

import (
	"fmt"

	"github.com/linnet-ml/linnet/tensor"
)

// Accuracy computes the fraction of predictions matching the labels.
// Both tensors must be 1D with equal length.
func Accuracy[B tensor.Backend](pred, y *tensor.Tensor[int32, B]) (float64, error) {
	if len(pred.Shape()) != 1 || len(y.Shape()) != 1 || pred.Shape()[0] != y.Shape()[0] {
		return 0, fmt.Errorf("%w: predictions %v vs labels %v", ErrShapeMismatch, pred.Shape(), y.Shape())
	}

	predData := pred.Data()
	yData := y.Data()

	correct := 0
	for i, p := range predData {
		if p == yData[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(predData)), nil
}
