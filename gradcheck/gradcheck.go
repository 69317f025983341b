// Copyright 2025 The Linnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gradcheck verifies analytic gradients against central-difference
// numerical gradients.
//
// The full check evaluates the loss 2·DC times and is meant for small test
// problems; Sparse spot-checks a handful of random coordinates and is cheap
// enough to run against real weight matrices.
package gradcheck

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/linnet-ml/linnet/tensor"
)

// LossFunc evaluates a scalar loss at the given weights.
type LossFunc[T tensor.Float, B tensor.Backend] func(w *tensor.Tensor[T, B]) (T, error)

// Numerical computes the full central-difference gradient of f at w:
// g[i] = (f(w + h·e_i) − f(w − h·e_i)) / 2h. The input tensor is not
// modified; perturbations happen on a private clone.
func Numerical[T tensor.Float, B tensor.Backend](
	f LossFunc[T, B],
	w *tensor.Tensor[T, B],
	h float64,
) (*tensor.Tensor[T, B], error) {
	if h <= 0 {
		return nil, fmt.Errorf("gradcheck: step size %v (must be > 0)", h)
	}

	probe := w.Clone()
	data := probe.Data()
	grad := tensor.Zeros[T](w.Shape(), w.Backend())
	gradData := grad.Data()

	for i := range data {
		orig := data[i]

		data[i] = orig + T(h)
		plus, err := f(probe)
		if err != nil {
			return nil, fmt.Errorf("gradcheck: loss at +h: %w", err)
		}

		data[i] = orig - T(h)
		minus, err := f(probe)
		if err != nil {
			return nil, fmt.Errorf("gradcheck: loss at -h: %w", err)
		}

		data[i] = orig
		gradData[i] = T((float64(plus) - float64(minus)) / (2 * h))
	}

	return grad, nil
}

// Sparse spot-checks numChecks random coordinates of an analytic gradient
// against the central-difference estimate and returns the largest relative
// error |g_num − g_ana| / (|g_num| + |g_ana|) seen. Coordinates where both
// gradients vanish count as zero error.
func Sparse[T tensor.Float, B tensor.Backend](
	f LossFunc[T, B],
	w, analytic *tensor.Tensor[T, B],
	h float64,
	numChecks int,
	rng *rand.Rand,
) (float64, error) {
	if h <= 0 {
		return 0, fmt.Errorf("gradcheck: step size %v (must be > 0)", h)
	}
	if !w.Shape().Equal(analytic.Shape()) {
		return 0, fmt.Errorf("gradcheck: weight shape %v vs gradient shape %v", w.Shape(), analytic.Shape())
	}

	probe := w.Clone()
	data := probe.Data()
	anaData := analytic.Data()

	var maxRelErr float64
	for c := 0; c < numChecks; c++ {
		i := rng.Intn(len(data))
		orig := data[i]

		data[i] = orig + T(h)
		plus, err := f(probe)
		if err != nil {
			return 0, fmt.Errorf("gradcheck: loss at +h: %w", err)
		}

		data[i] = orig - T(h)
		minus, err := f(probe)
		if err != nil {
			return 0, fmt.Errorf("gradcheck: loss at -h: %w", err)
		}

		data[i] = orig

		numeric := (float64(plus) - float64(minus)) / (2 * h)
		analyticV := float64(anaData[i])

		denom := math.Abs(numeric) + math.Abs(analyticV)
		if denom == 0 {
			continue
		}
		if relErr := math.Abs(numeric-analyticV) / denom; relErr > maxRelErr {
			maxRelErr = relErr
		}
	}

	return maxRelErr, nil
}

// Close reports whether two gradients agree element-wise within the given
// absolute-or-relative tolerance.
func Close[T tensor.Float, B tensor.Backend](a, b *tensor.Tensor[T, B], tol float64) bool {
	if !a.Shape().Equal(b.Shape()) {
		return false
	}

	aData := a.Data()
	bData := b.Data()
	for i := range aData {
		if !scalar.EqualWithinAbsOrRel(float64(aData[i]), float64(bData[i]), tol, tol) {
			return false
		}
	}
	return true
}
