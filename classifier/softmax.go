// Copyright 2025 The Linnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package classifier

import (
	"fmt"
	"math"

	"github.com/linnet-ml/linnet/tensor"
)

// validateInputs checks the evaluator's preconditions and returns the batch
// size N, feature dimension D and class count C.
func validateInputs[T tensor.Float, B tensor.Backend](
	w, x *tensor.Tensor[T, B],
	y *tensor.Tensor[int32, B],
	reg T,
) (n, d, c int, err error) {
	if len(w.Shape()) != 2 || len(x.Shape()) != 2 || len(y.Shape()) != 1 {
		return 0, 0, 0, fmt.Errorf("%w: want W (D,C), X (N,D), y (N,), got W %v, X %v, y %v",
			ErrShapeMismatch, w.Shape(), x.Shape(), y.Shape())
	}

	d, c = w.Shape()[0], w.Shape()[1]
	n = x.Shape()[0]

	if x.Shape()[1] != d {
		return 0, 0, 0, fmt.Errorf("%w: X has %d features, W expects %d", ErrShapeMismatch, x.Shape()[1], d)
	}
	if y.Shape()[0] != n {
		return 0, 0, 0, fmt.Errorf("%w: X has %d examples, y has %d labels", ErrShapeMismatch, n, y.Shape()[0])
	}
	if n == 0 {
		return 0, 0, 0, fmt.Errorf("%w: empty batch", ErrInvalidInput)
	}
	if reg < 0 {
		return 0, 0, 0, fmt.Errorf("%w: negative regularization strength %v", ErrInvalidInput, reg)
	}
	for i, label := range y.Data() {
		if label < 0 || int(label) >= c {
			return 0, 0, 0, fmt.Errorf("%w: label %d at index %d outside [0, %d)", ErrInvalidInput, label, i, c)
		}
	}

	return n, d, c, nil
}

// SoftmaxLossNaive computes the softmax classification loss and its gradient
// with explicit loops over examples and classes.
//
// Inputs: weights W of shape (D, C), a minibatch X of shape (N, D), labels y
// of length N with values in [0, C), and regularization strength reg ≥ 0.
//
// Returns the mean cross-entropy over the batch plus the L2 penalty
// reg·ΣW², and the gradient dW of the loss with respect to W (same shape as
// W). Inputs are not mutated.
//
// This is the reference form; SoftmaxLossVectorized computes the same
// quantities with whole-matrix operations and agrees within floating-point
// tolerance.
func SoftmaxLossNaive[T tensor.Float, B tensor.Backend](
	w, x *tensor.Tensor[T, B],
	y *tensor.Tensor[int32, B],
	reg T,
) (T, *tensor.Tensor[T, B], error) {
	n, d, c, err := validateInputs(w, x, y, reg)
	if err != nil {
		var zero T
		return zero, nil, err
	}

	wData := w.Data()
	xData := x.Data()
	labels := y.Data()

	dW := tensor.Zeros[T](w.Shape(), w.Backend())
	dwData := dW.Data()

	shifted := make([]float64, c)
	expScores := make([]float64, c)
	var loss float64

	for i := 0; i < n; i++ {
		row := xData[i*d : (i+1)*d]

		// Scores for example i: s_j = Σ_k x_k · W[k,j].
		for j := 0; j < c; j++ {
			var s float64
			for k, xv := range row {
				s += float64(xv) * float64(wData[k*c+j])
			}
			shifted[j] = s
		}

		// Subtract the row maximum before exponentiating; without this,
		// exp overflows for large score magnitudes.
		maxScore := shifted[0]
		for _, s := range shifted[1:] {
			if s > maxScore {
				maxScore = s
			}
		}

		var sumExp float64
		for j := range shifted {
			shifted[j] -= maxScore
			expScores[j] = math.Exp(shifted[j])
			sumExp += expScores[j]
		}

		// −log p[y_i] = log Σ exp − shifted[y_i].
		loss += math.Log(sumExp) - shifted[labels[i]]

		// dW[:,j] += (p_j − 1{j = y_i}) · x_i
		for j := 0; j < c; j++ {
			p := expScores[j] / sumExp
			if int32(j) == labels[i] {
				p -= 1
			}
			for k, xv := range row {
				dwData[k*c+j] += T(p * float64(xv))
			}
		}
	}

	loss /= float64(n)

	var regSum float64
	for _, wv := range wData {
		regSum += float64(wv) * float64(wv)
	}
	loss += float64(reg) * regSum

	invN := T(1) / T(n)
	for idx := range dwData {
		dwData[idx] = dwData[idx]*invN + 2*reg*wData[idx]
	}

	return T(loss), dW, nil
}

// SoftmaxLossVectorized computes the softmax classification loss and its
// gradient as whole-matrix operations over the tensor backend.
//
// The contract is identical to SoftmaxLossNaive; see there for the
// definitions of the inputs and outputs.
func SoftmaxLossVectorized[T tensor.Float, B tensor.Backend](
	w, x *tensor.Tensor[T, B],
	y *tensor.Tensor[int32, B],
	reg T,
) (T, *tensor.Tensor[T, B], error) {
	n, _, c, err := validateInputs(w, x, y, reg)
	if err != nil {
		var zero T
		return zero, nil, err
	}

	scores := x.MatMul(w)            // (N, C)
	maxs := scores.MaxDim(1, true)   // (N, 1)
	shifted := scores.Sub(maxs)      // stabilized scores
	expScores := shifted.Exp()       // (N, C)
	sums := expScores.SumDim(1, true)
	probs := expScores.Div(sums) // softmax probabilities

	onehot := tensor.Zeros[T](tensor.Shape{n, c}, x.Backend())
	ohData := onehot.Data()
	for i, label := range y.Data() {
		ohData[i*c+int(label)] = 1
	}

	// Per-example loss: log Σ exp − shifted[i, y_i].
	margins := shifted.Mul(onehot).SumDim(1, true)
	perExample := sums.Log().Sub(margins)

	dataLoss := float64(perExample.Sum().Item()) / float64(n)
	regLoss := float64(reg) * float64(w.Mul(w).Sum().Item())
	loss := T(dataLoss + regLoss)

	// dW = Xᵀ(P − Y_onehot)/N + 2·reg·W.
	dW := x.T().MatMul(probs.Sub(onehot)).DivScalar(T(n)).Add(w.MulScalar(2 * reg))

	return loss, dW, nil
}
