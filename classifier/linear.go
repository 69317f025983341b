// Copyright 2025 The Linnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package classifier

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/linnet-ml/linnet/internal/logger"
	"github.com/linnet-ml/linnet/tensor"
)

// TrainConfig holds hyperparameters for minibatch SGD training.
type TrainConfig struct {
	LearningRate float64 // step size, must be > 0
	Reg          float64 // L2 regularization strength, must be >= 0
	Iterations   int     // number of SGD steps, must be > 0
	BatchSize    int     // examples per step, must be > 0
	Seed         int64   // RNG seed for batch sampling
	LRDecay      float64 // multiplicative decay factor, used when DecayEvery > 0
	DecayEvery   int     // apply LRDecay every this many iterations (0 = off)
	LogEvery     int     // log progress every this many iterations (0 = silent)
}

// Validate checks the configuration for usable values.
func (c TrainConfig) Validate() error {
	if c.LearningRate <= 0 {
		return fmt.Errorf("%w: learning rate %v (must be > 0)", ErrInvalidInput, c.LearningRate)
	}
	if c.Reg < 0 {
		return fmt.Errorf("%w: regularization strength %v (must be >= 0)", ErrInvalidInput, c.Reg)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations %d (must be > 0)", ErrInvalidInput, c.Iterations)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size %d (must be > 0)", ErrInvalidInput, c.BatchSize)
	}
	if c.DecayEvery > 0 && (c.LRDecay <= 0 || c.LRDecay > 1) {
		return fmt.Errorf("%w: learning rate decay %v (must be in (0, 1])", ErrInvalidInput, c.LRDecay)
	}
	return nil
}

// LinearSoftmax is a linear classifier trained with the softmax loss.
// It holds a weight matrix of shape (D, C).
type LinearSoftmax[T tensor.Float, B tensor.Backend] struct {
	weights *tensor.Tensor[T, B]
	backend B
	dim     int
	classes int
}

// New creates a classifier for dim-dimensional inputs over the given number
// of classes. Weights start as small gaussian noise (0.001·N(0,1)) so the
// initial scores stay near zero and the first loss is close to ln(C).
func New[T tensor.Float, B tensor.Backend](dim, classes int, rng *rand.Rand, b B) *LinearSoftmax[T, B] {
	w := tensor.Randn[T](tensor.Shape{dim, classes}, rng, b).MulScalar(T(0.001))
	return &LinearSoftmax[T, B]{
		weights: w,
		backend: b,
		dim:     dim,
		classes: classes,
	}
}

// NewFromWeights creates a classifier with an explicit weight matrix.
// The matrix must be 2D; it is cloned, so the caller keeps ownership.
func NewFromWeights[T tensor.Float, B tensor.Backend](w *tensor.Tensor[T, B]) (*LinearSoftmax[T, B], error) {
	if len(w.Shape()) != 2 {
		return nil, fmt.Errorf("%w: weights must be 2D (D, C), got %v", ErrShapeMismatch, w.Shape())
	}
	return &LinearSoftmax[T, B]{
		weights: w.Clone(),
		backend: w.Backend(),
		dim:     w.Shape()[0],
		classes: w.Shape()[1],
	}, nil
}

// Weights returns the current weight tensor. The returned tensor is the
// live one; callers that want a snapshot should Clone it.
func (m *LinearSoftmax[T, B]) Weights() *tensor.Tensor[T, B] {
	return m.weights
}

// Loss evaluates the vectorized softmax loss and gradient at the current
// weights.
func (m *LinearSoftmax[T, B]) Loss(x *tensor.Tensor[T, B], y *tensor.Tensor[int32, B], reg T) (T, *tensor.Tensor[T, B], error) {
	return SoftmaxLossVectorized(m.weights, x, y, reg)
}

// Train runs minibatch SGD and returns the loss recorded at every iteration.
//
// Each step samples BatchSize examples with replacement, evaluates the
// vectorized loss and gradient on the batch, and applies W -= lr·dW.
// Training stops early when ctx is cancelled; the history accumulated so
// far is returned alongside ctx.Err().
func (m *LinearSoftmax[T, B]) Train(
	ctx context.Context,
	x *tensor.Tensor[T, B],
	y *tensor.Tensor[int32, B],
	cfg TrainConfig,
) ([]T, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(x.Shape()) != 2 || x.Shape()[1] != m.dim {
		return nil, fmt.Errorf("%w: X shape %v, want (N, %d)", ErrShapeMismatch, x.Shape(), m.dim)
	}
	if len(y.Shape()) != 1 || y.Shape()[0] != x.Shape()[0] {
		return nil, fmt.Errorf("%w: X has %d examples, y shape %v", ErrShapeMismatch, x.Shape()[0], y.Shape())
	}

	n := x.Shape()[0]
	rng := rand.New(rand.NewSource(cfg.Seed))
	lr := T(cfg.LearningRate)
	reg := T(cfg.Reg)

	xData := x.Data()
	yData := y.Data()
	batchX := make([]T, cfg.BatchSize*m.dim)
	batchY := make([]int32, cfg.BatchSize)
	history := make([]T, 0, cfg.Iterations)

	for it := 1; it <= cfg.Iterations; it++ {
		select {
		case <-ctx.Done():
			return history, ctx.Err()
		default:
		}

		// Sample a batch with replacement.
		for bi := 0; bi < cfg.BatchSize; bi++ {
			src := rng.Intn(n)
			copy(batchX[bi*m.dim:(bi+1)*m.dim], xData[src*m.dim:(src+1)*m.dim])
			batchY[bi] = yData[src]
		}

		xb, err := tensor.FromSlice(batchX, tensor.Shape{cfg.BatchSize, m.dim}, m.backend)
		if err != nil {
			return history, err
		}
		yb, err := tensor.FromSlice(batchY, tensor.Shape{cfg.BatchSize}, m.backend)
		if err != nil {
			return history, err
		}

		loss, dW, err := SoftmaxLossVectorized(m.weights, xb, yb, reg)
		if err != nil {
			return history, fmt.Errorf("iteration %d: %w", it, err)
		}

		m.weights = m.weights.Sub(dW.MulScalar(lr))
		history = append(history, loss)

		if cfg.LogEvery > 0 && it%cfg.LogEvery == 0 {
			logger.Log.Debug("sgd progress",
				"iteration", it,
				"loss", float64(loss),
				"lr", float64(lr))
		}
		if cfg.DecayEvery > 0 && it%cfg.DecayEvery == 0 {
			lr *= T(cfg.LRDecay)
		}
	}

	return history, nil
}

// Predict returns the most likely class index for every row of X.
func (m *LinearSoftmax[T, B]) Predict(x *tensor.Tensor[T, B]) (*tensor.Tensor[int32, B], error) {
	if len(x.Shape()) != 2 || x.Shape()[1] != m.dim {
		return nil, fmt.Errorf("%w: X shape %v, want (N, %d)", ErrShapeMismatch, x.Shape(), m.dim)
	}

	scores := x.MatMul(m.weights)
	return tensor.Argmax(scores, 1), nil
}

// Probabilities returns the softmax class distribution for every row of X.
func (m *LinearSoftmax[T, B]) Probabilities(x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	if len(x.Shape()) != 2 || x.Shape()[1] != m.dim {
		return nil, fmt.Errorf("%w: X shape %v, want (N, %d)", ErrShapeMismatch, x.Shape(), m.dim)
	}

	return x.MatMul(m.weights).Softmax(1), nil
}
