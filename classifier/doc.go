// Copyright 2025 The Linnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package classifier implements linear softmax classification.
//
// The core of the package is the softmax loss evaluator, provided in two
// numerically equivalent forms:
//
//   - SoftmaxLossNaive: explicit loops over examples and classes. The
//     reference form, kept as a cross-check oracle for tests.
//   - SoftmaxLossVectorized: whole-matrix operations over the tensor stack.
//     The form used for training.
//
// On top of the evaluator, LinearSoftmax holds a weight matrix and provides
// minibatch SGD training and prediction.
//
// Example:
//
//	backend := cpu.New()
//	model := classifier.New[float64](dim, classes, rng, backend)
//	losses, err := model.Train(ctx, x, y, classifier.TrainConfig{
//	    LearningRate: 1e-3,
//	    Reg:          1e-4,
//	    Iterations:   1000,
//	    BatchSize:    200,
//	})
//	pred, err := model.Predict(xTest)
package classifier
