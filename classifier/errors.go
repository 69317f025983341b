// Copyright 2025 The Linnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package classifier

import "errors"

// Precondition violations are caller bugs; the evaluator fails loudly with
// one of these sentinels instead of returning a degraded answer.
var (
	// ErrShapeMismatch reports inputs whose dimensions do not line up:
	// W's row count differs from X's column count, or len(y) differs from
	// X's row count.
	ErrShapeMismatch = errors.New("classifier: shape mismatch")

	// ErrInvalidInput reports inputs that are structurally well-shaped but
	// unusable: an empty batch, a label outside [0, C), or negative
	// regularization strength.
	ErrInvalidInput = errors.New("classifier: invalid input")
)
