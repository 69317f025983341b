// Copyright 2025 The Linnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/linnet-ml/linnet/internal/tensor"

// Backend defines the interface that compute backends must implement.
// backend/cpu is the reference implementation; the interface keeps the seam
// for accelerator backends without changing calling code.
//
// Example:
//
//	import (
//	    "github.com/linnet-ml/linnet/backend/cpu"
//	    "github.com/linnet-ml/linnet/tensor"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float64](tensor.Shape{2, 3}, backend)
type Backend = tensor.Backend
