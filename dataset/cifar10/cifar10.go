// Copyright 2025 The Linnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cifar10 loads the CIFAR-10 dataset from its binary batch format.
//
// Each batch file is a sequence of fixed 3073-byte records: one label byte
// (0-9) followed by 3072 pixel bytes (32×32 pixels, red plane then green
// then blue). The training set ships as data_batch_1.bin … data_batch_5.bin
// and the test set as test_batch.bin.
//
// Download from: https://www.cs.toronto.edu/~kriz/cifar.html (binary version).
package cifar10

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// ImageSize is the number of pixel bytes per image (32×32×3).
	ImageSize = 3072

	// NumClasses is the number of CIFAR-10 categories.
	NumClasses = 10

	recordSize = 1 + ImageSize
)

// ErrFormat reports a batch file that does not match the CIFAR-10 binary
// layout.
var ErrFormat = errors.New("cifar10: malformed batch file")

// Data holds a loaded set of images and labels.
// Images are normalized to [0, 1]; rows may grow a bias column via
// AppendBias, so their length is ImageSize or ImageSize+1.
type Data struct {
	Images [][]float64
	Labels []int32
}

// Load reads the CIFAR-10 training set (five data batches) or test set from
// dir. maxSamples caps the number of examples loaded; 0 loads everything.
func Load(dir string, train bool, maxSamples int) (*Data, error) {
	var files []string
	if train {
		for i := 1; i <= 5; i++ {
			files = append(files, filepath.Join(dir, fmt.Sprintf("data_batch_%d.bin", i)))
		}
	} else {
		files = []string{filepath.Join(dir, "test_batch.bin")}
	}

	data := &Data{}
	for _, file := range files {
		remaining := 0
		if maxSamples > 0 {
			remaining = maxSamples - len(data.Images)
			if remaining <= 0 {
				break
			}
		}

		batch, err := LoadFile(file, remaining)
		if err != nil {
			return nil, err
		}
		data.Images = append(data.Images, batch.Images...)
		data.Labels = append(data.Labels, batch.Labels...)
	}

	if len(data.Images) == 0 {
		return nil, fmt.Errorf("%w: no records found in %s", ErrFormat, dir)
	}
	return data, nil
}

// LoadFile reads a single batch file. maxSamples caps the number of records
// read; 0 reads the whole file.
func LoadFile(path string, maxSamples int) (*Data, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cifar10: open batch: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("cifar10: stat batch: %w", err)
	}
	if info.Size()%recordSize != 0 {
		return nil, fmt.Errorf("%w: %s is %d bytes, not a multiple of %d",
			ErrFormat, path, info.Size(), recordSize)
	}

	numRecords := int(info.Size() / recordSize)
	if maxSamples > 0 && numRecords > maxSamples {
		numRecords = maxSamples
	}

	data := &Data{
		Images: make([][]float64, 0, numRecords),
		Labels: make([]int32, 0, numRecords),
	}

	record := make([]byte, recordSize)
	for i := 0; i < numRecords; i++ {
		if _, err := io.ReadFull(file, record); err != nil {
			return nil, fmt.Errorf("cifar10: read record %d: %w", i, err)
		}

		label := record[0]
		if label >= NumClasses {
			return nil, fmt.Errorf("%w: label %d out of range at record %d", ErrFormat, label, i)
		}

		pixels := make([]float64, ImageSize)
		for j, p := range record[1:] {
			pixels[j] = float64(p) / 255.0
		}

		data.Images = append(data.Images, pixels)
		data.Labels = append(data.Labels, int32(label))
	}

	return data, nil
}

// Dim returns the feature dimension of each image row.
func (d *Data) Dim() int {
	if len(d.Images) == 0 {
		return 0
	}
	return len(d.Images[0])
}

// Mean returns the mean image over the set. For the standard preprocessing,
// compute the mean on the training set and subtract it from both splits.
func (d *Data) Mean() []float64 {
	if len(d.Images) == 0 {
		return nil
	}

	mean := make([]float64, d.Dim())
	for _, img := range d.Images {
		for j, v := range img {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(len(d.Images))
	}
	return mean
}

// SubtractMean subtracts the given mean image from every example in place.
func (d *Data) SubtractMean(mean []float64) error {
	if len(mean) != d.Dim() {
		return fmt.Errorf("cifar10: mean has %d features, images have %d", len(mean), d.Dim())
	}
	for _, img := range d.Images {
		for j, m := range mean {
			img[j] -= m
		}
	}
	return nil
}

// AppendBias appends a constant 1 feature to every example (the bias trick:
// the classifier then learns the bias as one more weight row).
func (d *Data) AppendBias() {
	for i, img := range d.Images {
		d.Images[i] = append(img, 1)
	}
}
