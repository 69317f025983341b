package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/linnet-ml/linnet/internal/backend/cpu"
	"github.com/linnet-ml/linnet/internal/tensor"
)

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	if !x.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", x.Shape())
	}
	if x.DType() != tensor.Float64 {
		t.Errorf("DType() = %v, want Float64", x.DType())
	}
	if got := x.At(1, 2); got != 6 {
		t.Errorf("At(1, 2) = %v, want 6", got)
	}
}

func TestFromSliceLengthMismatch(t *testing.T) {
	backend := cpu.New()

	if _, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{2, 3}, backend); err == nil {
		t.Error("FromSlice with 3 elements for shape [2 3] = nil error, want mismatch error")
	}
}

func TestSetAt(t *testing.T) {
	backend := cpu.New()
	x := tensor.Zeros[float64](tensor.Shape{3, 3}, backend)

	x.Set(7.5, 2, 1)
	if got := x.At(2, 1); got != 7.5 {
		t.Errorf("At(2, 1) = %v, want 7.5", got)
	}
	if got := x.At(1, 2); got != 0 {
		t.Errorf("At(1, 2) = %v, want 0", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	backend := cpu.New()
	x := tensor.Ones[float64](tensor.Shape{2, 2}, backend)

	clone := x.Clone()
	clone.Set(5, 0, 0)

	if got := x.At(0, 0); got != 1 {
		t.Errorf("original modified through clone: At(0, 0) = %v, want 1", got)
	}
}

func TestItem(t *testing.T) {
	backend := cpu.New()
	x := tensor.Full[float64](tensor.Shape{1}, 3.25, backend)

	if got := x.Item(); got != 3.25 {
		t.Errorf("Item() = %v, want 3.25", got)
	}
}

func TestRandnDeterministic(t *testing.T) {
	backend := cpu.New()

	a := tensor.Randn[float64](tensor.Shape{4, 4}, rand.New(rand.NewSource(7)), backend)
	b := tensor.Randn[float64](tensor.Shape{4, 4}, rand.New(rand.NewSource(7)), backend)

	aData, bData := a.Data(), b.Data()
	for i := range aData {
		if aData[i] != bData[i] {
			t.Fatalf("same seed produced different values at index %d: %v vs %v", i, aData[i], bData[i])
		}
	}
}

func TestEye(t *testing.T) {
	backend := cpu.New()
	eye := tensor.Eye[float64](3, backend)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if got := eye.At(i, j); got != want {
				t.Errorf("Eye At(%d, %d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestArange(t *testing.T) {
	backend := cpu.New()
	x := tensor.Arange[int32](2, 7, backend)

	if !x.Shape().Equal(tensor.Shape{5}) {
		t.Fatalf("Arange shape = %v, want [5]", x.Shape())
	}
	for i, v := range x.Data() {
		if v != int32(2+i) {
			t.Errorf("Arange[%d] = %d, want %d", i, v, 2+i)
		}
	}
}
