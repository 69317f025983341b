package classifier_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linnet-ml/linnet/backend/cpu"
	"github.com/linnet-ml/linnet/classifier"
	"github.com/linnet-ml/linnet/gradcheck"
	"github.com/linnet-ml/linnet/tensor"
)

type Backend = *cpu.Backend

// randomProblem builds a random classification problem with the given sizes.
func randomProblem(t *testing.T, n, d, c int, seed int64) (
	w, x *tensor.Tensor[float64, Backend],
	y *tensor.Tensor[int32, Backend],
) {
	t.Helper()
	backend := cpu.New()
	rng := rand.New(rand.NewSource(seed))

	w = tensor.Randn[float64](tensor.Shape{d, c}, rng, backend)
	x = tensor.Randn[float64](tensor.Shape{n, d}, rng, backend)

	labels := make([]int32, n)
	for i := range labels {
		labels[i] = int32(rng.Intn(c))
	}
	var err error
	y, err = tensor.FromSlice(labels, tensor.Shape{n}, backend)
	require.NoError(t, err)

	return w, x, y
}

func TestNaiveAndVectorizedAgree(t *testing.T) {
	cases := []struct {
		name    string
		n, d, c int
		reg     float64
	}{
		{"small no reg", 5, 4, 3, 0},
		{"small with reg", 5, 4, 3, 0.1},
		{"single example", 1, 6, 4, 0.05},
		{"wide batch", 64, 10, 7, 1e-3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, x, y := randomProblem(t, tc.n, tc.d, tc.c, 11)

			lossN, gradN, err := classifier.SoftmaxLossNaive(w, x, y, tc.reg)
			require.NoError(t, err)
			lossV, gradV, err := classifier.SoftmaxLossVectorized(w, x, y, tc.reg)
			require.NoError(t, err)

			assert.InEpsilon(t, lossN, lossV, 1e-7, "loss mismatch between variants")
			assert.True(t, gradcheck.Close(gradN, gradV, 1e-7), "gradient mismatch between variants")
		})
	}
}

func TestLossNonNegative(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		w, x, y := randomProblem(t, 8, 5, 4, seed)

		loss, _, err := classifier.SoftmaxLossVectorized(w, x, y, 0.01)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, float64(loss), 0.0)
	}
}

func TestGradientShapeMatchesWeights(t *testing.T) {
	w, x, y := randomProblem(t, 6, 9, 5, 3)

	_, grad, err := classifier.SoftmaxLossVectorized(w, x, y, 0.1)
	require.NoError(t, err)
	assert.True(t, grad.Shape().Equal(w.Shape()),
		"gradient shape %v, want %v", grad.Shape(), w.Shape())
}

func TestZeroWeightsGiveLogC(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(4))

	for _, c := range []int{2, 3, 10} {
		w := tensor.Zeros[float64](tensor.Shape{5, c}, backend)
		x := tensor.Randn[float64](tensor.Shape{20, 5}, rng, backend)

		labels := make([]int32, 20)
		for i := range labels {
			labels[i] = int32(rng.Intn(c))
		}
		y, err := tensor.FromSlice(labels, tensor.Shape{20}, backend)
		require.NoError(t, err)

		for _, f := range lossVariants() {
			loss, _, err := f(w, x, y, 0)
			require.NoError(t, err)
			assert.InDelta(t, math.Log(float64(c)), float64(loss), 1e-12,
				"zero weights with %d classes", c)
		}
	}
}

// lossVariants returns both evaluator forms so property tests cover each.
func lossVariants() []func(w, x *tensor.Tensor[float64, Backend], y *tensor.Tensor[int32, Backend], reg float64) (float64, *tensor.Tensor[float64, Backend], error) {
	return []func(w, x *tensor.Tensor[float64, Backend], y *tensor.Tensor[int32, Backend], reg float64) (float64, *tensor.Tensor[float64, Backend], error){
		classifier.SoftmaxLossNaive[float64, Backend],
		classifier.SoftmaxLossVectorized[float64, Backend],
	}
}

func TestClosedFormSingleExample(t *testing.T) {
	// D=2, C=3, N=1, W=0, X=[[1,2]], y=[0], reg=0.
	// All scores are 0, so p = [1/3, 1/3, 1/3], loss = ln 3, and
	// dW[d, j] = x[d]·(p_j − 1{j=0}).
	backend := cpu.New()

	w := tensor.Zeros[float64](tensor.Shape{2, 3}, backend)
	x, err := tensor.FromSlice([]float64{1, 2}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)
	y, err := tensor.FromSlice([]int32{0}, tensor.Shape{1}, backend)
	require.NoError(t, err)

	wantGrad := []float64{
		1.0 * (1.0/3.0 - 1.0), 1.0 / 3.0, 1.0 / 3.0,
		2.0 * (1.0/3.0 - 1.0), 2.0 / 3.0, 2.0 / 3.0,
	}

	for _, f := range lossVariants() {
		loss, grad, err := f(w, x, y, 0)
		require.NoError(t, err)

		assert.InDelta(t, math.Log(3), float64(loss), 1e-12)
		gradData := grad.Data()
		for i, want := range wantGrad {
			assert.InDelta(t, want, gradData[i], 1e-12, "dW[%d]", i)
		}
	}
}

func TestNumericalGradient(t *testing.T) {
	w, x, y := randomProblem(t, 10, 6, 4, 21)
	reg := 0.1

	_, analytic, err := classifier.SoftmaxLossVectorized(w, x, y, reg)
	require.NoError(t, err)

	lossAt := func(probe *tensor.Tensor[float64, Backend]) (float64, error) {
		loss, _, err := classifier.SoftmaxLossVectorized(probe, x, y, reg)
		return loss, err
	}

	numeric, err := gradcheck.Numerical(lossAt, w, 1e-6)
	require.NoError(t, err)
	assert.True(t, gradcheck.Close(analytic, numeric, 1e-5),
		"analytic gradient disagrees with central differences")

	maxRelErr, err := gradcheck.Sparse(lossAt, w, analytic, 1e-6, 10, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	assert.Less(t, maxRelErr, 1e-5)
}

func TestRegularizationMonotonic(t *testing.T) {
	w, x, y := randomProblem(t, 12, 5, 3, 9)

	var prev float64 = -1
	for _, reg := range []float64{0, 0.01, 0.1, 1, 10} {
		loss, _, err := classifier.SoftmaxLossVectorized(w, x, y, reg)
		require.NoError(t, err)
		assert.Greater(t, float64(loss), prev, "loss not strictly increasing at reg=%v", reg)
		prev = float64(loss)
	}
}

func TestInputsNotMutated(t *testing.T) {
	w, x, y := randomProblem(t, 7, 4, 3, 30)

	wBefore := append([]float64(nil), w.Data()...)
	xBefore := append([]float64(nil), x.Data()...)

	for _, f := range lossVariants() {
		_, _, err := f(w, x, y, 0.5)
		require.NoError(t, err)
	}

	assert.Equal(t, wBefore, w.Data(), "W was mutated")
	assert.Equal(t, xBefore, x.Data(), "X was mutated")
}

func TestStableUnderLargeScores(t *testing.T) {
	// Feature values large enough that unshifted exp would overflow.
	backend := cpu.New()

	w, err := tensor.FromSlice([]float64{100, 200, 300}, tensor.Shape{1, 3}, backend)
	require.NoError(t, err)
	x, err := tensor.FromSlice([]float64{5, -5}, tensor.Shape{2, 1}, backend)
	require.NoError(t, err)
	y, err := tensor.FromSlice([]int32{2, 0}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	for _, f := range lossVariants() {
		loss, grad, err := f(w, x, y, 0)
		require.NoError(t, err)

		assert.False(t, math.IsNaN(float64(loss)) || math.IsInf(float64(loss), 0),
			"loss = %v for large scores", loss)
		for i, g := range grad.Data() {
			assert.False(t, math.IsNaN(g) || math.IsInf(g, 0), "dW[%d] = %v", i, g)
		}
	}
}

func TestFloat32VariantsAgree(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(2))

	w := tensor.Randn[float32](tensor.Shape{4, 3}, rng, backend)
	x := tensor.Randn[float32](tensor.Shape{8, 4}, rng, backend)
	y, err := tensor.FromSlice([]int32{0, 1, 2, 0, 1, 2, 0, 1}, tensor.Shape{8}, backend)
	require.NoError(t, err)

	lossN, gradN, err := classifier.SoftmaxLossNaive(w, x, y, float32(0.1))
	require.NoError(t, err)
	lossV, gradV, err := classifier.SoftmaxLossVectorized(w, x, y, float32(0.1))
	require.NoError(t, err)

	assert.InDelta(t, float64(lossN), float64(lossV), 1e-4)
	assert.True(t, gradcheck.Close(gradN, gradV, 1e-3))
}

func TestShapeMismatchErrors(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(6))

	w := tensor.Randn[float64](tensor.Shape{4, 3}, rng, backend)
	x := tensor.Randn[float64](tensor.Shape{5, 7}, rng, backend) // 7 features, W expects 4
	y, err := tensor.FromSlice([]int32{0, 1, 2, 0, 1}, tensor.Shape{5}, backend)
	require.NoError(t, err)

	for _, f := range lossVariants() {
		_, _, err := f(w, x, y, 0)
		assert.ErrorIs(t, err, classifier.ErrShapeMismatch)
	}

	// Label count differs from the number of examples.
	xOK := tensor.Randn[float64](tensor.Shape{5, 4}, rng, backend)
	yShort, err := tensor.FromSlice([]int32{0, 1, 2}, tensor.Shape{3}, backend)
	require.NoError(t, err)

	for _, f := range lossVariants() {
		_, _, err := f(w, xOK, yShort, 0)
		assert.ErrorIs(t, err, classifier.ErrShapeMismatch)
	}
}

func TestInvalidInputErrors(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(8))

	w := tensor.Randn[float64](tensor.Shape{4, 3}, rng, backend)
	x := tensor.Randn[float64](tensor.Shape{2, 4}, rng, backend)

	// Label outside [0, C).
	yBad, err := tensor.FromSlice([]int32{0, 3}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	for _, f := range lossVariants() {
		_, _, err := f(w, x, yBad, 0)
		assert.ErrorIs(t, err, classifier.ErrInvalidInput)
	}

	// Negative label.
	yNeg, err := tensor.FromSlice([]int32{-1, 0}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	for _, f := range lossVariants() {
		_, _, err := f(w, x, yNeg, 0)
		assert.ErrorIs(t, err, classifier.ErrInvalidInput)
	}

	// Negative regularization strength.
	yOK, err := tensor.FromSlice([]int32{0, 1}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	for _, f := range lossVariants() {
		_, _, err := f(w, x, yOK, -0.5)
		assert.ErrorIs(t, err, classifier.ErrInvalidInput)
	}
}
