package neuralnet

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func TestNewAttentionRange(t *testing.T) {
	a := NewAttention(4)
	for _, m := range []*mat.Dense{a.QueryWeights, a.KeyWeights, a.ValueWeights} {
		r, c := m.Dims()
		require.Equal(t, 4, r)
		require.Equal(t, 4, c)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				v := m.At(i, j)
				assert.True(t, v >= -1 && v <= 1, "weight %v", v)
			}
		}
	}

	limit := XavierLimit(4, 4)
	assert.InDelta(t, math.Sqrt(0.75), limit, 1e-12)
	scaled := NewAttentionWithLimit(4, limit)
	assert.True(t, mat.Max(scaled.KeyWeights) <= limit)
	assert.True(t, mat.Min(scaled.KeyWeights) >= -limit)
}

func TestNewAttentionPanicsOnEmptyWidth(t *testing.T) {
	assert.Panics(t, func() { NewAttention(0) })
}

func TestComputeAttentionShapes(t *testing.T) {
	a := NewAttention(3)
	inputs := [][]float64{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
		{0.7, 0.8, 0.9},
		{1.0, 0.0, 0.5},
	}

	result, err := a.ComputeAttention(inputs)
	require.NoError(t, err)
	require.Len(t, result.Scores, 4)
	require.Len(t, result.ContextVectors, 4)
	assert.Equal(t, result.ContextVectors, result.WeightedInputs)

	for i := range result.Scores {
		require.Len(t, result.Scores[i], 4)
		require.Len(t, result.ContextVectors[i], 3)
		sum := 0.0
		for _, s := range result.Scores[i] {
			assert.True(t, s > 0 && s < 1, "score %v", s)
			sum += s
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestComputeAttentionIdentityWeights(t *testing.T) {
	a := &Attention{QueryWeights: identity(2), KeyWeights: identity(2), ValueWeights: identity(2)}
	result, err := a.ComputeAttention([][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)

	// Q K^T = I, scaled by 1/sqrt(2); each context row equals its score row.
	e := math.Exp(1 / math.Sqrt(2))
	hi, lo := e/(e+1), 1/(e+1)
	assert.InDeltaSlice(t, []float64{hi, lo}, result.Scores[0], 1e-12)
	assert.InDeltaSlice(t, []float64{lo, hi}, result.Scores[1], 1e-12)
	assert.InDeltaSlice(t, []float64{hi, lo}, result.ContextVectors[0], 1e-12)
	assert.InDeltaSlice(t, []float64{lo, hi}, result.ContextVectors[1], 1e-12)
}

func TestComputeAttentionShapeErrors(t *testing.T) {
	a := NewAttention(3)

	_, err := a.ComputeAttention([][]float64{{1, 2}, {3, 4}})
	assert.True(t, errors.Is(err, ErrShape), "input narrower than the projection")

	_, err = a.ComputeAttention(nil)
	assert.True(t, errors.Is(err, ErrShape), "no rows")

	_, err = a.ComputeAttention([][]float64{{1, 2, 3}, {4, 5}})
	assert.True(t, errors.Is(err, ErrShape), "ragged rows")

	a.QueryWeights = mat.NewDense(2, 3, nil)
	_, err = a.ComputeAttention([][]float64{{1, 2, 3}})
	assert.True(t, errors.Is(err, ErrShape), "mismatched query weights")

	a = NewAttention(3)
	a.QueryWeights = mat.NewDense(3, 2, []float64{1, 0, 0, 1, 0, 0})
	_, err = a.ComputeAttention([][]float64{{1, 2, 3}})
	assert.True(t, errors.Is(err, ErrShape), "query and key widths differ")
}

func TestMatMul(t *testing.T) {
	product, err := MatMul(
		[][]float64{{1, 2, 3}, {4, 5, 6}},
		[][]float64{{7, 8}, {9, 10}, {11, 12}},
	)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{58, 64}, {139, 154}}, product)

	_, err = MatMul([][]float64{{1, 2}}, [][]float64{{1, 2}})
	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, 2, shapeErr.Want)
	assert.Equal(t, 1, shapeErr.Got)
}

func TestTranspose(t *testing.T) {
	assert.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, Transpose([][]float64{{1, 2, 3}, {4, 5, 6}}))
	assert.Empty(t, Transpose(nil))
}
