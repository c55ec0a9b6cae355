package vectors

import (
	"testing"

	"intent-miner/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSymmetry(t *testing.T) {
	pairs := [][2][]float32{
		{{1, 0, 0}, {0, 1, 0}},
		{{0.3, 0.7, 0.1}, {0.2, 0.9, 0.4}},
		{{1, 2, 3}, {1, 2, 3}},
		{{-1, 0.5, 2}, {3, -0.5, 1}},
	}
	for _, p := range pairs {
		ab, err := Cosine(p[0], p[1])
		require.NoError(t, err)
		ba, err := Cosine(p[1], p[0])
		require.NoError(t, err)
		assert.InDelta(t, ab, ba, 1e-12)
	}
}

func TestCosineIdentical(t *testing.T) {
	v := []float32{0.5, 0.5, 0.1, 0.2}
	sim, err := Cosine(v, v)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-6)
}

func TestCosineDimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 2}, []float32{1, 2, 3})
	require.Error(t, err)
	assert.True(t, errors.IsDimensionMismatch(err))
}

func TestCosineZeroVector(t *testing.T) {
	sim, err := Cosine([]float32{0, 0, 0}, []float32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)
}

func TestCentroid(t *testing.T) {
	vecs := [][]float32{
		{1, 0, 2},
		{3, 4, 0},
		{2, 2, 1},
	}
	centroid, err := Centroid(vecs)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, float64(centroid[0]), 1e-6)
	assert.InDelta(t, 2.0, float64(centroid[1]), 1e-6)
	assert.InDelta(t, 1.0, float64(centroid[2]), 1e-6)
}

func TestCentroidDimensionMismatch(t *testing.T) {
	_, err := Centroid([][]float32{{1, 2}, {1, 2, 3}})
	require.Error(t, err)
	assert.True(t, errors.IsDimensionMismatch(err))
}

func TestCentroidEmpty(t *testing.T) {
	_, err := Centroid(nil)
	require.Error(t, err)
}
