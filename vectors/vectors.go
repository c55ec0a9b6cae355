// Package vectors provides the small amount of vector math the discovery and
// audit paths share: cosine similarity and centroid computation over float32
// embeddings.
package vectors

import (
	"math"

	"intent-miner/errors"
)

// Cosine returns the cosine similarity of a and b. Vectors of different
// dimensionality are a configuration error and fail fast rather than
// producing a meaningless score.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.WrapErrorf(errors.ErrDimensionMismatch, "cosine: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, errors.WrapError(errors.ErrInvalidInput, "cosine: empty vectors")
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Centroid returns the coordinate-wise mean of the given vectors. All vectors
// must share the same dimensionality.
func Centroid(vecs [][]float32) ([]float32, error) {
	if len(vecs) == 0 {
		return nil, errors.WrapError(errors.ErrInvalidInput, "centroid: no vectors")
	}
	dim := len(vecs[0])
	sums := make([]float64, dim)
	for _, v := range vecs {
		if len(v) != dim {
			return nil, errors.WrapErrorf(errors.ErrDimensionMismatch, "centroid: %d vs %d", len(v), dim)
		}
		for i, x := range v {
			sums[i] += float64(x)
		}
	}
	out := make([]float32, dim)
	n := float64(len(vecs))
	for i, s := range sums {
		out[i] = float32(s / n)
	}
	return out, nil
}
