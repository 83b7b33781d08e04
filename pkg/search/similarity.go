package search

import (
	"math"

	"gonum.org/v1/gonum/blas/gonum"
)

// SimilarityFunc scores two vectors; higher means more similar. All bundled
// implementations return 0.0 (or the metric's floor) instead of failing
// when vector lengths differ, so callers can score heterogeneous
// collections without pre-checks.
type SimilarityFunc func(a, b []float32) float64

var blasEngine = gonum.Implementation{}

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. Vectors of different lengths, and vectors with zero magnitude,
// score exactly 0.0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	normA := blasEngine.Snrm2(len(a), a, 1)
	normB := blasEngine.Snrm2(len(b), b, 1)
	if normA == 0 || normB == 0 {
		return 0.0
	}

	dot := blasEngine.Sdot(len(a), a, 1, b, 1)
	sim := float64(dot) / (float64(normA) * float64(normB))

	// Rounding can push the ratio a hair past the mathematical range.
	return math.Max(-1.0, math.Min(1.0, sim))
}

// DotProduct returns the unnormalized dot product of a and b.
func DotProduct(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	return float64(blasEngine.Sdot(len(a), a, 1, b, 1))
}

// EuclideanDist returns the negative Euclidean distance between a and b so
// that higher still means more similar.
func EuclideanDist(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(-1)
	}
	var sum float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return -math.Sqrt(sum)
}
