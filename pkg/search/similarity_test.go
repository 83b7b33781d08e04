package search

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("IdenticalDirection", func(t *testing.T) {
		a := []float32{1, 2, 3}
		if sim := CosineSimilarity(a, a); math.Abs(sim-1.0) > 1e-6 {
			t.Errorf("Expected similarity 1.0 for identical vectors, got %f", sim)
		}
		scaled := []float32{2, 4, 6}
		if sim := CosineSimilarity(a, scaled); math.Abs(sim-1.0) > 1e-6 {
			t.Errorf("Expected similarity 1.0 for scaled vector, got %f", sim)
		}
	})

	t.Run("Orthogonal", func(t *testing.T) {
		if sim := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); math.Abs(sim) > 1e-6 {
			t.Errorf("Expected similarity 0.0 for orthogonal vectors, got %f", sim)
		}
	})

	t.Run("Opposite", func(t *testing.T) {
		if sim := CosineSimilarity([]float32{1, 0}, []float32{-1, 0}); math.Abs(sim+1.0) > 1e-6 {
			t.Errorf("Expected similarity -1.0 for opposite vectors, got %f", sim)
		}
	})

	t.Run("Symmetry", func(t *testing.T) {
		a := []float32{0.3, -0.7, 0.2}
		b := []float32{-0.1, 0.5, 0.9}
		if CosineSimilarity(a, b) != CosineSimilarity(b, a) {
			t.Errorf("Expected symmetric similarity")
		}
	})

	t.Run("ZeroVector", func(t *testing.T) {
		zero := []float32{0, 0, 0}
		if sim := CosineSimilarity(zero, []float32{1, 2, 3}); sim != 0.0 {
			t.Errorf("Expected exactly 0.0 for zero vector, got %f", sim)
		}
		if sim := CosineSimilarity([]float32{1, 2, 3}, zero); sim != 0.0 {
			t.Errorf("Expected exactly 0.0 for zero vector, got %f", sim)
		}
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		if sim := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}); sim != 0.0 {
			t.Errorf("Expected 0.0 for mismatched lengths, got %f", sim)
		}
	})

	t.Run("Range", func(t *testing.T) {
		vectors := [][]float32{
			{1, 2, 3},
			{-4, 5, -6},
			{0.001, 1000, -0.5},
			{7, 7, 7},
		}
		for _, a := range vectors {
			for _, b := range vectors {
				sim := CosineSimilarity(a, b)
				if sim < -1.0 || sim > 1.0 {
					t.Errorf("Expected similarity in [-1,1], got %f for %v vs %v", sim, a, b)
				}
			}
		}
	})
}

func TestDotProduct(t *testing.T) {
	if got := DotProduct([]float32{1, 2, 3}, []float32{4, 5, 6}); got != 32.0 {
		t.Errorf("Expected dot product 32, got %f", got)
	}
	if got := DotProduct([]float32{1}, []float32{1, 2}); got != 0.0 {
		t.Errorf("Expected 0.0 for mismatched lengths, got %f", got)
	}
}

func TestEuclideanDist(t *testing.T) {
	if got := EuclideanDist([]float32{0, 0}, []float32{3, 4}); got != -5.0 {
		t.Errorf("Expected -5.0, got %f", got)
	}
	a := []float32{1, 2, 3}
	if got := EuclideanDist(a, a); got != 0.0 {
		t.Errorf("Expected 0.0 for identical vectors, got %f", got)
	}
	// Closer vectors rank higher.
	near := EuclideanDist([]float32{0, 0}, []float32{1, 0})
	far := EuclideanDist([]float32{0, 0}, []float32{9, 0})
	if near <= far {
		t.Errorf("Expected nearer vector to score higher, got %f vs %f", near, far)
	}
}
