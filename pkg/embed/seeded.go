package embed

import (
	"context"
	"hash/fnv"
	"math/rand"
)

// Seeded is a corpus-independent embedder: it hashes the text into a seed
// and draws the vector from a seeded pseudo-random generator. The output
// carries no semantic signal, but identical text always maps to an
// identical unit vector, which keeps downstream similarity code working
// when no corpus is available to fit against.
type Seeded struct {
	dim int
}

// NewSeeded creates a hash-seeded embedder producing vectors of the given
// width.
func NewSeeded(dim int) *Seeded {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &Seeded{dim: dim}
}

// Embed derives a deterministic L2-normalized vector from the text alone.
func (s *Seeded) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64() % (1 << 32)

	rng := rand.New(rand.NewSource(int64(seed)))
	vec := make([]float32, s.dim)
	for i := range vec {
		vec[i] = float32(rng.Float64())
	}
	normalize(vec)
	return vec, nil
}

// Dim returns the configured vector width.
func (s *Seeded) Dim() int {
	return s.dim
}
