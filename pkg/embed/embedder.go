package embed

import (
	"context"
	"errors"
)

// DefaultDim is the vector width used when no dimension is configured.
const DefaultDim = 128

// Embedder converts text into fixed-width vectors. Implementations must be
// deterministic: the same text embedded against the same internal state
// always yields the same vector.
type Embedder interface {
	// Embed converts a single text string into a vector of Dim() floats.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dim returns the dimension of vectors produced by this embedder.
	Dim() int
}

var (
	// ErrNotFitted is returned when a corpus-adaptive embedder is asked to
	// embed before it has been fitted.
	ErrNotFitted = errors.New("embed: model not fitted")

	// ErrEmptyCorpus is returned when fitting is attempted against a corpus
	// with no usable tokens.
	ErrEmptyCorpus = errors.New("embed: empty corpus")
)
