package embed

import (
	"context"
	"sync"

	"github.com/liliang-cn/gravec/pkg/core"
)

// CorpusFunc supplies the documents the primary model is fitted against,
// typically the text of every node currently stored.
type CorpusFunc func() []string

// Generator is the embedder used by the store facade. It starts unfitted
// and fits a TF-IDF model on demand from the corpus source; until a fit
// succeeds every call falls back to the hash-seeded strategy. Once fitted
// the model is reused as-is: documents added later do not change the
// vocabulary until Refit is called explicitly.
type Generator struct {
	mu     sync.Mutex
	corpus CorpusFunc
	tfidf  *TFIDF
	seeded *Seeded
	fitted bool
	logger core.Logger
}

// NewGenerator creates a generator producing vectors of the given width.
// A nil corpus source leaves the generator permanently on the fallback
// strategy. A nil logger discards log output.
func NewGenerator(dim int, corpus CorpusFunc, logger core.Logger) *Generator {
	if dim <= 0 {
		dim = DefaultDim
	}
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Generator{
		corpus: corpus,
		tfidf:  NewTFIDF(dim),
		seeded: NewSeeded(dim),
		logger: logger,
	}
}

// Embed converts text into a vector. The first call attempts to fit the
// TF-IDF model from the corpus source; while fitting keeps failing (for
// example against an empty store) the seeded fallback serves instead and
// the fit is retried on the next call. Embed never fails: the fallback
// result stands in whenever the primary cannot.
func (g *Generator) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := g.ensureFitted(); err != nil {
		return g.seeded.Embed(ctx, text)
	}
	vec, err := g.tfidf.Embed(ctx, text)
	if err != nil {
		g.logger.Warn("primary embedding failed, using fallback", "error", err)
		return g.seeded.Embed(ctx, text)
	}
	return vec, nil
}

// Refit rebuilds the TF-IDF vocabulary from the current corpus. This is
// the only path that refreshes a fitted model. When the corpus has no
// usable tokens the previous fitted state is kept and ErrEmptyCorpus is
// returned.
func (g *Generator) Refit() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fitLocked()
}

// Fitted reports whether the primary model is serving.
func (g *Generator) Fitted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fitted
}

// VocabSize returns the number of terms in the fitted vocabulary, zero
// while unfitted.
func (g *Generator) VocabSize() int {
	return g.tfidf.VocabSize()
}

// Dim returns the vector width.
func (g *Generator) Dim() int {
	return g.tfidf.Dim()
}

func (g *Generator) ensureFitted() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fitted {
		return nil
	}
	return g.fitLocked()
}

func (g *Generator) fitLocked() error {
	if g.corpus == nil {
		return ErrEmptyCorpus
	}
	if err := g.tfidf.Fit(g.corpus()); err != nil {
		g.logger.Debug("embedding fit unavailable", "error", err)
		return err
	}
	g.fitted = true
	g.logger.Info("embedding model fitted", "vocab_size", g.tfidf.VocabSize(), "dim", g.tfidf.Dim())
	return nil
}
