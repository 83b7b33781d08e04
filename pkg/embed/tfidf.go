package embed

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"gonum.org/v1/gonum/blas/gonum"
)

// TFIDF is a corpus-adaptive text embedder. Fit builds a vocabulary of the
// most frequent terms in the corpus; Embed weights a text's terms against
// that vocabulary. Vectors are always exactly Dim() wide: when the corpus
// has fewer distinct terms than the configured dimension the unused tail
// stays zero.
type TFIDF struct {
	mu         sync.RWMutex
	dim        int
	vocabulary map[string]int
	idf        []float32
	fitted     bool
}

// NewTFIDF creates a TF-IDF embedder producing vectors of the given width.
func NewTFIDF(dim int) *TFIDF {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &TFIDF{
		dim:        dim,
		vocabulary: make(map[string]int),
	}
}

// Fit builds the vocabulary and inverse document frequencies from a corpus.
// Terms are ranked by document frequency, ties broken alphabetically so the
// vocabulary is deterministic, and the top dim terms are kept.
func (t *TFIDF) Fit(corpus []string) error {
	df := make(map[string]int)
	documents := 0
	for _, doc := range corpus {
		tokens := tokenize(doc)
		if len(tokens) == 0 {
			continue
		}
		documents++
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}
	if documents == 0 || len(df) == 0 {
		return ErrEmptyCorpus
	}

	type termFreq struct {
		term string
		freq int
	}
	terms := make([]termFreq, 0, len(df))
	for term, freq := range df {
		terms = append(terms, termFreq{term, freq})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].freq != terms[j].freq {
			return terms[i].freq > terms[j].freq
		}
		return terms[i].term < terms[j].term
	})
	if len(terms) > t.dim {
		terms = terms[:t.dim]
	}

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float32, t.dim)
	n := float64(documents)
	for i, tf := range terms {
		vocabulary[tf.term] = i
		// Smoothed IDF keeps single-document corpora from collapsing to
		// all-zero vectors.
		idf[i] = float32(math.Log((1+n)/(1+float64(tf.freq))) + 1)
	}

	t.mu.Lock()
	t.vocabulary = vocabulary
	t.idf = idf
	t.fitted = true
	t.mu.Unlock()
	return nil
}

// Fitted reports whether Fit has completed successfully.
func (t *TFIDF) Fitted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fitted
}

// VocabSize returns the number of terms in the fitted vocabulary.
func (t *TFIDF) VocabSize() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.vocabulary)
}

// Embed converts text into an L2-normalized TF-IDF vector. Text with no
// vocabulary overlap, including the empty string, yields the zero vector.
func (t *TFIDF) Embed(ctx context.Context, text string) ([]float32, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.fitted {
		return nil, ErrNotFitted
	}

	vec := make([]float32, t.dim)
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return vec, nil
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	for term, count := range counts {
		if idx, ok := t.vocabulary[term]; ok {
			tf := float32(count) / float32(len(tokens))
			vec[idx] = tf * t.idf[idx]
		}
	}

	normalize(vec)
	return vec, nil
}

// Dim returns the configured vector width.
func (t *TFIDF) Dim() int {
	return t.dim
}

// tokenize splits text into lowercase letter/digit runs.
func tokenize(text string) []string {
	var tokens []string
	var word strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
		} else if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}
	if word.Len() > 0 {
		tokens = append(tokens, word.String())
	}
	return tokens
}

// normalize scales vec to unit length in place. The zero vector is left
// untouched.
func normalize(vec []float32) {
	var impl gonum.Implementation
	norm := impl.Snrm2(len(vec), vec, 1)
	if norm == 0 {
		return
	}
	impl.Sscal(len(vec), 1/norm, vec, 1)
}
