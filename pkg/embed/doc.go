// Package embed turns node text into fixed-width vectors.
//
// Two strategies share one contract: every embedder emits vectors of
// exactly Dim() floats, L2-normalized unless all-zero, and identical text
// always yields an identical vector for a given fitted state.
//
// # Key Components
//
//   - Embedder: the text-to-vector interface
//   - TFIDF: corpus-adaptive primary strategy
//   - Seeded: hash-seeded corpus-independent fallback
//   - Generator: lazily fits TFIDF and falls back to Seeded until a fit
//     succeeds
//
// The Generator fits once and then holds the vocabulary steady; growing
// the corpus afterwards does not change existing vectors. Call Refit to
// rebuild the vocabulary intentionally, then re-embed stored nodes if
// their vectors should pick up the new fit.
package embed
