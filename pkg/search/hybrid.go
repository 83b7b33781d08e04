package search

import (
	"context"
	"sort"

	"github.com/liliang-cn/gravec/pkg/core"
	"github.com/liliang-cn/gravec/pkg/graph"
)

// hybridPoolSize caps the vector-score candidate pool. The pool is the
// set of nodes eligible for blending: nodes reachable in the graph but
// outside the pool are deliberately never scored.
const hybridPoolSize = 1000

// HybridOptions tunes a hybrid search. Weights are applied as given, with
// no normalization; zero, negative, and greater-than-one weights are all
// legal.
type HybridOptions struct {
	VectorWeight float64 `json:"vector_weight"`
	GraphWeight  float64 `json:"graph_weight"`
	StartID      int64   `json:"start_id"`
	MaxDepth     int     `json:"max_depth"`
	TopK         int     `json:"top_k"`
}

// HybridSearch blends vector similarity with graph proximity to StartID.
// Each pooled node's graph component is 1 - distance/maxDist when
// reachable and 0.0 otherwise, where maxDist is the largest BFS distance
// found; when only the start itself is reachable every reachable node
// scores 1.0. The final score is
// VectorWeight*vectorScore + GraphWeight*graphComponent, sorted
// descending with ties keeping vector-rank order.
func (e *Engine) HybridSearch(ctx context.Context, view *core.View, queryText string, opts HybridOptions) ([]Scored, error) {
	if opts.TopK <= 0 {
		return []Scored{}, nil
	}

	pool, err := e.VectorSearch(ctx, view, queryText, hybridPoolSize)
	if err != nil {
		return nil, err
	}

	index := graph.NewIndex(view)
	distances := index.Distances(opts.StartID, opts.MaxDepth)
	maxDist := 0
	for _, d := range distances {
		if d > maxDist {
			maxDist = d
		}
	}

	combined := make([]Scored, 0, len(pool))
	for _, candidate := range pool {
		component := 0.0
		if dist, ok := distances[candidate.ID]; ok {
			if maxDist == 0 {
				component = 1.0
			} else {
				component = 1.0 - float64(dist)/float64(maxDist)
			}
		}
		score := opts.VectorWeight*candidate.Score + opts.GraphWeight*component
		combined = append(combined, Scored{ID: candidate.ID, Score: score})
	}

	sort.SliceStable(combined, func(i, j int) bool { return combined[i].Score > combined[j].Score })
	if len(combined) > opts.TopK {
		combined = combined[:opts.TopK]
	}
	return combined, nil
}

// HybridSearchWithEdges runs HybridSearch and resolves the ranked IDs into
// full nodes plus the edges connecting them to each other.
func (e *Engine) HybridSearchWithEdges(ctx context.Context, view *core.View, queryText string, opts HybridOptions) (*DetailedResult, error) {
	scored, err := e.HybridSearch(ctx, view, queryText, opts)
	if err != nil {
		return nil, err
	}
	return detail(view, scored), nil
}
