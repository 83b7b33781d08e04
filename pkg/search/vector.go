// Package search ranks stored nodes against query text, by embedding
// similarity alone or blended with graph proximity. Scoring is brute
// force over a consistent store view: every node is compared, so results
// are exact rather than approximate.
package search

import (
	"context"
	"sort"

	"github.com/liliang-cn/gravec/pkg/core"
	"github.com/liliang-cn/gravec/pkg/embed"
	"github.com/liliang-cn/gravec/pkg/graph"
)

// Scored pairs a node ID with its ranking score.
type Scored struct {
	ID    int64   `json:"id"`
	Score float64 `json:"score"`
}

// DetailedResult carries ranked or traversed nodes together with the
// edges of the induced subgraph: every stored edge whose both endpoints
// made it into the node set.
type DetailedResult struct {
	Nodes     []*core.Node `json:"nodes"`
	Edges     []*core.Edge `json:"edges"`
	Scores    []Scored     `json:"scores,omitempty"`
	NodeCount int          `json:"node_count"`
	EdgeCount int          `json:"edge_count"`
}

// Engine scores nodes in a store view. It holds no view state itself;
// callers pass the view so one consistent snapshot serves an entire
// request.
type Engine struct {
	embedder embed.Embedder
	simFn    SimilarityFunc
	logger   core.Logger
}

// NewEngine creates a search engine. A nil similarity function defaults
// to cosine similarity and a nil logger discards output.
func NewEngine(embedder embed.Embedder, simFn SimilarityFunc, logger core.Logger) *Engine {
	if simFn == nil {
		simFn = CosineSimilarity
	}
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Engine{embedder: embedder, simFn: simFn, logger: logger}
}

// VectorSearch embeds the query and scores every node in the view against
// it, returning the topK best in descending score order. Ties keep
// ascending-ID order via the stable sort. topK <= 0 yields an empty
// result.
func (e *Engine) VectorSearch(ctx context.Context, view *core.View, queryText string, topK int) ([]Scored, error) {
	if topK <= 0 {
		return []Scored{}, nil
	}

	query, err := e.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, err
	}

	ids := view.NodeIDs()
	scored := make([]Scored, 0, len(ids))
	for _, id := range ids {
		scored = append(scored, Scored{ID: id, Score: e.simFn(query, view.Nodes[id].Embedding)})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// VectorSearchWithEdges runs VectorSearch and resolves the ranked IDs into
// full nodes plus the edges connecting them to each other.
func (e *Engine) VectorSearchWithEdges(ctx context.Context, view *core.View, queryText string, topK int) (*DetailedResult, error) {
	scored, err := e.VectorSearch(ctx, view, queryText, topK)
	if err != nil {
		return nil, err
	}
	return detail(view, scored), nil
}

// detail resolves scored IDs against the view and attaches the induced
// subgraph.
func detail(view *core.View, scored []Scored) *DetailedResult {
	ids := make([]int64, len(scored))
	for i, s := range scored {
		ids[i] = s.ID
	}
	nodes, edges := graph.NewIndex(view).Subgraph(ids)
	return &DetailedResult{
		Nodes:     nodes,
		Edges:     edges,
		Scores:    scored,
		NodeCount: len(nodes),
		EdgeCount: len(edges),
	}
}
