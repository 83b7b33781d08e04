package gravec

import (
	"context"

	"github.com/liliang-cn/gravec/pkg/graph"
	"github.com/liliang-cn/gravec/pkg/search"
)

// VectorSearch embeds the query and ranks every node by similarity,
// returning the topK best. Each call scores one consistent snapshot of
// the store.
func (db *DB) VectorSearch(ctx context.Context, queryText string, topK int) ([]search.Scored, error) {
	return db.engine.VectorSearch(ctx, db.store.View(), queryText, topK)
}

// VectorSearchWithEdges ranks like VectorSearch and additionally resolves
// the result into full nodes plus the edges connecting them.
func (db *DB) VectorSearchWithEdges(ctx context.Context, queryText string, topK int) (*search.DetailedResult, error) {
	return db.engine.VectorSearchWithEdges(ctx, db.store.View(), queryText, topK)
}

// HybridSearch blends vector similarity with graph proximity; see
// search.HybridOptions for the knobs.
func (db *DB) HybridSearch(ctx context.Context, queryText string, opts search.HybridOptions) ([]search.Scored, error) {
	return db.engine.HybridSearch(ctx, db.store.View(), queryText, opts)
}

// HybridSearchWithEdges ranks like HybridSearch and additionally resolves
// the result into full nodes plus the edges connecting them.
func (db *DB) HybridSearchWithEdges(ctx context.Context, queryText string, opts search.HybridOptions) (*search.DetailedResult, error) {
	return db.engine.HybridSearchWithEdges(ctx, db.store.View(), queryText, opts)
}

// Neighbors returns the IDs adjacent to id, treating every edge as
// undirected.
func (db *DB) Neighbors(id int64) []int64 {
	return graph.NewIndex(db.store.View()).Neighbors(id)
}

// Traverse walks breadth-first from startID up to maxDepth and returns
// the visited IDs in discovery order, start first.
func (db *DB) Traverse(startID int64, maxDepth int) []int64 {
	return graph.NewIndex(db.store.View()).Traverse(startID, maxDepth)
}

// TraverseWithEdges traverses like Traverse and additionally resolves the
// visited IDs into full nodes plus the edges connecting them.
func (db *DB) TraverseWithEdges(startID int64, maxDepth int) *search.DetailedResult {
	nodes, edges := graph.NewIndex(db.store.View()).TraverseWithEdges(startID, maxDepth)
	return &search.DetailedResult{
		Nodes:     nodes,
		Edges:     edges,
		NodeCount: len(nodes),
		EdgeCount: len(edges),
	}
}

// Distances returns each node reachable from startID within maxDepth,
// mapped to its BFS depth.
func (db *DB) Distances(startID int64, maxDepth int) map[int64]int {
	return graph.NewIndex(db.store.View()).Distances(startID, maxDepth)
}
