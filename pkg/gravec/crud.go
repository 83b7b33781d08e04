package gravec

import (
	"context"

	"github.com/liliang-cn/gravec/pkg/core"
)

// AddNode embeds text and stores it as a new node, returning the node
// with its assigned ID.
func (db *DB) AddNode(ctx context.Context, text string, metadata map[string]string) (*core.Node, error) {
	embedding, err := db.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return db.store.CreateNode(ctx, text, metadata, embedding)
}

// GetNode returns the node with the given ID, or core.ErrNotFound.
func (db *DB) GetNode(id int64) (*core.Node, error) {
	return db.store.GetNode(id)
}

// UpdateNode replaces a node's text and metadata and recomputes its
// embedding. The ID and incident edges are untouched.
func (db *DB) UpdateNode(ctx context.Context, id int64, text string, metadata map[string]string) (*core.Node, error) {
	embedding, err := db.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return db.store.UpdateNode(ctx, id, text, metadata, embedding)
}

// DeleteNode removes a node and every edge touching it. Deleting an
// absent node is not an error.
func (db *DB) DeleteNode(ctx context.Context, id int64) error {
	return db.store.DeleteNode(ctx, id)
}

// ListNodes returns every node in ascending ID order.
func (db *DB) ListNodes() []*core.Node {
	view := db.store.View()
	ids := view.NodeIDs()
	nodes := make([]*core.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, view.Nodes[id])
	}
	return nodes
}

// AddEdge creates a directed edge between two node IDs. Endpoints are not
// validated: edges may reference nodes that do not exist yet, or ever. A
// zero weight defaults to 1.0.
func (db *DB) AddEdge(ctx context.Context, source, target int64, edgeType string, weight float64) (*core.Edge, error) {
	return db.store.CreateEdge(ctx, source, target, edgeType, weight)
}

// GetEdge returns the edge with the given ID, or core.ErrNotFound.
func (db *DB) GetEdge(id int64) (*core.Edge, error) {
	return db.store.GetEdge(id)
}

// DeleteEdge removes an edge. Deleting an absent edge is not an error.
func (db *DB) DeleteEdge(ctx context.Context, id int64) error {
	return db.store.DeleteEdge(ctx, id)
}

// ListEdges returns every edge in ascending ID order.
func (db *DB) ListEdges() []*core.Edge {
	return db.store.View().Edges
}
