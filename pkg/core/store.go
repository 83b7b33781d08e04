package core

import (
	"context"
	"sort"
	"sync"
)

// Store is an in-memory node/edge repository backed by a whole-state
// snapshot. All mutations are serialized under a single write lock and
// write through to the snapshot backend before returning; a persistence
// failure is logged but never fails the in-memory mutation. Reads operate
// on copies taken under the read lock, so they always observe a consistent
// state and never a half-applied cascade.
type Store struct {
	mu     sync.RWMutex
	closed bool

	nodes map[int64]*Node
	edges map[int64]*Edge

	// Next IDs to hand out. Monotonic for the lifetime of the process;
	// reset only by Clear.
	nextNodeID int64
	nextEdgeID int64

	snapshots SnapshotStore
	logger    Logger
}

// NewStore creates an empty store. snapshots may be nil, in which case the
// store is memory-only (useful for tests and throwaway instances). logger
// may be nil for silence.
func NewStore(snapshots SnapshotStore, logger Logger) *Store {
	if logger == nil {
		logger = NopLogger()
	}
	return &Store{
		nodes:      make(map[int64]*Node),
		edges:      make(map[int64]*Edge),
		nextNodeID: 1,
		nextEdgeID: 1,
		snapshots:  snapshots,
		logger:     logger,
	}
}

// CreateNode adds a new node and returns it with its assigned ID.
func (s *Store) CreateNode(ctx context.Context, text string, metadata map[string]string, embedding []float32) (*Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, wrapError("create_node", ErrClosed)
	}

	node := (&Node{Text: text, Metadata: metadata, Embedding: embedding}).Clone()
	node.ID = s.nextNodeID
	s.nextNodeID++
	s.nodes[node.ID] = node

	s.persistLocked(ctx, "create_node")
	return node.Clone(), nil
}

// GetNode returns the node with the given ID, or ErrNotFound.
func (s *Store) GetNode(id int64) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	if !ok {
		return nil, wrapError("get_node", ErrNotFound)
	}
	return node.Clone(), nil
}

// UpdateNode replaces the text, metadata and embedding of an existing node.
// The ID is preserved and incident edges are left untouched. Returns
// ErrNotFound when the node does not exist.
func (s *Store) UpdateNode(ctx context.Context, id int64, text string, metadata map[string]string, embedding []float32) (*Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, wrapError("update_node", ErrClosed)
	}
	if _, ok := s.nodes[id]; !ok {
		return nil, wrapError("update_node", ErrNotFound)
	}

	node := (&Node{ID: id, Text: text, Metadata: metadata, Embedding: embedding}).Clone()
	s.nodes[id] = node

	s.persistLocked(ctx, "update_node")
	return node.Clone(), nil
}

// DeleteNode removes a node and every edge that touches it, in one atomic
// step. Deleting a node that does not exist is not an error.
func (s *Store) DeleteNode(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("delete_node", ErrClosed)
	}
	if _, ok := s.nodes[id]; !ok {
		return nil
	}

	delete(s.nodes, id)
	for edgeID, edge := range s.edges {
		if edge.Source == id || edge.Target == id {
			delete(s.edges, edgeID)
		}
	}

	s.persistLocked(ctx, "delete_node")
	return nil
}

// ListNodes returns a copy of all nodes keyed by ID.
func (s *Store) ListNodes() map[int64]*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]*Node, len(s.nodes))
	for id, node := range s.nodes {
		out[id] = node.Clone()
	}
	return out
}

// CreateEdge adds a new directed edge and returns it with its assigned ID.
// Endpoints are not validated: edges referencing missing nodes are stored
// as-is and simply never show up in adjacency queries. A zero weight is
// replaced with the default of 1.0.
func (s *Store) CreateEdge(ctx context.Context, source, target int64, edgeType string, weight float64) (*Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, wrapError("create_edge", ErrClosed)
	}

	if weight == 0 {
		weight = 1.0
	}
	edge := &Edge{
		ID:     s.nextEdgeID,
		Source: source,
		Target: target,
		Type:   edgeType,
		Weight: weight,
	}
	s.nextEdgeID++
	s.edges[edge.ID] = edge

	s.persistLocked(ctx, "create_edge")
	return edge.Clone(), nil
}

// GetEdge returns the edge with the given ID, or ErrNotFound.
func (s *Store) GetEdge(id int64) (*Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edge, ok := s.edges[id]
	if !ok {
		return nil, wrapError("get_edge", ErrNotFound)
	}
	return edge.Clone(), nil
}

// DeleteEdge removes an edge. Deleting an edge that does not exist is not
// an error.
func (s *Store) DeleteEdge(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("delete_edge", ErrClosed)
	}
	if _, ok := s.edges[id]; !ok {
		return nil
	}

	delete(s.edges, id)
	s.persistLocked(ctx, "delete_edge")
	return nil
}

// ListEdges returns a copy of all edges keyed by ID.
func (s *Store) ListEdges() map[int64]*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]*Edge, len(s.edges))
	for id, edge := range s.edges {
		out[id] = edge.Clone()
	}
	return out
}

// Clear removes all nodes and edges, resets both ID counters and deletes
// the persisted snapshot. This is the only operation that allows IDs to be
// handed out again.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("clear", ErrClosed)
	}

	s.nodes = make(map[int64]*Node)
	s.edges = make(map[int64]*Edge)
	s.nextNodeID = 1
	s.nextEdgeID = 1

	if s.snapshots != nil {
		if err := s.snapshots.Clear(ctx); err != nil {
			s.logger.Warn("failed to remove snapshot", "error", err)
		}
	}
	s.logger.Info("store cleared")
	return nil
}

// Texts returns the text of every node in ascending ID order. Ascending ID
// equals creation order, which is the iteration order all deterministic
// operations are defined against.
func (s *Store) Texts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedNodeIDsLocked()
	texts := make([]string, 0, len(ids))
	for _, id := range ids {
		texts = append(texts, s.nodes[id].Text)
	}
	return texts
}

// View captures a consistent copy of the store for read-heavy operations.
// Search and traversal take one View up front so a concurrent mutation can
// never tear their results.
type View struct {
	Nodes map[int64]*Node
	Edges []*Edge // ascending by ID

	ids []int64 // ascending
}

// View returns a consistent snapshot copy of all nodes and edges.
func (s *Store) View() *View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := &View{
		Nodes: make(map[int64]*Node, len(s.nodes)),
		Edges: make([]*Edge, 0, len(s.edges)),
		ids:   s.sortedNodeIDsLocked(),
	}
	for id, node := range s.nodes {
		v.Nodes[id] = node.Clone()
	}
	for _, id := range s.sortedEdgeIDsLocked() {
		v.Edges = append(v.Edges, s.edges[id].Clone())
	}
	return v
}

// NodeIDs returns all node IDs in ascending order.
func (v *View) NodeIDs() []int64 {
	return v.ids
}

// HasNode reports whether the view contains a node with the given ID.
func (v *View) HasNode(id int64) bool {
	_, ok := v.Nodes[id]
	return ok
}

// Stats returns counts and counter positions.
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreStats{
		Nodes:      len(s.nodes),
		Edges:      len(s.edges),
		NextNodeID: s.nextNodeID,
		NextEdgeID: s.nextEdgeID,
	}
}

// Close persists a final snapshot and releases the snapshot backend.
// Mutations on a closed store fail with ErrClosed; reads keep working on
// the frozen state.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.snapshots == nil {
		return nil
	}
	if err := s.snapshots.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.Warn("failed to save snapshot on close", "error", err)
	}
	return s.snapshots.Close()
}

func (s *Store) sortedNodeIDsLocked() []int64 {
	ids := make([]int64, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) sortedEdgeIDsLocked() []int64 {
	ids := make([]int64, 0, len(s.edges))
	for id := range s.edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// persistLocked writes the full state through to the snapshot backend.
// Must be called with the write lock held. Failures are logged and
// swallowed: the in-memory mutation has already succeeded and stays valid.
func (s *Store) persistLocked(ctx context.Context, op string) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.Warn("failed to persist snapshot", "op", op, "error", err)
	}
}
