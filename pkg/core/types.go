package core

// Node represents a text chunk with metadata and its embedding vector
type Node struct {
	ID        int64             `json:"id"`
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Embedding []float32         `json:"embedding"`
}

// Edge represents a directed, typed, weighted relation between two nodes.
// Edges are stored directed; adjacency queries treat them as undirected.
type Edge struct {
	ID     int64   `json:"id"`
	Source int64   `json:"source"`
	Target int64   `json:"target"`
	Type   string  `json:"type,omitempty"`
	Weight float64 `json:"weight"`
}

// Counters holds the next IDs to hand out. Persisted values are recomputed
// from the data at save time rather than trusted blindly.
type Counters struct {
	NextNodeID int64 `json:"next_node_id"`
	NextEdgeID int64 `json:"next_edge_id"`
}

// Snapshot is the full persisted state of a store. Maps are keyed by the
// stringified entity ID so the encoded form is stable across backends.
type Snapshot struct {
	Nodes    map[string]*Node `json:"nodes"`
	Edges    map[string]*Edge `json:"edges"`
	Counters Counters         `json:"counters"`
}

// StoreStats provides statistics about the store
type StoreStats struct {
	Nodes      int   `json:"nodes"`
	Edges      int   `json:"edges"`
	NextNodeID int64 `json:"next_node_id"`
	NextEdgeID int64 `json:"next_edge_id"`
}

// Clone returns a deep copy of the node
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		ID:   n.ID,
		Text: n.Text,
	}
	if n.Metadata != nil {
		out.Metadata = make(map[string]string, len(n.Metadata))
		for k, v := range n.Metadata {
			out.Metadata[k] = v
		}
	}
	if n.Embedding != nil {
		out.Embedding = make([]float32, len(n.Embedding))
		copy(out.Embedding, n.Embedding)
	}
	return out
}

// Clone returns a copy of the edge
func (e *Edge) Clone() *Edge {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
