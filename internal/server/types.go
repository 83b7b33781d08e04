package server

// NodeCreateRequest is the body for creating or updating a node. The
// embedding is always generated server-side from the text.
type NodeCreateRequest struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// EdgeCreateRequest is the body for creating an edge. Weight 0 is
// normalized to 1.0 by the store.
type EdgeCreateRequest struct {
	Source int64   `json:"source"`
	Target int64   `json:"target"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// VectorSearchRequest is the body for vector search endpoints.
type VectorSearchRequest struct {
	QueryText string `json:"query_text"`
	TopK      int    `json:"top_k"`
}

// defaultVectorSearchRequest carries the field defaults applied when the
// body omits them.
func defaultVectorSearchRequest() VectorSearchRequest {
	return VectorSearchRequest{TopK: 5}
}

// HybridSearchRequest is the body for hybrid search endpoints.
type HybridSearchRequest struct {
	QueryText    string  `json:"query_text"`
	VectorWeight float64 `json:"vector_weight"`
	GraphWeight  float64 `json:"graph_weight"`
	StartID      int64   `json:"start_id"`
	Depth        int     `json:"depth"`
	TopK         int     `json:"top_k"`
}

func defaultHybridSearchRequest() HybridSearchRequest {
	return HybridSearchRequest{
		VectorWeight: 0.7,
		GraphWeight:  0.3,
		Depth:        2,
		TopK:         5,
	}
}

// StatusResponse is the generic acknowledgement body.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
