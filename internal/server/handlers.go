package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/liliang-cn/gravec/pkg/core"
	"github.com/liliang-cn/gravec/pkg/embed"
	"github.com/liliang-cn/gravec/pkg/metrics"
	"github.com/liliang-cn/gravec/pkg/search"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, map[string]any{
		"message": "gravec hybrid vector + graph database",
		"endpoints": map[string]string{
			"nodes":         "/nodes",
			"edges":         "/edges",
			"vector_search": "/search/vector",
			"graph_search":  "/search/graph",
			"hybrid_search": "/search/hybrid",
			"ingest":        "/ingest/text-file",
			"stats":         "/stats",
			"metrics":       "/metrics",
			"clear":         "/admin/clear",
			"refit":         "/admin/refit",
		},
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.db.Stats()
	metrics.SetStoreSize(stats.Nodes, stats.Edges)
	s.writeHTTPResponse(w, http.StatusOK, stats)
}

// --- Node CRUD ---

func (s *Server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	var req NodeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	node, err := s.db.AddNode(r.Context(), req.Text, req.Metadata)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	s.syncStoreGauges()
	s.writeHTTPResponse(w, http.StatusOK, node)
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	node, err := s.db.GetNode(id)
	if err != nil {
		s.writeStoreError(w, err, fmt.Sprintf("Node %d not found", id))
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, node)
}

func (s *Server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req NodeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	node, err := s.db.UpdateNode(r.Context(), id, req.Text, req.Metadata)
	if err != nil {
		s.writeStoreError(w, err, fmt.Sprintf("Node %d not found", id))
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, node)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	// Deleting a missing node is not an error, matching the embedded API.
	if err := s.db.DeleteNode(r.Context(), id); err != nil && !errors.Is(err, core.ErrNotFound) {
		s.writeStoreError(w, err, "")
		return
	}

	s.syncStoreGauges()
	s.writeHTTPResponse(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// --- Edge CRUD ---

func (s *Server) handleCreateEdge(w http.ResponseWriter, r *http.Request) {
	var req EdgeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Endpoints are not validated: edges to unknown nodes are allowed.
	edge, err := s.db.AddEdge(r.Context(), req.Source, req.Target, req.Type, req.Weight)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	s.syncStoreGauges()
	s.writeHTTPResponse(w, http.StatusOK, edge)
}

func (s *Server) handleGetEdge(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	edge, err := s.db.GetEdge(id)
	if err != nil {
		s.writeStoreError(w, err, fmt.Sprintf("Edge %d not found", id))
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, edge)
}

func (s *Server) handleDeleteEdge(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.db.DeleteEdge(r.Context(), id); err != nil && !errors.Is(err, core.ErrNotFound) {
		s.writeStoreError(w, err, "")
		return
	}

	s.syncStoreGauges()
	s.writeHTTPResponse(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// --- Search ---

func (s *Server) handleVectorSearch(w http.ResponseWriter, r *http.Request) {
	req := defaultVectorSearchRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	results, err := s.db.VectorSearch(r.Context(), req.QueryText, req.TopK)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	metrics.SearchesTotal.WithLabelValues("vector").Inc()
	s.writeHTTPResponse(w, http.StatusOK, map[string][]search.Scored{"results": results})
}

func (s *Server) handleVectorSearchDetailed(w http.ResponseWriter, r *http.Request) {
	req := defaultVectorSearchRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.db.VectorSearchWithEdges(r.Context(), req.QueryText, req.TopK)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	metrics.SearchesTotal.WithLabelValues("vector").Inc()
	s.writeHTTPResponse(w, http.StatusOK, result)
}

func (s *Server) handleGraphSearch(w http.ResponseWriter, r *http.Request) {
	startID, depth, ok := s.graphParams(w, r)
	if !ok {
		return
	}

	nodes := s.db.Traverse(startID, depth)

	metrics.SearchesTotal.WithLabelValues("graph").Inc()
	s.writeHTTPResponse(w, http.StatusOK, map[string][]int64{"nodes": nodes})
}

func (s *Server) handleGraphSearchDetailed(w http.ResponseWriter, r *http.Request) {
	startID, depth, ok := s.graphParams(w, r)
	if !ok {
		return
	}

	result := s.db.TraverseWithEdges(startID, depth)

	metrics.SearchesTotal.WithLabelValues("graph").Inc()
	s.writeHTTPResponse(w, http.StatusOK, result)
}

func (s *Server) handleHybridSearch(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.hybridOptions(w, r)
	if !ok {
		return
	}

	results, err := s.db.HybridSearch(r.Context(), opts.queryText, opts.options)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	metrics.SearchesTotal.WithLabelValues("hybrid").Inc()
	s.writeHTTPResponse(w, http.StatusOK, map[string][]search.Scored{"results": results})
}

func (s *Server) handleHybridSearchDetailed(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.hybridOptions(w, r)
	if !ok {
		return
	}

	result, err := s.db.HybridSearchWithEdges(r.Context(), opts.queryText, opts.options)
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	metrics.SearchesTotal.WithLabelValues("hybrid").Inc()
	s.writeHTTPResponse(w, http.StatusOK, result)
}

// --- Ingestion ---

func (s *Server) handleIngestTextFile(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(header.Filename, ".txt") {
		s.writeHTTPError(w, http.StatusBadRequest, "Only .txt files are supported")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	result, err := s.db.IngestText(r.Context(), header.Filename, string(content), "paragraph")
	if err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	metrics.IngestedChunksTotal.Add(float64(result.TotalChunks))
	s.syncStoreGauges()
	s.writeHTTPResponse(w, http.StatusOK, result)
}

// --- Admin ---

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Clear(r.Context()); err != nil {
		s.writeStoreError(w, err, "")
		return
	}

	s.syncStoreGauges()
	s.writeHTTPResponse(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Message: "Database cleared successfully",
	})
}

func (s *Server) handleRefit(w http.ResponseWriter, r *http.Request) {
	if err := s.db.RefitEmbedder(); err != nil {
		if errors.Is(err, embed.ErrEmptyCorpus) {
			s.writeHTTPError(w, http.StatusBadRequest, "cannot refit on an empty database")
			return
		}
		s.writeStoreError(w, err, "")
		return
	}

	stats := s.db.Stats()
	s.writeHTTPResponse(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"vocab_size": stats.VocabSize,
	})
}

// --- Helpers ---

// pathID parses the {id} path segment, answering 400 itself on bad input.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid id in path")
		return 0, false
	}
	return id, true
}

// graphParams parses start_id (required) and depth (default 1) from the
// query string.
func (s *Server) graphParams(w http.ResponseWriter, r *http.Request) (int64, int, bool) {
	q := r.URL.Query()

	startRaw := q.Get("start_id")
	if startRaw == "" {
		s.writeHTTPError(w, http.StatusBadRequest, "query parameter 'start_id' is required")
		return 0, 0, false
	}
	startID, err := strconv.ParseInt(startRaw, 10, 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid 'start_id' parameter")
		return 0, 0, false
	}

	depth := 1
	if depthRaw := q.Get("depth"); depthRaw != "" {
		depth, err = strconv.Atoi(depthRaw)
		if err != nil {
			s.writeHTTPError(w, http.StatusBadRequest, "invalid 'depth' parameter")
			return 0, 0, false
		}
	}

	return startID, depth, true
}

type hybridRequest struct {
	queryText string
	options   search.HybridOptions
}

// hybridOptions decodes a hybrid search body and enforces that start_id
// is present. Node IDs start at 1, so 0 can only mean it was omitted.
func (s *Server) hybridOptions(w http.ResponseWriter, r *http.Request) (hybridRequest, bool) {
	req := defaultHybridSearchRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body")
		return hybridRequest{}, false
	}
	if req.StartID == 0 {
		s.writeHTTPError(w, http.StatusBadRequest, "'start_id' is required")
		return hybridRequest{}, false
	}

	return hybridRequest{
		queryText: req.QueryText,
		options: search.HybridOptions{
			VectorWeight: req.VectorWeight,
			GraphWeight:  req.GraphWeight,
			StartID:      req.StartID,
			MaxDepth:     req.Depth,
			TopK:         req.TopK,
		},
	}, true
}

// syncStoreGauges refreshes the node and edge count gauges after a
// mutation.
func (s *Server) syncStoreGauges() {
	stats := s.db.Stats()
	metrics.SetStoreSize(stats.Nodes, stats.Edges)
}

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, map[string]string{"error": message})
}

// writeStoreError maps store errors onto HTTP status codes. notFoundMsg
// is used for the 404 body when the entity does not exist.
func (s *Server) writeStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		if notFoundMsg == "" {
			notFoundMsg = "not found"
		}
		s.writeHTTPError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, core.ErrClosed):
		s.writeHTTPError(w, http.StatusServiceUnavailable, "database is closed")
	default:
		s.writeHTTPError(w, http.StatusInternalServerError, err.Error())
	}
}
