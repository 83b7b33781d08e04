// Package ingest turns text files into chains of linked nodes: one node
// per chunk, each chunk embedded, consecutive chunks joined by "next"
// edges.
package ingest

import (
	"context"
	"strconv"

	"github.com/liliang-cn/gravec/pkg/core"
	"github.com/liliang-cn/gravec/pkg/embed"
)

// Result summarizes one ingested file.
type Result struct {
	FileName    string  `json:"file_name"`
	TotalChunks int     `json:"total_chunks"`
	NodeIDs     []int64 `json:"node_ids"`
	EdgeCount   int     `json:"edge_count"`
}

// Ingestor writes chunked files into a store.
type Ingestor struct {
	store    *core.Store
	embedder embed.Embedder
	logger   core.Logger
}

// NewIngestor creates an ingestor. A nil logger discards output.
func NewIngestor(store *core.Store, embedder embed.Embedder, logger core.Logger) *Ingestor {
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Ingestor{store: store, embedder: embedder, logger: logger}
}

// IngestText splits content with the given method, creates one node per
// chunk tagged with the file name and chunk position, and chains the
// chunks together in order with "next" edges. Blank content yields an
// empty result rather than an error.
func (ing *Ingestor) IngestText(ctx context.Context, filename, content, method string) (*Result, error) {
	chunks := SplitText(content, method)

	nodeIDs := make([]int64, 0, len(chunks))
	for idx, chunk := range chunks {
		embedding, err := ing.embedder.Embed(ctx, chunk)
		if err != nil {
			return nil, err
		}
		node, err := ing.store.CreateNode(ctx, chunk, map[string]string{
			"file_name":   filename,
			"chunk_index": strconv.Itoa(idx),
			"source":      "file_upload",
		}, embedding)
		if err != nil {
			return nil, err
		}
		nodeIDs = append(nodeIDs, node.ID)
	}

	edgeCount := 0
	for i := 0; i+1 < len(nodeIDs); i++ {
		if _, err := ing.store.CreateEdge(ctx, nodeIDs[i], nodeIDs[i+1], "next", 1.0); err != nil {
			return nil, err
		}
		edgeCount++
	}

	ing.logger.Info("ingested file", "file_name", filename, "chunks", len(chunks), "edges", edgeCount)
	return &Result{
		FileName:    filename,
		TotalChunks: len(chunks),
		NodeIDs:     nodeIDs,
		EdgeCount:   edgeCount,
	}, nil
}
