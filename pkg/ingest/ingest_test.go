package ingest

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/liliang-cn/gravec/pkg/core"
	"github.com/liliang-cn/gravec/pkg/embed"
)

func TestSplitTextParagraph(t *testing.T) {
	chunks := SplitText("para1\n\npara2\n\n", MethodParagraph)
	if len(chunks) != 2 || chunks[0] != "para1" || chunks[1] != "para2" {
		t.Errorf("Expected [para1 para2], got %v", chunks)
	}

	if chunks := SplitText("", MethodParagraph); len(chunks) != 0 {
		t.Errorf("Expected no chunks for empty input, got %v", chunks)
	}
	if chunks := SplitText("   \n\n  \n ", MethodParagraph); len(chunks) != 0 {
		t.Errorf("Expected no chunks for blank input, got %v", chunks)
	}

	// Runs of blank lines produce no empty chunks.
	chunks = SplitText("a\n\n\n\nb", MethodParagraph)
	if len(chunks) != 2 || chunks[0] != "a" || chunks[1] != "b" {
		t.Errorf("Expected [a b], got %v", chunks)
	}
}

func TestSplitTextLines(t *testing.T) {
	var lines []string
	for i := 0; i < 25; i++ {
		lines = append(lines, "line")
	}
	chunks := SplitText(strings.Join(lines, "\n"), MethodLines)
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks from 25 lines, got %d", len(chunks))
	}
	if strings.Count(chunks[0], "\n") != 9 {
		t.Errorf("Expected 10 lines in the first chunk, got %q", chunks[0])
	}
	if strings.Count(chunks[2], "\n") != 4 {
		t.Errorf("Expected 5 lines in the last chunk, got %q", chunks[2])
	}
}

func TestSplitTextFallback(t *testing.T) {
	// A single paragraph with no blank lines still comes through whole.
	chunks := SplitText("one block of text", MethodParagraph)
	if len(chunks) != 1 || chunks[0] != "one block of text" {
		t.Errorf("Expected whole-text fallback, got %v", chunks)
	}

	// Unknown methods fall back the same way instead of dropping input.
	chunks = SplitText("  surviving text  ", "unknown_method")
	if len(chunks) != 1 || chunks[0] != "surviving text" {
		t.Errorf("Expected trimmed whole-text fallback, got %v", chunks)
	}
	if chunks := SplitText("   ", "unknown_method"); len(chunks) != 0 {
		t.Errorf("Expected no chunks for blank input, got %v", chunks)
	}
}

func TestIngestText(t *testing.T) {
	ctx := context.Background()
	store := core.NewStore(nil, nil)
	ingestor := NewIngestor(store, embed.NewSeeded(16), nil)

	result, err := ingestor.IngestText(ctx, "notes.txt", "first chunk\n\nsecond chunk\n\nthird chunk", MethodParagraph)
	if err != nil {
		t.Fatalf("Failed to ingest: %v", err)
	}

	if result.FileName != "notes.txt" {
		t.Errorf("Expected file name notes.txt, got %q", result.FileName)
	}
	if result.TotalChunks != 3 || len(result.NodeIDs) != 3 {
		t.Fatalf("Expected 3 chunks, got %+v", result)
	}
	if result.EdgeCount != 2 {
		t.Errorf("Expected 2 chain edges, got %d", result.EdgeCount)
	}

	// Each chunk became a node with ordering metadata and an embedding.
	for idx, id := range result.NodeIDs {
		node, err := store.GetNode(id)
		if err != nil {
			t.Fatalf("Failed to get chunk node: %v", err)
		}
		if node.Metadata["file_name"] != "notes.txt" {
			t.Errorf("Expected file_name metadata, got %v", node.Metadata)
		}
		if node.Metadata["chunk_index"] != strconv.Itoa(idx) {
			t.Errorf("Expected chunk_index %d, got %q", idx, node.Metadata["chunk_index"])
		}
		if node.Metadata["source"] != "file_upload" {
			t.Errorf("Expected source file_upload, got %v", node.Metadata)
		}
		if len(node.Embedding) != 16 {
			t.Errorf("Expected 16-dimensional embedding, got %d", len(node.Embedding))
		}
	}

	// The chain runs first -> second -> third in creation order.
	edges := store.ListEdges()
	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges, got %d", len(edges))
	}
	for _, edge := range edges {
		if edge.Type != "next" || edge.Weight != 1.0 {
			t.Errorf("Expected next edge with weight 1.0, got %+v", edge)
		}
	}
	first := result.NodeIDs[0]
	second := result.NodeIDs[1]
	found := false
	for _, edge := range edges {
		if edge.Source == first && edge.Target == second {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected chain edge %d->%d", first, second)
	}
}

func TestIngestTextSingleChunk(t *testing.T) {
	ctx := context.Background()
	store := core.NewStore(nil, nil)
	ingestor := NewIngestor(store, embed.NewSeeded(8), nil)

	result, err := ingestor.IngestText(ctx, "one.txt", "just one paragraph", MethodParagraph)
	if err != nil {
		t.Fatalf("Failed to ingest: %v", err)
	}
	if result.TotalChunks != 1 || result.EdgeCount != 0 {
		t.Errorf("Expected single chunk without edges, got %+v", result)
	}
}

func TestIngestTextBlank(t *testing.T) {
	ctx := context.Background()
	store := core.NewStore(nil, nil)
	ingestor := NewIngestor(store, embed.NewSeeded(8), nil)

	result, err := ingestor.IngestText(ctx, "empty.txt", "   ", MethodParagraph)
	if err != nil {
		t.Fatalf("Expected blank input to succeed, got %v", err)
	}
	if result.TotalChunks != 0 || len(result.NodeIDs) != 0 || result.EdgeCount != 0 {
		t.Errorf("Expected empty result for blank input, got %+v", result)
	}
	if stats := store.Stats(); stats.Nodes != 0 {
		t.Errorf("Expected no nodes created, got %d", stats.Nodes)
	}
}
