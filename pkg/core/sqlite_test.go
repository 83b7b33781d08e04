package core

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

func TestSQLiteSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := fmt.Sprintf("test_snapshot_%d.db", time.Now().UnixNano())
	defer os.Remove(dbPath)

	backend, err := NewSQLiteSnapshotStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create snapshot store: %v", err)
	}

	store := NewStore(backend, NopLogger())
	a, err := store.CreateNode(ctx, "alpha", map[string]string{"lang": "en"}, []float32{0.5, -0.5})
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}
	b, _ := store.CreateNode(ctx, "beta", nil, nil)
	edge, err := store.CreateEdge(ctx, a.ID, b.ID, "related_to", 0.25)
	if err != nil {
		t.Fatalf("Failed to create edge: %v", err)
	}
	if err := store.Close(ctx); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	reopenedBackend, err := NewSQLiteSnapshotStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen snapshot store: %v", err)
	}
	defer reopenedBackend.Close()

	reopened := NewStore(reopenedBackend, NopLogger())
	if err := reopened.LoadSnapshot(ctx); err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}

	node, err := reopened.GetNode(a.ID)
	if err != nil {
		t.Fatalf("Failed to get restored node: %v", err)
	}
	if node.Text != "alpha" || node.Metadata["lang"] != "en" {
		t.Errorf("Expected restored node content, got %+v", node)
	}
	if len(node.Embedding) != 2 || node.Embedding[1] != -0.5 {
		t.Errorf("Expected restored embedding, got %v", node.Embedding)
	}

	// A node stored without an embedding comes back without one.
	bare, err := reopened.GetNode(b.ID)
	if err != nil {
		t.Fatalf("Failed to get restored node: %v", err)
	}
	if len(bare.Embedding) != 0 {
		t.Errorf("Expected empty embedding, got %v", bare.Embedding)
	}

	restored, err := reopened.GetEdge(edge.ID)
	if err != nil {
		t.Fatalf("Failed to get restored edge: %v", err)
	}
	if restored.Type != "related_to" || restored.Weight != 0.25 {
		t.Errorf("Expected restored edge content, got %+v", restored)
	}

	next, _ := reopened.CreateNode(ctx, "gamma", nil, nil)
	if next.ID != 3 {
		t.Errorf("Expected next node ID 3 after restore, got %d", next.ID)
	}
}

func TestSQLiteSnapshotNeverSaved(t *testing.T) {
	ctx := context.Background()
	dbPath := fmt.Sprintf("test_fresh_%d.db", time.Now().UnixNano())
	defer os.Remove(dbPath)

	backend, err := NewSQLiteSnapshotStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create snapshot store: %v", err)
	}
	defer backend.Close()

	snap, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Expected fresh database to load cleanly, got %v", err)
	}
	if snap != nil {
		t.Errorf("Expected nil snapshot from never-saved database, got %+v", snap)
	}
}

func TestSQLiteSnapshotClear(t *testing.T) {
	ctx := context.Background()
	dbPath := fmt.Sprintf("test_clear_%d.db", time.Now().UnixNano())
	defer os.Remove(dbPath)

	backend, err := NewSQLiteSnapshotStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create snapshot store: %v", err)
	}
	defer backend.Close()

	store := NewStore(backend, NopLogger())
	store.CreateNode(ctx, "temp", nil, nil)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear store: %v", err)
	}

	snap, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load after clear: %v", err)
	}
	if snap != nil {
		t.Errorf("Expected no snapshot after clear, got %+v", snap)
	}
}

func TestSQLiteSnapshotOverwrite(t *testing.T) {
	ctx := context.Background()
	dbPath := fmt.Sprintf("test_overwrite_%d.db", time.Now().UnixNano())
	defer os.Remove(dbPath)

	backend, err := NewSQLiteSnapshotStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create snapshot store: %v", err)
	}
	defer backend.Close()

	store := NewStore(backend, NopLogger())
	keep, _ := store.CreateNode(ctx, "keep", nil, nil)
	drop, _ := store.CreateNode(ctx, "drop", nil, nil)
	store.DeleteNode(ctx, drop.ID)

	// Each save replaces the previous contents wholesale.
	snap, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if len(snap.Nodes) != 1 {
		t.Errorf("Expected 1 node after overwrite, got %d", len(snap.Nodes))
	}
	if _, ok := snap.Nodes[fmt.Sprintf("%d", keep.ID)]; !ok {
		t.Errorf("Expected surviving node %d in snapshot", keep.ID)
	}
}
