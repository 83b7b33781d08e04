package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graph.json")

	store := NewStore(NewFileSnapshotStore(path), NopLogger())
	a, err := store.CreateNode(ctx, "alpha", map[string]string{"source": "test"}, []float32{0.1, 0.2})
	if err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}
	b, _ := store.CreateNode(ctx, "beta", nil, []float32{0.3, 0.4})
	edge, err := store.CreateEdge(ctx, a.ID, b.ID, "next", 0.75)
	if err != nil {
		t.Fatalf("Failed to create edge: %v", err)
	}

	// A second store on the same path must see the identical state.
	reopened := NewStore(NewFileSnapshotStore(path), NopLogger())
	if err := reopened.LoadSnapshot(ctx); err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}

	node, err := reopened.GetNode(a.ID)
	if err != nil {
		t.Fatalf("Failed to get restored node: %v", err)
	}
	if node.Text != "alpha" {
		t.Errorf("Expected text 'alpha', got %q", node.Text)
	}
	if node.Metadata["source"] != "test" {
		t.Errorf("Expected metadata to survive restart, got %v", node.Metadata)
	}
	if len(node.Embedding) != 2 || node.Embedding[0] != 0.1 {
		t.Errorf("Expected embedding to survive restart, got %v", node.Embedding)
	}

	restored, err := reopened.GetEdge(edge.ID)
	if err != nil {
		t.Fatalf("Failed to get restored edge: %v", err)
	}
	if restored.Source != a.ID || restored.Target != b.ID || restored.Weight != 0.75 {
		t.Errorf("Expected edge %d->%d weight 0.75, got %+v", a.ID, b.ID, restored)
	}

	// New IDs continue past the restored state.
	next, _ := reopened.CreateNode(ctx, "gamma", nil, nil)
	if next.ID != 3 {
		t.Errorf("Expected next node ID 3 after restore, got %d", next.ID)
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "absent.json")

	store := NewStore(NewFileSnapshotStore(path), NopLogger())
	if err := store.LoadSnapshot(ctx); err != nil {
		t.Fatalf("Expected missing snapshot to load as empty, got %v", err)
	}
	if stats := store.Stats(); stats.Nodes != 0 || stats.Edges != 0 {
		t.Errorf("Expected empty store, got %+v", stats)
	}

	node, _ := store.CreateNode(ctx, "first", nil, nil)
	if node.ID != 1 {
		t.Errorf("Expected first ID 1 on fresh path, got %d", node.ID)
	}
}

func TestLoadSnapshotCorrupt(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json at all"), 0o644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	store := NewStore(NewFileSnapshotStore(path), NopLogger())
	if err := store.LoadSnapshot(ctx); err != nil {
		t.Fatalf("Expected corrupt snapshot to load as empty, got %v", err)
	}
	if stats := store.Stats(); stats.Nodes != 0 {
		t.Errorf("Expected empty store after corrupt load, got %+v", stats)
	}

	// The next write replaces the corrupt file with a valid one.
	if _, err := store.CreateNode(ctx, "recovered", nil, nil); err != nil {
		t.Fatalf("Failed to create node after corrupt load: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read snapshot file: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Errorf("Expected valid snapshot after recovery write: %v", err)
	}
	if len(snap.Nodes) != 1 {
		t.Errorf("Expected 1 node in rewritten snapshot, got %d", len(snap.Nodes))
	}
}

func TestLoadSnapshotHealsCounters(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stale.json")

	// Counters that lag behind the highest stored ID are clamped upward
	// so restored data never collides with new writes.
	snap := Snapshot{
		Nodes: map[string]*Node{
			"7": {ID: 7, Text: "seven"},
		},
		Edges: map[string]*Edge{
			"3": {ID: 3, Source: 7, Target: 7, Type: "self", Weight: 1.0},
		},
		Counters: Counters{NextNodeID: 2, NextEdgeID: 1},
	}
	data, _ := json.Marshal(&snap)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write snapshot: %v", err)
	}

	store := NewStore(NewFileSnapshotStore(path), NopLogger())
	if err := store.LoadSnapshot(ctx); err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}

	node, _ := store.CreateNode(ctx, "eight", nil, nil)
	if node.ID != 8 {
		t.Errorf("Expected node ID 8 after healing, got %d", node.ID)
	}
	edge, _ := store.CreateEdge(ctx, 7, 8, "next", 1.0)
	if edge.ID != 4 {
		t.Errorf("Expected edge ID 4 after healing, got %d", edge.ID)
	}
}

func TestWriteThroughPersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "live.json")
	store := NewStore(NewFileSnapshotStore(path), NopLogger())

	readSnapshot := func() *Snapshot {
		t.Helper()
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read snapshot file: %v", err)
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			t.Fatalf("Failed to decode snapshot file: %v", err)
		}
		return &snap
	}

	node, _ := store.CreateNode(ctx, "persisted", nil, nil)
	if snap := readSnapshot(); len(snap.Nodes) != 1 {
		t.Errorf("Expected 1 node on disk after create, got %d", len(snap.Nodes))
	}

	store.DeleteNode(ctx, node.ID)
	if snap := readSnapshot(); len(snap.Nodes) != 0 {
		t.Errorf("Expected 0 nodes on disk after delete, got %d", len(snap.Nodes))
	}
}

func TestClearRemovesSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cleared.json")
	store := NewStore(NewFileSnapshotStore(path), NopLogger())

	store.CreateNode(ctx, "doomed", nil, nil)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected snapshot file to exist: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear store: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected snapshot file removed by clear, got %v", err)
	}
}

func TestSnapshotCountersRecomputed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "counters.json")
	store := NewStore(NewFileSnapshotStore(path), NopLogger())

	// Create three nodes, delete the highest. The persisted counter is
	// derived from the surviving maximum, while the in-memory counter
	// keeps advancing within the process.
	store.CreateNode(ctx, "one", nil, nil)
	store.CreateNode(ctx, "two", nil, nil)
	three, _ := store.CreateNode(ctx, "three", nil, nil)
	store.DeleteNode(ctx, three.ID)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read snapshot file: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if snap.Counters.NextNodeID != 3 {
		t.Errorf("Expected persisted next node ID 3, got %d", snap.Counters.NextNodeID)
	}

	// Within the same process the deleted ID is not handed out again.
	four, _ := store.CreateNode(ctx, "four", nil, nil)
	if four.ID != 4 {
		t.Errorf("Expected in-memory counter to keep advancing, got %d", four.ID)
	}
}
