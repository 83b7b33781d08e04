package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// SnapshotStore persists and restores whole-store snapshots. Save always
// replaces the previous snapshot completely; there is no incremental path.
type SnapshotStore interface {
	// Save writes the full snapshot, overwriting any previous one.
	Save(ctx context.Context, snap *Snapshot) error
	// Load returns the persisted snapshot, or (nil, nil) when none exists.
	// A snapshot that exists but cannot be decoded yields an error wrapping
	// ErrCorruptSnapshot.
	Load(ctx context.Context) (*Snapshot, error)
	// Clear removes the persisted snapshot, if any.
	Clear(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// SaveSnapshot serializes the entire store state through the snapshot
// backend, overwriting whatever was persisted before.
func (s *Store) SaveSnapshot(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return wrapError("save_snapshot", ErrClosed)
	}
	if s.snapshots == nil {
		return nil
	}
	return s.snapshots.Save(ctx, s.snapshotLocked())
}

// LoadSnapshot replaces the in-memory state with the persisted snapshot.
// A missing snapshot leaves the store empty; an unreadable or corrupt one
// is logged and discarded. Neither case is an error: the store always
// comes up.
func (s *Store) LoadSnapshot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("load_snapshot", ErrClosed)
	}
	if s.snapshots == nil {
		return nil
	}

	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		s.logger.Warn("snapshot unreadable, starting empty", "error", err)
		s.resetLocked()
		return nil
	}
	if snap == nil {
		return nil
	}
	if err := s.restoreLocked(snap); err != nil {
		s.logger.Warn("snapshot corrupt, starting empty", "error", err)
		s.resetLocked()
		return nil
	}

	s.logger.Info("snapshot loaded", "nodes", len(s.nodes), "edges", len(s.edges))
	return nil
}

// snapshotLocked builds a Snapshot from the current state. The persisted
// counters are recomputed as max(ID)+1 so a snapshot with drifted counter
// values heals itself on the next save. Must be called with the lock held.
func (s *Store) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Nodes: make(map[string]*Node, len(s.nodes)),
		Edges: make(map[string]*Edge, len(s.edges)),
		Counters: Counters{
			NextNodeID: 1,
			NextEdgeID: 1,
		},
	}
	for id, node := range s.nodes {
		snap.Nodes[strconv.FormatInt(id, 10)] = node.Clone()
		if id >= snap.Counters.NextNodeID {
			snap.Counters.NextNodeID = id + 1
		}
	}
	for id, edge := range s.edges {
		snap.Edges[strconv.FormatInt(id, 10)] = edge.Clone()
		if id >= snap.Counters.NextEdgeID {
			snap.Counters.NextEdgeID = id + 1
		}
	}
	return snap
}

// restoreLocked replaces the in-memory state with the snapshot contents.
// Counters are clamped so they can never hand out an ID that is already
// taken, even if the snapshot's counter values are stale.
func (s *Store) restoreLocked(snap *Snapshot) error {
	nodes := make(map[int64]*Node, len(snap.Nodes))
	for key, node := range snap.Nodes {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || node == nil {
			return fmt.Errorf("%w: bad node key %q", ErrCorruptSnapshot, key)
		}
		nodes[id] = node.Clone()
	}

	edges := make(map[int64]*Edge, len(snap.Edges))
	for key, edge := range snap.Edges {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || edge == nil {
			return fmt.Errorf("%w: bad edge key %q", ErrCorruptSnapshot, key)
		}
		edges[id] = edge.Clone()
	}

	s.nodes = nodes
	s.edges = edges
	s.nextNodeID = nextID(snap.Counters.NextNodeID, nodes)
	s.nextEdgeID = nextEdgeID(snap.Counters.NextEdgeID, edges)
	return nil
}

func (s *Store) resetLocked() {
	s.nodes = make(map[int64]*Node)
	s.edges = make(map[int64]*Edge)
	s.nextNodeID = 1
	s.nextEdgeID = 1
}

func nextID(persisted int64, nodes map[int64]*Node) int64 {
	next := persisted
	if next < 1 {
		next = 1
	}
	for id := range nodes {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

func nextEdgeID(persisted int64, edges map[int64]*Edge) int64 {
	next := persisted
	if next < 1 {
		next = 1
	}
	for id := range edges {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// FileSnapshotStore persists snapshots as a single pretty-printed JSON
// file. This is the default backend: the file mirrors the snapshot schema
// directly and can be inspected or edited by hand.
type FileSnapshotStore struct {
	path string
}

// NewFileSnapshotStore creates a file-backed snapshot store at path. The
// parent directory is created on first save.
func NewFileSnapshotStore(path string) *FileSnapshotStore {
	return &FileSnapshotStore{path: path}
}

// Path returns the snapshot file location.
func (f *FileSnapshotStore) Path() string {
	return f.path
}

// Save writes the snapshot, replacing any previous file.
func (f *FileSnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return wrapError("save_snapshot", fmt.Errorf("failed to create data dir: %w", err))
	}

	file, err := os.Create(f.path)
	if err != nil {
		return wrapError("save_snapshot", fmt.Errorf("failed to create file: %w", err))
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		_ = file.Close()
		// Remove the partial file so the next load does not see garbage.
		_ = os.Remove(f.path)
		return wrapError("save_snapshot", fmt.Errorf("failed to encode snapshot: %w", err))
	}

	return file.Close()
}

// Load reads the snapshot file. A missing file is not an error.
func (f *FileSnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError("load_snapshot", err)
	}
	defer func() { _ = file.Close() }()

	var snap Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return nil, wrapError("load_snapshot", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
	}
	return &snap, nil
}

// Clear deletes the snapshot file, if present.
func (f *FileSnapshotStore) Clear(ctx context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return wrapError("clear_snapshot", err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (f *FileSnapshotStore) Close() error {
	return nil
}
