package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/liliang-cn/gravec/internal/encoding"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteSnapshotStore persists snapshots in a SQLite database. Each save
// replaces the previous state in a single transaction, so the on-disk
// database always holds exactly one consistent snapshot.
type SQLiteSnapshotStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteSnapshotStore opens (or creates) the snapshot database at path.
func NewSQLiteSnapshotStore(path string) (*SQLiteSnapshotStore, error) {
	if path == "" {
		return nil, wrapError("snapshot_init", fmt.Errorf("database path cannot be empty"))
	}

	// _journal_mode=WAL: Better concurrency
	// _synchronous=NORMAL: Good balance of safety and speed
	// _busy_timeout=5000: Wait up to 5s for lock instead of failing immediately
	// _cache_size=-2000: Use 2MB of memory for cache (negative value = kb)
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_cache_size=-2000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wrapError("snapshot_init", fmt.Errorf("failed to open database: %w", err))
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(2 * time.Hour)

	s := &SQLiteSnapshotStore{db: db, path: path}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, wrapError("snapshot_init", err)
	}
	return s, nil
}

func (s *SQLiteSnapshotStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		id INTEGER PRIMARY KEY,
		text TEXT NOT NULL,
		metadata TEXT,
		embedding BLOB
	);

	CREATE TABLE IF NOT EXISTS edges (
		id INTEGER PRIMARY KEY,
		source INTEGER NOT NULL,
		target INTEGER NOT NULL,
		type TEXT,
		weight REAL NOT NULL DEFAULT 1.0
	);

	CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
	CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);

	CREATE TABLE IF NOT EXISTS counters (
		name TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Save replaces the persisted state with the given snapshot in one
// transaction.
func (s *SQLiteSnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapError("save_snapshot", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"nodes", "edges", "counters"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return wrapError("save_snapshot", err)
		}
	}

	for _, node := range snap.Nodes {
		metadataJSON, err := encoding.EncodeMetadata(node.Metadata)
		if err != nil {
			return wrapError("save_snapshot", err)
		}
		var embeddingBlob []byte
		if len(node.Embedding) > 0 {
			embeddingBlob, err = encoding.EncodeVector(node.Embedding)
			if err != nil {
				return wrapError("save_snapshot", err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (id, text, metadata, embedding) VALUES (?, ?, ?, ?)`,
			node.ID, node.Text, metadataJSON, embeddingBlob,
		); err != nil {
			return wrapError("save_snapshot", err)
		}
	}

	for _, edge := range snap.Edges {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO edges (id, source, target, type, weight) VALUES (?, ?, ?, ?, ?)`,
			edge.ID, edge.Source, edge.Target, edge.Type, edge.Weight,
		); err != nil {
			return wrapError("save_snapshot", err)
		}
	}

	for name, value := range map[string]int64{
		"next_node_id": snap.Counters.NextNodeID,
		"next_edge_id": snap.Counters.NextEdgeID,
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO counters (name, value) VALUES (?, ?)`,
			name, value,
		); err != nil {
			return wrapError("save_snapshot", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapError("save_snapshot", err)
	}
	return nil
}

// Load reads the persisted snapshot. A database that has never been saved
// to reports no snapshot.
func (s *SQLiteSnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	counters, err := s.loadCounters(ctx)
	if err != nil {
		return nil, err
	}
	if counters == nil {
		return nil, nil
	}

	snap := &Snapshot{
		Nodes:    make(map[string]*Node),
		Edges:    make(map[string]*Edge),
		Counters: *counters,
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, text, metadata, embedding FROM nodes`)
	if err != nil {
		return nil, wrapError("load_snapshot", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var node Node
		var metadataJSON sql.NullString
		var embeddingBlob []byte
		if err := rows.Scan(&node.ID, &node.Text, &metadataJSON, &embeddingBlob); err != nil {
			return nil, wrapError("load_snapshot", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
		}
		if metadataJSON.Valid {
			node.Metadata, err = encoding.DecodeMetadata(metadataJSON.String)
			if err != nil {
				return nil, wrapError("load_snapshot", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
			}
		}
		if len(embeddingBlob) > 0 {
			node.Embedding, err = encoding.DecodeVector(embeddingBlob)
			if err != nil {
				return nil, wrapError("load_snapshot", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
			}
		}
		snap.Nodes[fmt.Sprintf("%d", node.ID)] = &node
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("load_snapshot", err)
	}

	edgeRows, err := s.db.QueryContext(ctx, `SELECT id, source, target, type, weight FROM edges`)
	if err != nil {
		return nil, wrapError("load_snapshot", err)
	}
	defer func() { _ = edgeRows.Close() }()

	for edgeRows.Next() {
		var edge Edge
		var edgeType sql.NullString
		if err := edgeRows.Scan(&edge.ID, &edge.Source, &edge.Target, &edgeType, &edge.Weight); err != nil {
			return nil, wrapError("load_snapshot", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
		}
		edge.Type = edgeType.String
		snap.Edges[fmt.Sprintf("%d", edge.ID)] = &edge
	}
	if err := edgeRows.Err(); err != nil {
		return nil, wrapError("load_snapshot", err)
	}

	return snap, nil
}

func (s *SQLiteSnapshotStore) loadCounters(ctx context.Context) (*Counters, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM counters`)
	if err != nil {
		return nil, wrapError("load_snapshot", err)
	}
	defer func() { _ = rows.Close() }()

	var counters Counters
	found := false
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, wrapError("load_snapshot", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
		}
		found = true
		switch name {
		case "next_node_id":
			counters.NextNodeID = value
		case "next_edge_id":
			counters.NextEdgeID = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("load_snapshot", err)
	}
	if !found {
		return nil, nil
	}
	return &counters, nil
}

// Clear drops all persisted state, returning the database to the
// never-saved condition.
func (s *SQLiteSnapshotStore) Clear(ctx context.Context) error {
	for _, table := range []string{"nodes", "edges", "counters"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return wrapError("clear_snapshot", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteSnapshotStore) Close() error {
	return s.db.Close()
}
