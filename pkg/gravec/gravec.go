// Package gravec provides an embedded hybrid vector and graph store for
// Go projects: text nodes with embeddings, typed weighted edges, and
// search that blends cosine similarity with graph proximity.
package gravec

import (
	"context"
	"fmt"

	"github.com/liliang-cn/gravec/pkg/core"
	"github.com/liliang-cn/gravec/pkg/embed"
	"github.com/liliang-cn/gravec/pkg/ingest"
	"github.com/liliang-cn/gravec/pkg/search"
)

// Backend selects how snapshots are persisted.
type Backend string

const (
	// BackendJSON stores the full snapshot as one indented JSON file.
	BackendJSON Backend = "json"
	// BackendSQLite stores the snapshot in a SQLite database.
	BackendSQLite Backend = "sqlite"
)

// Config represents database configuration.
type Config struct {
	Path         string                // Snapshot file path ("" for memory-only)
	Dimensions   int                   // Vector dimensions (0 for default)
	Backend      Backend               // Snapshot backend (default: JSON file)
	SimilarityFn search.SimilarityFunc // Similarity function (default: cosine)
}

// DefaultConfig returns the default configuration for a snapshot path.
func DefaultConfig(path string) Config {
	return Config{
		Path:         path,
		Dimensions:   embed.DefaultDim,
		Backend:      BackendJSON,
		SimilarityFn: search.CosineSimilarity,
	}
}

// DB is a gravec database instance. All mutations are serialized through
// the underlying store and persisted write-through; reads observe
// consistent snapshots.
type DB struct {
	config    Config
	logger    core.Logger
	snapshots core.SnapshotStore
	store     *core.Store
	generator *embed.Generator
	embedder  embed.Embedder
	engine    *search.Engine
	ingestor  *ingest.Ingestor
}

// Option is a functional option for configuring the DB.
type Option func(*DB)

// WithLogger routes the database's log output through the given logger.
// The default logs warnings and errors to stderr.
func WithLogger(logger core.Logger) Option {
	return func(db *DB) {
		db.logger = logger
	}
}

// WithEmbedder replaces the built-in corpus-fitted embedder. RefitEmbedder
// becomes a no-op when a custom embedder is installed.
func WithEmbedder(embedder embed.Embedder) Option {
	return func(db *DB) {
		db.embedder = embedder
	}
}

// WithSnapshotStore replaces the backend the Config would have selected,
// for callers that persist snapshots somewhere custom.
func WithSnapshotStore(snapshots core.SnapshotStore) Option {
	return func(db *DB) {
		db.snapshots = snapshots
	}
}

// Open opens or creates a database. A snapshot already present at the
// configured path is restored; an unreadable or corrupt snapshot is
// logged and the database starts empty rather than failing.
func Open(config Config, opts ...Option) (*DB, error) {
	if config.Dimensions <= 0 {
		config.Dimensions = embed.DefaultDim
	}
	if config.Backend == "" {
		config.Backend = BackendJSON
	}
	if config.SimilarityFn == nil {
		config.SimilarityFn = search.CosineSimilarity
	}

	db := &DB{config: config}
	for _, opt := range opts {
		opt(db)
	}
	if db.logger == nil {
		db.logger = core.NewStdLogger(core.LevelWarn)
	}

	if db.snapshots == nil {
		snapshots, err := openSnapshotStore(config)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
		db.snapshots = snapshots
	}

	db.store = core.NewStore(db.snapshots, db.logger)

	if db.embedder == nil {
		db.generator = embed.NewGenerator(config.Dimensions, db.store.Texts, db.logger)
		db.embedder = db.generator
	}
	db.engine = search.NewEngine(db.embedder, config.SimilarityFn, db.logger)
	db.ingestor = ingest.NewIngestor(db.store, db.embedder, db.logger)

	if err := db.store.LoadSnapshot(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	return db, nil
}

func openSnapshotStore(config Config) (core.SnapshotStore, error) {
	if config.Path == "" {
		return nil, nil
	}
	switch config.Backend {
	case BackendSQLite:
		return core.NewSQLiteSnapshotStore(config.Path)
	case BackendJSON:
		return core.NewFileSnapshotStore(config.Path), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", core.ErrInvalidConfig, config.Backend)
	}
}

// Close saves a final snapshot and releases the backend. Reads continue
// to work on the frozen in-memory state; further mutations fail.
func (db *DB) Close() error {
	return db.store.Close(context.Background())
}

// Clear removes every node and edge, resets the ID counters, and deletes
// the persisted snapshot.
func (db *DB) Clear(ctx context.Context) error {
	return db.store.Clear(ctx)
}

// RefitEmbedder rebuilds the embedding vocabulary from the text of every
// stored node. Existing node embeddings are not recomputed; re-add or
// update nodes whose vectors should pick up the new fit. With a custom
// embedder installed this is a no-op.
func (db *DB) RefitEmbedder() error {
	if db.generator == nil {
		return nil
	}
	return db.generator.Refit()
}

// Stats describes the current database state.
type Stats struct {
	Nodes          int    `json:"nodes"`
	Edges          int    `json:"edges"`
	NextNodeID     int64  `json:"next_node_id"`
	NextEdgeID     int64  `json:"next_edge_id"`
	Dimensions     int    `json:"dimensions"`
	EmbedderFitted bool   `json:"embedder_fitted"`
	VocabSize      int    `json:"vocab_size"`
	Backend        string `json:"backend"`
	Path           string `json:"path,omitempty"`
}

// Stats returns counts and embedder state.
func (db *DB) Stats() Stats {
	stats := db.store.Stats()
	out := Stats{
		Nodes:      stats.Nodes,
		Edges:      stats.Edges,
		NextNodeID: stats.NextNodeID,
		NextEdgeID: stats.NextEdgeID,
		Dimensions: db.config.Dimensions,
		Backend:    string(db.config.Backend),
		Path:       db.config.Path,
	}
	if db.generator != nil {
		out.EmbedderFitted = db.generator.Fitted()
		out.VocabSize = db.generator.VocabSize()
	}
	return out
}

// Store exposes the underlying node and edge store.
func (db *DB) Store() *core.Store {
	return db.store
}
