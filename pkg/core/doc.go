// Package core provides the storage engine for gravec.
//
// It implements an in-memory node/edge store with whole-state snapshot
// persistence. Every successful mutation writes the complete state through
// to a pluggable snapshot backend, and startup restores from whatever the
// backend holds.
//
// # Key Components
//
//   - Store: The main entry point for data operations, holding nodes, edges and the ID counters behind a single RW lock.
//   - SnapshotStore Interface: Defines save/load/clear for whole-state snapshots.
//   - FileSnapshotStore: Default backend, one pretty-printed JSON file.
//   - SQLiteSnapshotStore: Alternative backend keeping the snapshot in a SQLite database.
//   - View: A consistent copy of the store handed to search and traversal so concurrent writes never tear their results.
//
// # Durability model
//
// Snapshots are best-effort: a failed save is logged and the in-memory
// mutation stands. A missing or corrupt snapshot at startup is discarded
// and the store comes up empty. Nothing on the persistence path is fatal.
//
// # Observability
//
// The engine logs through the pluggable structured Logger interface.
package core
