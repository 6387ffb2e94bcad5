// Package repositories implements SQLite persistence for the development remote task store.
//
// Key Implementations:
//   - [TaskRepository] : task rows returned in insertion order, hard deletes
//
// Sequence numbers provide stable insertion ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
