// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [AccountRepository] : Local user persistence with username lookups and stored remote tokens
//   - [MediaRepository] : Imported photo records, deduplicated by remote id via atomic insert-or-fetch
//   - [EventRepository] : Album-derived grouping entities, deduplicated by album id
//   - [CollectionRepository] : Destination collections with idempotent media/event attachment
//   - [QueueRepository] : Durable FIFO task rows for the background queue engine
//   - [PageTokenRepository] : Per-account pagination token cache entries
//
// Sequence numbers provide stable, human-readable ordering (e.g., account #42, media #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
