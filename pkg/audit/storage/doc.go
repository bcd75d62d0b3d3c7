// Package storage provides audit record storage backends.
//
// Two implementations are available:
//
//   - MemoryStorage: in-memory slice guarded by a RWMutex. Used for unit
//     tests and ephemeral deployments. Records are lost on restart.
//   - SQLiteStorage: durable storage on SQLite with WAL mode and a busy
//     timeout, suitable for the single-node deployments this service
//     targets.
//
// Both backends preserve append order and satisfy audit.Storage. Readers
// never observe a partially written record: memory appends swap a fully
// built record under the write lock, and SQLite inserts are transactional.
package storage
