// Package store provides durable, shared WID counters.
//
// Each counter is a wid_state row (k, last_tick, last_seq). Independent
// processes draw from the same row through an Allocator, which never takes
// a lock: it reads the row, runs the WID transition in memory and writes
// the result back only if the row still holds what it read.
//
// # Allocation Protocol
//
//  1. INSERT ... ON CONFLICT DO NOTHING with (0, -1). Safe to race.
//  2. SELECT last_tick, last_seq.
//  3. wid.Generator seeded with the row produces the candidate id and state.
//  4. UPDATE ... WHERE k=? AND last_tick=? AND last_seq=?.
//  5. Zero rows affected means another writer won; go back to 2.
//  6. After the retry budget, fail with *ContentionError.
//
// Busy/locked (SQLite) and serialization/deadlock (Postgres) errors are
// retried inside the same budget. Any other storage error is returned
// immediately.
//
// # Database Configuration
//
// SQLite is the default backend:
//   - WAL mode: concurrent readers while one process writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// OpenPostgres serves the same table from PostgreSQL via pgx.
package store
