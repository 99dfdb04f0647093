// Package store provides the relational store behind the meeting scheduler.
//
// Three implementations share the Store and Tx interfaces:
//   - SQLite (github.com/mattn/go-sqlite3), the default on-disk store
//   - PostgreSQL (github.com/lib/pq), sharing the SQLite query set with
//     positional placeholders rebound to $N
//   - Memory, a copy-on-write in-process store used by unit tests
//
// # Transactions
//
// All access goes through RunInTx. The callback receives a Tx scoped to a
// single transaction; returning nil commits, returning an error (or
// panicking) rolls every write back. Callers never see a shared connection.
//
// # Time columns
//
// Meeting times are naive wall-clock values. They are stored as INTEGER
// milliseconds of the wall clock read as UTC, so range predicates compare
// plain integers on every backend.
//
// # Database Configuration (SQLite)
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Fail fast after 5 seconds of lock contention
//   - foreign_keys=ON: Participations must reference existing rows
package store
