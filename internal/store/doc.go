// Package store provides SQLite-backed durable storage for backlog positions.
//
// The store owns two tables:
//   - positions: item -> position, with a UNIQUE index on position
//   - position_history: append-only reorder log keyed by (item, time)
//
// # Critical Patterns
//
// Uniqueness lives in the schema:
//   - UNIQUE(position) is the only guard against two items sharing a slot
//   - Constraint violations surface as *board.ConflictError
//
// Set-based range shifts:
//   - SQLite checks UNIQUE per row during UPDATE, so ShiftRange first maps the
//     range onto disjoint negative values and then flips them back
//   - No stored position is ever negative outside that window
//
// All mutation goes through WithTx:
//   - Write transactions start with BEGIN IMMEDIATE (_txlock=immediate)
//   - Any error from the callback rolls back every write it made
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Timestamps are stored as Unix microseconds.
package store
