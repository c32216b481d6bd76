// Package board defines the values shared by the backlog ordering engine and
// its storage: items, positions, change records, ranking candidates, and the
// unit-of-work interfaces a backing store implements.
//
// # Invariants
//
//   - A Position is a non-negative integer.
//   - At most one Record exists per Item.
//   - No two Records share a Position (enforced by the store's unique index).
//   - ChangeRecords are append-only and keyed by (Item, Time).
//
// Items are owned by the host's ticket store. The engine never creates,
// deletes, or validates them beyond using them as keys.
package board
