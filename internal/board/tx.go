package board

import (
	"context"
	"iter"
)

// Tx is a transaction-scoped view of the position store and history log.
// Every method reads or writes current state inside the enclosing transaction.
type Tx interface {
	// Get returns the item's position and whether it has one.
	Get(ctx context.Context, item Item) (Position, bool, error)

	// Set upserts the item's position. It fails with a ConflictError if
	// another item already holds pos.
	Set(ctx context.Context, item Item, pos Position) error

	// Delete removes the item's record. Deleting an absent record is a no-op.
	Delete(ctx context.Context, item Item) error

	// MaxPosition returns the highest occupied position, if any.
	MaxPosition(ctx context.Context) (Position, bool, error)

	// ShiftRange adds delta to every position in [low, high] without
	// creating a transient collision. Use NoUpperBound for an open range.
	ShiftRange(ctx context.Context, low, high Position, delta int) error

	// Positions returns every record, keyed by item.
	Positions(ctx context.Context) (map[Item]Position, error)

	// InsertBatch inserts new records. It fails with a ConflictError if any
	// item or position is already taken.
	InsertBatch(ctx context.Context, records []Record) error

	// AppendChange writes one history record.
	AppendChange(ctx context.Context, rec ChangeRecord) error
}

// TxRunner executes fn inside one atomic transaction. If fn returns an
// error, every write it made is rolled back.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(Tx) error) error
}

// HistoryReader streams the change log for one item, oldest first.
type HistoryReader interface {
	History(ctx context.Context, item Item) iter.Seq2[ChangeRecord, error]
}

// Store is everything the ordering engine needs from durable storage.
type Store interface {
	TxRunner
	HistoryReader
}

// CandidateSource enumerates the host's full candidate item set. It must
// reflect current external state at call time.
type CandidateSource interface {
	ListCandidates(ctx context.Context) ([]Candidate, error)
}
