package testutil

import (
	"context"
	"errors"
	"iter"

	"github.com/roach88/backlog/internal/board"
)

// ErrInjected is the error returned by a FaultyStore at its fault point.
var ErrInjected = errors.New("injected store failure")

// FaultPoint names the Tx method a FaultyStore fails on.
type FaultPoint string

const (
	FailShiftRange   FaultPoint = "shift_range"
	FailInsertBatch  FaultPoint = "insert_batch"
	FailAppendChange FaultPoint = "append_change"
	FailDelete       FaultPoint = "delete"
)

// FaultyStore wraps a board.Store and fails the first call to the chosen Tx
// method after performing it, so the transaction holds a partial write when
// the error surfaces. Later calls pass through.
//
// Not safe for concurrent use.
type FaultyStore struct {
	inner board.Store
	point FaultPoint
	fired bool
}

// NewFaultyStore injects a failure at point into inner.
func NewFaultyStore(inner board.Store, point FaultPoint) *FaultyStore {
	return &FaultyStore{inner: inner, point: point}
}

// Fired reports whether the fault has been injected.
func (s *FaultyStore) Fired() bool {
	return s.fired
}

func (s *FaultyStore) WithTx(ctx context.Context, fn func(board.Tx) error) error {
	return s.inner.WithTx(ctx, func(tx board.Tx) error {
		return fn(&faultyTx{Tx: tx, store: s})
	})
}

func (s *FaultyStore) History(ctx context.Context, item board.Item) iter.Seq2[board.ChangeRecord, error] {
	return s.inner.History(ctx, item)
}

// trip reports whether point should fail now, and arms it only once.
func (s *FaultyStore) trip(point FaultPoint) bool {
	if s.fired || s.point != point {
		return false
	}
	s.fired = true
	return true
}

type faultyTx struct {
	board.Tx
	store *FaultyStore
}

func (t *faultyTx) ShiftRange(ctx context.Context, low, high board.Position, delta int) error {
	if err := t.Tx.ShiftRange(ctx, low, high, delta); err != nil {
		return err
	}
	if t.store.trip(FailShiftRange) {
		return ErrInjected
	}
	return nil
}

func (t *faultyTx) InsertBatch(ctx context.Context, records []board.Record) error {
	if err := t.Tx.InsertBatch(ctx, records); err != nil {
		return err
	}
	if t.store.trip(FailInsertBatch) {
		return ErrInjected
	}
	return nil
}

func (t *faultyTx) AppendChange(ctx context.Context, rec board.ChangeRecord) error {
	if err := t.Tx.AppendChange(ctx, rec); err != nil {
		return err
	}
	if t.store.trip(FailAppendChange) {
		return ErrInjected
	}
	return nil
}

func (t *faultyTx) Delete(ctx context.Context, item board.Item) error {
	if err := t.Tx.Delete(ctx, item); err != nil {
		return err
	}
	if t.store.trip(FailDelete) {
		return ErrInjected
	}
	return nil
}
