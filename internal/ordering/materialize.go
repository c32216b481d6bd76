package ordering

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/backlog/internal/board"
)

// ResolvePosition returns item's position.
//
// If item has no position and generate is false, it reports found=false;
// "no position" is a valid state. If generate is true, unpositioned tickets
// are given consecutive positions after the current maximum, in default
// order, up to and including item. Tickets ranked after item stay
// unpositioned until something asks for them.
//
// Repeated calls return the stored value without re-deriving it. A
// *board.NotFoundError is returned if item is not in the candidate set.
func (e *Engine) ResolvePosition(ctx context.Context, item board.Item, generate bool) (board.Position, bool, error) {
	pos, found, err := e.lookup(ctx, item)
	if err != nil || found || !generate {
		return pos, found, err
	}

	cands, err := e.candidates(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("resolve item %d: %w", item, err)
	}

	opID := newOpID()
	err = e.store.WithTx(ctx, func(tx board.Tx) error {
		var err error
		pos, err = e.materialize(ctx, tx, item, cands, opID)
		return err
	})
	if err != nil {
		logConflict("materialize", item, opID, err)
		return 0, false, fmt.Errorf("resolve item %d: %w", item, err)
	}

	return pos, true, nil
}

// materialize returns item's position inside tx, assigning positions to
// unpositioned candidates in default order until item is covered.
func (e *Engine) materialize(ctx context.Context, tx board.Tx, item board.Item, cands []board.Candidate, opID string) (board.Position, error) {
	// Another writer may have positioned it since the caller last looked.
	if pos, found, err := tx.Get(ctx, item); err != nil || found {
		return pos, err
	}

	positioned, err := tx.Positions(ctx)
	if err != nil {
		return 0, err
	}

	start := board.Position(0)
	if maxPos, found, err := tx.MaxPosition(ctx); err != nil {
		return 0, err
	} else if found {
		start = maxPos + 1
	}

	unpositioned := make([]board.Candidate, 0, len(cands))
	for _, c := range cands {
		if _, ok := positioned[c.Item]; !ok {
			unpositioned = append(unpositioned, c)
		}
	}

	var batch []board.Record
	covered := false
	for i, it := range DefaultSequence(e.ranker, unpositioned) {
		batch = append(batch, board.Record{Item: it, Position: start + board.Position(i)})
		if it == item {
			covered = true
			break
		}
	}
	if !covered {
		return 0, &board.NotFoundError{Item: item}
	}

	if err := tx.InsertBatch(ctx, batch); err != nil {
		return 0, err
	}

	target := batch[len(batch)-1].Position
	slog.Debug("materialized positions",
		"item", item,
		"position", target,
		"start", start,
		"count", len(batch),
		"op_id", opID,
	)
	return target, nil
}
