package ordering

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/backlog/internal/board"
)

// Place moves item directly before or after relative.
//
// relative is materialized if it has no position yet; that materialization
// and the move commit together. Placing an item relative to itself is a
// no-op.
func (e *Engine) Place(ctx context.Context, item, relative board.Item, dir board.Direction, actor string, when time.Time) error {
	if item == relative {
		return nil
	}

	// Only scan the host's tickets when relative still needs a position.
	var cands []board.Candidate
	if _, found, err := e.lookup(ctx, relative); err != nil {
		return fmt.Errorf("place item %d: %w", item, err)
	} else if !found {
		if cands, err = e.candidates(ctx); err != nil {
			return fmt.Errorf("place item %d: %w", item, err)
		}
	}

	opID := newOpID()
	var (
		change board.ChangeRecord
		moved  bool
	)
	err := e.store.WithTx(ctx, func(tx board.Tx) error {
		target, found, err := tx.Get(ctx, relative)
		if err != nil {
			return err
		}
		if !found {
			if target, err = e.materialize(ctx, tx, relative, cands, opID); err != nil {
				return err
			}
		}
		if dir == board.After {
			target++
		}

		change, moved, err = e.move(ctx, tx, item, target, actor, when)
		return err
	})
	if err != nil {
		logConflict("place", item, opID, err)
		return fmt.Errorf("place item %d %s %d: %w", item, dir, relative, err)
	}

	logMove(item, change, moved, opID)
	return nil
}
