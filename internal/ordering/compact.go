package ordering

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/backlog/internal/board"
)

// Compact renumbers every positioned item to 0..n-1, keeping their relative
// order, and records a change for each item whose position moved. It
// returns the number of items renumbered.
//
// Gaps only appear when callers move items past the last position; the
// engine never compacts on its own.
func (e *Engine) Compact(ctx context.Context, actor string, when time.Time) (int, error) {
	opID := newOpID()
	renumbered := 0
	err := e.store.WithTx(ctx, func(tx board.Tx) error {
		records, err := sortedRecords(ctx, tx)
		if err != nil {
			return err
		}

		// Ascending order only ever moves an item down into a slot that
		// is already free, so Set never collides.
		for i, rec := range records {
			newPos := board.Position(i)
			if rec.Position == newPos {
				continue
			}
			if err := tx.Set(ctx, rec.Item, newPos); err != nil {
				return err
			}
			if err := tx.AppendChange(ctx, board.ChangeRecord{
				Item:        rec.Item,
				Time:        when,
				Actor:       actor,
				OldPosition: board.PositionPtr(rec.Position),
				NewPosition: newPos,
			}); err != nil {
				return err
			}
			renumbered++
		}
		return nil
	})
	if err != nil {
		logConflict("compact", 0, opID, err)
		return 0, fmt.Errorf("compact: %w", err)
	}

	slog.Info("positions compacted", "renumbered", renumbered, "actor", actor, "op_id", opID)
	return renumbered, nil
}

// sortedRecords returns every record ordered by position.
func sortedRecords(ctx context.Context, tx board.Tx) ([]board.Record, error) {
	positions, err := tx.Positions(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]board.Record, 0, len(positions))
	for item, pos := range positions {
		records = append(records, board.Record{Item: item, Position: pos})
	}
	slices.SortFunc(records, func(a, b board.Record) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return records, nil
}
