package ordering

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/backlog/internal/board"
)

// Move puts item at target using "insert before index N" semantics and
// records the change.
//
// Moving to the item's current position is a no-op: nothing is written and
// no history is appended. Targets beyond the last position are accepted and
// leave a gap. A *board.ConflictError means the store rolled everything back
// and the caller may retry.
func (e *Engine) Move(ctx context.Context, item board.Item, target board.Position, actor string, when time.Time) error {
	if target < 0 {
		return fmt.Errorf("move item %d to %d: %w", item, target, board.ErrNegativePosition)
	}

	opID := newOpID()
	var (
		change board.ChangeRecord
		moved  bool
	)
	err := e.store.WithTx(ctx, func(tx board.Tx) error {
		var err error
		change, moved, err = e.move(ctx, tx, item, target, actor, when)
		return err
	})
	if err != nil {
		logConflict("move", item, opID, err)
		return fmt.Errorf("move item %d: %w", item, err)
	}

	logMove(item, change, moved, opID)
	return nil
}

// move performs the reorder inside tx. It reports moved=false for a no-op.
func (e *Engine) move(ctx context.Context, tx board.Tx, item board.Item, target board.Position, actor string, when time.Time) (board.ChangeRecord, bool, error) {
	oldPos, hasOld, err := tx.Get(ctx, item)
	if err != nil {
		return board.ChangeRecord{}, false, err
	}
	if hasOld && oldPos == target {
		return board.ChangeRecord{}, false, nil
	}

	// Moving down vacates the old slot first, so every later index drops by
	// one. The target is measured in that post-removal numbering.
	movingUp := !hasOld || target < oldPos
	newPos := target
	if !movingUp {
		newPos = target - 1
	}

	if hasOld {
		if err := tx.Delete(ctx, item); err != nil {
			return board.ChangeRecord{}, false, err
		}
	}

	switch {
	case movingUp && hasOld:
		err = tx.ShiftRange(ctx, target, oldPos, 1)
	case movingUp:
		err = tx.ShiftRange(ctx, target, board.NoUpperBound, 1)
	default:
		err = tx.ShiftRange(ctx, oldPos, newPos, -1)
	}
	if err != nil {
		return board.ChangeRecord{}, false, err
	}

	if err := tx.InsertBatch(ctx, []board.Record{{Item: item, Position: newPos}}); err != nil {
		return board.ChangeRecord{}, false, err
	}

	change := board.ChangeRecord{
		Item:        item,
		Time:        when,
		Actor:       actor,
		NewPosition: newPos,
	}
	if hasOld {
		change.OldPosition = board.PositionPtr(oldPos)
	}
	if err := tx.AppendChange(ctx, change); err != nil {
		return board.ChangeRecord{}, false, err
	}

	return change, true, nil
}

func logMove(item board.Item, change board.ChangeRecord, moved bool, opID string) {
	if !moved {
		slog.Debug("move is a no-op", "item", item, "op_id", opID)
		return
	}
	attrs := []any{
		"item", change.Item,
		"new_position", change.NewPosition,
		"actor", change.Actor,
		"op_id", opID,
	}
	if change.OldPosition != nil {
		attrs = append(attrs, "old_position", *change.OldPosition)
	}
	slog.Info("item moved", attrs...)
}
