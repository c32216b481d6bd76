package store

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"time"

	"github.com/roach88/backlog/internal/board"
)

// History streams the change log for item, oldest first.
//
// The sequence holds the store's only connection while it is being ranged
// over, so the loop body must not call back into the store.
func (s *Store) History(ctx context.Context, item board.Item) iter.Seq2[board.ChangeRecord, error] {
	return func(yield func(board.ChangeRecord, error) bool) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT item, time, actor, old_position, new_position
			FROM position_history
			WHERE item = ?
			ORDER BY time ASC
		`, item)
		if err != nil {
			yield(board.ChangeRecord{}, fmt.Errorf("query history: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanChange(rows)
			if err != nil {
				yield(board.ChangeRecord{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(board.ChangeRecord{}, fmt.Errorf("iterate history: %w", err))
		}
	}
}

// CountHistory returns the number of history rows across all items.
func (s *Store) CountHistory(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM position_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

func scanChange(rows *sql.Rows) (board.ChangeRecord, error) {
	var (
		item, micros, newPos int64
		actor                string
		oldPos               sql.NullInt64
	)
	if err := rows.Scan(&item, &micros, &actor, &oldPos, &newPos); err != nil {
		return board.ChangeRecord{}, fmt.Errorf("scan history: %w", err)
	}

	rec := board.ChangeRecord{
		Item:        board.Item(item),
		Time:        time.UnixMicro(micros).UTC(),
		Actor:       actor,
		NewPosition: board.Position(newPos),
	}
	if oldPos.Valid {
		rec.OldPosition = board.PositionPtr(board.Position(oldPos.Int64))
	}
	return rec, nil
}
