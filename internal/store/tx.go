package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/backlog/internal/board"
)

// WithTx runs fn inside a single transaction. The transaction commits only
// if fn returns nil; otherwise every write fn made is rolled back.
func (s *Store) WithTx(ctx context.Context, fn func(board.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin", 0, fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(&txView{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("commit", 0, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// txView implements board.Tx over an open *sql.Tx.
type txView struct {
	tx *sql.Tx
}

var _ board.Tx = (*txView)(nil)

func (v *txView) Get(ctx context.Context, item board.Item) (board.Position, bool, error) {
	var pos int64
	err := v.tx.QueryRowContext(ctx, `
		SELECT position FROM positions WHERE item = ?
	`, item).Scan(&pos)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get position: %w", err)
	}
	return board.Position(pos), true, nil
}

func (v *txView) Set(ctx context.Context, item board.Item, pos board.Position) error {
	if pos < 0 {
		return fmt.Errorf("set position %d: %w", pos, board.ErrNegativePosition)
	}
	_, err := v.tx.ExecContext(ctx, `
		INSERT INTO positions (item, position)
		VALUES (?, ?)
		ON CONFLICT(item) DO UPDATE SET position = excluded.position
	`, item, pos)
	if err != nil {
		return classify("set", item, fmt.Errorf("set position: %w", err))
	}
	return nil
}

func (v *txView) Delete(ctx context.Context, item board.Item) error {
	if _, err := v.tx.ExecContext(ctx, `DELETE FROM positions WHERE item = ?`, item); err != nil {
		return fmt.Errorf("delete position: %w", err)
	}
	return nil
}

func (v *txView) MaxPosition(ctx context.Context) (board.Position, bool, error) {
	var maxPos sql.NullInt64
	if err := v.tx.QueryRowContext(ctx, `SELECT MAX(position) FROM positions`).Scan(&maxPos); err != nil {
		return 0, false, fmt.Errorf("max position: %w", err)
	}
	if !maxPos.Valid {
		return 0, false, nil
	}
	return board.Position(maxPos.Int64), true, nil
}

// ShiftRange moves every position in [low, high] by delta.
//
// The update runs as two set-based statements: the range is first mapped to
// -1-(p+delta), which is negative and injective, then flipped back. Neither
// statement can collide with itself, and collisions with records outside the
// range surface as a ConflictError.
func (v *txView) ShiftRange(ctx context.Context, low, high board.Position, delta int) error {
	if delta == 0 || low > high {
		return nil
	}

	if delta < 0 {
		var below int
		err := v.tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM positions
			WHERE position BETWEEN ? AND ? AND position + ? < 0
		`, low, high, delta).Scan(&below)
		if err != nil {
			return fmt.Errorf("shift range: check lower bound: %w", err)
		}
		if below > 0 {
			return fmt.Errorf("shift range [%d, %d] by %d: %w", low, high, delta, board.ErrNegativePosition)
		}
	}

	if _, err := v.tx.ExecContext(ctx, `
		UPDATE positions SET position = -1 - (position + ?)
		WHERE position BETWEEN ? AND ?
	`, delta, low, high); err != nil {
		return classify("shift", 0, fmt.Errorf("shift range: stage: %w", err))
	}

	if _, err := v.tx.ExecContext(ctx, `
		UPDATE positions SET position = -1 - position
		WHERE position < 0
	`); err != nil {
		return classify("shift", 0, fmt.Errorf("shift range: apply: %w", err))
	}

	return nil
}

func (v *txView) Positions(ctx context.Context) (map[board.Item]board.Position, error) {
	rows, err := v.tx.QueryContext(ctx, `SELECT item, position FROM positions`)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	positions := make(map[board.Item]board.Position)
	for rows.Next() {
		var item, pos int64
		if err := rows.Scan(&item, &pos); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions[board.Item(item)] = board.Position(pos)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}

	return positions, nil
}

func (v *txView) InsertBatch(ctx context.Context, records []board.Record) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := v.tx.PrepareContext(ctx, `
		INSERT INTO positions (item, position) VALUES (?, ?)
	`)
	if err != nil {
		return fmt.Errorf("insert positions: prepare: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.Position < 0 {
			return fmt.Errorf("insert item %d at %d: %w", rec.Item, rec.Position, board.ErrNegativePosition)
		}
		if _, err := stmt.ExecContext(ctx, rec.Item, rec.Position); err != nil {
			return classify("insert", rec.Item, fmt.Errorf("insert positions: %w", err))
		}
	}

	return nil
}

// AppendChange writes one history row. The actor is NFC-normalised so the
// same identity always compares equal in audit queries.
func (v *txView) AppendChange(ctx context.Context, rec board.ChangeRecord) error {
	var oldPos sql.NullInt64
	if rec.OldPosition != nil {
		oldPos = sql.NullInt64{Int64: int64(*rec.OldPosition), Valid: true}
	}

	result, err := v.tx.ExecContext(ctx, `
		INSERT INTO position_history
		(item, time, actor, old_position, new_position)
		VALUES (?, ?, ?, ?, ?)
	`,
		rec.Item,
		rec.Time.UnixMicro(),
		norm.NFC.String(rec.Actor),
		oldPos,
		rec.NewPosition,
	)
	if err != nil {
		return classify("history", rec.Item, fmt.Errorf("append change: %w", err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("append change: rows affected: %w", err)
	}
	if n != 1 {
		return &board.InvariantViolation{
			Detail: fmt.Sprintf("history append for item %d wrote %d rows", rec.Item, n),
		}
	}

	return nil
}
