package ordering

import (
	"context"
	"fmt"
	"iter"

	"github.com/roach88/backlog/internal/board"
)

// Entry is one line of the effective board order. Position is nil for
// tickets that have never been positioned.
type Entry struct {
	Item     board.Item
	Position *board.Position
}

// Order returns the effective board order: positioned items by position,
// then unpositioned candidates in default order. It never writes.
func (e *Engine) Order(ctx context.Context) ([]Entry, error) {
	cands, err := e.candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("order: %w", err)
	}

	var records []board.Record
	err = e.store.WithTx(ctx, func(tx board.Tx) error {
		var err error
		records, err = sortedRecords(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("order: %w", err)
	}

	positioned := make(map[board.Item]struct{}, len(records))
	entries := make([]Entry, 0, len(records)+len(cands))
	for _, rec := range records {
		positioned[rec.Item] = struct{}{}
		entries = append(entries, Entry{Item: rec.Item, Position: board.PositionPtr(rec.Position)})
	}

	var rest []board.Candidate
	for _, c := range cands {
		if _, ok := positioned[c.Item]; !ok {
			rest = append(rest, c)
		}
	}
	for _, item := range DefaultSequence(e.ranker, rest) {
		entries = append(entries, Entry{Item: item})
	}

	return entries, nil
}

// Positions returns the stored position of each requested item. Items with
// no position are omitted. Nothing is materialized.
func (e *Engine) Positions(ctx context.Context, items []board.Item) (map[board.Item]board.Position, error) {
	out := make(map[board.Item]board.Position, len(items))
	err := e.store.WithTx(ctx, func(tx board.Tx) error {
		for _, item := range items {
			pos, found, err := tx.Get(ctx, item)
			if err != nil {
				return err
			}
			if found {
				out[item] = pos
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	return out, nil
}

// History streams item's committed reorders, oldest first.
func (e *Engine) History(ctx context.Context, item board.Item) iter.Seq2[board.ChangeRecord, error] {
	return e.store.History(ctx, item)
}

// Verify scans the store for corrupted state: negative or shared positions.
func (e *Engine) Verify(ctx context.Context) error {
	return e.store.WithTx(ctx, func(tx board.Tx) error {
		positions, err := tx.Positions(ctx)
		if err != nil {
			return err
		}

		holders := make(map[board.Position]board.Item, len(positions))
		for item, pos := range positions {
			if pos < 0 {
				return &board.InvariantViolation{
					Detail: fmt.Sprintf("item %d has negative position %d", item, pos),
				}
			}
			if other, taken := holders[pos]; taken {
				return &board.InvariantViolation{
					Detail: fmt.Sprintf("items %d and %d share position %d", other, item, pos),
				}
			}
			holders[pos] = item
		}
		return nil
	})
}
