package ordering

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/backlog/internal/board"
)

// Engine orders backlog tickets over a transactional position store.
//
// Engine holds no mutable state; it is safe for concurrent use to the extent
// the store's isolation allows.
type Engine struct {
	store  board.Store
	source board.CandidateSource
	ranker Ranker
}

// Option configures an Engine.
type Option func(*Engine)

// WithRanker replaces the default priority ranker.
func WithRanker(r Ranker) Option {
	return func(e *Engine) {
		e.ranker = r
	}
}

// New creates an engine over store, ranking unpositioned tickets drawn from
// source.
func New(store board.Store, source board.CandidateSource, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		source: source,
		ranker: PriorityRanker{Sentinel: DefaultPrioritySentinel},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// newOpID returns a time-ordered id that ties together the log records of
// one engine call.
func newOpID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// lookup reads item's current position in its own read transaction.
func (e *Engine) lookup(ctx context.Context, item board.Item) (board.Position, bool, error) {
	var (
		pos   board.Position
		found bool
	)
	err := e.store.WithTx(ctx, func(tx board.Tx) error {
		var err error
		pos, found, err = tx.Get(ctx, item)
		return err
	})
	if err != nil {
		return 0, false, fmt.Errorf("lookup item %d: %w", item, err)
	}
	return pos, found, nil
}

// candidates lists the host's tickets. It runs outside any store
// transaction so hosts sharing the database connection are not blocked.
func (e *Engine) candidates(ctx context.Context) ([]board.Candidate, error) {
	cands, err := e.source.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return cands, nil
}

func logConflict(op string, item board.Item, opID string, err error) {
	if board.IsConflict(err) {
		slog.Warn("ordering conflict, transaction rolled back",
			"op", op,
			"item", item,
			"op_id", opID,
			"error", err,
		)
	}
}
