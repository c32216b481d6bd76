package ordering

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/backlog/internal/board"
	"github.com/roach88/backlog/internal/store"
	"github.com/roach88/backlog/internal/testutil"
	"github.com/roach88/backlog/internal/tickets"
)

const (
	itemA board.Item = 1
	itemB board.Item = 2
	itemC board.Item = 3
)

type fixture struct {
	store  *store.Store
	source *tickets.Static
	engine *Engine
	clock  *testutil.DeterministicClock
}

// newFixture opens a temp-dir store with n unprioritised tickets 1..n, so
// the default order is by id.
func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cands := make([]board.Candidate, n)
	for i := range cands {
		cands[i] = board.Candidate{Item: board.Item(i + 1)}
	}
	src := tickets.NewStatic(cands...)

	return &fixture{
		store:  st,
		source: src,
		engine: New(st, src),
		clock:  testutil.NewDeterministicClock(),
	}
}

func (f *fixture) move(t *testing.T, item board.Item, target board.Position) {
	t.Helper()
	require.NoError(t, f.engine.Move(context.Background(), item, target, "tester", f.clock.Now()))
}

func (f *fixture) resolve(t *testing.T, item board.Item) board.Position {
	t.Helper()
	pos, found, err := f.engine.ResolvePosition(context.Background(), item, true)
	require.NoError(t, err)
	require.True(t, found)
	return pos
}

// positions returns every stored record.
func (f *fixture) positions(t *testing.T) map[board.Item]board.Position {
	t.Helper()
	var out map[board.Item]board.Position
	err := f.store.WithTx(context.Background(), func(tx board.Tx) error {
		var err error
		out, err = tx.Positions(context.Background())
		return err
	})
	require.NoError(t, err)
	return out
}

// order returns the effective board order as item ids.
func (f *fixture) order(t *testing.T) []board.Item {
	t.Helper()
	entries, err := f.engine.Order(context.Background())
	require.NoError(t, err)
	items := make([]board.Item, len(entries))
	for i, e := range entries {
		items[i] = e.Item
	}
	return items
}

func (f *fixture) historyCount(t *testing.T) int {
	t.Helper()
	n, err := f.store.CountHistory(context.Background())
	require.NoError(t, err)
	return n
}

func (f *fixture) history(t *testing.T, item board.Item) []board.ChangeRecord {
	t.Helper()
	var recs []board.ChangeRecord
	for rec, err := range f.engine.History(context.Background(), item) {
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	return recs
}
