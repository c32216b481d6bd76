package ordering

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/backlog/internal/board"
)

func TestOrder_PositionedThenDefault(t *testing.T) {
	f := newFixture(t, 0)
	f.source.Add(
		board.Candidate{Item: 1},
		board.Candidate{Item: 2, Priority: board.PriorityPtr(1)},
		board.Candidate{Item: 3},
		board.Candidate{Item: 4},
	)
	f.move(t, 3, 0)

	entries, err := f.engine.Order(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 4)
	assert.Equal(t, board.Item(3), entries[0].Item)
	require.NotNil(t, entries[0].Position)
	assert.Equal(t, board.Position(0), *entries[0].Position)

	var rest []board.Item
	for _, e := range entries[1:] {
		assert.Nil(t, e.Position)
		rest = append(rest, e.Item)
	}
	assert.Equal(t, []board.Item{2, 1, 4}, rest)

	assert.Len(t, f.positions(t), 1, "Order never materializes")
}

func TestOrder_KeepsPositionedItemsMissingFromCatalog(t *testing.T) {
	f := newFixture(t, 0)
	f.move(t, 77, 0)

	assert.Equal(t, []board.Item{77}, f.order(t))
}

func TestPositions_OmitsUnpositioned(t *testing.T) {
	f := newFixture(t, 3)
	f.resolve(t, itemB)

	got, err := f.engine.Positions(context.Background(), []board.Item{itemA, itemB, itemC})
	require.NoError(t, err)
	assert.Equal(t, map[board.Item]board.Position{itemA: 0, itemB: 1}, got)
}

func TestVerify_CleanStore(t *testing.T) {
	f := newFixture(t, 3)
	f.resolve(t, itemC)
	f.move(t, itemA, 3)

	assert.NoError(t, f.engine.Verify(context.Background()))
}

func TestVerify_NegativePosition(t *testing.T) {
	f := newFixture(t, 1)
	_, err := f.store.DB().Exec("INSERT INTO positions (item, position) VALUES (1, -3)")
	require.NoError(t, err)

	err = f.engine.Verify(context.Background())
	require.Error(t, err)
	assert.True(t, board.IsInvariantViolation(err))
}
