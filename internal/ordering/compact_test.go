package ordering

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/backlog/internal/board"
)

func TestCompact_ClosesGaps(t *testing.T) {
	f := newFixture(t, 3)
	f.move(t, itemA, 4)
	f.move(t, itemB, 9)
	f.move(t, itemC, 20)

	n, err := f.engine.Compact(context.Background(), "janitor", f.clock.Now())
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, map[board.Item]board.Position{itemA: 0, itemB: 1, itemC: 2}, f.positions(t))

	recs := f.history(t, itemB)
	require.Len(t, recs, 2)
	assert.Equal(t, "janitor", recs[1].Actor)
	require.NotNil(t, recs[1].OldPosition)
	assert.Equal(t, board.Position(9), *recs[1].OldPosition)
	assert.Equal(t, board.Position(1), recs[1].NewPosition)
}

func TestCompact_DenseIsNoop(t *testing.T) {
	f := newFixture(t, 3)
	f.resolve(t, itemC)
	before := f.historyCount(t)

	n, err := f.engine.Compact(context.Background(), "janitor", f.clock.Now())
	require.NoError(t, err)

	assert.Zero(t, n)
	assert.Equal(t, before, f.historyCount(t))
}

func TestCompact_OnlyMovesItemsAboveGap(t *testing.T) {
	f := newFixture(t, 3)
	f.resolve(t, itemB)
	f.move(t, itemC, 5)

	n, err := f.engine.Compact(context.Background(), "janitor", f.clock.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, map[board.Item]board.Position{itemA: 0, itemB: 1, itemC: 2}, f.positions(t))
}
