package ordering

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/backlog/internal/board"
	"github.com/roach88/backlog/internal/testutil"
)

// Three tickets A, B, C with default order A, B, C.

func TestMove_Scenario(t *testing.T) {
	f := newFixture(t, 3)

	// resolve B materializes A=0, B=1
	assert.Equal(t, board.Position(1), f.resolve(t, itemB))

	// C moves up from nowhere: [0, inf) shifts +1
	f.move(t, itemC, 0)
	assert.Equal(t, map[board.Item]board.Position{itemC: 0, itemA: 1, itemB: 2}, f.positions(t))
	assert.Equal(t, []board.Item{itemC, itemA, itemB}, f.order(t))

	// A moves down to "before index 3": lands at 2, B drops to 1
	f.move(t, itemA, 3)
	assert.Equal(t, map[board.Item]board.Position{itemC: 0, itemB: 1, itemA: 2}, f.positions(t))
	assert.Equal(t, []board.Item{itemC, itemB, itemA}, f.order(t))
}

func TestMove_NoopToCurrentPosition(t *testing.T) {
	f := newFixture(t, 3)
	f.resolve(t, itemC)
	f.move(t, itemB, 0)

	before := f.positions(t)
	historyBefore := f.historyCount(t)

	for _, item := range []board.Item{itemA, itemB, itemC} {
		pos, found, err := f.engine.ResolvePosition(context.Background(), item, true)
		require.NoError(t, err)
		require.True(t, found)
		f.move(t, item, pos)
	}

	assert.Equal(t, before, f.positions(t))
	assert.Equal(t, historyBefore, f.historyCount(t))
}

func TestMove_RecordsHistory(t *testing.T) {
	f := newFixture(t, 3)
	f.resolve(t, itemB)

	when := f.clock.Current()
	require.NoError(t, f.engine.Move(context.Background(), itemC, 0, "alice", when))
	require.NoError(t, f.engine.Move(context.Background(), itemC, 2, "bob", when.Add(time.Second)))

	recs := f.history(t, itemC)
	require.Len(t, recs, 2)

	assert.Equal(t, "alice", recs[0].Actor)
	assert.Nil(t, recs[0].OldPosition)
	assert.Equal(t, board.Position(0), recs[0].NewPosition)

	assert.Equal(t, "bob", recs[1].Actor)
	require.NotNil(t, recs[1].OldPosition)
	assert.Equal(t, board.Position(0), *recs[1].OldPosition)
	assert.Equal(t, board.Position(1), recs[1].NewPosition, "down move lands one slot before the target")
}

func TestMove_UnpositionedToEnd(t *testing.T) {
	f := newFixture(t, 3)
	f.resolve(t, itemB)

	f.move(t, itemC, 2)
	assert.Equal(t, map[board.Item]board.Position{itemA: 0, itemB: 1, itemC: 2}, f.positions(t))
}

func TestMove_BeyondEndLeavesGap(t *testing.T) {
	f := newFixture(t, 3)
	f.resolve(t, itemB)

	f.move(t, itemC, 10)
	assert.Equal(t, map[board.Item]board.Position{itemA: 0, itemB: 1, itemC: 10}, f.positions(t))

	// Down move past the end lands at target-1; everything above the old
	// slot, gap included, drops by one.
	f.move(t, itemA, 20)
	assert.Equal(t, map[board.Item]board.Position{itemB: 0, itemC: 9, itemA: 19}, f.positions(t))
}

func TestMove_DownFromZero(t *testing.T) {
	f := newFixture(t, 3)
	f.resolve(t, itemC)

	f.move(t, itemA, 2)
	assert.Equal(t, map[board.Item]board.Position{itemB: 0, itemA: 1, itemC: 2}, f.positions(t))
}

func TestMove_NegativeTargetRejected(t *testing.T) {
	f := newFixture(t, 1)

	err := f.engine.Move(context.Background(), itemA, -1, "tester", f.clock.Now())
	assert.ErrorIs(t, err, board.ErrNegativePosition)
	assert.Empty(t, f.positions(t))
	assert.Zero(t, f.historyCount(t))
}

func TestMove_SameTimestampConflicts(t *testing.T) {
	f := newFixture(t, 2)
	f.resolve(t, itemB)
	when := f.clock.Now()

	require.NoError(t, f.engine.Move(context.Background(), itemB, 0, "a", when))
	before := f.positions(t)

	err := f.engine.Move(context.Background(), itemB, 2, "a", when)
	require.Error(t, err)
	assert.True(t, board.IsConflict(err))
	assert.Equal(t, before, f.positions(t), "conflicting move rolled back")
}

func TestMove_PreservesCardinality(t *testing.T) {
	f := newFixture(t, 4)
	f.resolve(t, 3)
	require.Len(t, f.positions(t), 3)

	f.move(t, 1, 3)
	assert.Len(t, f.positions(t), 3, "positioned mover keeps the count")

	f.move(t, 4, 1)
	assert.Len(t, f.positions(t), 4, "unpositioned mover adds one")
}

func TestMove_AtomicUnderFailure(t *testing.T) {
	points := []testutil.FaultPoint{
		testutil.FailDelete,
		testutil.FailShiftRange,
		testutil.FailInsertBatch,
		testutil.FailAppendChange,
	}

	for _, point := range points {
		t.Run(string(point), func(t *testing.T) {
			f := newFixture(t, 3)
			f.resolve(t, itemB)
			f.move(t, itemC, 0)

			before := f.positions(t)
			historyBefore := f.historyCount(t)

			faulty := testutil.NewFaultyStore(f.store, point)
			eng := New(faulty, f.source)

			err := eng.Move(context.Background(), itemA, 3, "tester", f.clock.Now())
			require.ErrorIs(t, err, testutil.ErrInjected)
			assert.True(t, faulty.Fired())

			assert.Equal(t, before, f.positions(t))
			assert.Equal(t, historyBefore, f.historyCount(t))
		})
	}
}

func TestMove_AtomicUnderFailureMovingUp(t *testing.T) {
	f := newFixture(t, 3)
	f.resolve(t, itemB)
	before := f.positions(t)

	faulty := testutil.NewFaultyStore(f.store, testutil.FailShiftRange)
	eng := New(faulty, f.source)

	err := eng.Move(context.Background(), itemC, 0, "tester", f.clock.Now())
	require.ErrorIs(t, err, testutil.ErrInjected)
	assert.Equal(t, before, f.positions(t))
	assert.Zero(t, f.historyCount(t))
}

// modelMove applies "insert before index target" to a dense order slice.
func modelMove(order []board.Item, item board.Item, target int) []board.Item {
	if old := slices.Index(order, item); old >= 0 {
		order = slices.Delete(order, old, old+1)
		if target > old {
			target--
		}
	}
	return slices.Insert(order, target, item)
}

func TestMove_RandomWalkMatchesModel(t *testing.T) {
	const n = 8
	f := newFixture(t, n)
	rng := rand.New(rand.NewPCG(7, 11))

	var model []board.Item
	for step := 0; step < 200; step++ {
		item := board.Item(rng.IntN(n) + 1)
		target := rng.IntN(len(model) + 1)

		pos, found, err := f.engine.ResolvePosition(context.Background(), item, false)
		require.NoError(t, err)
		if found && int(pos) == target {
			continue
		}

		f.move(t, item, board.Position(target))
		model = modelMove(model, item, target)

		positions := f.positions(t)
		require.Len(t, positions, len(model), "step %d", step)
		for idx, it := range model {
			require.Equal(t, board.Position(idx), positions[it], "step %d item %d", step, it)
		}
	}

	require.NoError(t, f.engine.Verify(context.Background()))
}

func TestMove_DenseUnderFullMaterialization(t *testing.T) {
	const n = 6
	f := newFixture(t, n)

	f.move(t, 4, 0)
	f.move(t, 2, 1)
	f.resolve(t, n)
	f.move(t, 1, 6)
	f.move(t, 6, 2)

	positions := f.positions(t)
	require.Len(t, positions, n)

	occupied := make([]int, 0, n)
	for _, pos := range positions {
		occupied = append(occupied, int(pos))
	}
	slices.Sort(occupied)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, occupied)
}

func TestMove_ConcurrentMovesStayDense(t *testing.T) {
	const n = 10
	f := newFixture(t, n)
	f.resolve(t, n)

	var wg sync.WaitGroup
	errs := make(chan error, 8*25)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, seed+1))
			for i := 0; i < 25; i++ {
				item := board.Item(rng.IntN(n) + 1)
				target := board.Position(rng.IntN(n + 1))
				if err := f.engine.Move(context.Background(), item, target, "worker", f.clock.Now()); err != nil {
					errs <- err
				}
			}
		}(uint64(w))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		// Serialization failures are the caller's to retry.
		assert.True(t, board.IsConflict(err), "unexpected error: %v", err)
	}

	require.NoError(t, f.engine.Verify(context.Background()))
	positions := f.positions(t)
	require.Len(t, positions, n)
	for _, pos := range positions {
		assert.Less(t, int64(pos), int64(n))
	}
}
