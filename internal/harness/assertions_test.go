package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/backlog/internal/board"
)

func line(item board.Item, pos ...board.Position) OrderLine {
	l := OrderLine{Item: item}
	if len(pos) > 0 {
		l.Position = board.PositionPtr(pos[0])
	}
	return l
}

func TestAssertOrder(t *testing.T) {
	order := []OrderLine{line(3, 0), line(1)}

	assert.NoError(t, assertOrder(order, Assertion{Items: []board.Item{3, 1}}))

	err := assertOrder(order, Assertion{Type: AssertOrder, Items: []board.Item{1, 3}})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertOrder, ae.Type)
	assert.Contains(t, err.Error(), "Final order:")
}

func TestAssertPositions_Exact(t *testing.T) {
	order := []OrderLine{line(3, 0), line(1, 1), line(2)}

	assert.NoError(t, assertPositions(order, Assertion{Positions: map[board.Item]board.Position{3: 0, 1: 1}}))
	assert.Error(t, assertPositions(order, Assertion{Positions: map[board.Item]board.Position{3: 0}}))
	assert.Error(t, assertPositions(order, Assertion{Positions: map[board.Item]board.Position{3: 0, 1: 2}}))
	assert.Error(t, assertPositions(order, Assertion{Positions: map[board.Item]board.Position{3: 0, 2: 1}}))
}

func TestAssertUnpositioned(t *testing.T) {
	order := []OrderLine{line(3, 0), line(1)}

	assert.NoError(t, assertUnpositioned(order, Assertion{Items: []board.Item{1}}))
	assert.NoError(t, assertUnpositioned(order, Assertion{Items: []board.Item{}}))

	err := assertUnpositioned(order, Assertion{Items: []board.Item{3}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 3 at 0")
}

func TestAssertDense(t *testing.T) {
	assert.NoError(t, assertDense(nil))
	assert.NoError(t, assertDense([]OrderLine{line(2, 1), line(1, 0), line(5)}))

	err := assertDense([]OrderLine{line(1, 0), line(2, 2)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 2")
}

func TestEvaluateAssertions_CollectsAll(t *testing.T) {
	result := NewResult()
	result.Order = []OrderLine{line(1, 0), line(2, 2)}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertOrder, Items: []board.Item{1, 2}},
		{Type: AssertDense},
		{Type: AssertUnpositioned, Items: []board.Item{2}},
	}, nil)

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "assertions[1]")
	assert.Contains(t, errs[1], "assertions[2]")
}
