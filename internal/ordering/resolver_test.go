package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/backlog/internal/board"
)

func TestPriorityRanker_SentinelForMissingPriority(t *testing.T) {
	r := PriorityRanker{Sentinel: DefaultPrioritySentinel}

	assert.Equal(t, RankKey{Priority: 999, Item: 4}, r.Rank(board.Candidate{Item: 4}))
	assert.Equal(t, RankKey{Priority: 2, Item: 4}, r.Rank(board.Candidate{Item: 4, Priority: board.PriorityPtr(2)}))
}

func TestRankKey_Compare(t *testing.T) {
	tests := []struct {
		name string
		a, b RankKey
		want int
	}{
		{"lower priority first", RankKey{1, 9}, RankKey{2, 1}, -1},
		{"tie broken by id", RankKey{5, 3}, RankKey{5, 7}, -1},
		{"equal", RankKey{5, 3}, RankKey{5, 3}, 0},
		{"higher priority later", RankKey{8, 1}, RankKey{2, 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
		})
	}
}

func TestDefaultSequence_PriorityThenID(t *testing.T) {
	r := PriorityRanker{Sentinel: DefaultPrioritySentinel}
	cands := []board.Candidate{
		{Item: 5},
		{Item: 2, Priority: board.PriorityPtr(3)},
		{Item: 4, Priority: board.PriorityPtr(1)},
		{Item: 1},
		{Item: 3, Priority: board.PriorityPtr(3)},
	}

	assert.Equal(t, []board.Item{4, 2, 3, 1, 5}, DefaultSequence(r, cands))
}

func TestDefaultSequence_IndependentOfInputOrder(t *testing.T) {
	r := PriorityRanker{Sentinel: DefaultPrioritySentinel}
	forward := []board.Candidate{{Item: 1}, {Item: 2}, {Item: 3}}
	reverse := []board.Candidate{{Item: 3}, {Item: 2}, {Item: 1}}

	assert.Equal(t, DefaultSequence(r, forward), DefaultSequence(r, reverse))
}

func TestDefaultSequence_ExplicitPriorityAboveSentinel(t *testing.T) {
	r := PriorityRanker{Sentinel: DefaultPrioritySentinel}
	cands := []board.Candidate{
		{Item: 1},
		{Item: 2, Priority: board.PriorityPtr(1000)},
	}

	// An explicit priority worse than the sentinel still sorts after it.
	assert.Equal(t, []board.Item{1, 2}, DefaultSequence(r, cands))
}

func TestDefaultSequence_DropsDuplicates(t *testing.T) {
	r := PriorityRanker{Sentinel: DefaultPrioritySentinel}
	cands := []board.Candidate{
		{Item: 2},
		{Item: 1},
		{Item: 2, Priority: board.PriorityPtr(0)},
	}

	assert.Equal(t, []board.Item{1, 2}, DefaultSequence(r, cands))
}

func TestDefaultSequence_Empty(t *testing.T) {
	r := PriorityRanker{Sentinel: DefaultPrioritySentinel}
	assert.Empty(t, DefaultSequence(r, nil))
}

type reverseRanker struct{}

func (reverseRanker) Rank(c board.Candidate) RankKey {
	return RankKey{Priority: -int64(c.Item), Item: c.Item}
}

func TestWithRanker_ReplacesDefault(t *testing.T) {
	f := newFixture(t, 3)
	eng := New(f.store, f.source, WithRanker(reverseRanker{}))

	assert.Equal(t, []board.Item{3, 2, 1}, DefaultSequence(eng.ranker, []board.Candidate{{Item: 1}, {Item: 2}, {Item: 3}}))
}
