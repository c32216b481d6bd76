package ordering

import (
	"cmp"
	"slices"

	"github.com/roach88/backlog/internal/board"
)

// DefaultPrioritySentinel is the rank given to tickets with no explicit
// priority. It matches the host tracker's convention, so such tickets sort
// after every prioritised one.
const DefaultPrioritySentinel int64 = 999

// RankKey is the sort key of the default order. Lower sorts first.
type RankKey struct {
	Priority int64
	Item     board.Item
}

// Compare orders keys by priority, then by item id.
func (k RankKey) Compare(other RankKey) int {
	if c := cmp.Compare(k.Priority, other.Priority); c != 0 {
		return c
	}
	return cmp.Compare(k.Item, other.Item)
}

// Ranker computes the default-order key of a candidate.
type Ranker interface {
	Rank(c board.Candidate) RankKey
}

// PriorityRanker ranks by numeric priority, substituting Sentinel when the
// candidate has none.
type PriorityRanker struct {
	Sentinel int64
}

func (r PriorityRanker) Rank(c board.Candidate) RankKey {
	prio := r.Sentinel
	if c.Priority != nil {
		prio = *c.Priority
	}
	return RankKey{Priority: prio, Item: c.Item}
}

// DefaultSequence returns the candidates' items in default order.
//
// The order is fully determined by the keys: the item id tie-break makes it
// independent of the input order. Duplicate items keep their first entry.
func DefaultSequence(r Ranker, candidates []board.Candidate) []board.Item {
	type ranked struct {
		item board.Item
		key  RankKey
	}

	seen := make(map[board.Item]struct{}, len(candidates))
	keyed := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Item]; dup {
			continue
		}
		seen[c.Item] = struct{}{}
		keyed = append(keyed, ranked{item: c.Item, key: r.Rank(c)})
	}

	slices.SortFunc(keyed, func(a, b ranked) int {
		return a.key.Compare(b.key)
	})

	items := make([]board.Item, len(keyed))
	for i, k := range keyed {
		items[i] = k.item
	}
	return items
}
