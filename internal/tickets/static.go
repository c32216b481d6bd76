package tickets

import (
	"context"
	"slices"
	"sync"

	"github.com/roach88/backlog/internal/board"
)

// Static is an in-memory candidate source.
//
// Thread-safety: all methods are safe for concurrent use.
type Static struct {
	mu    sync.RWMutex
	cands []board.Candidate
}

// NewStatic returns a source listing cands.
func NewStatic(cands ...board.Candidate) *Static {
	return &Static{cands: slices.Clone(cands)}
}

// Add appends candidates, as if new tickets were filed.
func (s *Static) Add(cands ...board.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cands = append(s.cands, cands...)
}

func (s *Static) ListCandidates(context.Context) ([]board.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cands), nil
}
