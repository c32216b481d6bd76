package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/backlog/internal/board"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedPositions inserts records in one committed transaction.
func seedPositions(t *testing.T, s *Store, records ...board.Record) {
	t.Helper()
	err := s.WithTx(context.Background(), func(tx board.Tx) error {
		return tx.InsertBatch(context.Background(), records)
	})
	if err != nil {
		t.Fatalf("seed positions: %v", err)
	}
}

// snapshot reads every record in a fresh transaction.
func snapshot(t *testing.T, s *Store) map[board.Item]board.Position {
	t.Helper()
	var out map[board.Item]board.Position
	err := s.WithTx(context.Background(), func(tx board.Tx) error {
		var err error
		out, err = tx.Positions(context.Background())
		return err
	})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return out
}
