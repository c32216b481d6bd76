package tickets

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/backlog/internal/board"
)

// Ticket is a row of the host ticket catalog.
type Ticket struct {
	ID       board.Item `yaml:"id"`
	Priority *int64     `yaml:"priority,omitempty"`
}

// Catalog reads candidates from a tickets table.
type Catalog struct {
	db *sql.DB
}

// NewCatalog wraps db. Call EnsureSchema before first use.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// EnsureSchema creates the tickets table if it doesn't exist.
func (c *Catalog) EnsureSchema(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tickets (
			id       INTEGER PRIMARY KEY,
			priority INTEGER
		)
	`)
	if err != nil {
		return fmt.Errorf("create tickets table: %w", err)
	}
	return nil
}

// Upsert inserts or replaces tickets in one transaction.
func (c *Catalog) Upsert(ctx context.Context, tickets []Ticket) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert tickets: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tickets (id, priority) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET priority = excluded.priority
	`)
	if err != nil {
		return fmt.Errorf("upsert tickets: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range tickets {
		var prio sql.NullInt64
		if t.Priority != nil {
			prio = sql.NullInt64{Int64: *t.Priority, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, t.ID, prio); err != nil {
			return fmt.Errorf("upsert ticket %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert tickets: commit: %w", err)
	}
	return nil
}

// ListCandidates returns every ticket, ordered by id.
func (c *Catalog) ListCandidates(ctx context.Context) ([]board.Candidate, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, priority FROM tickets ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	var cands []board.Candidate
	for rows.Next() {
		var (
			id   int64
			prio sql.NullInt64
		)
		if err := rows.Scan(&id, &prio); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		c := board.Candidate{Item: board.Item(id)}
		if prio.Valid {
			c.Priority = board.PriorityPtr(prio.Int64)
		}
		cands = append(cands, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	if cands == nil {
		cands = []board.Candidate{}
	}
	return cands, nil
}
