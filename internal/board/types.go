package board

import (
	"math"
	"time"
)

// Item is an opaque ticket identifier owned by the host.
type Item int64

// Position is a slot in the total board order. Lower sorts first.
type Position int64

// NoUpperBound closes an open-ended range passed to Tx.ShiftRange.
const NoUpperBound Position = math.MaxInt64

// Record binds an item to its explicit position.
type Record struct {
	Item     Item
	Position Position
}

// ChangeRecord is one committed reorder in the history log.
//
// OldPosition is nil when the item had no position before the move.
type ChangeRecord struct {
	Item        Item
	Time        time.Time
	Actor       string
	OldPosition *Position
	NewPosition Position
}

// Candidate is an item as seen by the default-order resolver.
//
// Priority is nil when the ticket carries no explicit priority; the resolver
// substitutes its sentinel so such tickets sort last.
type Candidate struct {
	Item     Item
	Priority *int64
}

// Direction selects which side of a relative item a placement lands on.
type Direction int

const (
	Before Direction = iota
	After
)

func (d Direction) String() string {
	if d == After {
		return "after"
	}
	return "before"
}

// ParseDirection accepts "before" and "after".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "before":
		return Before, true
	case "after":
		return After, true
	}
	return Before, false
}

// PositionPtr returns a pointer to p, for optional fields.
func PositionPtr(p Position) *Position {
	return &p
}

// PriorityPtr returns a pointer to p, for Candidate.Priority.
func PriorityPtr(p int64) *int64 {
	return &p
}
