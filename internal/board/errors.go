package board

import (
	"errors"
	"fmt"
)

// ErrNegativePosition is returned before any write when a caller asks for a
// position below zero.
var ErrNegativePosition = errors.New("position must be non-negative")

// ConflictError reports a uniqueness violation or serialization failure while
// mutating positions. The transaction has been rolled back; callers may retry.
type ConflictError struct {
	// Op names the operation that failed (e.g. "move", "materialize").
	Op string

	// Item is the item being moved or resolved, if known.
	Item Item

	Err error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s item %d: conflict: %v", e.Op, e.Item, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an item missing from the host's candidate set when
// materialization needs its ranking attributes.
type NotFoundError struct {
	Item Item
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %d not found in candidate set", e.Item)
}

// InvariantViolation reports corrupted ordering state. It is never repaired
// automatically.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Detail
}

// IsConflict reports whether err wraps a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvariantViolation reports whether err wraps an InvariantViolation.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
