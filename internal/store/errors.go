package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/backlog/internal/board"
)

// isConflict reports whether err is a uniqueness violation or a lock
// contention failure that a caller may retry.
func isConflict(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return true
	}
	switch se.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return true
	}
	return false
}

// classify wraps retryable SQLite failures in a ConflictError and returns
// every other error unchanged.
func classify(op string, item board.Item, err error) error {
	if err == nil {
		return nil
	}
	if isConflict(err) {
		return &board.ConflictError{Op: op, Item: item, Err: err}
	}
	return err
}
