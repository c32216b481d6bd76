package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/backlog/internal/board"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Engine refused the operation (unknown ticket, corrupted state)
	ExitCommandError = 2 // Command error (bad arguments, database not openable, etc.)
	ExitConflict     = 3 // Concurrent write conflict; safe to retry
)

// Error codes in JSON output.
const (
	CodeConflict  = "E_CONFLICT"
	CodeNotFound  = "E_NOT_FOUND"
	CodeInvariant = "E_INVARIANT"
	CodeUsage     = "E_USAGE"
	CodeStore     = "E_STORE"
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code
	Message string // Error message
	Err     error  // Underlying error (optional)
	ErrCode string // JSON error code; derived from Err when empty
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// usageError returns an ExitCommandError reported as E_USAGE.
func usageError(format string, args ...interface{}) *ExitError {
	return &ExitError{Code: ExitCommandError, Message: fmt.Sprintf(format, args...), ErrCode: CodeUsage}
}

// engineError wraps an ordering engine error with the exit code its kind
// calls for.
func engineError(message string, err error) *ExitError {
	switch {
	case board.IsConflict(err):
		return WrapExitError(ExitConflict, message, err)
	case board.IsNotFound(err), board.IsInvariantViolation(err):
		return WrapExitError(ExitFailure, message, err)
	default:
		return WrapExitError(ExitCommandError, message, err)
	}
}

// ErrorCode returns the JSON error code for err.
func ErrorCode(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.ErrCode != "" {
		return exitErr.ErrCode
	}
	switch {
	case board.IsConflict(err):
		return CodeConflict
	case board.IsNotFound(err):
		return CodeNotFound
	case board.IsInvariantViolation(err):
		return CodeInvariant
	case errors.Is(err, board.ErrNegativePosition):
		return CodeUsage
	default:
		return CodeStore
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E_CONFLICT", "E_NOT_FOUND", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// Text output prints data with fmt; values that need a custom text layout
// implement fmt.Stringer.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Report writes err in the configured format and returns its exit code.
func (f *OutputFormatter) Report(err error) int {
	_ = f.Error(ErrorCode(err), err.Error(), nil)
	return GetExitCode(err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
