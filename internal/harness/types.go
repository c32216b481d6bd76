package harness

import (
	"github.com/roach88/backlog/internal/board"
)

// TraceEvent records the outcome of one step.
type TraceEvent struct {
	Step     int             `json:"step"`
	Op       string          `json:"op"`
	Item     *board.Item     `json:"item,omitempty"`
	Position *board.Position `json:"position,omitempty"`
	Count    *int            `json:"count,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// OrderLine is one entry of the final effective order.
type OrderLine struct {
	Item     board.Item      `json:"item"`
	Position *board.Position `json:"position"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every step met its expectation and
	// every assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Order is the effective board order after the last step.
	Order []OrderLine `json:"order"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Order:  []OrderLine{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step outcome to the trace.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
