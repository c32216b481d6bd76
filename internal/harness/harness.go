package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/backlog/internal/board"
	"github.com/roach88/backlog/internal/ordering"
	"github.com/roach88/backlog/internal/store"
	"github.com/roach88/backlog/internal/testutil"
	"github.com/roach88/backlog/internal/tickets"
)

// defaultActor is recorded for steps that don't name an actor.
const defaultActor = "harness"

// Harness is the scenario execution engine.
// It runs steps with a deterministic clock against a fresh store.
type Harness struct {
	store  *store.Store
	engine *ordering.Engine
	clock  *testutil.DeterministicClock
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
// 1. Create fresh in-memory database and ticket source
// 2. Seed explicit positions
// 3. Execute steps, checking each step's expectation
// 4. Capture the final order and evaluate assertions
//
// The returned error covers infrastructure failures only; step and
// assertion failures are reported in Result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	source := tickets.NewStatic()
	for _, t := range scenario.Tickets {
		source.Add(board.Candidate{Item: t.ID, Priority: t.Priority})
	}

	sentinel := ordering.DefaultPrioritySentinel
	if scenario.DefaultPriority != nil {
		sentinel = *scenario.DefaultPriority
	}

	h := &Harness{
		store:  st,
		engine: ordering.New(st, source, ordering.WithRanker(ordering.PriorityRanker{Sentinel: sentinel})),
		clock:  testutil.NewDeterministicClock(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	if err := h.seed(ctx, scenario.Positions); err != nil {
		return nil, fmt.Errorf("failed to seed positions: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		h.executeStep(ctx, i, step, result)
	}

	entries, err := h.engine.Order(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read final order: %w", err)
	}
	for _, e := range entries {
		result.Order = append(result.Order, OrderLine{Item: e.Item, Position: e.Position})
	}

	actx := &AssertionContext{Engine: h.engine, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// seed writes the scenario's initial positions in one transaction.
func (h *Harness) seed(ctx context.Context, seeds []PositionSeed) error {
	if len(seeds) == 0 {
		return nil
	}
	return h.store.WithTx(ctx, func(tx board.Tx) error {
		for _, s := range seeds {
			if err := tx.Set(ctx, s.Item, s.Position); err != nil {
				return err
			}
		}
		return nil
	})
}

// executeStep runs one step, records it in the trace, and checks its
// expectation.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) {
	actor := step.Actor
	if actor == "" {
		actor = defaultActor
	}

	event := TraceEvent{Step: index, Op: step.Op}
	var err error

	switch step.Op {
	case OpResolve:
		event.Item = itemPtr(step.Item)
		var (
			pos   board.Position
			found bool
		)
		pos, found, err = h.engine.ResolvePosition(ctx, step.Item, step.Generate)
		if err == nil && found {
			event.Position = board.PositionPtr(pos)
		}
	case OpMove:
		event.Item = itemPtr(step.Item)
		err = h.engine.Move(ctx, step.Item, step.Target, actor, h.clock.Now())
		if err == nil {
			event.Position, err = h.position(ctx, step.Item)
		}
	case OpPlace:
		event.Item = itemPtr(step.Item)
		dir, _ := board.ParseDirection(step.Direction)
		err = h.engine.Place(ctx, step.Item, step.Relative, dir, actor, h.clock.Now())
		if err == nil {
			event.Position, err = h.position(ctx, step.Item)
		}
	case OpCompact:
		var n int
		n, err = h.engine.Compact(ctx, actor, h.clock.Now())
		if err == nil {
			event.Count = &n
		}
	}

	if err != nil {
		event.Error = errorKind(err)
	}
	result.AddTrace(event)

	h.logger.Info("step completed",
		"step", index,
		"op", step.Op,
		"item", step.Item,
		"error", event.Error,
	)

	for _, msg := range checkExpect(step, event, err) {
		result.AddError(fmt.Sprintf("steps[%d] (%s): %s", index, step.Op, msg))
	}
}

// position reads item's stored position, nil if it has none.
func (h *Harness) position(ctx context.Context, item board.Item) (*board.Position, error) {
	positions, err := h.engine.Positions(ctx, []board.Item{item})
	if err != nil {
		return nil, err
	}
	if pos, ok := positions[item]; ok {
		return board.PositionPtr(pos), nil
	}
	return nil, nil
}

// checkExpect compares a step's outcome with its expect clause.
func checkExpect(step Step, event TraceEvent, err error) []string {
	exp := step.Expect
	if exp == nil {
		exp = &StepExpect{}
	}

	if exp.Error != "" {
		if err == nil {
			return []string{fmt.Sprintf("expected %s error, step succeeded", exp.Error)}
		}
		if event.Error != exp.Error {
			return []string{fmt.Sprintf("expected %s error, got %v", exp.Error, err)}
		}
		return nil
	}
	if err != nil {
		return []string{fmt.Sprintf("unexpected error: %v", err)}
	}

	var msgs []string
	if exp.Position != nil {
		switch {
		case event.Position == nil:
			msgs = append(msgs, fmt.Sprintf("expected position %d, item has none", *exp.Position))
		case *event.Position != *exp.Position:
			msgs = append(msgs, fmt.Sprintf("expected position %d, got %d", *exp.Position, *event.Position))
		}
	}
	if exp.Absent && event.Position != nil {
		msgs = append(msgs, fmt.Sprintf("expected no position, got %d", *event.Position))
	}
	if exp.Count != nil && event.Count != nil && *event.Count != *exp.Count {
		msgs = append(msgs, fmt.Sprintf("expected %d renumbered, got %d", *exp.Count, *event.Count))
	}
	return msgs
}

// errorKind classifies an engine error for the trace.
func errorKind(err error) string {
	switch {
	case board.IsConflict(err):
		return KindConflict
	case board.IsNotFound(err):
		return KindNotFound
	case board.IsInvariantViolation(err):
		return KindInvariant
	case errors.Is(err, board.ErrNegativePosition):
		return KindNegative
	default:
		return "error"
	}
}

func itemPtr(item board.Item) *board.Item {
	return &item
}
