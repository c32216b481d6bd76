package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/backlog/internal/board"
	"github.com/roach88/backlog/internal/ordering"
)

// AssertionContext provides the engine to assertions that read state
// beyond the captured result.
type AssertionContext struct {
	Engine *ordering.Engine
	Ctx    context.Context
}

// AssertionError is returned when an assertion fails.
// It includes the final order to help debug the failure.
type AssertionError struct {
	Type     string      // Assertion type for categorization
	Expected string      // Human-readable expected outcome
	Actual   string      // Human-readable actual outcome
	Order    []OrderLine // Final order for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFinal order:\n")
	for _, line := range e.Order {
		if line.Position == nil {
			fmt.Fprintf(&buf, "  -  %d\n", line.Item)
		} else {
			fmt.Fprintf(&buf, "  %d  %d\n", *line.Position, line.Item)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertOrder:
		return assertOrder(result.Order, a)
	case AssertPositions:
		return assertPositions(result.Order, a)
	case AssertUnpositioned:
		return assertUnpositioned(result.Order, a)
	case AssertHistoryCount:
		return assertHistoryCount(result.Order, a, actx)
	case AssertDense:
		return assertDense(result.Order)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertOrder checks the full effective order.
func assertOrder(order []OrderLine, a Assertion) error {
	actual := make([]board.Item, len(order))
	for i, line := range order {
		actual[i] = line.Item
	}
	if slices.Equal(actual, a.Items) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOrder,
		Expected: fmt.Sprint(a.Items),
		Actual:   fmt.Sprint(actual),
		Order:    order,
	}
}

// assertPositions checks the explicit positions exactly: every listed item
// holds its position and no other item is positioned.
func assertPositions(order []OrderLine, a Assertion) error {
	actual := explicitPositions(order)
	if len(actual) == len(a.Positions) {
		match := true
		for item, want := range a.Positions {
			if got, ok := actual[item]; !ok || got != want {
				match = false
				break
			}
		}
		if match {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertPositions,
		Expected: fmt.Sprint(a.Positions),
		Actual:   fmt.Sprint(actual),
		Order:    order,
	}
}

// assertUnpositioned checks that each listed item has no explicit position.
func assertUnpositioned(order []OrderLine, a Assertion) error {
	actual := explicitPositions(order)
	for _, item := range a.Items {
		if pos, ok := actual[item]; ok {
			return &AssertionError{
				Type:     AssertUnpositioned,
				Expected: fmt.Sprintf("item %d unpositioned", item),
				Actual:   fmt.Sprintf("item %d at %d", item, pos),
				Order:    order,
			}
		}
	}
	return nil
}

// assertHistoryCount counts the item's history records.
func assertHistoryCount(order []OrderLine, a Assertion, actx *AssertionContext) error {
	count := 0
	for _, err := range actx.Engine.History(actx.Ctx, a.Item) {
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		count++
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertHistoryCount,
		Expected: fmt.Sprintf("%d records for item %d", a.Count, a.Item),
		Actual:   fmt.Sprintf("%d records", count),
		Order:    order,
	}
}

// assertDense checks that explicit positions are exactly 0..n-1.
func assertDense(order []OrderLine) error {
	var positions []board.Position
	for _, line := range order {
		if line.Position != nil {
			positions = append(positions, *line.Position)
		}
	}
	slices.Sort(positions)
	for i, pos := range positions {
		if pos != board.Position(i) {
			return &AssertionError{
				Type:     AssertDense,
				Expected: fmt.Sprintf("position %d at rank %d", i, i),
				Actual:   fmt.Sprintf("position %d", pos),
				Order:    order,
			}
		}
	}
	return nil
}

func explicitPositions(order []OrderLine) map[board.Item]board.Position {
	out := make(map[board.Item]board.Position, len(order))
	for _, line := range order {
		if line.Position != nil {
			out[line.Item] = *line.Position
		}
	}
	return out
}
