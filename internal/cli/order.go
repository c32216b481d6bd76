package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/backlog/internal/board"
	"github.com/roach88/backlog/internal/ordering"
)

// OrderEntry is one line of the order command's output.
type OrderEntry struct {
	Item     board.Item      `json:"item"`
	Position *board.Position `json:"position"`
}

// OrderResult is the output of the order command.
type OrderResult struct {
	Entries []OrderEntry `json:"entries"`
}

func (r OrderResult) String() string {
	if len(r.Entries) == 0 {
		return "(empty)"
	}
	var b strings.Builder
	for i, e := range r.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		if e.Position == nil {
			fmt.Fprintf(&b, "%4s  %d", "-", e.Item)
		} else {
			fmt.Fprintf(&b, "%4d  %d", *e.Position, e.Item)
		}
	}
	return b.String()
}

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print the effective board order",
		Long: `Print the effective board order.

Positioned tickets come first by position, followed by unpositioned tickets
in default order (priority, then id). Nothing is written.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session, out *OutputFormatter) error {
				entries, err := s.engine.Order(ctx)
				if err != nil {
					return engineError("failed to read order", err)
				}
				return out.Success(newOrderResult(entries))
			})
		},
	}
}

func newOrderResult(entries []ordering.Entry) OrderResult {
	result := OrderResult{Entries: make([]OrderEntry, 0, len(entries))}
	for _, e := range entries {
		result.Entries = append(result.Entries, OrderEntry{Item: e.Item, Position: e.Position})
	}
	return result
}

// HistoryEntry is one change in the history command's output.
type HistoryEntry struct {
	Time        time.Time       `json:"time"`
	Actor       string          `json:"actor"`
	OldPosition *board.Position `json:"old_position"`
	NewPosition board.Position  `json:"new_position"`
}

// HistoryResult is the output of the history command.
type HistoryResult struct {
	Item    board.Item     `json:"item"`
	Changes []HistoryEntry `json:"changes"`
}

func (r HistoryResult) String() string {
	if len(r.Changes) == 0 {
		return fmt.Sprintf("%d: no history", r.Item)
	}
	var b strings.Builder
	for i, c := range r.Changes {
		if i > 0 {
			b.WriteByte('\n')
		}
		old := "-"
		if c.OldPosition != nil {
			old = fmt.Sprint(*c.OldPosition)
		}
		fmt.Fprintf(&b, "%s  %s  %s -> %d", c.Time.Format(time.RFC3339Nano), c.Actor, old, c.NewPosition)
	}
	return b.String()
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <ticket>",
		Short: "Show a ticket's position changes",
		Long: `Show a ticket's position changes, oldest first.

Only moves requested directly for the ticket are recorded. Shifts caused by
moving other tickets do not appear.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := parseItem(args[0])
			if err != nil {
				return rootOpts.fail(cmd, err)
			}
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session, out *OutputFormatter) error {
				result := HistoryResult{Item: item, Changes: []HistoryEntry{}}
				for rec, err := range s.engine.History(ctx, item) {
					if err != nil {
						return engineError("failed to read history", err)
					}
					result.Changes = append(result.Changes, HistoryEntry{
						Time:        rec.Time,
						Actor:       rec.Actor,
						OldPosition: rec.OldPosition,
						NewPosition: rec.NewPosition,
					})
				}
				return out.Success(result)
			})
		},
	}
}
