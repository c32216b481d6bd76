package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/backlog/internal/board"
	"github.com/roach88/backlog/internal/tickets"
)

// NewTicketsCommand creates the tickets command group.
func NewTicketsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Manage the ticket catalog",
		Long:  "Manage the ticket catalog that supplies ids and priorities for the default order.",
	}

	cmd.AddCommand(newTicketsImportCommand(rootOpts))
	cmd.AddCommand(newTicketsListCommand(rootOpts))

	return cmd
}

// ImportResult is the output of the tickets import command.
type ImportResult struct {
	Imported int `json:"imported"`
}

func (r ImportResult) String() string {
	return fmt.Sprintf("imported %d tickets", r.Imported)
}

func newTicketsImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import tickets from a YAML file",
		Long: `Insert or replace tickets from a YAML file.

Example file:
  tickets:
    - id: 1
      priority: 10
    - id: 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := tickets.LoadFile(args[0])
			if err != nil {
				return rootOpts.fail(cmd, &ExitError{Code: ExitCommandError, Message: "failed to load tickets", Err: err, ErrCode: CodeUsage})
			}
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session, out *OutputFormatter) error {
				if err := s.catalog.Upsert(ctx, list); err != nil {
					return WrapExitError(ExitCommandError, "failed to import tickets", err)
				}
				return out.Success(ImportResult{Imported: len(list)})
			})
		},
	}
}

// TicketEntry is one ticket in the tickets list output.
type TicketEntry struct {
	ID       board.Item `json:"id"`
	Priority *int64     `json:"priority"`
}

// TicketsResult is the output of the tickets list command.
type TicketsResult struct {
	Tickets []TicketEntry `json:"tickets"`
}

func (r TicketsResult) String() string {
	if len(r.Tickets) == 0 {
		return "(no tickets)"
	}
	var b strings.Builder
	for i, t := range r.Tickets {
		if i > 0 {
			b.WriteByte('\n')
		}
		if t.Priority == nil {
			fmt.Fprintf(&b, "%d", t.ID)
		} else {
			fmt.Fprintf(&b, "%d  priority=%d", t.ID, *t.Priority)
		}
	}
	return b.String()
}

func newTicketsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List catalog tickets by id",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session, out *OutputFormatter) error {
				cands, err := s.catalog.ListCandidates(ctx)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to list tickets", err)
				}
				result := TicketsResult{Tickets: make([]TicketEntry, 0, len(cands))}
				for _, c := range cands {
					result.Tickets = append(result.Tickets, TicketEntry{ID: c.Item, Priority: c.Priority})
				}
				return out.Success(result)
			})
		},
	}
}
