package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/backlog/internal/board"
)

// PositionOptions holds flags for the position command.
type PositionOptions struct {
	*RootOptions
	Generate bool
}

// PositionResult is the output of the position command.
type PositionResult struct {
	Item     board.Item      `json:"item"`
	Position *board.Position `json:"position"`
}

func (r PositionResult) String() string {
	if r.Position == nil {
		return fmt.Sprintf("%d: unpositioned", r.Item)
	}
	return fmt.Sprintf("%d: %d", r.Item, *r.Position)
}

// NewPositionCommand creates the position command.
func NewPositionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PositionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "position <ticket>",
		Short: "Show a ticket's explicit position",
		Long: `Show a ticket's explicit position.

Without --generate an unpositioned ticket is reported as such and nothing is
written. With --generate the ticket and every unpositioned ticket ahead of it
in the default order are given positions after the current maximum.

Example:
  backlog position 42
  backlog position 42 --generate`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := parseItem(args[0])
			if err != nil {
				return opts.fail(cmd, err)
			}
			return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session, out *OutputFormatter) error {
				return runPosition(ctx, s, out, item, opts.Generate)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Generate, "generate", false, "materialize the position if the ticket has none")

	return cmd
}

func runPosition(ctx context.Context, s *session, out *OutputFormatter, item board.Item, generate bool) error {
	pos, found, err := s.engine.ResolvePosition(ctx, item, generate)
	if err != nil {
		return engineError("failed to resolve position", err)
	}

	result := PositionResult{Item: item}
	if found {
		result.Position = board.PositionPtr(pos)
	}
	return out.Success(result)
}
