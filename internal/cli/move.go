package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/backlog/internal/board"
)

// MoveOptions holds flags for the move command.
type MoveOptions struct {
	*RootOptions
	Actor string
}

// NewMoveCommand creates the move command.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "move <ticket> <position>",
		Short: "Move a ticket to an absolute position",
		Long: `Move a ticket to an absolute position.

Tickets between the old and new slot shift by one to make room. Moving a
ticket to the position it already holds changes nothing and records no
history.

Example:
  backlog move 42 0
  backlog move 42 3 --actor alice`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := parseItem(args[0])
			if err != nil {
				return opts.fail(cmd, err)
			}
			target, err := parsePosition(args[1])
			if err != nil {
				return opts.fail(cmd, err)
			}
			return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session, out *OutputFormatter) error {
				if err := s.engine.Move(ctx, item, target, s.actor(opts.Actor), opts.now()); err != nil {
					return engineError("failed to move ticket", err)
				}
				return reportPosition(ctx, s, out, item)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Actor, "actor", "", "actor recorded in history (default from config)")

	return cmd
}

// PlaceOptions holds flags for the place command.
type PlaceOptions struct {
	*RootOptions
	Actor  string
	Before string
	After  string
}

// NewPlaceCommand creates the place command.
func NewPlaceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlaceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "place <ticket> (--before <ticket> | --after <ticket>)",
		Short: "Place a ticket next to another ticket",
		Long: `Place a ticket directly before or after another ticket.

The relative ticket is given a position first if it has none.

Example:
  backlog place 42 --before 7
  backlog place 42 --after 7`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := parseItem(args[0])
			if err != nil {
				return opts.fail(cmd, err)
			}
			relative, dir, err := opts.relative()
			if err != nil {
				return opts.fail(cmd, err)
			}
			return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session, out *OutputFormatter) error {
				if err := s.engine.Place(ctx, item, relative, dir, s.actor(opts.Actor), opts.now()); err != nil {
					return engineError("failed to place ticket", err)
				}
				return reportPosition(ctx, s, out, item)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Actor, "actor", "", "actor recorded in history (default from config)")
	cmd.Flags().StringVar(&opts.Before, "before", "", "place directly before this ticket")
	cmd.Flags().StringVar(&opts.After, "after", "", "place directly after this ticket")
	cmd.MarkFlagsMutuallyExclusive("before", "after")
	cmd.MarkFlagsOneRequired("before", "after")

	return cmd
}

// relative returns the ticket named by --before or --after.
func (o *PlaceOptions) relative() (board.Item, board.Direction, error) {
	if o.After != "" {
		item, err := parseItem(o.After)
		return item, board.After, err
	}
	item, err := parseItem(o.Before)
	return item, board.Before, err
}

// reportPosition prints item's stored position after a reorder.
func reportPosition(ctx context.Context, s *session, out *OutputFormatter, item board.Item) error {
	positions, err := s.engine.Positions(ctx, []board.Item{item})
	if err != nil {
		return engineError("failed to read position", err)
	}
	result := PositionResult{Item: item}
	if pos, ok := positions[item]; ok {
		result.Position = board.PositionPtr(pos)
	}
	return out.Success(result)
}
