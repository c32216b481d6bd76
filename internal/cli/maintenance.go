package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// CompactOptions holds flags for the compact command.
type CompactOptions struct {
	*RootOptions
	Actor string
}

// CompactResult is the output of the compact command.
type CompactResult struct {
	Moved int `json:"moved"`
}

func (r CompactResult) String() string {
	return fmt.Sprintf("compacted: %d tickets renumbered", r.Moved)
}

// NewCompactCommand creates the compact command.
func NewCompactCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompactOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Close gaps in the position sequence",
		Long: `Renumber positioned tickets to 0..n-1 keeping their relative order.

Each renumbered ticket gets a history record. Tickets already in their dense
slot are untouched.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session, out *OutputFormatter) error {
				moved, err := s.engine.Compact(ctx, s.actor(opts.Actor), opts.now())
				if err != nil {
					return engineError("failed to compact", err)
				}
				return out.Success(CompactResult{Moved: moved})
			})
		},
	}

	cmd.Flags().StringVar(&opts.Actor, "actor", "", "actor recorded in history (default from config)")

	return cmd
}

// VerifyResult is the output of the verify command.
type VerifyResult struct {
	OK bool `json:"ok"`
}

func (r VerifyResult) String() string {
	return "ok"
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check stored positions for corruption",
		Long: `Check that every stored position is non-negative and unique.

Exits with status 1 and code E_INVARIANT if the store is corrupted. Nothing
is repaired.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(ctx context.Context, s *session, out *OutputFormatter) error {
				if err := s.engine.Verify(ctx); err != nil {
					return engineError("verification failed", err)
				}
				return out.Success(VerifyResult{OK: true})
			})
		},
	}
}
