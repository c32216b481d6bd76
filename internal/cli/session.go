package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/backlog/internal/config"
	"github.com/roach88/backlog/internal/ordering"
	"github.com/roach88/backlog/internal/store"
	"github.com/roach88/backlog/internal/tickets"
)

// session is the open database and the engine built over it for the
// duration of one command.
type session struct {
	cfg     config.Config
	store   *store.Store
	catalog *tickets.Catalog
	engine  *ordering.Engine
}

// openSession opens the configured database, ensures the ticket catalog
// exists, and wires the ordering engine to it.
func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	cfg, err := opts.config()
	if err != nil {
		return nil, err
	}

	slog.Debug("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	cat := tickets.NewCatalog(st.DB())
	if err := cat.EnsureSchema(ctx); err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to prepare ticket catalog", err)
	}

	eng := ordering.New(st, cat, ordering.WithRanker(ordering.PriorityRanker{Sentinel: cfg.DefaultPriority}))
	return &session{cfg: cfg, store: st, catalog: cat, engine: eng}, nil
}

// Close releases the database.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// actor returns flagged if set, otherwise the configured actor.
func (s *session) actor(flagged string) string {
	if flagged != "" {
		return flagged
	}
	return s.cfg.Actor
}

// commandContext returns cmd's context, or Background when run outside
// Execute (e.g. from tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// reportedError marks an error already written through an OutputFormatter.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// fail reports err through cmd's formatter and returns it marked as reported.
func (o *RootOptions) fail(cmd *cobra.Command, err error) error {
	o.formatter(cmd).Report(err)
	return reportedError{err}
}

// withSession opens a session, runs fn, and reports any error through the
// formatter before returning it.
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, s *session, out *OutputFormatter) error) error {
	out := opts.formatter(cmd)
	ctx := commandContext(cmd)

	s, err := openSession(ctx, opts)
	if err != nil {
		return opts.fail(cmd, err)
	}
	defer s.Close()
	out.VerboseLog("database: %s", s.cfg.Database)

	if err := fn(ctx, s, out); err != nil {
		return opts.fail(cmd, err)
	}
	return nil
}
