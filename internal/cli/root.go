package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/backlog/internal/board"
	"github.com/roach88/backlog/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string // overrides the configured database when set

	// Now stamps history records. Defaults to time.Now (overridable for tests).
	Now func() time.Time

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the backlog CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "backlog",
		Short: "backlog - manual ticket ordering",
		Long: `Maintain a stable, user-controlled ordering of backlog tickets.

Tickets without an explicit position follow a default order (priority, then
id) and are materialized lazily the first time they are moved or placed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return usageError("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			return setupLogging(cmd.ErrOrStderr(), cfg, opts.Verbose)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to CUE config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewPositionCommand(opts))
	cmd.AddCommand(NewMoveCommand(opts))
	cmd.AddCommand(NewPlaceCommand(opts))
	cmd.AddCommand(NewOrderCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewCompactCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewTicketsCommand(opts))

	return cmd
}

// config loads the configuration once and applies flag overrides.
func (o *RootOptions) config() (config.Config, error) {
	if o.cfg != nil {
		return *o.cfg, nil
	}
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, &ExitError{Code: ExitCommandError, Message: "failed to load config", Err: err, ErrCode: CodeUsage}
	}
	if o.Database != "" {
		cfg.Database = o.Database
	}
	o.cfg = &cfg
	return cfg, nil
}

// now returns the timestamp for the next history record.
func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

// formatter builds an OutputFormatter bound to cmd's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// setupLogging installs the default slog handler. Verbose forces debug level.
func setupLogging(w io.Writer, cfg config.Config, verbose bool) error {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "invalid log level", Err: err, ErrCode: CodeUsage}
	}
	if verbose {
		level = slog.LevelDebug
	}
	if w == nil {
		w = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	case "text":
		handler = slog.NewTextHandler(w, handlerOpts)
	default:
		return usageError("invalid log format %q", cfg.LogFormat)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// parseItem parses a ticket id argument.
func parseItem(arg string) (board.Item, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 0 {
		return 0, usageError("invalid ticket id %q", arg)
	}
	return board.Item(id), nil
}

// parsePosition parses a target position argument.
func parsePosition(arg string) (board.Position, error) {
	pos, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, usageError("invalid position %q", arg)
	}
	if pos < 0 {
		return 0, WrapExitError(ExitCommandError, fmt.Sprintf("invalid position %q", arg), board.ErrNegativePosition)
	}
	return board.Position(pos), nil
}
