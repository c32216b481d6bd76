package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Execute runs the root command with args and returns the process exit code.
// Errors not already reported by a command are written to errOut.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var reported reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			// Cobra argument and flag errors.
			return ExitCommandError
		}
	}
	return GetExitCode(err)
}
