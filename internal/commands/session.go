package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/logging"
	"dtask/internal/service"
	"dtask/internal/todo"
)

// openController builds a controller over svc and loads the task list.
// On failure the error is reported to errOut and a non-zero exit code returned.
func openController(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer, opts ...todo.Option) (*todo.Controller, int) {
	opts = append([]todo.Option{todo.WithLogger(logging.New(errOut, cfg.Debug))}, opts...)
	ctrl := todo.New(svc, opts...)
	if err := ctrl.Load(ctx); err != nil {
		return nil, reportError(errOut, err)
	}
	return ctrl, exitcode.Success
}

// reportError prints err to errOut and maps it to an exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, todo.ErrTaskNotFound), errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, todo.ErrInvalidDeadline):
		fmt.Fprintf(errOut, "error: %v (expected YYYY-MM-DDTHH:MM)\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrAuth):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// done prints the confirmation line unless quiet.
func done(cfg *config.Config, out io.Writer, msg string) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, msg)
	}
	return exitcode.Success
}
