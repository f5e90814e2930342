package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/logging"
	"dtask/internal/service"
	"dtask/internal/todo"
	"dtask/internal/ui"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd implements the watch command.
type WatchCmd struct{}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return []string{"ui"} }
func (c *WatchCmd) Synopsis() string  { return "Show tasks with a live countdown" }
func (c *WatchCmd) Usage() string     { return "dtask watch" }
func (c *WatchCmd) NeedsStore() bool  { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ctrl, code := openWatchController(ctx, cfg, svc, errOut)
	if ctrl == nil {
		return code
	}
	defer ctrl.Close()

	if err := ui.Run(ctx, ctrl); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// openWatchController loads a controller that does not log. The TUI owns the
// terminal, so failures are shown in its status line instead.
func openWatchController(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*todo.Controller, int) {
	return openController(ctx, cfg, svc, errOut, todo.WithLogger(logging.Discard()))
}
