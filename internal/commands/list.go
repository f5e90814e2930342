package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/output"
	"dtask/internal/service"
	"dtask/internal/todo"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `dtask` (no args) and `dtask list`.
type ListCmd struct{}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks with their countdown" }
func (c *ListCmd) Usage() string     { return "dtask list" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	ctrl, code := openController(ctx, cfg, svc, errOut)
	if ctrl == nil {
		return code
	}
	defer ctrl.Close()

	tasks := ctrl.Tasks()
	if len(tasks) == 0 {
		return done(cfg, out, "no tasks found")
	}

	labels := ctrl.Tick()
	styles := output.StylesFor(out)
	for i, t := range tasks {
		output.FormatTask(out, i+1, t, labels[t.ID], todo.StateOf(t, labels[t.ID]), styles)
	}
	return exitcode.Success
}
