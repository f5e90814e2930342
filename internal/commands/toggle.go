package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Flip a task between open and completed" }
func (c *ToggleCmd) Usage() string     { return "dtask toggle <ref>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ctrl, code := openController(ctx, cfg, svc, errOut)
	if ctrl == nil {
		return code
	}
	defer ctrl.Close()

	task, err := ResolveTaskRef(ctrl.Tasks(), args)
	if err != nil {
		return reportRefError(errOut, err)
	}

	updated, err := ctrl.Toggle(ctx, task.ID)
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		if updated.Completed {
			fmt.Fprintln(out, "completed")
		} else {
			fmt.Fprintln(out, "reopened")
		}
	}
	return exitcode.Success
}
