package commands

import (
	"context"
	"flag"
	"io"

	"dtask/internal/config"
	"dtask/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "dtask rm <ref>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ctrl, code := openController(ctx, cfg, svc, errOut)
	if ctrl == nil {
		return code
	}
	defer ctrl.Close()

	task, err := ResolveTaskRef(ctrl.Tasks(), args)
	if err != nil {
		return reportRefError(errOut, err)
	}

	if err := ctrl.Delete(ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}
	return done(cfg, out, "ok")
}
