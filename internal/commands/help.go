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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "dtask help [<command>]" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		cmd, ok := DefaultRegistry.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		fmt.Fprintf(out, "%s\n\nUsage:\n  %s\n", cmd.Synopsis(), cmd.Usage())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(out, "\nAliases: %v\n", aliases)
		}
		return exitcode.Success
	}
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  dtask                                       List tasks with their countdown
  dtask list [common flags]
  dtask add [common flags] [--deadline <when>] [<text...>]
  dtask edit [common flags] [--text <text>] [--deadline <when>] <ref>
  dtask toggle [common flags] <ref>           (alias: done)
  dtask rm [common flags] <ref>               (alias: delete)
  dtask watch [common flags]                  Live countdown (needs a terminal)
  dtask export [common flags] [--format json|csv|pdf] [--out <path>]
  dtask login [common flags]
  dtask logout [common flags]
  dtask help [<command>]
  dtask version

<ref> is a task number from 'dtask list' or a task id.
<when> is a local date and time such as 2025-03-14T18:30.
Missing add fields are asked for on stdin.

Common flags:
  --config <dir>     Override config directory
  --backend <name>   Task store: firestore, postgres or mysql
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
