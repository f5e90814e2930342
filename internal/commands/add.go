package commands

import (
	"context"
	"flag"
	"io"
	"os"
	"strings"

	"dtask/internal/config"
	"dtask/internal/service"
	"dtask/internal/todo"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
// Missing fields are asked for on stdin.
type AddCmd struct {
	deadline string
	in       io.Reader
}

// SetInput sets the reader prompts are answered from (for testing).
func (c *AddCmd) SetInput(r io.Reader) {
	c.in = r
}

// SetDeadline sets the deadline flag (for testing).
func (c *AddCmd) SetDeadline(deadline string) {
	c.deadline = deadline
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "dtask add [--deadline <when>] [<text...>]" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.deadline, "deadline", "", "")
	fs.StringVar(&c.deadline, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	prompter := NewLinePrompter(in, errOut)

	ctrl, code := openController(ctx, cfg, svc, errOut, todo.WithPrompter(prompter))
	if ctrl == nil {
		return code
	}
	defer ctrl.Close()

	form := todo.Form{
		Text:     strings.TrimSpace(strings.Join(args, " ")),
		Deadline: strings.TrimSpace(c.deadline),
	}

	var (
		ok  bool
		err error
	)
	switch {
	case form.Text != "" && form.Deadline != "":
		_, ok, err = ctrl.AddTask(ctx, form)
	case form.Text == "" && form.Deadline == "":
		_, ok, err = ctrl.Add(ctx)
	default:
		var confirmed bool
		form, confirmed, err = prompter.Prompt(ctx, todo.AddTitle, form)
		if err == nil && confirmed {
			_, ok, err = ctrl.AddTask(ctx, form)
		}
	}
	if err != nil {
		return reportError(errOut, err)
	}
	if !ok {
		return done(cfg, out, "cancelled")
	}
	return done(cfg, out, "ok")
}
