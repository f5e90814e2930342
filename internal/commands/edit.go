package commands

import (
	"context"
	"flag"
	"io"
	"os"

	"dtask/internal/config"
	"dtask/internal/service"
	"dtask/internal/todo"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
// Without flags it prompts with the current values pre-filled.
type EditCmd struct {
	text     string
	deadline string
	in       io.Reader
}

// SetInput sets the reader prompts are answered from (for testing).
func (c *EditCmd) SetInput(r io.Reader) {
	c.in = r
}

// SetFields sets the --text and --deadline flags (for testing).
func (c *EditCmd) SetFields(text, deadline string) {
	c.text = text
	c.deadline = deadline
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's text or deadline" }
func (c *EditCmd) Usage() string {
	return "dtask edit [--text <text>] [--deadline <when>] <ref>"
}
func (c *EditCmd) NeedsStore() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.text, "text", "", "")
	fs.StringVar(&c.deadline, "deadline", "", "")
	fs.StringVar(&c.deadline, "d", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}

	ctrl, code := openController(ctx, cfg, svc, errOut, todo.WithPrompter(NewLinePrompter(in, errOut)))
	if ctrl == nil {
		return code
	}
	defer ctrl.Close()

	task, err := ResolveTaskRef(ctrl.Tasks(), args)
	if err != nil {
		return reportRefError(errOut, err)
	}

	var ok bool
	if c.text == "" && c.deadline == "" {
		_, ok, err = ctrl.Edit(ctx, task.ID)
	} else {
		form := todo.Form{Text: task.Text, Deadline: task.Deadline}
		if c.text != "" {
			form.Text = c.text
		}
		if c.deadline != "" {
			form.Deadline = c.deadline
		}
		_, ok, err = ctrl.EditTask(ctx, task.ID, form)
	}
	if err != nil {
		return reportError(errOut, err)
	}
	if !ok {
		return done(cfg, out, "cancelled")
	}
	return done(cfg, out, "ok")
}
