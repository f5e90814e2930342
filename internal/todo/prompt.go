package todo

import (
	"context"
	"strings"
)

// Form holds the two fields of the add/edit dialog.
type Form struct {
	Text     string
	Deadline string
}

// complete trims both fields and reports whether neither is empty.
func (f Form) complete() (Form, bool) {
	f.Text = strings.TrimSpace(f.Text)
	f.Deadline = strings.TrimSpace(f.Deadline)
	return f, f.Text != "" && f.Deadline != ""
}

// Prompter asks the user for a task name and deadline.
//
// Prompt blocks until the user confirms or cancels. defaults pre-fills the
// fields. ok is false when the dialog was cancelled.
type Prompter interface {
	Prompt(ctx context.Context, title string, defaults Form) (form Form, ok bool, err error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, title string, defaults Form) (Form, bool, error)

// Prompt implements Prompter.
func (f PrompterFunc) Prompt(ctx context.Context, title string, defaults Form) (Form, bool, error) {
	return f(ctx, title, defaults)
}

// Dialog titles.
const (
	AddTitle  = "Add task"
	EditTitle = "Edit task"
)
