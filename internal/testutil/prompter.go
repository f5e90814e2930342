package testutil

import (
	"context"

	"dtask/internal/todo"
)

// ScriptedPrompter answers every prompt with the same result and records
// the titles and defaults it was shown.
type ScriptedPrompter struct {
	Form      todo.Form
	Confirmed bool
	Err       error

	Titles   []string
	Defaults []todo.Form
}

// Confirm returns a prompter that confirms with the given fields.
func Confirm(text, deadline string) *ScriptedPrompter {
	return &ScriptedPrompter{Form: todo.Form{Text: text, Deadline: deadline}, Confirmed: true}
}

// Cancel returns a prompter that cancels every dialog.
func Cancel() *ScriptedPrompter {
	return &ScriptedPrompter{}
}

// Prompt implements todo.Prompter.
func (p *ScriptedPrompter) Prompt(ctx context.Context, title string, defaults todo.Form) (todo.Form, bool, error) {
	p.Titles = append(p.Titles, title)
	p.Defaults = append(p.Defaults, defaults)
	if p.Err != nil {
		return todo.Form{}, false, p.Err
	}
	return p.Form, p.Confirmed, nil
}
