package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"dtask/internal/todo"
)

// LinePrompter asks for the task name and deadline on two input lines.
// An empty line keeps the default shown in brackets. End of input cancels.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter reads answers from in and writes questions to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Prompt implements todo.Prompter.
func (p *LinePrompter) Prompt(ctx context.Context, title string, defaults todo.Form) (todo.Form, bool, error) {
	fmt.Fprintln(p.out, title)

	text, ok, err := p.ask(ctx, "Name", defaults.Text)
	if err != nil || !ok {
		return todo.Form{}, false, err
	}
	deadline, ok, err := p.ask(ctx, "Deadline (YYYY-MM-DDTHH:MM)", defaults.Deadline)
	if err != nil || !ok {
		return todo.Form{}, false, err
	}
	return todo.Form{Text: text, Deadline: deadline}, true, nil
}

func (p *LinePrompter) ask(ctx context.Context, label, def string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
		return "", false, nil
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return def, true, nil
	}
	return line, true, nil
}
