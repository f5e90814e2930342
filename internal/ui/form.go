package ui

import (
	"fmt"
	"strings"

	"dtask/internal/todo"
)

const (
	fieldText = iota
	fieldDeadline
)

// form is the two-field add/edit dialog. id is empty when adding.
type form struct {
	title  string
	id     string
	values [2]string
	focus  int
}

func (f *form) next() {
	f.focus = (f.focus + 1) % len(f.values)
}

func (f *form) insert(s string) {
	f.values[f.focus] += s
}

func (f *form) backspace() {
	v := []rune(f.values[f.focus])
	if len(v) > 0 {
		f.values[f.focus] = string(v[:len(v)-1])
	}
}

func (f *form) result() todo.Form {
	return todo.Form{Text: f.values[fieldText], Deadline: f.values[fieldDeadline]}
}

func writeForm(b *strings.Builder, f form, st styles) {
	b.WriteString(f.title + "\n\n")
	labels := [2]string{"Name", "Deadline (YYYY-MM-DDTHH:MM)"}
	for i, label := range labels {
		value := f.values[i]
		if i == f.focus {
			value = st.focus.Render(value + "_")
		}
		fmt.Fprintf(b, "  %-28s %s\n", label+":", value)
	}
}
