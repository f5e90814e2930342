// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dtask/internal/service"
	"dtask/internal/todo"
)

// State markers shown before each task text.
const (
	MarkerPending   = "[ ]"
	MarkerExpired   = "[!]"
	MarkerCompleted = "[x]"
)

// Marker returns the marker for a display state.
func Marker(s todo.State) string {
	switch s {
	case todo.StateCompleted:
		return MarkerCompleted
	case todo.StateExpired:
		return MarkerExpired
	default:
		return MarkerPending
	}
}

// Styles colours task lines by state. The zero value renders plain text.
type Styles struct {
	enabled   bool
	Pending   lipgloss.Style
	Expired   lipgloss.Style
	Completed lipgloss.Style
	Dim       lipgloss.Style
}

// ColorStyles returns the terminal colour scheme: completed tasks are green
// and struck through, expired tasks red.
func ColorStyles() Styles {
	return Styles{
		enabled:   true,
		Pending:   lipgloss.NewStyle(),
		Expired:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Completed: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Strikethrough(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// StylesFor returns ColorStyles when w is a terminal and plain styles otherwise.
func StylesFor(w io.Writer) Styles {
	if IsTTY(w) {
		return ColorStyles()
	}
	return Styles{}
}

// Render styles s according to state.
func (st Styles) Render(state todo.State, s string) string {
	if !st.enabled {
		return s
	}
	switch state {
	case todo.StateCompleted:
		return st.Completed.Render(s)
	case todo.StateExpired:
		return st.Expired.Render(s)
	default:
		return st.Pending.Render(s)
	}
}

func (st Styles) dim(s string) string {
	if !st.enabled {
		return s
	}
	return st.Dim.Render(s)
}

// FormatTask formats a task line.
// Format: "{N:>4}  {MARKER} {TEXT}  {DEADLINE}  {LABEL}\n"
func FormatTask(w io.Writer, num int, task service.Task, label string, state todo.State, st Styles) {
	fmt.Fprintf(w, "%4d  %s  %s  %s\n",
		num,
		st.Render(state, Marker(state)+" "+NormalizeText(task.Text)),
		st.dim(task.Deadline),
		label,
	)
}

// NormalizeText normalizes a task text for display.
// - Empty or whitespace-only texts become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
