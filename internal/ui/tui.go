// Package ui provides the live countdown terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dtask/internal/output"
	"dtask/internal/service"
	"dtask/internal/todo"
)

// TickInterval is how often the countdown labels are recomputed.
const TickInterval = time.Second

// Run shows the task list of a loaded controller until the user quits.
func Run(ctx context.Context, ctrl *todo.Controller) error {
	if !output.IsTTY(os.Stdout) {
		return fmt.Errorf("watch requires a TTY")
	}

	labels := make(chan map[string]string, 1)
	model := newModel(ctx, ctrl, labels)

	cd := ctrl.StartCountdown(ctx, TickInterval, func(l map[string]string) {
		publish(labels, l)
	})
	defer func() {
		cd.Stop()
		close(labels)
	}()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// publish replaces any label map the model has not picked up yet.
func publish(ch chan map[string]string, labels map[string]string) {
	for {
		select {
		case ch <- labels:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

type mode int

const (
	modeList mode = iota
	modeForm
)

type model struct {
	ctx    context.Context
	ctrl   *todo.Controller
	labels <-chan map[string]string

	tasks  []service.Task
	counts map[string]string
	cursor int

	mode   mode
	form   form
	busy   bool
	status string
	styles styles
}

type labelsMsg map[string]string

// opMsg reports the end of a store call started from a key press.
type opMsg struct {
	verb string
	ok   bool
	err  error
}

func newModel(ctx context.Context, ctrl *todo.Controller, labels <-chan map[string]string) *model {
	return &model{
		ctx:    ctx,
		ctrl:   ctrl,
		labels: labels,
		tasks:  ctrl.Tasks(),
		counts: ctrl.Labels(),
		styles: newStyles(),
	}
}

func (m *model) Init() tea.Cmd {
	return waitForLabels(m.labels)
}

func waitForLabels(ch <-chan map[string]string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		labels, ok := <-ch
		if !ok {
			return nil
		}
		return labelsMsg(labels)
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case labelsMsg:
		m.counts = msg
		return m, waitForLabels(m.labels)
	case opMsg:
		m.busy = false
		m.refresh()
		switch {
		case msg.err != nil:
			m.status = "error: " + msg.err.Error()
		case !msg.ok:
			m.status = "cancelled"
		default:
			m.status = msg.verb
		}
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "a":
		m.openForm(todo.AddTitle, "", todo.Form{})
	case "e", "enter":
		if t, ok := m.selected(); ok {
			m.openForm(todo.EditTitle, t.ID, todo.Form{Text: t.Text, Deadline: todo.EditDeadline(t.Deadline)})
		}
	case " ", "space", "t":
		if t, ok := m.selected(); ok && !m.busy {
			return m, m.run("toggled", func() (bool, error) {
				_, err := m.ctrl.Toggle(m.ctx, t.ID)
				return err == nil, err
			})
		}
	case "d", "x", "delete":
		if t, ok := m.selected(); ok && !m.busy {
			return m, m.run("deleted", func() (bool, error) {
				err := m.ctrl.Delete(m.ctx, t.ID)
				return err == nil, err
			})
		}
	}
	return m, nil
}

func (m *model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode = modeList
		m.status = "cancelled"
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.form.next()
		return m, nil
	case tea.KeyBackspace:
		m.form.backspace()
		return m, nil
	case tea.KeyEnter:
		if m.form.focus == fieldText {
			m.form.next()
			return m, nil
		}
		return m, m.submit()
	case tea.KeySpace:
		m.form.insert(" ")
		return m, nil
	case tea.KeyRunes:
		m.form.insert(string(msg.Runes))
		return m, nil
	}
	return m, nil
}

func (m *model) openForm(title, id string, defaults todo.Form) {
	m.mode = modeForm
	m.form = form{title: title, id: id, values: [2]string{defaults.Text, defaults.Deadline}}
	m.status = ""
}

// submit saves the form. While another store call runs the form stays open.
func (m *model) submit() tea.Cmd {
	if m.busy {
		m.status = "busy"
		return nil
	}
	m.mode = modeList
	f := m.form.result()
	if m.form.id == "" {
		return m.run("added", func() (bool, error) {
			_, ok, err := m.ctrl.AddTask(m.ctx, f)
			return ok, err
		})
	}
	id := m.form.id
	return m.run("edited", func() (bool, error) {
		_, ok, err := m.ctrl.EditTask(m.ctx, id, f)
		return ok, err
	})
}

// run performs a store call off the event loop.
func (m *model) run(verb string, op func() (bool, error)) tea.Cmd {
	m.busy = true
	m.status = "saving..."
	return func() tea.Msg {
		ok, err := op()
		return opMsg{verb: verb, ok: ok, err: err}
	}
}

func (m *model) refresh() {
	m.tasks = m.ctrl.Tasks()
	if m.cursor >= len(m.tasks) {
		m.cursor = max(len(m.tasks)-1, 0)
	}
}

func (m *model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return service.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("To-Do List") + "\n\n")

	if m.mode == modeForm {
		writeForm(&b, m.form, m.styles)
	} else {
		m.writeTasks(&b)
	}

	if m.status != "" {
		b.WriteString("\n" + m.styles.status.Render(m.status) + "\n")
	}
	writeFooter(&b, m.mode)
	return b.String()
}

func (m *model) writeTasks(b *strings.Builder) {
	if len(m.tasks) == 0 {
		b.WriteString("  No tasks. Press a to add one.\n")
		return
	}
	now := m.ctrl.Now()
	for i, t := range m.tasks {
		state, label := m.row(t, now)
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s %s", output.Marker(state), output.NormalizeText(t.Text))
		fmt.Fprintf(b, "%s%s  %s  %s\n",
			cursor,
			m.styles.state(state).Render(line),
			m.styles.dim.Render(t.Deadline),
			label,
		)
	}
}

// row returns the state and countdown shown for t. A ticked task is styled
// from its label; an unticked one shows PendingLabel and is classified at now.
func (m *model) row(t service.Task, now time.Time) (todo.State, string) {
	if label, ok := m.counts[t.ID]; ok {
		return todo.StateOf(t, label), label
	}
	return todo.Classify(t, now), todo.PendingLabel
}

func writeFooter(b *strings.Builder, md mode) {
	b.WriteString("\n")
	if md == modeForm {
		b.WriteString("tab switch field | enter save | esc cancel\n")
		return
	}
	b.WriteString("a add | e edit | space toggle | d delete | q quit\n")
}

type styles struct {
	title     lipgloss.Style
	pending   lipgloss.Style
	expired   lipgloss.Style
	completed lipgloss.Style
	dim       lipgloss.Style
	status    lipgloss.Style
	focus     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		pending:   lipgloss.NewStyle(),
		expired:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		completed: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Strikethrough(true),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		status:    lipgloss.NewStyle().Italic(true),
		focus:     lipgloss.NewStyle().Underline(true),
	}
}

func (s styles) state(st todo.State) lipgloss.Style {
	switch st {
	case todo.StateCompleted:
		return s.completed
	case todo.StateExpired:
		return s.expired
	default:
		return s.pending
	}
}
