package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dtask/internal/testutil"
	"dtask/internal/todo"
)

var fixedNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (*model, *testutil.FakeService) {
	t.Helper()
	svc := testutil.NewFakeService()
	svc.AddTask("a", "Buy bread", "2025-03-14T12:05:09Z", false)
	svc.AddTask("b", "Pay rent", "2025-03-01T09:00:00Z", false)
	svc.AddTask("c", "Call mom", "2025-03-20T18:30:00Z", true)

	ctrl := todo.New(svc, todo.WithClock(func() time.Time { return fixedNow }))
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return newModel(context.Background(), ctrl, nil), svc
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the resulting command, if it reports a store call.
func press(m *model, s string) {
	_, cmd := m.Update(key(s))
	if cmd == nil {
		return
	}
	if msg, ok := cmd().(opMsg); ok {
		m.Update(msg)
	}
}

func typeText(m *model, s string) {
	for _, r := range s {
		press(m, string(r))
	}
}

func TestView_ShowsPendingLabelsBeforeFirstTick(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	for _, want := range []string{"Buy bread", "Pay rent", "Call mom", todo.PendingLabel} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestUpdate_LabelsMsg(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(labelsMsg(m.ctrl.Tick()))

	view := m.View()
	if !strings.Contains(view, "2j 5m 9d") {
		t.Errorf("expected countdown in view:\n%s", view)
	}
	if !strings.Contains(view, todo.ExpiredLabel) {
		t.Errorf("expected expired label in view:\n%s", view)
	}
}

func TestRow_StateFollowsShownLabel(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(labelsMsg(map[string]string{"a": "0j 0m 0d", "b": todo.ExpiredLabel}))

	// Past a's deadline, but the last tick still counts it down.
	later := time.Date(2025, 3, 14, 12, 6, 0, 0, time.UTC)
	state, label := m.row(m.tasks[0], later)
	if label != "0j 0m 0d" || state != todo.StatePending {
		t.Errorf("expected pending 0j 0m 0d, got %v %q", state, label)
	}

	state, label = m.row(m.tasks[1], fixedNow)
	if label != todo.ExpiredLabel || state != todo.StateExpired {
		t.Errorf("expected expired row, got %v %q", state, label)
	}

	state, label = m.row(m.tasks[2], fixedNow)
	if label != todo.PendingLabel || state != todo.StateCompleted {
		t.Errorf("expected unticked completed row, got %v %q", state, label)
	}
}

func TestUpdate_ToggleSelected(t *testing.T) {
	m, svc := newTestModel(t)

	press(m, " ")

	stored, _ := svc.Stored("a")
	if !stored.Completed {
		t.Error("expected first task completed in store")
	}
	if !m.tasks[0].Completed {
		t.Error("expected model refreshed after toggle")
	}
	if m.status != "toggled" {
		t.Errorf("expected status toggled, got %q", m.status)
	}
}

func TestUpdate_ToggleFailureShowsError(t *testing.T) {
	m, svc := newTestModel(t)
	svc.UpdateTaskErr = errors.New("network down")

	press(m, "t")

	if m.tasks[0].Completed {
		t.Error("expected toggle reverted")
	}
	if !strings.Contains(m.status, "network down") {
		t.Errorf("expected error in status, got %q", m.status)
	}
}

func TestUpdate_DeleteMovesCursor(t *testing.T) {
	m, svc := newTestModel(t)

	press(m, "down")
	press(m, "down")
	press(m, "d")

	if svc.Len() != 2 {
		t.Errorf("expected 2 stored tasks, got %d", svc.Len())
	}
	if len(m.tasks) != 2 || m.cursor != 1 {
		t.Errorf("expected cursor on last remaining task, got cursor %d of %d", m.cursor, len(m.tasks))
	}
}

func TestUpdate_AddThroughForm(t *testing.T) {
	m, svc := newTestModel(t)

	press(m, "a")
	if m.mode != modeForm {
		t.Fatal("expected form mode")
	}
	typeText(m, "Water plants")
	press(m, "enter")
	typeText(m, "2025-03-15T08:00")
	press(m, "enter")

	if m.mode != modeList {
		t.Error("expected list mode after submit")
	}
	if svc.Len() != 4 {
		t.Fatalf("expected 4 stored tasks, got %d", svc.Len())
	}
	last := m.tasks[len(m.tasks)-1]
	if last.Text != "Water plants" || last.Deadline != "2025-03-15T08:00" || last.Completed {
		t.Errorf("unexpected added task: %+v", last)
	}
}

func TestUpdate_SubmitWhileBusyKeepsForm(t *testing.T) {
	m, svc := newTestModel(t)

	press(m, "a")
	typeText(m, "Water plants")
	press(m, "enter")
	typeText(m, "2025-03-15T08:00")
	m.busy = true
	press(m, "enter")

	if m.mode != modeForm {
		t.Fatal("expected form kept open while busy")
	}
	if m.status != "busy" {
		t.Errorf("expected busy status, got %q", m.status)
	}
	if m.form.values[0] != "Water plants" {
		t.Errorf("expected input kept, got %q", m.form.values[0])
	}

	m.busy = false
	press(m, "enter")
	if m.mode != modeList || svc.Len() != 4 {
		t.Errorf("expected task saved once idle, mode %v, %d stored", m.mode, svc.Len())
	}
}

func TestUpdate_AddEmptyFieldIsNoop(t *testing.T) {
	m, svc := newTestModel(t)

	press(m, "a")
	typeText(m, "Only a name")
	press(m, "enter")
	press(m, "enter")

	if svc.Len() != 3 {
		t.Errorf("expected no task added, got %d", svc.Len())
	}
	if m.status != "cancelled" {
		t.Errorf("expected cancelled status, got %q", m.status)
	}
}

func TestUpdate_EditPrefillsAndSaves(t *testing.T) {
	m, svc := newTestModel(t)

	press(m, "e")
	if got := m.form.values[fieldDeadline]; got != "2025-03-14T12:05" {
		t.Errorf("expected deadline trimmed to minutes, got %q", got)
	}
	press(m, "backspace")
	press(m, "backspace")
	press(m, "backspace")
	press(m, "backspace")
	press(m, "backspace")
	typeText(m, "cake")
	press(m, "tab")
	press(m, "enter")

	stored, _ := svc.Stored("a")
	if stored.Text != "Buy cake" {
		t.Errorf("expected edited text, got %q", stored.Text)
	}
	if stored.Deadline != "2025-03-14T12:05" {
		t.Errorf("expected deadline saved from form, got %q", stored.Deadline)
	}
}

func TestUpdate_EscCancelsForm(t *testing.T) {
	m, svc := newTestModel(t)

	press(m, "a")
	typeText(m, "Nope")
	press(m, "esc")

	if m.mode != modeList || svc.Len() != 3 {
		t.Error("expected form dismissed without storing")
	}
}

func TestUpdate_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestPublish_KeepsLatest(t *testing.T) {
	ch := make(chan map[string]string, 1)
	publish(ch, map[string]string{"a": "1"})
	publish(ch, map[string]string{"a": "2"})

	got := <-ch
	if got["a"] != "2" {
		t.Errorf("expected latest labels, got %v", got)
	}
}

func TestWaitForLabels_ClosedChannel(t *testing.T) {
	ch := make(chan map[string]string, 1)
	close(ch)

	cmd := waitForLabels(ch)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if msg := cmd(); msg != nil {
		t.Errorf("expected nil message from closed channel, got %#v", msg)
	}
}
