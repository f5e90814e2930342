package output

import (
	"bytes"
	"testing"

	"dtask/internal/service"
	"dtask/internal/todo"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name  string
		task  service.Task
		label string
		state todo.State
		want  string
	}{
		{
			name:  "pending",
			task:  service.Task{ID: "a", Text: "Buy milk", Deadline: "2025-03-14T12:00"},
			label: "2j 0m 0d",
			state: todo.StatePending,
			want:  "   1  [ ] Buy milk  2025-03-14T12:00  2j 0m 0d\n",
		},
		{
			name:  "expired",
			task:  service.Task{ID: "b", Text: "Pay rent", Deadline: "2025-03-01T09:00"},
			label: todo.ExpiredLabel,
			state: todo.StateExpired,
			want:  "   1  [!] Pay rent  2025-03-01T09:00  Waktu habis!\n",
		},
		{
			name:  "completed",
			task:  service.Task{ID: "c", Text: "Call mom", Completed: true, Deadline: "2025-03-20T18:30"},
			label: "152j 30m 0d",
			state: todo.StateCompleted,
			want:  "   1  [x] Call mom  2025-03-20T18:30  152j 30m 0d\n",
		},
		{
			name:  "multiline text",
			task:  service.Task{ID: "d", Text: "line one\nline two", Deadline: "2025-03-14T12:00"},
			label: todo.PendingLabel,
			state: todo.StatePending,
			want:  "   1  [ ] line one line two  2025-03-14T12:00  Menghitung...\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, 1, tt.task, tt.label, tt.state, Styles{})
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	tests := map[string]string{
		"":          "(untitled)",
		"   ":       "(untitled)",
		"a\r\nb":    "a  b",
		"Buy bread": "Buy bread",
	}
	for in, want := range tests {
		if got := NormalizeText(in); got != want {
			t.Errorf("NormalizeText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMarker(t *testing.T) {
	if Marker(todo.StatePending) != MarkerPending {
		t.Error("pending marker mismatch")
	}
	if Marker(todo.StateExpired) != MarkerExpired {
		t.Error("expired marker mismatch")
	}
	if Marker(todo.StateCompleted) != MarkerCompleted {
		t.Error("completed marker mismatch")
	}
}

func TestIsTTY_Buffer(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
	if StylesFor(&bytes.Buffer{}).enabled {
		t.Error("expected plain styles for a buffer")
	}
}
