package commands

import (
	"errors"
	"testing"

	"dtask/internal/service"
	"dtask/internal/todo"
)

var refTasks = []service.Task{
	{ID: "k3Fz9", Text: "Buy bread"},
	{ID: "12", Text: "Numeric id"},
	{ID: "Xq0Lm", Text: "Pay rent"},
}

func TestResolveTaskRef_Number(t *testing.T) {
	task, err := ResolveTaskRef(refTasks, []string{"3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "Xq0Lm" {
		t.Errorf("expected third task, got %q", task.ID)
	}
}

func TestResolveTaskRef_ID(t *testing.T) {
	task, err := ResolveTaskRef(refTasks, []string{"k3Fz9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Text != "Buy bread" {
		t.Errorf("expected Buy bread, got %q", task.Text)
	}
}

// Digits always mean a position, even when an id is made of digits.
func TestResolveTaskRef_DigitsArePositions(t *testing.T) {
	_, err := ResolveTaskRef(refTasks, []string{"12"})
	if err == nil || err.Error() != "task number out of range: 12" {
		t.Errorf("expected out of range error, got %v", err)
	}
}

func TestResolveTaskRef_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero", []string{"0"}, "task number out of range: 0"},
		{"past end", []string{"4"}, "task number out of range: 4"},
		{"unknown id", []string{"nope"}, "task not found: nope"},
		{"extra args", []string{"1", "2"}, "too many arguments: 2"},
		{"blank", []string{"  "}, "task reference required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveTaskRef(refTasks, tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestResolveTaskRef_NoArgs(t *testing.T) {
	_, err := ResolveTaskRef(refTasks, nil)
	if err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestResolveTaskRef_UnknownIsTaskNotFound(t *testing.T) {
	_, err := ResolveTaskRef(refTasks, []string{"missing"})
	if !errors.Is(err, todo.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := map[string]bool{
		"":    false,
		"0":   true,
		"123": true,
		"1a":  false,
		"١٢":  false,
	}
	for in, want := range tests {
		if got := isAllDigits(in); got != want {
			t.Errorf("isAllDigits(%q) = %v, want %v", in, got, want)
		}
	}
}
