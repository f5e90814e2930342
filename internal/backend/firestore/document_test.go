package firestore

import (
	"slices"
	"testing"

	firestoreapi "google.golang.org/api/firestore/v1"

	"dtask/internal/service"
)

func TestDecodeTask(t *testing.T) {
	doc := &firestoreapi.Document{
		Name: "projects/demo/databases/(default)/documents/tasks/k3Fz9",
		Fields: map[string]firestoreapi.Value{
			"text":      {StringValue: "Buy bread"},
			"completed": {BooleanValue: true},
			"deadline":  {StringValue: "2030-01-01T10:00"},
		},
	}
	want := service.Task{ID: "k3Fz9", Text: "Buy bread", Completed: true, Deadline: "2030-01-01T10:00"}
	if got := decodeTask(doc); got != want {
		t.Errorf("decodeTask() = %+v, want %+v", got, want)
	}
}

func TestDecodeTask_MissingFields(t *testing.T) {
	doc := &firestoreapi.Document{
		Name:   "projects/demo/databases/(default)/documents/tasks/x",
		Fields: map[string]firestoreapi.Value{"text": {StringValue: "Only text"}},
	}
	want := service.Task{ID: "x", Text: "Only text"}
	if got := decodeTask(doc); got != want {
		t.Errorf("decodeTask() = %+v, want %+v", got, want)
	}
}

func TestTaskDocument_ForcesZeroValues(t *testing.T) {
	doc := taskDocument(service.TaskFields{Text: "Buy bread"})

	completed := doc.Fields[fieldCompleted]
	if completed.BooleanValue || !slices.Contains(completed.ForceSendFields, "BooleanValue") {
		t.Errorf("expected completed=false forced into the request, got %+v", completed)
	}
	deadline := doc.Fields[fieldDeadline]
	if !slices.Contains(deadline.ForceSendFields, "StringValue") {
		t.Errorf("expected empty deadline forced into the request, got %+v", deadline)
	}
}

func TestPatchDocument_OnlySetFields(t *testing.T) {
	text := "Buy rye bread"
	done := true
	doc := patchDocument(service.TaskPatch{Text: &text, Completed: &done})

	if got := maskPaths(doc); !slices.Equal(got, []string{"completed", "text"}) {
		t.Errorf("expected mask [completed text], got %v", got)
	}
	if doc.Fields[fieldText].StringValue != text || !doc.Fields[fieldCompleted].BooleanValue {
		t.Errorf("unexpected fields %+v", doc.Fields)
	}
}
