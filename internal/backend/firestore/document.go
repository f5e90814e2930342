package firestore

import (
	"maps"
	"path"
	"slices"

	firestoreapi "google.golang.org/api/firestore/v1"

	"dtask/internal/service"
)

// Task document field names.
const (
	fieldText      = "text"
	fieldCompleted = "completed"
	fieldDeadline  = "deadline"
)

// Zero values are omitted from requests unless forced, so an empty string or
// completed=false would otherwise be dropped.
func stringValue(s string) firestoreapi.Value {
	return firestoreapi.Value{StringValue: s, ForceSendFields: []string{"StringValue"}}
}

func boolValue(b bool) firestoreapi.Value {
	return firestoreapi.Value{BooleanValue: b, ForceSendFields: []string{"BooleanValue"}}
}

// taskDocument builds the document body for fields.
func taskDocument(fields service.TaskFields) *firestoreapi.Document {
	return &firestoreapi.Document{Fields: map[string]firestoreapi.Value{
		fieldText:      stringValue(fields.Text),
		fieldCompleted: boolValue(fields.Completed),
		fieldDeadline:  stringValue(fields.Deadline),
	}}
}

// patchDocument builds the document body for the fields set in patch.
func patchDocument(patch service.TaskPatch) *firestoreapi.Document {
	doc := &firestoreapi.Document{Fields: make(map[string]firestoreapi.Value, 3)}
	if patch.Text != nil {
		doc.Fields[fieldText] = stringValue(*patch.Text)
	}
	if patch.Completed != nil {
		doc.Fields[fieldCompleted] = boolValue(*patch.Completed)
	}
	if patch.Deadline != nil {
		doc.Fields[fieldDeadline] = stringValue(*patch.Deadline)
	}
	return doc
}

// decodeTask converts an API document to a task. Missing fields read as their
// zero values.
func decodeTask(doc *firestoreapi.Document) service.Task {
	return service.Task{
		ID:        path.Base(doc.Name),
		Text:      doc.Fields[fieldText].StringValue,
		Completed: doc.Fields[fieldCompleted].BooleanValue,
		Deadline:  doc.Fields[fieldDeadline].StringValue,
	}
}

// maskPaths returns the field names of doc in a stable order.
func maskPaths(doc *firestoreapi.Document) []string {
	return slices.Sorted(maps.Keys(doc.Fields))
}
