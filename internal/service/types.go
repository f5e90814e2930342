// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single task document.
type Task struct {
	ID        string
	Text      string
	Completed bool
	Deadline  string
}

// Fields returns the task's stored fields without the id.
func (t Task) Fields() TaskFields {
	return TaskFields{Text: t.Text, Completed: t.Completed, Deadline: t.Deadline}
}

// TaskFields holds the stored fields of a new task. The id is assigned by the store.
type TaskFields struct {
	Text      string
	Completed bool
	Deadline  string
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Text      *string
	Completed *bool
	Deadline  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Text == nil && p.Completed == nil && p.Deadline == nil
}

// Apply returns t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	return t
}
