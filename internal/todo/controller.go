// Package todo implements the task list controller: in-memory task state kept
// in step with a task store, plus the per-second countdown labels derived from
// each task's deadline.
package todo

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"dtask/internal/logging"
	"dtask/internal/service"
)

var (
	// ErrTaskNotFound is returned when no in-memory task has the given id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAlreadyLoaded is returned by a second Load on the same controller.
	ErrAlreadyLoaded = errors.New("tasks already loaded")

	// ErrNoPrompter is returned by Add and Edit when no Prompter is configured.
	ErrNoPrompter = errors.New("no prompter configured")
)

// Controller owns the in-memory task list and synchronizes it with a store.
// It is safe for concurrent use. Store calls are made without holding the
// lock, so two overlapping operations on the same task race at the store and
// the last response wins.
type Controller struct {
	svc      service.Service
	prompter Prompter
	now      func() time.Time
	logger   *log.Logger

	mu        sync.Mutex
	tasks     []service.Task
	labels    map[string]string
	loaded    bool
	countdown *Countdown
}

// Option configures a Controller.
type Option func(*Controller)

// WithPrompter sets the dialog used by Add and Edit.
func WithPrompter(p Prompter) Option {
	return func(c *Controller) {
		c.prompter = p
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a controller backed by svc.
func New(svc service.Service, opts ...Option) *Controller {
	c := &Controller{
		svc:    svc,
		now:    time.Now,
		logger: logging.Discard(),
		labels: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches every task once and replaces the in-memory list.
// It may succeed only once per controller; a failed Load can be retried.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.loaded {
		c.mu.Unlock()
		return ErrAlreadyLoaded
	}
	c.loaded = true
	c.mu.Unlock()

	tasks, err := c.svc.ListTasks(ctx)
	if err != nil {
		c.mu.Lock()
		c.loaded = false
		c.mu.Unlock()
		return fmt.Errorf("load tasks: %w", err)
	}

	c.mu.Lock()
	c.tasks = tasks
	c.mu.Unlock()
	c.logger.Debug("loaded tasks", "count", len(tasks))
	return nil
}

// Add asks the prompter for a new task and stores it.
// A cancelled dialog or an empty field is a no-op: ok is false and err is nil.
func (c *Controller) Add(ctx context.Context) (task service.Task, ok bool, err error) {
	if c.prompter == nil {
		return service.Task{}, false, ErrNoPrompter
	}
	form, confirmed, err := c.prompter.Prompt(ctx, AddTitle, Form{})
	if err != nil {
		return service.Task{}, false, err
	}
	if !confirmed {
		return service.Task{}, false, nil
	}
	return c.AddTask(ctx, form)
}

// AddTask stores a new task built from form, then appends the stored record.
// An incomplete form is a no-op.
func (c *Controller) AddTask(ctx context.Context, form Form) (service.Task, bool, error) {
	form, ok := form.complete()
	if !ok {
		return service.Task{}, false, nil
	}
	if _, err := ParseDeadline(form.Deadline); err != nil {
		return service.Task{}, false, err
	}

	fields := service.TaskFields{Text: form.Text, Completed: false, Deadline: form.Deadline}
	id, err := c.svc.CreateTask(ctx, fields)
	if err != nil {
		return service.Task{}, false, fmt.Errorf("create task: %w", err)
	}
	task := service.Task{ID: id, Text: fields.Text, Completed: fields.Completed, Deadline: fields.Deadline}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexLocked(id) >= 0 {
		return service.Task{}, false, fmt.Errorf("create task: store returned duplicate id %s", id)
	}
	c.tasks = append(c.tasks, task)
	c.logger.Debug("added task", "id", id)
	return task, true, nil
}

// Edit asks the prompter for new values pre-filled from the task with the
// given id and stores them. A cancelled dialog or an empty field is a no-op.
func (c *Controller) Edit(ctx context.Context, id string) (service.Task, bool, error) {
	if c.prompter == nil {
		return service.Task{}, false, ErrNoPrompter
	}
	current, found := c.Task(id)
	if !found {
		return service.Task{}, false, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	defaults := Form{Text: current.Text, Deadline: EditDeadline(current.Deadline)}
	form, confirmed, err := c.prompter.Prompt(ctx, EditTitle, defaults)
	if err != nil {
		return service.Task{}, false, err
	}
	if !confirmed {
		return service.Task{}, false, nil
	}
	return c.editFrom(ctx, current, form)
}

// EditTask replaces the text and deadline of the task with the given id.
// An incomplete form is a no-op.
func (c *Controller) EditTask(ctx context.Context, id string, form Form) (service.Task, bool, error) {
	current, found := c.Task(id)
	if !found {
		return service.Task{}, false, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return c.editFrom(ctx, current, form)
}

// editFrom stores the edit, then replaces the local entry with pre updated by
// the form. Completed keeps the value pre had when the edit started.
func (c *Controller) editFrom(ctx context.Context, pre service.Task, form Form) (service.Task, bool, error) {
	form, ok := form.complete()
	if !ok {
		return service.Task{}, false, nil
	}
	if _, err := ParseDeadline(form.Deadline); err != nil {
		return service.Task{}, false, err
	}

	patch := service.TaskPatch{Text: &form.Text, Deadline: &form.Deadline}
	if err := c.svc.UpdateTask(ctx, pre.ID, patch); err != nil {
		return service.Task{}, false, fmt.Errorf("update task: %w", err)
	}
	updated := patch.Apply(pre)

	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(pre.ID)
	if i < 0 {
		return service.Task{}, false, fmt.Errorf("%w: %s", ErrTaskNotFound, pre.ID)
	}
	c.tasks[i] = updated
	c.logger.Debug("edited task", "id", pre.ID)
	return updated, true, nil
}

// Toggle flips the completion flag of the task with the given id.
//
// The flip is applied locally first, then stored. If the store call fails the
// local entry is reverted, unless something else changed it in the meantime,
// and the error is returned.
func (c *Controller) Toggle(ctx context.Context, id string) (service.Task, error) {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	next := !c.tasks[i].Completed
	c.tasks[i].Completed = next
	tentative := c.tasks[i]
	c.mu.Unlock()

	err := c.svc.UpdateTask(ctx, id, service.TaskPatch{Completed: &next})
	if err == nil {
		c.logger.Debug("toggled task", "id", id, "completed", next)
		return tentative, nil
	}

	c.mu.Lock()
	if i := c.indexLocked(id); i >= 0 && c.tasks[i].Completed == next {
		c.tasks[i].Completed = !next
	}
	c.mu.Unlock()
	c.logger.Warn("toggle not stored, reverted", "id", id, "err", err)
	return service.Task{}, fmt.Errorf("update task: %w", err)
}

// Delete removes the task from the store, then from memory.
// Nothing is removed locally if the store call fails.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if _, found := c.Task(id); !found {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if err := c.svc.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	c.mu.Lock()
	c.tasks = slices.DeleteFunc(c.tasks, func(t service.Task) bool { return t.ID == id })
	c.mu.Unlock()
	c.logger.Debug("deleted task", "id", id)
	return nil
}

// Tick recomputes every countdown label from the current time and returns them
// keyed by task id. The previous labels are replaced wholesale.
func (c *Controller) Tick() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	labels := make(map[string]string, len(c.tasks))
	for _, t := range c.tasks {
		labels[t.ID] = Remaining(t.Deadline, now)
	}
	c.labels = labels
	return maps.Clone(labels)
}

// Label returns the label computed by the last tick, or PendingLabel.
func (c *Controller) Label(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.labels[id]; ok {
		return l
	}
	return PendingLabel
}

// Labels returns a copy of the labels computed by the last tick.
func (c *Controller) Labels() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.labels)
}

// State returns the display category of t. Once t has been ticked it follows
// the last label, so state and countdown agree until the next tick; before
// that it is classified at the current time.
func (c *Controller) State(t service.Task) State {
	c.mu.Lock()
	label, ok := c.labels[t.ID]
	c.mu.Unlock()
	if ok {
		return StateOf(t, label)
	}
	return Classify(t, c.now())
}

// Now returns the controller's current time.
func (c *Controller) Now() time.Time {
	return c.now()
}

// Tasks returns a copy of the in-memory list in arrival order.
func (c *Controller) Tasks() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.tasks)
}

// Task returns the in-memory task with the given id.
func (c *Controller) Task(id string) (service.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.tasks[i], true
	}
	return service.Task{}, false
}

// Close stops the countdown, if running. The controller remains usable.
func (c *Controller) Close() error {
	c.mu.Lock()
	cd := c.countdown
	c.countdown = nil
	c.mu.Unlock()
	if cd != nil {
		cd.Stop()
	}
	return nil
}

func (c *Controller) indexLocked(id string) int {
	return slices.IndexFunc(c.tasks, func(t service.Task) bool { return t.ID == id })
}
