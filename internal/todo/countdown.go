package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dtask/internal/service"
)

// Countdown labels.
const (
	// ExpiredLabel is shown once a deadline has passed.
	ExpiredLabel = "Waktu habis!"

	// PendingLabel is shown for a task the countdown has not reached yet.
	PendingLabel = "Menghitung..."

	// InvalidLabel is shown for a deadline no known layout can parse.
	InvalidLabel = "invalid deadline"
)

// ErrInvalidDeadline is returned when a deadline string cannot be parsed.
var ErrInvalidDeadline = errors.New("invalid deadline")

// DeadlineLayout is the layout the prompts produce and pre-fill (minute precision).
const DeadlineLayout = "2006-01-02T15:04"

// Layouts without an offset are read in the local time zone.
var localLayouts = []string{
	DeadlineLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseDeadline parses a deadline string.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDeadline, s)
}

// Remaining returns the countdown label for deadline at the given instant.
//
// A deadline at or before now yields ExpiredLabel. Otherwise the difference is
// floored to whole hours, remaining minutes and remaining seconds, e.g. "2j 5m 9d".
func Remaining(deadline string, now time.Time) string {
	label, _ := remaining(deadline, now)
	return label
}

func remaining(deadline string, now time.Time) (label string, expired bool) {
	d, err := ParseDeadline(deadline)
	if err != nil {
		return InvalidLabel, true
	}
	diff := d.Sub(now)
	if diff <= 0 {
		return ExpiredLabel, true
	}
	hours := int64(diff / time.Hour)
	minutes := int64(diff % time.Hour / time.Minute)
	seconds := int64(diff % time.Minute / time.Second)
	return fmt.Sprintf("%dj %dm %dd", hours, minutes, seconds), false
}

// State is the display category of a task.
type State int

const (
	StatePending State = iota
	StateExpired
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateExpired:
		return "expired"
	default:
		return "pending"
	}
}

// Classify returns the display category of t at now. It shares the expiry test
// with Remaining, so a task is expired here exactly when its label says so.
func Classify(t service.Task, now time.Time) State {
	if t.Completed {
		return StateCompleted
	}
	if _, expired := remaining(t.Deadline, now); expired {
		return StateExpired
	}
	return StatePending
}

// StateOf returns the display category of t as shown next to label, a label
// produced by Remaining. A task is expired exactly when its label says so,
// whatever the clock reads now.
func StateOf(t service.Task, label string) State {
	if t.Completed {
		return StateCompleted
	}
	switch label {
	case ExpiredLabel, InvalidLabel:
		return StateExpired
	}
	return StatePending
}

// EditDeadline trims a stored deadline to the minute-precision form the edit
// prompt pre-fills.
func EditDeadline(deadline string) string {
	if len(deadline) > len(DeadlineLayout) {
		return deadline[:len(DeadlineLayout)]
	}
	return deadline
}
