package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"dtask/internal/exitcode"
	"dtask/internal/service"
	"dtask/internal/todo"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ResolveTaskRef finds the task a reference names.
//
// Resolution rules:
//  1. No args → ErrTaskRefRequired
//  2. All digits → 1-based position in list order
//  3. Otherwise → exact document id
//
// More than one argument is an error.
func ResolveTaskRef(tasks []service.Task, args []string) (service.Task, error) {
	if len(args) == 0 {
		return service.Task{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return service.Task{}, fmt.Errorf("too many arguments: %s", strings.Join(args[1:], " "))
	}

	ref := strings.TrimSpace(args[0])
	if ref == "" {
		return service.Task{}, ErrTaskRefRequired
	}

	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil || num < 1 || num > len(tasks) {
			return service.Task{}, fmt.Errorf("task number out of range: %s", ref)
		}
		return tasks[num-1], nil
	}

	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("%w: %s", todo.ErrTaskNotFound, ref)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// reportRefError prints a task reference error. All of them are user errors.
func reportRefError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}
