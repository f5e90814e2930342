// Package logging builds the leveled stderr logger shared by commands, the
// controller and the store backends.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every log line.
const Prefix = "dtask"

// New returns a logger writing to w. With debug set the level is Debug,
// otherwise only warnings and errors are written so command output stays clean.
func New(w io.Writer, debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: debug,
		Prefix:          Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
