package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"dtask/internal/logging"
)

func TestNew_DebugWritesDebugLines(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, true)

	logger.Debug("loaded tasks", "count", 3)

	out := buf.String()
	if !strings.Contains(out, "loaded tasks") {
		t.Errorf("expected debug line, got %q", out)
	}
	if !strings.Contains(out, "count=3") {
		t.Errorf("expected key/value pair, got %q", out)
	}
	if !strings.Contains(out, logging.Prefix) {
		t.Errorf("expected prefix %q, got %q", logging.Prefix, out)
	}
}

func TestNew_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, false)

	logger.Debug("hidden")
	logger.Info("hidden too")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn level, got %q", buf.String())
	}

	logger.Warn("revert failed")
	if !strings.Contains(buf.String(), "revert failed") {
		t.Errorf("expected warning, got %q", buf.String())
	}
}
