package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// UpdateGoldenEnv names the variable that rewrites golden files instead of
// comparing against them.
const UpdateGoldenEnv = "DTASK_UPDATE_GOLDEN"

// Golden compares got with testdata/<name>.golden.
func Golden(t *testing.T, name string, got string) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if os.Getenv(UpdateGoldenEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("create testdata dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0644); err != nil {
			t.Fatalf("update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden file %s: %v\nGot:\n%s", path, err, got)
	}
	if got != string(want) {
		t.Errorf("output mismatch for %s (set %s=1 to update)\nWant:\n%s\nGot:\n%s", name, UpdateGoldenEnv, want, got)
	}
}
