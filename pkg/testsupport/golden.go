package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// UpdateGoldensEnv rewrites golden files instead of comparing when set.
const UpdateGoldensEnv = "UPDATE_GOLDENS"

// Lines splits stream output into lines, keeping each terminator so a
// missing final newline shows up in a diff.
func Lines(out string) []string {
	lines := strings.SplitAfter(out, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// CompareLines diffs two line-oriented outputs, returning "" when equal. The
// diff is per line, so a single changed response record stands out in a long
// protocol transcript.
func CompareLines(want, got string) string {
	return cmp.Diff(Lines(want), Lines(got))
}

// Golden compares got with the golden file at path line by line, or rewrites
// the file when UPDATE_GOLDENS is set.
func Golden(t *testing.T, path, got string) {
	t.Helper()
	if os.Getenv(UpdateGoldensEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v (set %s=1 to create it)", path, err, UpdateGoldensEnv)
	}
	if diff := CompareLines(string(want), got); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", filepath.Base(path), diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
