// Package testutil provides utilities for testing.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// WriteTree materializes a configuration tree in a temporary directory
// from a map of relative file path to contents. It returns the tree root.
// The directory is automatically cleaned up when the test ends.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for path, contents := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(contents), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return root
}

// TestContext returns a context that is canceled when the test ends.
// This ensures any goroutines started during the test are properly cleaned up.
func TestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return ctx
}
