package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SocketPath returns a unix socket path in a fresh temporary directory.
// t.TempDir paths can exceed the 104-byte sun_path limit on some systems,
// so the directory is created directly under the OS temp dir.
func SocketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "ovl")
	if err != nil {
		t.Fatalf("mkdir temp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}
