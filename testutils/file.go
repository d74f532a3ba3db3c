package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

// WriteTempFile writes contents into a new file under a test-scoped temporary directory and
// returns its path.
func WriteTempFile(t *testing.T, name string, contents []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	test.That(t, os.WriteFile(path, contents, 0o600), test.ShouldBeNil)
	return path
}
