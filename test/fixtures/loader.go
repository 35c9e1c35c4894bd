package fixtures

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/stretchr/testify/require"
)

// TB is the subset of testing.TB the fixtures need. ginkgo's GinkgoT() satisfies it.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
	Cleanup(func())
}

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// ModuleRoot returns the repository root (two levels above this directory).
func ModuleRoot() string {
	return filepath.Join(fixturesDir(), "..", "..")
}

// WriteFile writes data to dir/rel, creating parent directories.
func WriteFile(t TB, dir, rel string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644), "failed to write fixture: %s", rel)
	return path
}
