package envfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/tokendeploy/internal/envfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addr = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

func TestWriteExactContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, envfile.Write(path, "TOKEN_ADDRESS", addr))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "TOKEN_ADDRESS="+addr, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteReplacesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, os.WriteFile(path, []byte("FOO=bar\nTOKEN_ADDRESS=0xold\nBAZ=1\n"), 0o600))

	require.NoError(t, envfile.Write(path, "TOKEN_ADDRESS", addr))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "TOKEN_ADDRESS="+addr, string(data))
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.local")
	require.NoError(t, envfile.Write(path, "TOKEN_ADDRESS", addr))
	require.NoError(t, envfile.Write(path, "TOKEN_ADDRESS", addr))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".env.local", entries[0].Name())
}

func TestWriteMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", ".env.local")
	err := envfile.Write(path, "TOKEN_ADDRESS", addr)
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestWriteParentIsFile(t *testing.T) {
	dir := t.TempDir()
	parent := filepath.Join(dir, "notadir")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	err := envfile.Write(filepath.Join(parent, ".env.local"), "TOKEN_ADDRESS", addr)
	require.Error(t, err)
}

func TestWriteFailureKeepsPriorTarget(t *testing.T) {
	dir := t.TempDir()
	// a non-empty directory at the target path cannot be replaced by a file
	path := filepath.Join(dir, ".env.local")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "keep"), 0o755))

	err := envfile.Write(path, "TOKEN_ADDRESS", addr)
	require.Error(t, err)
	assert.DirExists(t, filepath.Join(path, "keep"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be cleaned up")
}

func TestWriteValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.local")
	tests := []struct{ key, value string }{
		{"", addr},
		{"  ", addr},
		{"TOKEN=ADDRESS", addr},
		{"TOKEN ADDRESS", addr},
		{"TOKEN\nADDRESS", addr},
		{"#TOKEN", addr},
		{"TOKEN_ADDRESS", addr + "\nEVIL=1"},
		{"TOKEN_ADDRESS", "a\rb"},
	}
	for _, tt := range tests {
		err := envfile.Write(path, tt.key, tt.value)
		assert.ErrorIs(t, err, envfile.ErrInvalidRecord, "key %q value %q", tt.key, tt.value)
	}
	assert.NoFileExists(t, path)
}

func TestReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, envfile.Write(path, "TOKEN_ADDRESS", addr))

	env, err := envfile.Read(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"TOKEN_ADDRESS": addr}, env)

	v, err := envfile.Lookup(path, "TOKEN_ADDRESS")
	require.NoError(t, err)
	assert.Equal(t, addr, v)
}

func TestLookupMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, envfile.Write(path, "OTHER", "1"))

	_, err := envfile.Lookup(path, "TOKEN_ADDRESS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_ADDRESS not set")
}

func TestReadMissingFile(t *testing.T) {
	_, err := envfile.Read(filepath.Join(t.TempDir(), ".env.local"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteKeepsExistingMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, os.WriteFile(path, []byte("TOKEN_ADDRESS=0xold"), 0o600))

	require.NoError(t, envfile.Write(path, "TOKEN_ADDRESS", addr))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "shared", "token.env")
	require.NoError(t, os.MkdirAll(filepath.Dir(shared), 0o755))
	require.NoError(t, os.WriteFile(shared, []byte("TOKEN_ADDRESS=0xold"), 0o640))

	link := filepath.Join(dir, ".env.local")
	require.NoError(t, os.Symlink(shared, link))

	require.NoError(t, envfile.Write(link, "TOKEN_ADDRESS", addr))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link must survive")

	data, err := os.ReadFile(shared)
	require.NoError(t, err)
	assert.Equal(t, "TOKEN_ADDRESS="+addr, string(data))

	shInfo, err := os.Stat(shared)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), shInfo.Mode().Perm())
}
