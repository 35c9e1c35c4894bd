// Package envfile persists the deployment record as a single KEY=value line.
package envfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// ErrInvalidRecord is returned for keys or values that cannot be written as one
// unquoted KEY=value line.
var ErrInvalidRecord = errors.New("invalid env record")

const fileMode = 0o644

// Write replaces the file at path with exactly "key=value": no quoting, no trailing
// newline, no other pairs. The content goes to a temporary file in the same directory
// that is then renamed over path, so on failure any previous file is left as it was.
// A symlinked path is written through to its target and an existing file keeps its
// permissions.
func Write(path, key, value string) error {
	if err := validate(key, value); err != nil {
		return err
	}

	target, mode := resolve(path)
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	_, err = tmp.WriteString(key + "=" + value)
	if err == nil {
		err = tmp.Chmod(mode)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// resolve returns the file to replace and the mode to give it.
func resolve(path string) (string, os.FileMode) {
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}
	if info, err := os.Stat(target); err == nil && info.Mode().IsRegular() {
		return target, info.Mode().Perm()
	}
	return target, fileMode
}

// Read parses an env file into its key/value pairs.
func Read(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return env, nil
}

// Lookup returns the value stored under key in the env file at path.
func Lookup(path, key string) (string, error) {
	env, err := Read(path)
	if err != nil {
		return "", err
	}
	v, ok := env[key]
	if !ok {
		return "", fmt.Errorf("%s not set in %s", key, path)
	}
	return v, nil
}

func validate(key, value string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return fmt.Errorf("%w: empty key", ErrInvalidRecord)
	case key != strings.TrimSpace(key), strings.ContainsAny(key, "=#\"' \t\r\n"):
		return fmt.Errorf("%w: key %q", ErrInvalidRecord, key)
	case strings.ContainsAny(value, "\r\n"):
		return fmt.Errorf("%w: value for %s spans lines", ErrInvalidRecord, key)
	}
	return nil
}
