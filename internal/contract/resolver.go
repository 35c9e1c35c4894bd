package contract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrArtifactNotFound is returned when no compiled artifact exists for a contract name.
var ErrArtifactNotFound = errors.New("artifact not found")

// Resolver locates compiled artifacts by contract name under an artifacts root.
type Resolver struct {
	root string
}

// NewResolver creates a Resolver for the given artifacts directory.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Root returns the artifacts directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns the artifact path for name. Candidates, in order:
//
//	<root>/<name>.json
//	<root>/contracts/<name>.sol/<name>.json   (Hardhat)
//	<root>/<name>.sol/<name>.json             (Foundry out/)
//
// followed by the first <name>.sol/<name>.json found anywhere under root.
func (r *Resolver) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: invalid contract name %q", ErrArtifactNotFound, name)
	}

	file := name + ".json"
	candidates := []string{
		filepath.Join(r.root, file),
		filepath.Join(r.root, "contracts", name+".sol", file),
		filepath.Join(r.root, name+".sol", file),
	}
	for _, p := range candidates {
		if isFile(p) {
			return p, nil
		}
	}

	var found string
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return fs.SkipDir
			}
			return nil
		}
		if d.Name() == file && filepath.Base(filepath.Dir(path)) == name+".sol" {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("searching %s: %w", r.root, err)
	}
	if found == "" {
		return "", fmt.Errorf("%w: %s (searched %s; compile the contracts first)", ErrArtifactNotFound, name, r.root)
	}
	return found, nil
}

// Factory resolves and loads the factory for name.
func (r *Resolver) Factory(name string) (*Factory, error) {
	path, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return LoadFactory(path)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
