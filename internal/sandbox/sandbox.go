// Package sandbox confines client-supplied relative paths to a fixed
// storage root. Every path handed to the storage layer goes through a
// Resolver first; the prefix check here is the security boundary for
// directory traversal.
package sandbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathEscape is returned when a relative path normalizes to a
// location outside the sandbox root.
var ErrPathEscape = errors.New("path escapes sandbox root")

// Resolver maps relative paths onto absolute paths under a canonical root.
type Resolver struct {
	root string
}

// NewResolver creates the root directory if it does not exist and
// canonicalizes it once (absolute, symlinks resolved). All later
// comparisons are made against this canonical form.
func NewResolver(root string) (*Resolver, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create sandbox root: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve sandbox root: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("canonicalize sandbox root: %w", err)
	}
	return &Resolver{root: canonical}, nil
}

// Root returns the canonical sandbox root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve joins rel onto the root, normalizes the result, and verifies
// it still lies under the root. The check runs on the normalized path,
// never on the raw string. The resolved path is returned without any
// existence check; callers decide what absence means.
func (r *Resolver) Resolve(rel string) (string, error) {
	if strings.ContainsRune(rel, 0) {
		return "", ErrPathEscape
	}
	if filepath.IsAbs(rel) {
		return "", ErrPathEscape
	}
	abs, err := filepath.Abs(filepath.Join(r.root, rel))
	if err != nil {
		return "", fmt.Errorf("normalize path: %w", err)
	}
	if abs != r.root && !strings.HasPrefix(abs, r.root+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	return abs, nil
}

// Sub returns a Resolver rooted at a child directory, creating it if
// needed. The child path itself must resolve inside the parent root.
func (r *Resolver) Sub(rel string) (*Resolver, error) {
	abs, err := r.Resolve(rel)
	if err != nil {
		return nil, err
	}
	return NewResolver(abs)
}
