// Package storage implements the file repository operations under a
// sandboxed root. All paths are client-supplied relative strings and
// pass through the sandbox resolver before any filesystem call.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

var (
	// ErrNotFound is returned when the resolved path does not name an
	// entry of the expected kind.
	ErrNotFound = errors.New("file or directory not found")
	// ErrNotEmpty is returned when deleting a directory that still has entries.
	ErrNotEmpty = errors.New("directory is not empty")
	// ErrExists is returned by Mkdir when the path already exists.
	ErrExists = errors.New("path already exists")
	// ErrBadName is returned for empty or non-bare file names.
	ErrBadName = errors.New("invalid file name")
)

// Resolver is the path-confinement contract storage depends on.
type Resolver interface {
	Resolve(rel string) (string, error)
	Root() string
}

// FileInfo describes a single file in a listing.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Listing is the content of one directory.
type Listing struct {
	Path        string     `json:"path"`
	Directories []string   `json:"directories"`
	Files       []FileInfo `json:"files"`
}

// bareName reports whether name is a plain file name with no path
// components. "." and ".." are their own filepath.Base and need
// rejecting explicitly.
func bareName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name
}

// Store performs file operations confined by a Resolver.
type Store struct {
	resolver Resolver
}

// NewStore constructs a Store over the given resolver.
func NewStore(resolver Resolver) *Store {
	return &Store{resolver: resolver}
}

// List returns the directories (sorted) and files of relDir.
// An empty relDir lists the sandbox root.
func (s *Store) List(relDir string) (Listing, error) {
	dir, err := s.resolver.Resolve(relDir)
	if err != nil {
		return Listing{}, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Listing{}, ErrNotFound
		}
		return Listing{}, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return Listing{}, ErrNotFound
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Listing{}, fmt.Errorf("read directory: %w", err)
	}

	listing := Listing{
		Path:        relDir,
		Directories: make([]string, 0),
		Files:       make([]FileInfo, 0),
	}
	for _, entry := range entries {
		if entry.IsDir() {
			listing.Directories = append(listing.Directories, entry.Name())
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return Listing{}, fmt.Errorf("stat entry %s: %w", entry.Name(), err)
		}
		listing.Files = append(listing.Files, FileInfo{Name: entry.Name(), Size: info.Size()})
	}
	sort.Strings(listing.Directories)
	return listing, nil
}

// Upload writes the content of r to filename inside relDir, creating
// the directory and its parents as needed. An existing file of the
// same name is silently overwritten. Returns the number of bytes written.
func (s *Store) Upload(relDir, filename string, r io.Reader) (int64, error) {
	if !bareName(filename) {
		return 0, ErrBadName
	}
	dir, err := s.resolver.Resolve(relDir)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create upload directory: %w", err)
	}
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, r)
	if err != nil {
		return n, fmt.Errorf("write file: %w", err)
	}
	return n, nil
}

// Mkdir creates a single new directory at rel. It fails with ErrExists
// if anything (file or directory) already occupies the path.
func (s *Store) Mkdir(rel string) error {
	path, err := s.resolver.Resolve(rel)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return ErrExists
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		if os.IsExist(err) {
			return ErrExists
		}
		return fmt.Errorf("create directory: %w", err)
	}
	return nil
}

// Delete removes the file at rel, or the directory at rel if it is
// empty. Directories with entries fail with ErrNotEmpty; a missing
// path fails with ErrNotFound.
func (s *Store) Delete(rel string) error {
	path, err := s.resolver.Resolve(rel)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("stat: %w", err)
	}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("read directory: %w", err)
		}
		if len(entries) > 0 {
			return ErrNotEmpty
		}
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Open opens the regular file at rel for reading. The caller closes
// the returned file. Anything that is not a regular file, including a
// missing path, fails with ErrNotFound.
func (s *Store) Open(rel string) (*os.File, os.FileInfo, error) {
	path, err := s.resolver.Resolve(rel)
	if err != nil {
		return nil, nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("stat: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil, ErrNotFound
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	return f, info, nil
}
