package storage

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// EntryKind discriminates directory entries. File vs. directory is resolved
// once at listing time; callers never re-probe the filesystem for it.
type EntryKind string

const (
	EntryFile      EntryKind = "file"
	EntryDirectory EntryKind = "directory"
)

// Entry is a single item inside a listed directory.
type Entry struct {
	Name string
	Kind EntryKind
	Size int64
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Kind == EntryDirectory
}

// Store exposes the minimal directory-listing capability the library needs.
// Listing failures (missing folder, revoked permission) surface as errors
// that callers are expected to treat as "no content", not as fatal.
type Store interface {
	Exists(path string) bool
	List(dir string) ([]Entry, error)
	Resolve(parent, child string) string
}

// FileStore implements Store over an afero filesystem, so the same code
// serves the OS filesystem in production and an in-memory one in tests.
type FileStore struct {
	fs afero.Fs
}

// New wraps the provided afero filesystem.
func New(fs afero.Fs) *FileStore {
	return &FileStore{fs: fs}
}

// NewOS returns a store backed by the real OS filesystem.
func NewOS() *FileStore {
	return &FileStore{fs: afero.NewOsFs()}
}

// Fs exposes the underlying filesystem (useful for tests and fixtures).
func (s *FileStore) Fs() afero.Fs {
	return s.fs
}

// Exists reports whether the path is present. Errors count as absent.
func (s *FileStore) Exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}

// List returns the direct children of dir in lexical name order.
func (s *FileStore) List(dir string) ([]Entry, error) {
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entry := Entry{Name: info.Name(), Kind: EntryFile}
		if info.IsDir() {
			entry.Kind = EntryDirectory
		} else {
			entry.Size = info.Size()
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Resolve joins a parent directory with a child name.
func (s *FileStore) Resolve(parent, child string) string {
	return filepath.Join(parent, child)
}
