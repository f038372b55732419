package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/containerd/errdefs"
	"github.com/cruciblehq/medusa/internal/paths"
	"github.com/cruciblehq/medusa/internal/server"
)

// Reads and writes the registry file and marker files.
//
// A store holds no cached state; every load reads the file again.
type Store struct {
	path string // Location of the registry file.
}

// Creates a store for the registry file at path.
//
// The file is not touched until a load, save, or init.
func New(path string) *Store {
	return &Store{path: path}
}

// Returns the location of the registry file.
func (s *Store) Path() string {
	return s.path
}

// Reads the server list from the registry file.
//
// Fails with [errdefs.ErrNotFound] if the file does not exist.
func (s *Store) Load() ([]server.Server, error) {
	doc, err := s.LoadDocument()
	if err != nil {
		return nil, err
	}
	return doc.Servers(), nil
}

// Reads the whole registry document.
//
// Fails with [errdefs.ErrNotFound] if the file does not exist, with
// [ErrRead] if it cannot be read, and with [ErrDecode] if it is not a valid
// registry document.
func (s *Store) LoadDocument() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: registry %s does not exist (run 'medusa config init'): %w", errdefs.ErrNotFound, s.path, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	doc := NewDocument()
	if err := doc.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	slog.Debug("registry loaded", "path", s.path, "servers", len(doc.servers))
	return doc, nil
}

// Overwrites the registry file with doc.
//
// The write is not atomic. A failure part-way through can leave a truncated
// file behind.
func (s *Store) Save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	slog.Debug("registry saved", "path", s.path, "servers", len(doc.servers))
	return nil
}

// Writes an empty registry, creating parent directories as needed.
//
// An existing file is only replaced when force is set; otherwise Init fails
// with [errdefs.ErrAlreadyExists].
func (s *Store) Init(force bool) error {
	if _, err := os.Stat(s.path); err == nil && !force {
		return fmt.Errorf("%w: registry %s", errdefs.ErrAlreadyExists, s.path)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return s.Save(NewDocument())
}
