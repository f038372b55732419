package server

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/containerd/errdefs"
)

// A registered server installation.
//
// Servers have no structural equality. Two values refer to the same server
// when one identifies the other through [Server.IsIdentifiableBy].
type Server struct {
	Path  string `json:"path"`  // Absolute path to the server directory. Unique.
	Alias string `json:"alias"` // Optional nickname. Unique when non-empty.
	Type  Type   `json:"type"`  // Server software.
}

// Creates a server with a cleaned absolute path and a trimmed alias.
//
// An empty path fails with [errdefs.ErrInvalidArgument].
func New(path string, t Type, alias string) (Server, error) {
	if strings.TrimSpace(path) == "" {
		return Server{}, fmt.Errorf("%w: empty server path", errdefs.ErrInvalidArgument)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Server{}, err
	}
	return Server{
		Path:  abs,
		Alias: strings.TrimSpace(alias),
		Type:  t,
	}, nil
}

// Whether token identifies the server.
//
// A token identifies a server if it equals the alias (when one is set), the
// full path, or the final path component. Matching is exact and
// case-sensitive. The empty token identifies nothing.
func (s Server) IsIdentifiableBy(token string) bool {
	if token == "" {
		return false
	}
	if s.Alias != "" && s.Alias == token {
		return true
	}
	if s.Path == token {
		return true
	}
	return s.Path != "" && filepath.Base(s.Path) == token
}

// Returns the directory name of the server.
func (s Server) Name() string {
	return filepath.Base(s.Path)
}

// Returns the alias, or the directory name when no alias is set.
func (s Server) DisplayName() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name()
}

func (s Server) String() string {
	return fmt.Sprintf("%s\t%s\t%s", s.Alias, s.Path, s.Type)
}
