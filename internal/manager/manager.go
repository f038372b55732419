package manager

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/cruciblehq/medusa/internal/registry"
	"github.com/cruciblehq/medusa/internal/server"
)

// Persistence used by the manager. Implemented by [registry.Store].
type Store interface {
	LoadDocument() (*registry.Document, error)
	Save(doc *registry.Document) error
	WriteMarker(srv server.Server) error
}

// Holds manager configuration.
type Options struct {
	ScanRoot        string // Directory scanned by default. Overrides the registry's server_directory.
	DefaultScanRoot string // Directory scanned when neither ScanRoot nor server_directory is set.
}

// Keeps the registered servers in memory and in sync with the registry file.
type Manager struct {
	store       Store                                    // Registry persistence.
	opts        Options                                  // Configuration passed to [Open].
	servers     []server.Server                          // Cached server list, in registry order.
	docRoot     string                                   // server_directory from the last load.
	controllers map[server.Type]server.NewControllerFunc // Controller constructors by type.
}

// Creates a manager and loads the registry.
//
// A registry file that does not exist is an error ([errdefs.ErrNotFound]);
// the manager never starts from an empty list in its place.
func Open(store Store, opts Options) (*Manager, error) {
	m := &Manager{
		store:       store,
		opts:        opts,
		controllers: server.Controllers(),
	}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

// Replaces the cache with the registry's current contents.
func (m *Manager) reset() error {
	doc, err := m.store.LoadDocument()
	if err != nil {
		return err
	}
	m.servers = doc.Servers()
	m.docRoot = doc.ScanRoot()
	return nil
}

// Returns the first server identifiable by token.
func (m *Manager) Get(token string) (server.Server, bool) {
	if i := m.index(token); i >= 0 {
		return m.servers[i], true
	}
	return server.Server{}, false
}

// Returns the registered servers in registry order.
func (m *Manager) List() []server.Server {
	return slices.Clone(m.servers)
}

// Returns the directory [Manager.Scan] uses when none is given.
func (m *Manager) ScanRoot() string {
	switch {
	case m.opts.ScanRoot != "":
		return m.opts.ScanRoot
	case m.docRoot != "":
		return m.docRoot
	}
	return m.opts.DefaultScanRoot
}

// Registers the server at path.
//
// Returns false without error if a registered server is already identified by
// the path or by the alias. Otherwise the marker file is written first; if
// that fails nothing is registered. The registry is written next; if that
// fails the cache is left unchanged and the marker remains on disk.
func (m *Manager) Register(path string, t server.Type, alias string) (bool, error) {
	srv, err := server.New(path, t, alias)
	if err != nil {
		return false, err
	}
	if !srv.Type.Valid() {
		return false, fmt.Errorf("%w: invalid server type %d", errdefs.ErrInvalidArgument, int(srv.Type))
	}

	if i := m.conflict(srv, -1); i >= 0 {
		slog.Debug("server already registered", "path", srv.Path, "existing", m.servers[i].Path)
		return false, nil
	}

	doc, err := m.store.LoadDocument()
	if err != nil {
		return false, err
	}

	if err := m.store.WriteMarker(srv); err != nil {
		return false, err
	}

	next := append(slices.Clone(m.servers), srv)
	if err := m.persist(doc, next); err != nil {
		return false, err
	}

	slog.Info("server registered", "path", srv.Path, "alias", srv.Alias, "type", srv.Type)
	return true, nil
}

// Registers an existing server directory on explicit request.
//
// Unlike [Manager.Register], a duplicate fails with
// [errdefs.ErrAlreadyExists]. The directory must exist. When t is
// [server.NotAServer] the type is classified from the directory contents.
func (m *Manager) Create(path string, t server.Type, alias string) (server.Server, error) {
	srv, err := server.New(path, t, alias)
	if err != nil {
		return server.Server{}, err
	}

	info, err := os.Stat(srv.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return server.Server{}, fmt.Errorf("%w: %w", errdefs.ErrNotFound, err)
		}
		return server.Server{}, err
	}
	if !info.IsDir() {
		return server.Server{}, fmt.Errorf("%w: %s is not a directory", errdefs.ErrInvalidArgument, srv.Path)
	}

	if srv.Type == server.NotAServer {
		srv.Type, err = server.Classify(srv.Path)
		if err != nil {
			return server.Server{}, err
		}
		if srv.Type == server.NotAServer {
			return server.Server{}, fmt.Errorf("%w: %w: %s", errdefs.ErrInvalidArgument, ErrUnknownType, srv.Path)
		}
		slog.Debug("server type classified", "path", srv.Path, "type", srv.Type)
	}

	ok, err := m.Register(srv.Path, srv.Type, srv.Alias)
	if err != nil {
		return server.Server{}, err
	}
	if !ok {
		return server.Server{}, fmt.Errorf("%w: server %s", errdefs.ErrAlreadyExists, srv.Path)
	}
	return srv, nil
}

// Stops tracking the server identified by identifier.
//
// Fails with [errdefs.ErrInvalidArgument] for a blank identifier and with
// [errdefs.ErrNotFound] if no registered server matches. The server is
// removed from the cache and, through a separate lookup by the same
// identifier, from the registry file. Files in the server directory are not
// touched.
func (m *Manager) Deregister(identifier string) error {
	if strings.TrimSpace(identifier) == "" {
		return fmt.Errorf("%w: identifier is empty", errdefs.ErrInvalidArgument)
	}

	i := m.index(identifier)
	if i < 0 {
		return fmt.Errorf("%w: no server identifiable by %q", errdefs.ErrNotFound, identifier)
	}
	target := m.servers[i]
	next := slices.Delete(slices.Clone(m.servers), i, i+1)

	doc, err := m.store.LoadDocument()
	if err != nil {
		return err
	}
	if _, ok := doc.RemoveServer(identifier); !ok {
		slog.Warn("server missing from registry file", "identifier", identifier, "path", target.Path)
	}

	if err := m.store.Save(doc); err != nil {
		return err
	}
	m.servers = next

	slog.Info("server deregistered", "path", target.Path, "alias", target.Alias)
	return nil
}

// Replaces the server identified by oldIdentifier with updated.
//
// The entry keeps its position in the registry. Fails with
// [errdefs.ErrNotFound] if oldIdentifier matches nothing and with
// [errdefs.ErrAlreadyExists] if the updated path or alias identifies a
// different registered server.
func (m *Manager) Update(oldIdentifier string, updated server.Server) error {
	i := m.index(oldIdentifier)
	if i < 0 {
		return fmt.Errorf("%w: no server identifiable by %q", errdefs.ErrNotFound, oldIdentifier)
	}

	srv, err := server.New(updated.Path, updated.Type, updated.Alias)
	if err != nil {
		return err
	}
	if !srv.Type.Valid() {
		return fmt.Errorf("%w: invalid server type %d", errdefs.ErrInvalidArgument, int(srv.Type))
	}
	if j := m.conflict(srv, i); j >= 0 {
		return fmt.Errorf("%w: %s conflicts with registered server %s", errdefs.ErrAlreadyExists, srv.Path, m.servers[j].Path)
	}

	doc, err := m.store.LoadDocument()
	if err != nil {
		return err
	}

	old := m.servers[i]
	next := slices.Clone(m.servers)
	next[i] = srv
	if err := m.persist(doc, next); err != nil {
		return err
	}

	slog.Info("server updated", "old", old.Path, "path", srv.Path, "alias", srv.Alias, "type", srv.Type)
	return nil
}

// Builds the controller for the server identified by identifier.
//
// Fails with [errdefs.ErrNotFound] for unknown identifiers and with
// [errdefs.ErrNotImplemented] when the server's type has no controller.
func (m *Manager) Controller(identifier string) (server.Controller, error) {
	srv, ok := m.Get(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: no server identifiable by %q", errdefs.ErrNotFound, identifier)
	}
	newController, ok := m.controllers[srv.Type]
	if !ok {
		return nil, fmt.Errorf("%w: no controller for %s servers", errdefs.ErrNotImplemented, srv.Type)
	}
	return newController(srv)
}

// Writes servers to the registry and, on success, makes them the cache.
func (m *Manager) persist(doc *registry.Document, servers []server.Server) error {
	doc.SetServers(servers)
	if err := m.store.Save(doc); err != nil {
		return err
	}
	m.servers = servers
	return nil
}

// Returns the index of the first cached server identifiable by token, or -1.
func (m *Manager) index(token string) int {
	return slices.IndexFunc(m.servers, func(s server.Server) bool {
		return s.IsIdentifiableBy(token)
	})
}

// Returns the index of a cached server, other than skip, that srv's path or
// alias would also identify, or -1.
func (m *Manager) conflict(srv server.Server, skip int) int {
	for i, s := range m.servers {
		if i == skip {
			continue
		}
		if s.IsIdentifiableBy(srv.Path) {
			return i
		}
		if srv.Alias != "" && s.IsIdentifiableBy(srv.Alias) {
			return i
		}
	}
	return -1
}
