package manager

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/containerd/errdefs"
	"github.com/cruciblehq/medusa/internal/server"
)

// Holds options for a scan.
type ScanOptions struct {
	Dir       string // Directory to scan. Empty uses [Manager.ScanRoot].
	Verbosity int    // Progress is logged at info level above zero, debug otherwise.
}

// Registers every server found directly inside the scan directory.
//
// The cache is reloaded from the registry first, and servers whose
// directories no longer exist are removed from both. Each immediate
// subdirectory is then classified; directories that are not servers are
// skipped and servers already registered are not counted. Returns the number
// of newly registered servers.
//
// Failures to read the scan directory or a candidate directory are returned
// as is. Servers registered before such a failure stay registered.
func (m *Manager) Scan(opts ScanOptions) (int, error) {
	logf := slog.Debug
	if opts.Verbosity > 0 {
		logf = slog.Info
	}

	if err := m.reset(); err != nil {
		return 0, err
	}

	dir := opts.Dir
	if dir == "" {
		dir = m.ScanRoot()
	}
	if dir == "" {
		return 0, fmt.Errorf("%w: %w", errdefs.ErrInvalidArgument, ErrNoScanRoot)
	}

	logf("scanning for servers", "dir", dir)

	if err := m.prune(); err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if !isDir(path) {
			continue
		}

		t, err := server.Classify(path)
		if err != nil {
			return count, err
		}
		if t == server.NotAServer {
			slog.Debug("not a server", "path", path)
			continue
		}

		ok, err := m.Register(path, t, "")
		if err != nil {
			return count, err
		}
		if ok {
			count++
		}
	}

	if count > 0 {
		logf("scan complete", "dir", dir, "new", count)
	} else {
		logf("no new servers found", "dir", dir)
	}
	return count, nil
}

// Removes servers whose directories no longer exist.
//
// The registry is only written when something was removed.
func (m *Manager) prune() error {
	kept := make([]server.Server, 0, len(m.servers))
	for _, s := range m.servers {
		if isDir(s.Path) {
			kept = append(kept, s)
			continue
		}
		slog.Info("removing missing server", "path", s.Path, "alias", s.Alias)
	}
	if len(kept) == len(m.servers) {
		return nil
	}

	doc, err := m.store.LoadDocument()
	if err != nil {
		return err
	}
	return m.persist(doc, kept)
}

// Whether path is a directory, following symbolic links.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
