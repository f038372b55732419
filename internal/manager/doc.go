// Package manager reconciles the server registry with the filesystem.
//
// A [Manager] is created per invocation with [Open], which loads the registry
// into an in-memory cache. Every mutating operation updates the cache and
// writes the registry file before returning, so the cache and the file agree
// once an operation completes. When a write fails, the cache change is rolled
// back.
//
// Registration writes the server's marker file before the registry. If the
// registry write then fails, the marker is left behind; this is the only
// inconsistency the manager accepts.
//
// Scanning first drops registered servers whose directories no longer exist,
// then classifies every immediate subdirectory of the scan root and registers
// the ones that look like servers. Scanning is idempotent in outcome: a second
// scan of an unchanged tree registers nothing.
//
// Example usage:
//
//	m, err := manager.Open(registry.New(paths.Registry()), manager.Options{})
//	if err != nil {
//	    return err // errdefs.IsNotFound(err) if the registry was never initialized
//	}
//
//	n, err := m.Scan(manager.ScanOptions{Dir: "/srv/minecraft"})
//	if err != nil {
//	    return err
//	}
//
//	srv, ok := m.Get("survival")
package manager
